// Package telemetry holds the Prometheus collectors of the arcade client.
// A nil *Metrics is valid and records nothing.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dinorun"

// Metrics groups the arcade client collectors.
type Metrics struct {
	registry *prometheus.Registry

	payments      *prometheus.CounterVec
	rounds        prometheus.Counter
	submissions   *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	nameLookups   *prometheus.CounterVec
	lookupLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		payments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "payment",
				Name:      "bundles_total",
				Help:      "Pay-to-play bundles by outcome.",
			},
			[]string{"outcome"},
		),
		rounds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "rounds_total",
				Help:      "Rounds played to game over.",
			},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "score_submissions_total",
				Help:      "Score writes issued to the ledger by result.",
			},
			[]string{"result"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "reads_total",
				Help:      "Ledger reads by view and result.",
			},
			[]string{"view", "result"},
		),
		nameLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "names",
				Name:      "resolutions_total",
				Help:      "Display name resolutions by winning source.",
			},
			[]string{"source"},
		),
		lookupLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "names",
				Name:      "lookup_duration_seconds",
				Help:      "Duration of identity lookups.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(m.payments, m.rounds, m.submissions, m.refreshes, m.nameLookups, m.lookupLatency)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// PaymentOutcome counts a bundle outcome: initiated, confirmed, failed,
// abandoned, rejected or switch_network.
func (m *Metrics) PaymentOutcome(outcome string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(outcome).Inc()
}

// RoundPlayed counts a finished round.
func (m *Metrics) RoundPlayed() {
	if m == nil {
		return
	}
	m.rounds.Inc()
}

// ScoreSubmitted counts a score write by result.
func (m *Metrics) ScoreSubmitted(ok bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result(ok)).Inc()
}

// LedgerRead counts a ledger read of view ("personal_best" or "global_top10").
func (m *Metrics) LedgerRead(view string, ok bool) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(view, result(ok)).Inc()
}

// NameResolved counts the source that produced a display label.
func (m *Metrics) NameResolved(source string) {
	if m == nil {
		return
	}
	m.nameLookups.WithLabelValues(source).Inc()
}

// ObserveLookup records the duration of one identity lookup.
func (m *Metrics) ObserveLookup(seconds float64, ok bool) {
	if m == nil {
		return
	}
	m.lookupLatency.WithLabelValues(result(ok)).Observe(seconds)
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

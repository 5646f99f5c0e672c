package telemetry_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/telemetry"
)

func TestMetricsNilSafe(t *testing.T) {
	var m *telemetry.Metrics
	require.NotPanics(t, func() {
		m.PaymentOutcome("confirmed")
		m.RoundPlayed()
		m.ScoreSubmitted(true)
		m.LedgerRead("global_top10", false)
		m.NameResolved("identity")
		m.ObserveLookup(0.1, true)
	})
	require.Nil(t, m.Registry())
}

func TestMetricsHandler(t *testing.T) {
	m := telemetry.NewMetrics()
	m.PaymentOutcome("confirmed")
	m.PaymentOutcome("confirmed")
	m.RoundPlayed()

	count, err := testutil.GatherAndCount(m.Registry(), "dinorun_payment_bundles_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `dinorun_payment_bundles_total{outcome="confirmed"} 2`)
	require.Contains(t, rec.Body.String(), "dinorun_session_rounds_total 1")
}

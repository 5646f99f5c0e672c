package app

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"dinorun/docs"
	"dinorun/x/arcade/names"
	"dinorun/x/arcade/types"
)

const (
	LeaderboardPath  = "/api/leaderboard"
	PersonalBestPath = "/api/personal-best/{address}"
	ParamsPath       = "/api/params"
	HealthPath       = "/healthz"
	MetricsPath      = "/metrics"

	// maxLimiters bounds the per-client limiter table before it is reset.
	maxLimiters = 10000
)

// leaderboardRow is a leaderboard line with its resolved display label.
type leaderboardRow struct {
	Rank   int           `json:"rank"`
	Player types.Address `json:"player"`
	Label  string        `json:"label"`
	Score  uint64        `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Router returns the HTTP API: name resolution, ledger reads, metrics and
// the OpenAPI console.
func (app *App) Router() *mux.Router {
	rtr := mux.NewRouter()

	limiter := newRateLimiter(app.cfg.API.RequestsPerSecond, app.cfg.API.Burst, app.logger)
	limited := func(path string, h http.Handler) {
		rtr.Handle(path, limiter.Handler(h)).Methods(http.MethodGet)
	}

	// The unprefixed path is kept for clients built against the web app.
	limited(names.ResolveNamesPath, app.NameHandler)
	limited("/resolve-names", app.NameHandler)
	limited(LeaderboardPath, http.HandlerFunc(app.handleLeaderboard))
	limited(PersonalBestPath, http.HandlerFunc(app.handlePersonalBest))
	limited(ParamsPath, http.HandlerFunc(app.handleParams))

	rtr.HandleFunc(HealthPath, app.handleHealth).Methods(http.MethodGet)
	rtr.Handle(MetricsPath, app.Metrics.Handler()).Methods(http.MethodGet)

	docs.Register(rtr, Name)
	return rtr
}

func (app *App) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := types.GlobalTopSize
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v < limit {
			limit = v
		}
	}

	rows, err := app.ArcadeKeeper.Leaderboard()
	if err != nil {
		app.logger.Error("leaderboard read failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "leaderboard unavailable"})
		return
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]leaderboardRow, len(rows))
	for i, row := range rows {
		out[i] = leaderboardRow{
			Rank:   i + 1,
			Player: row.Player,
			Label:  app.Resolver.Resolve(r.Context(), row.Player),
			Score:  row.Score,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (app *App) handlePersonalBest(w http.ResponseWriter, r *http.Request) {
	player, err := types.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	pb, err := app.ArcadeKeeper.PersonalBest(player)
	if err != nil {
		app.logger.Error("personal best read failed", "player", player, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "personal best unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, pb)
}

func (app *App) handleParams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, app.params)
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	bz, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bz)
}

// rateLimiter limits requests per client address. A zero rate disables it.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	logger   log.Logger
}

func newRateLimiter(requestsPerSecond float64, burst int, logger log.Logger) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}
}

func (rl *rateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

func (rl *rateLimiter) Handler(next http.Handler) http.Handler {
	if rl.rate <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !rl.limiter(key).Allow() {
			rl.logger.Debug("rate limit exceeded", "client", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

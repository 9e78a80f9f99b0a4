// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/peloton/internal/adapters/repository"
	"github.com/okian/peloton/internal/domain/analytics"
	"github.com/okian/peloton/internal/domain/model"
)

// Default handler configuration constants.
const (
	defaultMaxLimit = 500
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Current returns the analysed dataset being served.
	Current(ctx context.Context) (*repository.Dataset, error)

	// Trends projects the current league horizonDays ahead.
	Trends(ctx context.Context, horizonDays float64) ([]analytics.TeamTrend, error)

	// RequestReload queues a snapshot reload. Returns false on backpressure.
	RequestReload(ctx context.Context) (model.ReloadRequest, bool)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	ridersHandler *RidersHandler
	leagueHandler *LeagueHandler
	riskHandler   *RiskHandler
	seasonHandler *SeasonHandler
	reloadHandler *ReloadHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// limit parameter of list endpoints.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		ridersHandler: NewRidersHandler(deps, maxLimit),
		leagueHandler: NewLeagueHandler(deps),
		riskHandler:   NewRiskHandler(deps, maxLimit),
		seasonHandler: NewSeasonHandler(deps),
		reloadHandler: NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/summary", MetricsMiddleware(s.ridersHandler.HandleSummary, "summary"))
	mux.HandleFunc("/riders", MetricsMiddleware(s.ridersHandler.HandleRiders, "riders"))
	mux.HandleFunc("/efficiency", MetricsMiddleware(s.ridersHandler.HandleEfficiency, "efficiency"))
	mux.HandleFunc("/roles", MetricsMiddleware(s.ridersHandler.HandleRoles, "roles"))
	mux.HandleFunc("/name-length", MetricsMiddleware(s.ridersHandler.HandleNameLength, "name_length"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.ridersHandler.HandleTeams, "teams"))
	mux.HandleFunc("/trajectories", MetricsMiddleware(s.ridersHandler.HandleTrajectories, "trajectories"))

	mux.HandleFunc("/league/standings", MetricsMiddleware(s.leagueHandler.HandleStandings, "league_standings"))
	mux.HandleFunc("/league/relative", MetricsMiddleware(s.leagueHandler.HandleRelative, "league_relative"))
	mux.HandleFunc("/league/balance", MetricsMiddleware(s.leagueHandler.HandleBalance, "league_balance"))
	mux.HandleFunc("/league/trends", MetricsMiddleware(s.leagueHandler.HandleTrends, "league_trends"))
	mux.HandleFunc("/league/rosters/", MetricsMiddleware(s.leagueHandler.HandleRoster, "league_roster"))

	mux.HandleFunc("/risk", MetricsMiddleware(s.riskHandler.HandleRiskTable, "risk"))
	mux.HandleFunc("/risk/", MetricsMiddleware(s.riskHandler.HandleRiderRisk, "risk_rider"))

	mux.HandleFunc("/highlights", MetricsMiddleware(s.seasonHandler.HandleHighlights, "highlights"))
	mux.HandleFunc("/dream-team", MetricsMiddleware(s.seasonHandler.HandleDreamTeam, "dream_team"))
	mux.HandleFunc("/all-star-team", MetricsMiddleware(s.seasonHandler.HandleAllStarTeam, "all_star_team"))
	mux.HandleFunc("/withdrawals", MetricsMiddleware(s.seasonHandler.HandleWithdrawals, "withdrawals"))

	mux.HandleFunc("/reload", MetricsMiddleware(s.reloadHandler.HandlePostReload, "reload"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the status so an encoding failure
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		noteErrorCode(w, "internal_error")
		b, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	noteErrorCode(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

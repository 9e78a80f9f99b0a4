package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/peloton/internal/domain/analytics"
)

// LeagueHandler serves fantasy league views.
type LeagueHandler struct {
	deps Dependencies
}

// NewLeagueHandler creates a new league handler.
func NewLeagueHandler(deps Dependencies) *LeagueHandler {
	return &LeagueHandler{deps: deps}
}

// HandleStandings handles GET /league/standings requests.
func (h *LeagueHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.Standings)
}

// HandleRelative handles GET /league/relative requests.
func (h *LeagueHandler) HandleRelative(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_relative"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.Relative)
}

type balanceResponse struct {
	Teams         []analytics.TeamBalance `json:"teams"`
	MostBalanced  *analytics.TeamBalance  `json:"most_balanced"`
	LeastBalanced *analytics.TeamBalance  `json:"least_balanced"`
}

// HandleBalance handles GET /league/balance requests.
func (h *LeagueHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_balance"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Teams:         d.Report.Balance,
		MostBalanced:  d.Report.MostBalanced,
		LeastBalanced: d.Report.LeastBalanced,
	})
}

// HandleTrends handles GET /league/trends?horizon=D requests. Without a
// horizon the precomputed projections are returned.
func (h *LeagueHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trends"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("horizon"))
	if raw == "" {
		d, ok := dataset(w, r, h.deps, op)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, d.Report.Trends)
		return
	}
	horizon, err := strconv.ParseFloat(raw, 64)
	if err != nil || horizon < 0 || math.IsNaN(horizon) {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if !analytics.ValidHorizon(horizon) {
		writeError(w, http.StatusBadRequest, "horizon_exceeded",
			WrapKind(op, ErrBadRequest, analytics.ErrHorizonOutOfRange))
		return
	}
	if _, ok := dataset(w, r, h.deps, op); !ok {
		return
	}
	trends, err := h.deps.Trends(r.Context(), horizon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

// HandleRoster handles GET /league/rosters/{team} requests.
func (h *LeagueHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name, ok := pathParam(r, "/league/rosters/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	team, err := analytics.FindTeam(d.Snapshot.League, name)
	if err != nil {
		if errors.Is(err, analytics.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, analytics.Roster(d.Snapshot, team))
}

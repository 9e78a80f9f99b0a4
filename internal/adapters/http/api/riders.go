package api

import (
	"errors"
	"net/http"

	"github.com/okian/peloton/internal/domain/analytics"
)

// RidersHandler serves rider level aggregates.
type RidersHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRidersHandler creates a new riders handler.
func NewRidersHandler(deps Dependencies, maxLimit int) *RidersHandler {
	return &RidersHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleSummary handles GET /summary requests.
func (h *RidersHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.Summary)
}

// HandleRiders handles GET /riders?limit=N requests: every rider in
// cost-per-point order.
func (h *RidersHandler) HandleRiders(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_riders"
	h.efficiency(w, r, op, func(rep *analytics.Report) []analytics.RiderEfficiency { return rep.Efficiency })
}

// HandleEfficiency handles GET /efficiency?limit=N requests: the top
// efficiency list.
func (h *RidersHandler) HandleEfficiency(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_efficiency"
	h.efficiency(w, r, op, func(rep *analytics.Report) []analytics.RiderEfficiency { return rep.TopEfficiency })
}

func (h *RidersHandler) efficiency(w http.ResponseWriter, r *http.Request, op string, pick func(*analytics.Report) []analytics.RiderEfficiency) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code, err := parseLimit(r, h.maxLimit, op)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, err)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, head(pick(d.Report), n))
}

// HandleRoles handles GET /roles requests.
func (h *RidersHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roles"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.Roles)
}

// HandleNameLength handles GET /name-length?limit=N requests.
func (h *RidersHandler) HandleNameLength(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_name_length"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code, err := parseLimit(r, h.maxLimit, op)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, err)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, head(d.Report.NameLength, n))
}

// HandleTeams handles GET /teams requests: per professional team totals.
func (h *RidersHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.Teams)
}

// HandleTrajectories handles GET /trajectories?select=top10|all|{rider}.
func (h *RidersHandler) HandleTrajectories(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trajectories"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	out, err := analytics.Trajectories(d.Snapshot.Riders, r.URL.Query().Get("select"))
	if err != nil {
		if errors.Is(err, analytics.ErrRiderNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

package api

import (
	"net/http"
)

// SeasonHandler serves season highlights and curated teams.
type SeasonHandler struct {
	deps Dependencies
}

// NewSeasonHandler creates a new season handler.
func NewSeasonHandler(deps Dependencies) *SeasonHandler {
	return &SeasonHandler{deps: deps}
}

// HandleHighlights handles GET /highlights requests.
func (h *SeasonHandler) HandleHighlights(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_highlights"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.Highlights)
}

// HandleDreamTeam handles GET /dream-team requests.
func (h *SeasonHandler) HandleDreamTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dream_team"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.DreamTeam)
}

// HandleAllStarTeam handles GET /all-star-team requests.
func (h *SeasonHandler) HandleAllStarTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_all_star_team"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.AllStarTeam)
}

// HandleWithdrawals handles GET /withdrawals requests.
func (h *SeasonHandler) HandleWithdrawals(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_withdrawals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Report.Withdrawals)
}

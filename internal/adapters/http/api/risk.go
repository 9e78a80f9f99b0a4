package api

import (
	"net/http"
	"strings"

	"github.com/okian/peloton/internal/domain/scoring"
)

// RiskHandler serves rider risk assessments.
type RiskHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRiskHandler creates a new risk handler.
func NewRiskHandler(deps Dependencies, maxLimit int) *RiskHandler {
	return &RiskHandler{deps: deps, maxLimit: maxLimit}
}

// HandleRiskTable handles GET /risk?limit=N&band=low|medium|high requests.
// Entries are ordered by descending score.
func (h *RiskHandler) HandleRiskTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_risk"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, code, err := parseLimit(r, h.maxLimit, op)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, err)
		return
	}
	var band scoring.Band
	if raw := strings.TrimSpace(r.URL.Query().Get("band")); raw != "" {
		b, ok := scoring.ParseBand(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		band = b
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	results := d.Report.Risk
	if band != "" {
		results = d.Report.RiskInBand(band)
	}
	writeJSON(w, http.StatusOK, head(results, n))
}

// HandleRiderRisk handles GET /risk/{rider} requests. The rider name is
// matched after normalization.
func (h *RiskHandler) HandleRiderRisk(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rider_risk"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name, ok := pathParam(r, "/risk/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	d, ok := dataset(w, r, h.deps, op)
	if !ok {
		return
	}
	res, found := d.Report.RiskFor(name)
	if !found {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

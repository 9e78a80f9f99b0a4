package api

import (
	"net/http"
)

type reloadResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
}

// ReloadHandler handles on-demand snapshot reloads.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandlePostReload handles POST /reload requests. The reload runs
// asynchronously; 429 means the reload queue is full.
func (h *ReloadHandler) HandlePostReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, ok := h.deps.RequestReload(r.Context())
	if !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, reloadResponse{Status: "accepted", RequestID: req.ID})
}

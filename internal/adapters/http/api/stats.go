package api

import (
	"net/http"
	"time"
)

// StatsProvider reports service state: served generation, reload queue and
// recent publications.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
	started  time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, started: time.Now()}
}

// HandleStats handles GET /stats requests. Process uptime is added to the
// provider's stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := make(map[string]interface{})
	for k, v := range h.provider.GetStats() {
		stats[k] = v
	}
	stats["uptimeS"] = time.Since(h.started).Seconds()
	writeJSON(w, http.StatusOK, stats)
}

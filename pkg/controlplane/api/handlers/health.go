package handlers

import (
	"net/http"
	"time"

	"github.com/docrep/docrep/internal/cli/health"
)

var startedAt = time.Now()

// Health answers liveness probes. It is unauthenticated and reports uptime
// only, never repository state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(startedAt)

	writeJSON(w, http.StatusOK, health.Response{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data: health.Info{
			Service:   "docrep",
			StartedAt: startedAt.UTC().Format(time.RFC3339),
			Uptime:    uptime.Round(time.Second).String(),
			UptimeSec: int64(uptime.Seconds()),
		},
	})
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	store pinger
	job   fetchJob
}

// NewHealthHandler reports store reachability. store may be nil for the
// in-memory driver.
func NewHealthHandler(store pinger, job fetchJob) *HealthHandler {
	return &HealthHandler{store: store, job: job}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"status": "ok", "store": "ok"}
	status := http.StatusOK

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Health(ctx); err != nil {
			slog.Warn("health check: store unreachable", "error", err)
			data["status"] = "degraded"
			data["store"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	if h.job != nil {
		if run, ok := h.job.LastRun(); ok {
			data["last_fetch"] = newJobRunView(run)
		}
	}

	writeSuccess(w, status, data, nil)
}

func Welcome(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"message": "Welcome to the jokes API"}, nil)
}

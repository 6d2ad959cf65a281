package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	store  Pinger
	driver string
}

func NewHealthHandler(store Pinger, driver string) *healthHandler {
	return &healthHandler{store: store, driver: driver}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.store.Ping(ctx)
	if err != nil {
		slog.Error("health check failed", "driver", h.driver, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "store": h.driver})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": h.driver})
}

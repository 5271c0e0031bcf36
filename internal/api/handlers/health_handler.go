package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/rs/zerolog/log"
)

type HealthHandler struct {
	store           storage.Store
	providerEnabled bool
}

func NewHealthHandler(store storage.Store, providerEnabled bool) *HealthHandler {
	return &HealthHandler{store: store, providerEnabled: providerEnabled}
}

// Health reports the selected storage backend and whether it answers.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Storage health check failed")
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	respond.JSON(w, code, map[string]any{
		"status":           status,
		"storage":          h.store.Backend().String(),
		"identityProvider": h.providerEnabled,
	})
}

package handlers

import (
	"net/http"

	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/supabase"
)

// PublicConfigSource exposes the identity provider settings browsers may see.
type PublicConfigSource interface {
	Enabled() bool
	PublicConfig() supabase.PublicConfig
}

type ConfigHandler struct {
	provider PublicConfigSource
}

func NewConfigHandler(provider PublicConfigSource) *ConfigHandler {
	return &ConfigHandler{provider: provider}
}

// Supabase returns the provider URL and anonymous key. Both are empty when
// the provider is not configured.
func (h *ConfigHandler) Supabase(w http.ResponseWriter, r *http.Request) {
	cfg := h.provider.PublicConfig()
	respond.JSON(w, http.StatusOK, map[string]any{
		"url":     cfg.URL,
		"anonKey": cfg.AnonKey,
		"enabled": h.provider.Enabled(),
	})
}

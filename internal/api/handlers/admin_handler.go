package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/isdelr/portfolio-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// relationalStore is implemented by stores backed by a SQL database.
type relationalStore interface {
	DB() (*sql.DB, database.Dialect)
}

// AdminHandler handles admin-only maintenance requests.
type AdminHandler struct {
	store     storage.Store
	service   services.AuthServiceProvider
	hasher    database.PasswordHasher
	seed      database.AdminSeed
	validator *validation.Validator
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store storage.Store, service services.AuthServiceProvider, hasher database.PasswordHasher, seed database.AdminSeed, v *validation.Validator) *AdminHandler {
	return &AdminHandler{store: store, service: service, hasher: hasher, seed: seed, validator: v}
}

// InitDatabase applies the schema migrations and creates the default admin
// row. It is safe to call repeatedly.
func (h *AdminHandler) InitDatabase(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.store.(relationalStore)
	if !ok || h.store.Backend() != storage.BackendRelational {
		respond.Error(w, http.StatusBadRequest, "Database not connected. Please check DATABASE_URL.")
		return
	}
	db, dialect := rs.DB()

	log.Info().Str("dialect", dialect.Name).Msg("Initializing database schema")
	if err := database.Migrate(r.Context(), db, dialect); err != nil {
		log.Error().Err(err).Msg("Database initialization failed")
		respond.Error(w, http.StatusInternalServerError, "Database initialization failed")
		return
	}

	created, err := database.EnsureAdmin(r.Context(), db, dialect, h.seed, h.hasher)
	if err != nil {
		log.Error().Err(err).Msg("Failed to seed admin user")
		respond.Error(w, http.StatusInternalServerError, "Database initialization failed")
		return
	}
	if created {
		log.Info().Str("username", h.seed.Username).Msg("Created default admin user")
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message":      "Database initialized successfully",
		"adminCreated": created,
	})
}

// PromotePayload sets or clears a user's admin flag.
type PromotePayload struct {
	IsAdmin *bool `json:"isAdmin" validate:"required"`
}

// PromoteUser changes a local user's admin flag and returns a fresh token for them.
func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var payload PromotePayload
	if !decodeAndValidate(w, r, h.validator, &payload, "Invalid promotion data") {
		return
	}

	res, err := h.service.PromoteUser(r.Context(), id, *payload.IsAdmin)
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to promote user")
		respond.Error(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	respond.JSON(w, http.StatusOK, newAuthResponse(res))
}

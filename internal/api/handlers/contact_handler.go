package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/validation"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
)

// ContactHandler accepts contact form submissions. Nothing is persisted;
// submissions are only logged.
type ContactHandler struct {
	validator *validation.Validator
	policy    *bluemonday.Policy
}

func NewContactHandler(v *validation.Validator) *ContactHandler {
	return &ContactHandler{validator: v, policy: bluemonday.StrictPolicy()}
}

// Submit handles a contact form submission.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.ContactSubmission
	if !decodeAndValidate(w, r, h.validator, &in, "Invalid contact form data") {
		return
	}

	id := uuid.New().String()
	log.Info().
		Str("contact_id", id).
		Str("name", h.policy.Sanitize(in.Name)).
		Str("email", h.policy.Sanitize(in.Email)).
		Str("subject", h.policy.Sanitize(in.Subject)).
		Int("message_length", len(in.Message)).
		Msg("Received contact form submission")

	respond.JSON(w, http.StatusOK, map[string]string{
		"message": "Contact form submitted successfully",
		"id":      id,
	})
}

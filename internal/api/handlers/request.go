package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/validation"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// it writes a 400 with msg and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any, msg string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Malformed request body")
		respond.Error(w, http.StatusBadRequest, msg)
		return false
	}

	if err := v.Struct(dst); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			respond.ValidationError(w, msg, fields)
			return false
		}
		log.Error().Err(err).Msg("Failed to validate request body")
		respond.Error(w, http.StatusInternalServerError, "Failed to validate request")
		return false
	}
	return true
}

// parseID reads the {id} URL parameter. It writes a 400 and returns false
// when the id is not a positive integer.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respond.Error(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

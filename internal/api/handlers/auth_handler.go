package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/metrics"
	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/supabase"
	"github.com/isdelr/portfolio-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles HTTP requests for registration, login and the
// identity provider flows.
type AuthHandler struct {
	service   services.AuthServiceProvider
	validator *validation.Validator
	metrics   metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler. recorder may be nil.
func NewAuthHandler(service services.AuthServiceProvider, v *validation.Validator, recorder metrics.Recorder) *AuthHandler {
	return &AuthHandler{service: service, validator: v, metrics: recorder}
}

// RegisterPayload defines the structure for local registration requests.
type RegisterPayload struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Email           string `json:"email" validate:"omitempty,email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// LoginPayload defines the structure for local login requests.
type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUpPayload defines the structure for provider sign-up requests.
type SignUpPayload struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SignInPayload defines the structure for provider sign-in requests.
type SignInPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User            any               `json:"user"`
	Token           string            `json:"token"`
	SupabaseSession *supabase.Session `json:"supabaseSession,omitempty"`
}

func newAuthResponse(res services.AuthResult) authResponse {
	return authResponse{
		User:            res.Principal.PublicView(),
		Token:           res.Token,
		SupabaseSession: res.Session,
	}
}

// Register handles local account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeAndValidate(w, r, h.validator, &payload, "Invalid registration data") {
		return
	}

	res, err := h.service.Register(r.Context(), services.RegisterInput{
		Username:  payload.Username,
		Password:  payload.Password,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		h.writeAuthError(w, err, "Registration failed")
		return
	}

	h.record("register", res)
	respond.JSON(w, http.StatusCreated, newAuthResponse(res))
}

// Login handles username and password authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeAndValidate(w, r, h.validator, &payload, "Invalid login data") {
		return
	}

	res, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		}
		h.writeAuthError(w, err, "Login failed")
		return
	}

	h.record("login", res)
	respond.JSON(w, http.StatusOK, newAuthResponse(res))
}

// SignUp registers through the identity provider, falling back to a local account.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var payload SignUpPayload
	if !decodeAndValidate(w, r, h.validator, &payload, "Invalid signup data") {
		return
	}

	res, err := h.service.SignUp(r.Context(), services.SignUpInput{
		Email:     payload.Email,
		Password:  payload.Password,
		Username:  payload.Username,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		h.writeAuthError(w, err, "Signup failed")
		return
	}

	h.record("signup", res)
	respond.JSON(w, http.StatusCreated, newAuthResponse(res))
}

// SignIn authenticates through the identity provider, falling back to a local account.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var payload SignInPayload
	if !decodeAndValidate(w, r, h.validator, &payload, "Invalid signin data") {
		return
	}

	res, err := h.service.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed sign-in attempt")
		}
		h.writeAuthError(w, err, "Signin failed")
		return
	}

	h.record("signin", res)
	respond.JSON(w, http.StatusOK, newAuthResponse(res))
}

// SignOut ends the provider session if the client sends one. The body is optional.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	h.service.SignOut(r.Context(), payload.AccessToken)
	respond.Message(w, http.StatusOK, "Signed out successfully")
}

// GetUser returns the authenticated user without its password hash.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve principal from context")
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, p.PublicView())
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		respond.Error(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, services.ErrEmailTaken):
		respond.Error(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, services.ErrUserExists):
		respond.Error(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		log.Error().Err(err).Msg(fallback)
		respond.Error(w, http.StatusInternalServerError, fallback)
	}
}

func (h *AuthHandler) record(op string, res services.AuthResult) {
	log.Info().Str("operation", op).Str("source", string(res.Source)).Str("user", res.Principal.ID.String()).Msg("Authenticated")
	if h.metrics != nil {
		h.metrics.RecordAuth(op, string(res.Source))
	}
}

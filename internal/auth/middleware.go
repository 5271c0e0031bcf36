package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/respond"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// Principal is the identity attached to an authenticated request.
// User is set only for locally issued identities.
type Principal struct {
	ID       Subject
	Username string
	Email    *string
	IsAdmin  bool
	User     *models.User
}

// PrincipalFromUser builds a Principal for a stored user.
func PrincipalFromUser(u models.User) Principal {
	return Principal{
		ID:       LocalSubject(u.ID),
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		User:     &u,
	}
}

// PublicView is the JSON form of an authenticated identity: the stored user
// row (password omitted) when local, the token claim-set otherwise.
func (p Principal) PublicView() any {
	if p.User != nil {
		return p.User
	}
	return struct {
		ID       Subject `json:"id"`
		Username string  `json:"username"`
		Email    *string `json:"email"`
		IsAdmin  bool    `json:"isAdmin"`
	}{p.ID, p.Username, p.Email, p.IsAdmin}
}

type contextKey string

const (
	principalKey = contextKey("principal")
	recorderKey  = contextKey("principal-recorder")
)

type principalRecorder struct {
	principal *Principal
}

// WithPrincipalRecorder returns a copy of ctx in which Authenticate records
// the principal it attaches. Middleware that runs before Authenticate reads
// it back with RecordedPrincipal once the handler returns.
func WithPrincipalRecorder(ctx context.Context) context.Context {
	return context.WithValue(ctx, recorderKey, &principalRecorder{})
}

// RecordedPrincipal returns the principal recorded in a context prepared by
// WithPrincipalRecorder.
func RecordedPrincipal(ctx context.Context) (Principal, bool) {
	rec, ok := ctx.Value(recorderKey).(*principalRecorder)
	if !ok || rec.principal == nil {
		return Principal{}, false
	}
	return *rec.principal, true
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal attached by Authenticate.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// UserLookup resolves locally issued identities to their stored row.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
}

// Middleware authenticates bearer tokens and gates admin routes.
type Middleware struct {
	tokens *TokenService
	users  UserLookup
}

func NewMiddleware(tokens *TokenService, users UserLookup) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate rejects requests without a valid token. Locally issued tokens
// are re-resolved against storage so deleted users lose access; external
// identities are trusted as encoded in the token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := BearerToken(r)
		if tokenStr == "" {
			respond.Error(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, ok := m.tokens.Verify(tokenStr)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		principal := claims.Principal()
		if principal.ID.IsLocal() {
			user, err := m.users.GetUser(r.Context(), principal.ID.LocalID())
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusUnauthorized, "User not found")
				return
			}
			if err != nil {
				log.Error().Err(err).Int64("user_id", principal.ID.LocalID()).Msg("Failed to load user for token")
				respond.Error(w, http.StatusInternalServerError, "Failed to authenticate")
				return
			}
			principal = PrincipalFromUser(user)
		}

		if rec, ok := r.Context().Value(recorderKey).(*principalRecorder); ok {
			rec.principal = &principal
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin must run after Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok || !p.IsAdmin {
			respond.Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

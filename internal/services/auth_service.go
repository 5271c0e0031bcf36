package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/isdelr/portfolio-be/internal/supabase"
	"github.com/rs/zerolog/log"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// IdentityProvider is the external sign-up and sign-in service.
type IdentityProvider interface {
	Enabled() bool
	SignUp(ctx context.Context, email, password string, profile supabase.Profile) supabase.Outcome
	SignIn(ctx context.Context, email, password string) supabase.Outcome
	SignOut(ctx context.Context, accessToken string) error
}

// Source records which path authenticated a request.
type Source string

const (
	SourceLocal    Source = "local"
	SourceProvider Source = "supabase"
)

// AuthResult is returned by every successful auth flow.
type AuthResult struct {
	Principal auth.Principal
	Token     string
	Session   *supabase.Session
	Source    Source
}

type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

type SignUpInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
}

// AuthServiceProvider defines the interface for authentication flows.
type AuthServiceProvider interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, username, password string) (AuthResult, error)
	SignUp(ctx context.Context, in SignUpInput) (AuthResult, error)
	SignIn(ctx context.Context, email, password string) (AuthResult, error)
	SignOut(ctx context.Context, providerAccessToken string)
	PromoteUser(ctx context.Context, id int64, isAdmin bool) (AuthResult, error)
}

// AuthService provides local and provider-backed authentication.
type AuthService struct {
	users    storage.UserStore
	hasher   auth.Hasher
	tokens   *auth.TokenService
	provider IdentityProvider
}

// NewAuthService creates a new AuthService. provider may be nil.
func NewAuthService(users storage.UserStore, hasher auth.Hasher, tokens *auth.TokenService, provider IdentityProvider) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, provider: provider}
}

// Register creates a local account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	if _, err := s.users.GetUserByUsername(ctx, in.Username); err == nil {
		return AuthResult{}, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return AuthResult{}, err
	}

	if in.Email != "" {
		if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
			return AuthResult{}, ErrEmailTaken
		} else if !errors.Is(err, storage.ErrNotFound) {
			return AuthResult{}, err
		}
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Username:     in.Username,
		Email:        models.StringPtr(in.Email),
		PasswordHash: hashed,
		FirstName:    models.StringPtr(in.FirstName),
		LastName:     models.StringPtr(in.LastName),
	})
	if errors.Is(err, storage.ErrConflict) {
		// Lost a race with a concurrent registration.
		return AuthResult{}, ErrUserExists
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	return s.localResult(user)
}

// Login authenticates a local account by username.
func (s *AuthService) Login(ctx context.Context, username, password string) (AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.localResult(user)
}

// SignUp registers with the identity provider, or locally when the provider
// is unavailable or refuses the request.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	outcome := s.providerSignUp(ctx, in)
	if served(outcome) {
		return s.providerResult(outcome, in.Username)
	}

	s.logFallback("signup", outcome)
	return s.Register(ctx, RegisterInput{
		Username:  in.Username,
		Password:  in.Password,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
}

// SignIn authenticates with the identity provider, falling back to a local
// account looked up by email.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	outcome := s.providerSignIn(ctx, email, password)
	if served(outcome) {
		return s.providerResult(outcome, "")
	}

	s.logFallback("signin", outcome)
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.localResult(user)
}

// SignOut revokes the provider session when one is given. Local tokens are
// stateless and stay valid until they expire.
func (s *AuthService) SignOut(ctx context.Context, providerAccessToken string) {
	if providerAccessToken == "" || !s.providerEnabled() {
		return
	}
	if err := s.provider.SignOut(ctx, providerAccessToken); err != nil {
		log.Warn().Err(err).Msg("Identity provider sign-out failed")
	}
}

// PromoteUser sets the admin flag of a local account and signs a fresh token
// carrying the new role.
func (s *AuthService) PromoteUser(ctx context.Context, id int64, isAdmin bool) (AuthResult, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return AuthResult{}, err
	}

	user.IsAdmin = isAdmin
	user.PasswordHash = "" // keep the stored hash
	saved, err := s.users.UpsertUser(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	log.Info().Int64("user_id", id).Bool("is_admin", isAdmin).Msg("Changed user role")
	return s.localResult(saved)
}

// EnsureAdmin creates the admin account through the store unless the
// username is already taken. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	_, err = s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        models.StringPtr(email),
		PasswordHash: hashed,
		FirstName:    models.StringPtr("Admin"),
		LastName:     models.StringPtr("User"),
		IsAdmin:      true,
	})
	if errors.Is(err, storage.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}

func (s *AuthService) localResult(user models.User) (AuthResult, error) {
	token, err := s.tokens.IssueForUser(user)
	if err != nil {
		return AuthResult{}, err
	}
	user.PasswordHash = ""
	return AuthResult{
		Principal: auth.PrincipalFromUser(user),
		Token:     token,
		Source:    SourceLocal,
	}, nil
}

// providerResult signs a local token for a provider identity. The identity is
// not persisted.
func (s *AuthService) providerResult(outcome supabase.Outcome, username string) (AuthResult, error) {
	identity := outcome.Identity
	if username == "" {
		username = identity.MetadataString("username")
	}
	if username == "" {
		username, _, _ = strings.Cut(identity.Email, "@")
	}

	principal := auth.Principal{
		ID:       auth.ExternalSubject(identity.ID),
		Username: username,
		Email:    models.StringPtr(identity.Email),
	}
	token, err := s.tokens.Issue(principal)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{
		Principal: principal,
		Token:     token,
		Session:   outcome.Session,
		Source:    SourceProvider,
	}, nil
}

// served reports whether the provider answered with a usable identity.
func served(outcome supabase.Outcome) bool {
	return outcome.Kind == supabase.ProviderSucceeded && outcome.Identity != nil && outcome.Identity.ID != ""
}

func (s *AuthService) providerEnabled() bool {
	return s.provider != nil && s.provider.Enabled()
}

func (s *AuthService) providerSignUp(ctx context.Context, in SignUpInput) supabase.Outcome {
	if !s.providerEnabled() {
		return supabase.Outcome{Kind: supabase.ProviderUnavailable, Reason: "identity provider not configured"}
	}
	return s.provider.SignUp(ctx, in.Email, in.Password, supabase.Profile{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
}

func (s *AuthService) providerSignIn(ctx context.Context, email, password string) supabase.Outcome {
	if !s.providerEnabled() {
		return supabase.Outcome{Kind: supabase.ProviderUnavailable, Reason: "identity provider not configured"}
	}
	return s.provider.SignIn(ctx, email, password)
}

func (s *AuthService) logFallback(op string, outcome supabase.Outcome) {
	if !s.providerEnabled() {
		return
	}
	log.Warn().
		Str("operation", op).
		Str("outcome", outcome.Kind.String()).
		Str("reason", outcome.Reason).
		Msg("Identity provider did not serve request, using local authentication")
}

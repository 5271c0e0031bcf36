// Package supabase talks to a hosted Supabase Auth (GoTrue) instance for
// email and password sign-up and sign-in.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the public project credentials.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// PublicConfig is what browsers need to bootstrap their own provider session.
type PublicConfig struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

// Profile is stored as user metadata on sign-up.
type Profile struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Identity is the provider's view of a user.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// MetadataString returns a string metadata value or "".
func (i Identity) MetadataString(key string) string {
	if v, ok := i.UserMetadata[key].(string); ok {
		return v
	}
	return ""
}

// Session is a provider-issued session, passed through to the client untouched.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
	User         *Identity `json:"user,omitempty"`
}

// Client is the identity provider adapter. A zero-config Client is disabled
// and reports every call as ProviderUnavailable.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a Client. A nil httpClient gets one with cfg.Timeout.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Enabled reports whether the provider is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.URL != "" && c.cfg.AnonKey != ""
}

func (c *Client) PublicConfig() PublicConfig {
	if c == nil {
		return PublicConfig{}
	}
	return PublicConfig{URL: c.cfg.URL, AnonKey: c.cfg.AnonKey}
}

// SignUp registers a new provider account.
func (c *Client) SignUp(ctx context.Context, email, password string, profile Profile) Outcome {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     profile,
	}
	return c.authenticate(ctx, "/auth/v1/signup", body)
}

// SignIn exchanges email and password for a provider session.
func (c *Client) SignIn(ctx context.Context, email, password string) Outcome {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	return c.authenticate(ctx, "/auth/v1/token?grant_type=password", body)
}

// SignOut revokes a provider session.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if !c.Enabled() {
		return nil
	}
	resp, err := c.do(ctx, "/auth/v1/logout", accessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider sign-out returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any) Outcome {
	if !c.Enabled() {
		return unavailable("identity provider not configured")
	}

	resp, err := c.do(ctx, path, c.cfg.AnonKey, body)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Identity provider request failed")
		return unavailable(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return unavailable(fmt.Sprintf("failed to read provider response: %v", err))
	}

	switch {
	case resp.StatusCode >= 500:
		return unavailable(fmt.Sprintf("provider returned status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return rejected(errorMessage(raw, resp.StatusCode))
	}

	identity, session, err := decodeAuthResponse(raw)
	if err != nil {
		return unavailable(err.Error())
	}
	return Outcome{Kind: ProviderSucceeded, Identity: identity, Session: session}
}

func (c *Client) do(ctx context.Context, path, bearer string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode provider request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// decodeAuthResponse accepts both response shapes GoTrue uses: a session
// with a nested user, or a bare user when e-mail confirmation is pending.
func decodeAuthResponse(raw []byte) (*Identity, *Session, error) {
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	if session.User != nil && session.User.ID != "" {
		return session.User, &session, nil
	}

	var user Identity
	if err := json.Unmarshal(raw, &user); err == nil && user.ID != "" {
		return &user, nil, nil
	}
	return nil, nil, errors.New("no user in provider response")
}

func errorMessage(raw []byte, status int) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("provider returned status %d", status)
}

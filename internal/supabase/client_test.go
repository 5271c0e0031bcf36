package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{URL: srv.URL, AnonKey: "anon-key", Timeout: time.Second}, nil)
}

func TestClient_Disabled(t *testing.T) {
	c := New(Config{}, nil)
	assert.False(t, c.Enabled())

	out := c.SignIn(context.Background(), "a@b.c", "secret")
	assert.Equal(t, ProviderUnavailable, out.Kind)
	assert.NoError(t, c.SignOut(context.Background(), "tok"))
}

func TestClient_SignUp_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "carol@example.com", body["email"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "carol", data["username"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":3600,
			"user":{"id":"uuid-1","email":"carol@example.com","user_metadata":{"username":"carol"}}}`))
	})

	out := c.SignUp(context.Background(), "carol@example.com", "secret1", Profile{Username: "carol"})
	require.Equal(t, ProviderSucceeded, out.Kind)
	assert.Equal(t, "uuid-1", out.Identity.ID)
	assert.Equal(t, "carol", out.Identity.MetadataString("username"))
	require.NotNil(t, out.Session)
	assert.Equal(t, "at", out.Session.AccessToken)
}

func TestClient_SignUp_PendingConfirmation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"uuid-2","email":"dave@example.com"}`))
	})

	out := c.SignUp(context.Background(), "dave@example.com", "secret1", Profile{})
	require.Equal(t, ProviderSucceeded, out.Kind)
	assert.Equal(t, "uuid-2", out.Identity.ID)
	assert.Nil(t, out.Session)
}

func TestClient_SignIn_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
		reason string
	}{
		{name: "bad credentials", status: http.StatusBadRequest, body: `{"error_description":"Invalid login credentials"}`, want: ProviderRejected, reason: "Invalid login credentials"},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, want: ProviderUnavailable},
		{name: "no user", status: http.StatusOK, body: `{}`, want: ProviderUnavailable},
		{name: "garbage", status: http.StatusOK, body: `not json`, want: ProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			out := c.SignIn(context.Background(), "a@b.c", "secret1")
			assert.Equal(t, tt.want, out.Kind)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, out.Reason)
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{URL: url, AnonKey: "k", Timeout: time.Second}, nil)
	out := c.SignIn(context.Background(), "a@b.c", "secret1")
	assert.Equal(t, ProviderUnavailable, out.Kind)
}

func TestClient_SignOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.SignOut(context.Background(), "user-token"))
}

func TestOutcome_ZeroValueIsUnavailable(t *testing.T) {
	var out Outcome
	assert.Equal(t, ProviderUnavailable, out.Kind)
	assert.Equal(t, "unavailable", out.Kind.String())
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/config"
	"github.com/isdelr/portfolio-be/internal/metrics"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/isdelr/portfolio-be/internal/supabase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type testEnv struct {
	router      *chi.Mux
	store       storage.Store
	tokens      *auth.TokenService
	authService *services.AuthService
}

func testConfig() *config.Config {
	return &config.Config{
		Admin: config.Admin{Username: "admin", Email: "admin@portfolio.dev", Password: "admin123"},
		CORS:  config.CORS{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, testConfig(), storage.NewMemoryStore())
}

func newTestEnvWithStore(t *testing.T, cfg *config.Config, store storage.Store) *testEnv {
	t.Helper()

	tokens := auth.NewTokenService(testSecret, time.Hour)
	hasher := auth.NewBcryptHasher(4)
	provider := supabase.New(supabase.Config{}, nil)
	reg := prometheus.NewRegistry()

	authService := services.NewAuthService(store, hasher, tokens, provider)

	router := NewRouter(Deps{
		Config:   cfg,
		Store:    store,
		Tokens:   tokens,
		Hasher:   hasher,
		Auth:     authService,
		Provider: provider,
		Metrics:  metrics.NewCollector(reg),
		Gatherer: reg,
	})
	return &testEnv{router: router, store: store, tokens: tokens, authService: authService}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type authBody struct {
	User  map[string]any `json:"user"`
	Token string         `json:"token"`
}

func newProjectBody() map[string]any {
	return map[string]any{
		"title":        "Portfolio API",
		"description":  "Backend for the portfolio site",
		"category":     "Web Development",
		"technologies": []string{"Go", "PostgreSQL"},
		"image":        "/api/placeholder/400/300",
	}
}

func TestEndToEnd_RegisterPromoteCreate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"password": "pw12345",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[authBody](t, w)
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice", reg.User["username"])
	assert.NotContains(t, reg.User, "password")
	assert.NotContains(t, reg.User, "passwordHash")

	w = env.do(t, http.MethodGet, "/api/projects", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Project](t, w), 2)

	w = env.do(t, http.MethodPost, "/api/projects", reg.Token, newProjectBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", decode[map[string]string](t, w)["message"])

	alice, err := env.store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	alice.IsAdmin = true
	alice, err = env.store.UpsertUser(context.Background(), alice)
	require.NoError(t, err)
	token, err := env.tokens.IssueForUser(alice)
	require.NoError(t, err)

	w = env.do(t, http.MethodPost, "/api/projects", token, newProjectBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Project](t, w)
	assert.Equal(t, int64(3), created.ID)
	assert.Nil(t, created.GithubURL)
}

func TestAuthentication_Rejections(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token required", decode[map[string]string](t, w)["message"])

	expired, err := auth.NewTokenService(testSecret, -time.Minute).Issue(auth.Principal{ID: auth.LocalSubject(1), Username: "ghost"})
	require.NoError(t, err)
	w = env.do(t, http.MethodPost, "/api/projects", expired, newProjectBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", decode[map[string]string](t, w)["message"])

	foreign, err := auth.NewTokenService("other-secret", time.Hour).Issue(auth.Principal{ID: auth.LocalSubject(1)})
	require.NoError(t, err)
	w = env.do(t, http.MethodDelete, "/api/blog-posts/1", foreign, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	orphan, err := env.tokens.Issue(auth.Principal{ID: auth.LocalSubject(42), Username: "gone"})
	require.NoError(t, err)
	w = env.do(t, http.MethodGet, "/api/auth/user", orphan, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User not found", decode[map[string]string](t, w)["message"])
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob",
		"password": "hunter22",
		"email":    "bob@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[authBody](t, w)

	w = env.do(t, http.MethodGet, "/api/auth/user", reg.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[map[string]any](t, w)
	assert.Equal(t, "bob", user["username"])
	assert.Equal(t, "bob@example.com", user["email"])

	external, err := env.tokens.Issue(auth.Principal{ID: auth.ExternalSubject("ext-1"), Username: "carol"})
	require.NoError(t, err)
	w = env.do(t, http.MethodGet, "/api/auth/user", external, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user = decode[map[string]any](t, w)
	assert.Equal(t, "ext-1", user["id"])
	assert.Equal(t, "carol", user["username"])
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"username": "dave", "password": "secret1", "email": "dave@example.com"}
	w := env.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", decode[map[string]string](t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "dave2", "password": "secret1", "email": "dave@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", decode[map[string]string](t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode[map[string]any](t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "dave", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[authBody](t, w).Token)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "dave", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode[map[string]string](t, w)["message"])
}

func TestSignUpSignIn_FallBackToLocal(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "erin@example.com",
		"password": "secret1",
		"username": "erin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assert.NotContains(t, body, "supabaseSession")

	w = env.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "erin@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "erin", decode[authBody](t, w).User["username"])

	w = env.do(t, http.MethodPost, "/api/auth/signout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjectCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := adminToken(t, env)

	w := env.do(t, http.MethodPost, "/api/projects", admin, map[string]any{"title": "missing fields"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid project data", decode[map[string]any](t, w)["message"])

	w = env.do(t, http.MethodGet, "/api/projects/2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	before := decode[models.Project](t, w)
	assert.False(t, before.Featured)

	w = env.do(t, http.MethodPut, "/api/projects/2", admin, map[string]any{"featured": true})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Project](t, w)
	assert.True(t, updated.Featured)
	assert.Equal(t, "Real-time Chat Platform", updated.Title)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))

	w = env.do(t, http.MethodPut, "/api/projects/2", admin, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/projects/99", admin, map[string]any{"featured": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/projects/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = env.do(t, http.MethodDelete, "/api/projects/1", admin, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/projects/1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlogPostCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := adminToken(t, env)

	w := env.do(t, http.MethodGet, "/api/blog-posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.BlogPost](t, w), 1)

	w = env.do(t, http.MethodPost, "/api/blog-posts", admin, map[string]any{
		"title":    "Go for web backends",
		"excerpt":  "Why a small API fits in a single binary",
		"content":  "# Go\n\nContent",
		"category": "Backend",
		"tags":     []string{},
		"image":    "/img.png",
		"readTime": "3 min read",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decode[models.BlogPost](t, w)
	assert.False(t, post.Published)
	assert.Equal(t, []string{}, post.Tags)

	w = env.do(t, http.MethodPut, "/api/blog-posts/2", admin, map[string]any{"published": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.BlogPost](t, w).Published)

	w = env.do(t, http.MethodGet, "/api/blog-posts/7", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blog post not found", decode[map[string]string](t, w)["message"])
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := adminToken(t, env)

	w := env.do(t, http.MethodPost, "/api/admin/init-database", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Database not connected. Please check DATABASE_URL.", decode[map[string]string](t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "frank", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	frank := decode[authBody](t, w)
	promotePath := "/api/admin/users/" + strconv.FormatInt(int64(frank.User["id"].(float64)), 10) + "/promote"

	w = env.do(t, http.MethodPost, promotePath, frank.Token, map[string]bool{"isAdmin": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, promotePath, admin, map[string]bool{"isAdmin": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	promoted := decode[authBody](t, w)
	assert.Equal(t, true, promoted.User["isAdmin"])

	w = env.do(t, http.MethodPost, "/api/projects", promoted.Token, newProjectBody())
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/users/999/promote", admin, map[string]bool{"isAdmin": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, promotePath, admin, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "memory", health["storage"])
	assert.Equal(t, false, health["identityProvider"])

	w = env.do(t, http.MethodGet, "/api/config/supabase", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["enabled"])

	w = env.do(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name":    "Grace",
		"email":   "grace@example.com",
		"subject": "Project inquiry",
		"message": "I would like to talk about a project.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	contact := decode[map[string]string](t, w)
	assert.Equal(t, "Contact form submitted successfully", contact["message"])
	assert.Len(t, contact["id"], 36)

	w = env.do(t, http.MethodPost, "/api/contact", "", map[string]string{"name": "G", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")
}

func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	admin, err := env.store.CreateUser(context.Background(), models.User{Username: "root", PasswordHash: "x", IsAdmin: true})
	require.NoError(t, err)
	token, err := env.tokens.IssueForUser(admin)
	require.NoError(t, err)
	return token
}

func TestRelationalBoot_SeedsAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Database = config.Database{
		URL:         "sqlite://" + filepath.Join(t.TempDir(), "portfolio.db"),
		AutoMigrate: true,
	}

	store := storage.Open(ctx, cfg.Database)
	t.Cleanup(func() { store.Close() })
	require.Equal(t, storage.BackendRelational, store.Backend())

	env := newTestEnvWithStore(t, cfg, store)
	created, err := env.authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	require.NoError(t, err)
	assert.False(t, created, "seeding is idempotent across restarts")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[authBody](t, w)
	assert.Equal(t, true, login.User["isAdmin"])

	w = env.do(t, http.MethodPost, "/api/admin/init-database", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode[map[string]any](t, w)["adminCreated"])

	w = env.do(t, http.MethodPost, "/api/projects", login.Token, newProjectBody())
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

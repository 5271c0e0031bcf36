package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/portfolio-be/internal/api/handlers"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/config"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/metrics"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/isdelr/portfolio-be/internal/supabase"
	"github.com/isdelr/portfolio-be/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the components the router wires into its handlers.
type Deps struct {
	Config   *config.Config
	Store    storage.Store
	Tokens   *auth.TokenService
	Hasher   auth.Hasher
	Auth     services.AuthServiceProvider
	Provider *supabase.Client
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(d.Metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	v := validation.New()
	authMw := auth.NewMiddleware(d.Tokens, d.Store)

	authHandler := handlers.NewAuthHandler(d.Auth, v, d.Metrics)
	projectHandler := handlers.NewProjectHandler(d.Store, v)
	blogPostHandler := handlers.NewBlogPostHandler(d.Store, v)
	adminHandler := handlers.NewAdminHandler(d.Store, d.Auth, d.Hasher, database.AdminSeed{
		Username:  d.Config.Admin.Username,
		Email:     d.Config.Admin.Email,
		Password:  d.Config.Admin.Password,
		FirstName: "Admin",
		LastName:  "User",
	}, v)
	configHandler := handlers.NewConfigHandler(d.Provider)
	contactHandler := handlers.NewContactHandler(v)
	healthHandler := handlers.NewHealthHandler(d.Store, d.Provider.Enabled())

	r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/signout", authHandler.SignOut)
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.With(authMw.Authenticate).Get("/user", authHandler.GetUser)
		})

		r.Get("/config/supabase", configHandler.Supabase)
		r.Post("/contact", contactHandler.Submit)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.GetAll)
			r.Get("/{id}", projectHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMw.Authenticate, authMw.RequireAdmin)
				r.Post("/", projectHandler.Create)
				r.Put("/{id}", projectHandler.Update)
				r.Delete("/{id}", projectHandler.Delete)
			})
		})

		r.Route("/blog-posts", func(r chi.Router) {
			r.Get("/", blogPostHandler.GetAll)
			r.Get("/{id}", blogPostHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMw.Authenticate, authMw.RequireAdmin)
				r.Post("/", blogPostHandler.Create)
				r.Put("/{id}", blogPostHandler.Update)
				r.Delete("/{id}", blogPostHandler.Delete)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.Authenticate, authMw.RequireAdmin)
			r.Post("/init-database", adminHandler.InitDatabase)
			r.Post("/users/{id}/promote", adminHandler.PromoteUser)
		})
	})

	return r
}

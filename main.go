package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/portfolio-be/internal/api"
	"github.com/isdelr/portfolio-be/internal/auth"
	"github.com/isdelr/portfolio-be/internal/config"
	"github.com/isdelr/portfolio-be/internal/logger"
	"github.com/isdelr/portfolio-be/internal/metrics"
	"github.com/isdelr/portfolio-be/internal/services"
	"github.com/isdelr/portfolio-be/internal/storage"
	"github.com/isdelr/portfolio-be/internal/supabase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "console")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if cfg.Auth.UsingDevSecret {
		if cfg.Production() {
			log.Fatal().Msg("JWT_SECRET or SESSION_SECRET must be set in production")
		}
		log.Warn().Msg("No JWT_SECRET configured, signing tokens with the development secret")
	}

	// Set up storage; the backend is chosen once here
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	store := storage.Open(startCtx, cfg.Database)
	defer store.Close()

	// Set up identity provider
	provider := supabase.New(supabase.Config{
		URL:     cfg.Supabase.URL,
		AnonKey: cfg.Supabase.AnonKey,
		Timeout: cfg.Supabase.Timeout,
	}, nil)
	if cfg.IdentityProviderEnabled() {
		log.Info().Str("url", cfg.Supabase.URL).Msg("Identity provider enabled")
	} else {
		log.Warn().Msg("Supabase environment variables not set, identity provider disabled")
	}

	// Set up services
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	authService := services.NewAuthService(store, hasher, tokens, provider)

	// The admin account must exist before any admin route is reachable,
	// including init-database on a relational backend.
	created, err := authService.EnsureAdmin(startCtx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Error().Err(err).Msg("Failed to seed admin user")
	} else if created {
		log.Info().Str("username", cfg.Admin.Username).Str("storage", store.Backend().String()).Msg("Seeded admin user")
	}
	cancelStart()

	// Set up metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)
	collector.SetStorageBackend(store.Backend().String())

	// Set up router
	router := api.NewRouter(api.Deps{
		Config:   cfg,
		Store:    store,
		Tokens:   tokens,
		Hasher:   hasher,
		Auth:     authService,
		Provider: provider,
		Metrics:  collector,
		Gatherer: reg,
	})

	// Set up server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", store.Backend().String()).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

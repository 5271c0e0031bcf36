package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// DevJWTSecret signs tokens when neither JWT_SECRET nor SESSION_SECRET is set.
// It is public knowledge; never run production with it.
const DevJWTSecret = "default-dev-secret"

// Config holds the application configuration.
type Config struct {
	Server   Server
	Auth     Auth
	Database Database
	Supabase Supabase
	Admin    Admin
	CORS     CORS
	Log      Log
}

type Server struct {
	Port            int
	Host            string
	Env             string
	ShutdownTimeout time.Duration
}

type Auth struct {
	JWTSecret      string
	UsingDevSecret bool
	TokenTTL       time.Duration
	BcryptCost     int
}

type Database struct {
	URL         string // empty selects in-memory storage
	AutoMigrate bool
}

type Supabase struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Admin describes the default admin row created by database initialization.
type Admin struct {
	Username string
	Email    string
	Password string
}

type CORS struct {
	AllowedOrigins []string
}

type Log struct {
	Level  string
	Format string // "console" or "json"
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 5000)
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")

	v.SetDefault("AUTH_TOKEN_TTL", "168h") // 7 days
	v.SetDefault("AUTH_BCRYPT_COST", 10)

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)

	v.SetDefault("SUPABASE_TIMEOUT", "10s")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@portfolio.dev")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		secret = v.GetString("SESSION_SECRET")
	}
	usingDev := secret == ""
	if usingDev {
		secret = DevJWTSecret
	}

	cfg := &Config{
		Server: Server{
			Port:            v.GetInt("PORT"),
			Host:            v.GetString("HOST"),
			Env:             v.GetString("APP_ENV"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Auth: Auth{
			JWTSecret:      secret,
			UsingDevSecret: usingDev,
			TokenTTL:       v.GetDuration("AUTH_TOKEN_TTL"),
			BcryptCost:     v.GetInt("AUTH_BCRYPT_COST"),
		},
		Database: Database{
			URL:         strings.TrimSpace(v.GetString("DATABASE_URL")),
			AutoMigrate: v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		Supabase: Supabase{
			URL:     strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
			AnonKey: v.GetString("SUPABASE_ANON_KEY"),
			Timeout: v.GetDuration("SUPABASE_TIMEOUT"),
		},
		Admin: Admin{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first configuration value that cannot be used.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Database.URL != "" {
		u, err := url.Parse(c.Database.URL)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		switch u.Scheme {
		case "postgres", "postgresql", "sqlite", "file":
		default:
			return fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
		}
	}
	if (c.Supabase.URL == "") != (c.Supabase.AnonKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY must be set together")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}

// IdentityProviderEnabled reports whether the external identity provider is configured.
func (c *Config) IdentityProviderEnabled() bool {
	return c.Supabase.URL != "" && c.Supabase.AnonKey != ""
}

func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, DevJWTSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.UsingDevSecret)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.IdentityProviderEnabled())
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_SecretFallbackChain(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_SECRET", "from-session")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-session", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Auth.UsingDevSecret)

	t.Setenv("JWT_SECRET", "from-jwt")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "from-jwt", cfg.Auth.JWTSecret)
}

func TestLoad_IdentityProvider(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IdentityProviderEnabled())
	assert.Equal(t, "https://example.supabase.co", cfg.Supabase.URL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: Server{Port: 5000},
			Auth:   Auth{JWTSecret: "s", TokenTTL: time.Hour, BcryptCost: 10},
			Log:    Log{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 1 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: true},
		{name: "postgres url", mutate: func(c *Config) { c.Database.URL = "postgres://u:p@localhost/db" }},
		{name: "sqlite url", mutate: func(c *Config) { c.Database.URL = "sqlite:portfolio.db" }},
		{name: "mysql url", mutate: func(c *Config) { c.Database.URL = "mysql://localhost/db" }, wantErr: true},
		{name: "supabase url without key", mutate: func(c *Config) { c.Supabase.URL = "https://x.supabase.co" }, wantErr: true},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.CookieMaxAge)
	assert.Contains(t, cfg.OriginPatterns, ".vercel.app")
	assert.Empty(t, cfg.B2BAPIKeys)
	assert.Empty(t, cfg.TrustedProxies)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("B2B_API_KEYS", "key-one, key-two")
	t.Setenv("ALLOWED_ORIGINS", "https://jobs.example.com")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.B2BAPIKeys)
	assert.Equal(t, []string{"https://jobs.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidateStoreDriver(t *testing.T) {
	cfg := &Config{JWTSecret: "x", StoreDriver: "mongo", TokenTTL: time.Hour}
	assert.Error(t, cfg.Validate())

	cfg.StoreDriver = "memory"
	assert.NoError(t, cfg.Validate())
}

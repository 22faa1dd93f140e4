package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all Inkwell-related environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "HTTP_ADDR", "SITE_URL", "SITE_NAME",
		"BACKEND_URL", "BACKEND_TIMEOUT",
		"GEMINI_API_KEY", "GEMINI_MODEL",
		"AUTH_URL", "AUTH_ANON_KEY", "AUTH_JWT_SECRET", "AUTH_JWKS_URL",
		"DATABASE_URL", "SQLITE_PATH",
		"REDIS_URL", "SUBSCRIPTION_CACHE_TTL", "RABBITMQ_URL",
		"MAX_UPLOAD_BYTES", "FETCH_TIMEOUT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, "Inkwell", cfg.SiteName)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, time.Duration(0), cfg.BackendTimeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Minute, cfg.SubscriptionCacheTTL)
	assert.True(t, cfg.LocalMode())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("APP_ENV", "production")
	os.Setenv("BACKEND_URL", "https://api.example.com/")
	os.Setenv("SITE_URL", "https://inkwell.example.com/")
	os.Setenv("DATABASE_URL", "postgres://u:p@db:5432/inkwell")
	os.Setenv("MAX_UPLOAD_BYTES", "2048")
	os.Setenv("FETCH_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://api.example.com", cfg.BackendURL)
	assert.Equal(t, "https://inkwell.example.com", cfg.SiteURL)
	assert.False(t, cfg.LocalMode())
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("MAX_UPLOAD_BYTES", "lots")
	os.Setenv("FETCH_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
}

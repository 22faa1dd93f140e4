package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/eventbus"
	waitlistApp "github.com/felixgeelhaar/inkwell/internal/waitlist/application"
	"github.com/felixgeelhaar/inkwell/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig() *config.Config {
	return &config.Config{
		AppEnv:               "development",
		HTTPAddr:             "127.0.0.1:0",
		SiteURL:              "https://inkwell.test",
		SiteName:             "Inkwell",
		BackendURL:           "http://127.0.0.1:1",
		SQLitePath:           sqlite.MemoryPath,
		SubscriptionCacheTTL: time.Minute,
		MaxUploadBytes:       config.DefaultMaxUploadBytes,
		FetchTimeout:         time.Second,
	}
}

func newLocalContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := NewContainer(context.Background(), cfg, logger, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNewContainer_LocalMode(t *testing.T) {
	c := newLocalContainer(t, localConfig())

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.Nil(t, c.RedisClient)
	assert.IsType(t, &eventbus.InProcessEventBus{}, c.EventPublisher)
	assert.Nil(t, c.Verifier)
	assert.Nil(t, c.AuthProxy)
	require.NotNil(t, c.Catalog)
	require.NotNil(t, c.BillingService)
	require.NotNil(t, c.WaitlistService)
	require.NotNil(t, c.Server)
}

func TestNewContainer_ServesRoutes(t *testing.T) {
	c := newLocalContainer(t, localConfig())
	srv := httptest.NewServer(c.Server.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health.Status)

	resp, err = http.Get(srv.URL + "/api/tools")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/waitlist", "application/json", strings.NewReader(`{"email":"local@example.com"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "inkwell_waitlist_joins")
}

func TestNewContainer_BillingGatesCatalog(t *testing.T) {
	c := newLocalContainer(t, localConfig())
	ctx := context.Background()
	userID := uuid.New()

	assert.False(t, c.Catalog.IsActive(ctx, &userID))
	_, err := c.BillingService.SetSubscription(ctx, userID, "pro", "active", nil)
	require.NoError(t, err)
	assert.True(t, c.Catalog.IsActive(ctx, &userID))
}

func TestNewContainer_WaitlistCount(t *testing.T) {
	c := newLocalContainer(t, localConfig())
	ctx := context.Background()

	_, err := c.WaitlistService.Join(ctx, waitlistApp.JoinCommand{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = c.WaitlistService.Join(ctx, waitlistApp.JoinCommand{Email: "A@example.com"})
	require.NoError(t, err)

	n, err := c.WaitlistService.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewContainer_RedisFallback(t *testing.T) {
	cfg := localConfig()
	cfg.RedisURL = "not-a-redis-url"
	c := newLocalContainer(t, cfg)
	assert.Nil(t, c.RedisClient)

	cfg = localConfig()
	cfg.AppEnv = "production"
	cfg.RedisURL = "not-a-redis-url"
	_, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), "test")
	assert.ErrorContains(t, err, "Redis URL")
}

func TestNewContainer_VerifierFromSecret(t *testing.T) {
	cfg := localConfig()
	cfg.AuthJWTSecret = "secret"
	cfg.AuthURL = "http://127.0.0.1:1"
	c := newLocalContainer(t, cfg)

	assert.NotNil(t, c.Verifier)
	assert.NotNil(t, c.AuthProxy)
}

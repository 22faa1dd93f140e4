// Package app wires the Inkwell services from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/inkwell/adapter/api"
	billingApp "github.com/felixgeelhaar/inkwell/internal/billing/application"
	billingDomain "github.com/felixgeelhaar/inkwell/internal/billing/domain"
	billingPersistence "github.com/felixgeelhaar/inkwell/internal/billing/infrastructure/persistence"
	catalogApp "github.com/felixgeelhaar/inkwell/internal/catalog/application"
	catalogDomain "github.com/felixgeelhaar/inkwell/internal/catalog/domain"
	"github.com/felixgeelhaar/inkwell/internal/extraction"
	"github.com/felixgeelhaar/inkwell/internal/identity/infrastructure/token"
	"github.com/felixgeelhaar/inkwell/internal/proxy"
	"github.com/felixgeelhaar/inkwell/internal/rewrite"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/migrations"
	waitlistApp "github.com/felixgeelhaar/inkwell/internal/waitlist/application"
	"github.com/felixgeelhaar/inkwell/pkg/config"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Version string

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Publishers
	EventPublisher eventbus.Publisher

	// Observability
	Metrics *observability.PrometheusMetrics
	Health  *observability.HealthRegistry

	// Repositories
	SubscriptionRepo billingDomain.SubscriptionRepository

	// Services
	Catalog         *catalogApp.Service
	BillingService  *billingApp.Service
	WaitlistService *waitlistApp.Service
	RewriteService  *rewrite.Service

	// Upstreams
	Verifier  *token.Verifier
	Backend   *proxy.Forwarder
	AuthProxy *proxy.AuthProxy

	// Extraction
	Documents *extraction.DocumentExtractor
	Fetcher   *extraction.Fetcher
	Articles  *extraction.URLExtractor

	// HTTP
	Server *api.Server
}

// NewContainer creates and wires all dependencies. Without DATABASE_URL it
// runs in local mode on SQLite with an in-process event bus.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Version: version,
		Metrics: observability.NewPrometheusMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServer(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	conn, err := database.NewConnection(ctx, database.Config{
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Logger.Info("running database migrations", "driver", conn.Driver().String())
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	c.Logger.Info("connected to database", "driver", c.DBDriver.String())
	return nil
}

// initRedis connects the subscription cache. Redis is optional in development.
func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, subscription cache will use in-memory fallback", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, subscription cache will use in-memory fallback", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

// initPublisher connects RabbitMQ, or falls back to the in-process bus in
// local mode and development.
func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger, c.Metrics)
		if err == nil {
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(publisher.Healthy))
			return nil
		}
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
	}

	bus := eventbus.NewInProcessEventBus(c.Logger)
	bus.Subscribe("#", logEvent(c.Logger))
	c.EventPublisher = bus
	return nil
}

// logEvent records events that have no broker to go to.
func logEvent(logger *slog.Logger) eventbus.Handler {
	return func(ctx context.Context, env *eventbus.Envelope) error {
		logger.InfoContext(ctx, "event published",
			"routing_key", env.RoutingKey,
			"event_id", env.EventID.String(),
			"aggregate_type", env.AggregateType,
			"aggregate_id", env.AggregateID.String(),
		)
		return nil
	}
}

func (c *Container) initServices(ctx context.Context) error {
	repos := NewRepositoryFactory(c.DBConn)

	subscriptions, err := repos.SubscriptionRepository()
	if err != nil {
		return err
	}
	var cache billingPersistence.CacheStore = billingPersistence.NewInMemoryCacheStore()
	if c.RedisClient != nil {
		cache = billingPersistence.NewRedisCacheStore(c.RedisClient)
	}
	c.SubscriptionRepo = billingPersistence.NewCachedSubscriptionRepository(
		subscriptions, cache, c.Config.SubscriptionCacheTTL, c.Logger, c.Metrics,
	)
	c.BillingService = billingApp.NewService(c.SubscriptionRepo)

	waitlist, err := repos.WaitlistRepository()
	if err != nil {
		return err
	}
	c.WaitlistService = waitlistApp.NewService(waitlist, c.EventPublisher, c.Logger, c.Metrics)

	registry := catalogDomain.NewRegistry()
	resolver := catalogDomain.NewMetadataResolver(registry, catalogDomain.Site{
		Name: c.Config.SiteName,
		URL:  c.Config.SiteURL,
	})
	c.Catalog = catalogApp.NewService(registry, resolver, c.BillingService, c.Logger)

	var generator rewrite.Generator
	if c.Config.GeminiAPIKey != "" {
		g, err := rewrite.NewGenAIGenerator(ctx, rewrite.GenAIConfig{
			APIKey: c.Config.GeminiAPIKey,
			Model:  c.Config.GeminiModel,
		})
		if err != nil {
			return fmt.Errorf("failed to create rewrite generator: %w", err)
		}
		generator = g
	} else {
		c.Logger.Warn("GEMINI_API_KEY not set, rewrite requests will fail")
	}
	c.RewriteService = rewrite.NewService(generator, registry, c.Logger, c.Metrics)

	if c.Config.AuthJWTSecret != "" || c.Config.AuthJWKSURL != "" {
		v, err := token.NewVerifier(token.Config{
			Secret:  c.Config.AuthJWTSecret,
			JWKSURL: c.Config.AuthJWKSURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create token verifier: %w", err)
		}
		c.Verifier = v
	} else {
		c.Logger.Warn("no JWT secret or JWKS URL set, every request is anonymous")
	}

	c.Backend = proxy.NewForwarder("backend", c.Config.BackendURL, c.Config.BackendTimeout,
		proxy.WithLogger(c.Logger),
		proxy.WithMetrics(c.Metrics),
	)
	if c.Config.AuthURL != "" {
		c.AuthProxy = proxy.NewAuthProxy(proxy.NewForwarder("auth", c.Config.AuthURL, c.Config.BackendTimeout,
			proxy.WithHeader("apikey", c.Config.AuthAnonKey),
			proxy.WithLogger(c.Logger),
			proxy.WithMetrics(c.Metrics),
		))
	}

	c.Documents = extraction.NewDocumentExtractor(c.Config.BackendURL, c.Config.MaxUploadBytes, c.Config.BackendTimeout, c.Logger, c.Metrics)
	c.Fetcher = extraction.NewFetcher(c.Config.FetchTimeout, extraction.WithFetchLogger(c.Logger))
	c.Articles = extraction.NewURLExtractor(c.Fetcher)
	return nil
}

func (c *Container) initServer() error {
	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = c.Config.HTTPAddr

	deps := api.Dependencies{
		Catalog:        c.Catalog,
		Billing:        c.BillingService,
		Backend:        c.Backend,
		Auth:           c.AuthProxy,
		Rewrite:        c.RewriteService,
		Documents:      c.Documents,
		Fetcher:        c.Fetcher,
		Articles:       c.Articles,
		Waitlist:       c.WaitlistService,
		Health:         c.Health,
		Metrics:        c.Metrics,
		MetricsHandler: c.Metrics.Handler(),
		SiteName:       c.Config.SiteName,
		Version:        c.Version,
	}
	// A nil *token.Verifier must not become a non-nil interface.
	if c.Verifier != nil {
		deps.Verifier = c.Verifier
	}

	server, err := api.NewServer(serverCfg, deps, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	c.Server = server
	return nil
}

// Close releases all resources.
func (c *Container) Close() error {
	var errs []error
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event publisher: %w", err))
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMaxUploadBytes is the document upload ceiling when MAX_UPLOAD_BYTES is unset.
const DefaultMaxUploadBytes = 10 << 20

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	HTTPAddr  string
	SiteURL   string
	SiteName  string

	// Processing backend
	BackendURL     string
	BackendTimeout time.Duration

	// Generative language API
	GeminiAPIKey string
	GeminiModel  string

	// Auth / database provider
	AuthURL       string
	AuthAnonKey   string
	AuthJWTSecret string
	AuthJWKSURL   string

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL             string
	SubscriptionCacheTTL time.Duration

	// RabbitMQ
	RabbitMQURL string

	// Extraction
	MaxUploadBytes int64
	FetchTimeout   time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		HTTPAddr:  getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		SiteURL:   strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
		SiteName:  getEnv("SITE_NAME", "Inkwell"),

		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendTimeout: getDurationEnv("BACKEND_TIMEOUT", 0),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		AuthURL:       strings.TrimRight(getEnv("AUTH_URL", ""), "/"),
		AuthAnonKey:   getEnv("AUTH_ANON_KEY", ""),
		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		AuthJWKSURL:   getEnv("AUTH_JWKS_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", ""),

		RedisURL:             getEnv("REDIS_URL", ""),
		SubscriptionCacheTTL: getDurationEnv("SUBSCRIPTION_CACHE_TTL", time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		MaxUploadBytes: getInt64Env("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		FetchTimeout:   getDurationEnv("FETCH_TIMEOUT", 15*time.Second),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LocalMode reports whether the embedded SQLite store is used instead of Postgres.
func (c *Config) LocalMode() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil && i > 0 {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Package api serves the Inkwell pages and JSON endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	catalogapp "github.com/felixgeelhaar/inkwell/internal/catalog/application"
	billingdomain "github.com/felixgeelhaar/inkwell/internal/billing/domain"
	"github.com/felixgeelhaar/inkwell/internal/extraction"
	identity "github.com/felixgeelhaar/inkwell/internal/identity/domain"
	"github.com/felixgeelhaar/inkwell/internal/proxy"
	"github.com/felixgeelhaar/inkwell/internal/rewrite"
	waitlistapp "github.com/felixgeelhaar/inkwell/internal/waitlist/application"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

// SessionVerifier turns a bearer token into a session.
type SessionVerifier interface {
	Verify(token string) (*identity.Session, error)
}

// Dependencies are the services the HTTP layer calls. Optional services may be
// nil; their routes then answer 503.
type Dependencies struct {
	Catalog   *catalogapp.Service
	Billing   billingdomain.BillingService
	Verifier  SessionVerifier
	Backend   *proxy.Forwarder
	Auth      *proxy.AuthProxy
	Rewrite   *rewrite.Service
	Documents *extraction.DocumentExtractor
	Fetcher   *extraction.Fetcher
	Articles  *extraction.URLExtractor
	Waitlist  *waitlistapp.Service
	Health    *observability.HealthRegistry
	Metrics   observability.Metrics
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler
	SiteName       string
	Version        string
}

// Server is the Inkwell HTTP server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	handler http.Handler
	logger  *slog.Logger
	deps    Dependencies
	pages   *pageRenderer
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration. The write
// timeout leaves room for slow model and extraction calls.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates the server and registers every route.
func NewServer(cfg ServerConfig, deps Dependencies, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NoopMetrics{}
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog service is required")
	}

	pages, err := newPageRenderer(deps.SiteName)
	if err != nil {
		return nil, err
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		deps:   deps,
		pages:  pages,
	}
	s.registerRoutes()

	s.handler = s.withRequestContext(s.withLogging(s.withRecover(s.withSession(s.mux))))
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.deps.MetricsHandler != nil {
		s.mux.Handle("GET /metrics", s.deps.MetricsHandler)
	}

	// Catalog
	s.mux.HandleFunc("GET /api/tools", s.handleListTools)
	s.mux.HandleFunc("GET /api/tools/{toolID}", s.handleGetTool)
	s.mux.HandleFunc("GET /api/tools/{toolID}/metadata", s.handleToolMetadata)
	s.mux.HandleFunc("GET /api/tools/{toolID}/modes", s.handleToolModes)
	s.mux.HandleFunc("GET /api/subscription", s.handleSubscription)

	// Proxies
	s.mux.HandleFunc("POST /api/tools/{toolID}/process", s.handleProcess)
	s.mux.HandleFunc("POST /api/rewrite", s.handleRewrite)
	s.mux.HandleFunc("POST /api/auth/{action}", s.handleAuth)

	// Extraction
	s.mux.HandleFunc("POST /api/extract/document", s.handleExtractDocument)
	s.mux.HandleFunc("POST /api/extract/url", s.handleExtractURL)
	s.mux.HandleFunc("GET /api/fetch", s.handleFetch)

	s.mux.HandleFunc("POST /api/waitlist", s.handleJoinWaitlist)

	// Pages
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /{slug}", s.handlePage)
	s.mux.HandleFunc("/", s.handleNotFound)
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// handleHealth reports the aggregated dependency checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health == nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": string(observability.HealthStatusHealthy),
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	health := s.deps.Health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting inkwell HTTP server",
		"addr", s.server.Addr,
		"version", s.deps.Version,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down inkwell HTTP server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeRawJSON relays an upstream JSON body unchanged.
func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError writes the {"error": message} body every client expects.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAPIError writes a predefined error.
func writeAPIError(w http.ResponseWriter, e *APIError) {
	writeJSON(w, e.Status, e)
}

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common API errors
var (
	ErrBadJSON = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Request body must be valid JSON",
	}
	ErrUnauthorized = &APIError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: "Authentication required",
	}
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Resource not found",
	}
	ErrUnavailable = &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "unavailable",
		Message: "This feature is not configured",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)

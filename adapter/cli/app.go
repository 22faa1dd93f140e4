package cli

import (
	"context"

	billingApp "github.com/felixgeelhaar/inkwell/internal/billing/application"
	catalogApp "github.com/felixgeelhaar/inkwell/internal/catalog/application"
	"github.com/felixgeelhaar/inkwell/internal/extraction"
	waitlistApp "github.com/felixgeelhaar/inkwell/internal/waitlist/application"
)

// HTTPServer is the server run by `inkwell serve`.
type HTTPServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// App holds the CLI application dependencies.
type App struct {
	Catalog         *catalogApp.Service
	BillingService  *billingApp.Service
	WaitlistService *waitlistApp.Service

	// Extraction
	Documents *extraction.DocumentExtractor
	Articles  *extraction.URLExtractor

	Server HTTPServer
}

// NewApp creates a new CLI application with the provided services.
func NewApp(
	catalog *catalogApp.Service,
	billingService *billingApp.Service,
	waitlistService *waitlistApp.Service,
) *App {
	return &App{
		Catalog:         catalog,
		BillingService:  billingService,
		WaitlistService: waitlistService,
	}
}

// SetExtraction sets the document and URL extractors.
func (a *App) SetExtraction(documents *extraction.DocumentExtractor, articles *extraction.URLExtractor) {
	a.Documents = documents
	a.Articles = articles
}

// SetServer sets the HTTP server.
func (a *App) SetServer(server HTTPServer) {
	a.Server = server
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

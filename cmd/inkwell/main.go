package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/felixgeelhaar/inkwell/adapter/cli"
	cliBilling "github.com/felixgeelhaar/inkwell/adapter/cli/billing"
	"github.com/felixgeelhaar/inkwell/adapter/cli/extract"
	"github.com/felixgeelhaar/inkwell/adapter/cli/tools"
	"github.com/felixgeelhaar/inkwell/adapter/cli/waitlist"
	"github.com/felixgeelhaar/inkwell/internal/app"
	catalogApp "github.com/felixgeelhaar/inkwell/internal/catalog/application"
	catalogDomain "github.com/felixgeelhaar/inkwell/internal/catalog/domain"
	"github.com/felixgeelhaar/inkwell/pkg/config"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
)

func main() {
	flags := cli.ParseGlobalFlags(os.Args[1:])
	if flags.EnvFile != "" {
		if err := godotenv.Load(flags.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", flags.EnvFile, err)
			os.Exit(1)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if flags.Verbose {
		cfg.LogLevel = "debug"
	}

	logger := observability.LoggerFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version)
	cli.SetLogger(logger)

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger, cli.Version)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
		cliApp = cli.NewApp(catalogOnly(cfg, logger), nil, nil)
	} else {
		defer container.Close()

		cliApp = cli.NewApp(container.Catalog, container.BillingService, container.WaitlistService)
		cliApp.SetExtraction(container.Documents, container.Articles)
		cliApp.SetServer(container.Server)
	}

	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(tools.Cmd)
	cli.AddCommand(cliBilling.Cmd)
	cli.AddCommand(waitlist.Cmd)
	cli.AddCommand(extract.Cmd)

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		if container != nil {
			_ = container.Close()
		}
		os.Exit(1)
	}
}

// catalogOnly serves the tool catalog when nothing else could be wired. Every
// caller is treated as not subscribed.
func catalogOnly(cfg *config.Config, logger *slog.Logger) *catalogApp.Service {
	registry := catalogDomain.NewRegistry()
	resolver := catalogDomain.NewMetadataResolver(registry, catalogDomain.Site{Name: cfg.SiteName, URL: cfg.SiteURL})
	return catalogApp.NewService(registry, resolver, nil, logger)
}

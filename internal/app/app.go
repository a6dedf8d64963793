// Package app wires configuration, logging, services, and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"branchscope/internal/config"
	"branchscope/internal/infrastructure"
	"branchscope/internal/narrative"
	"branchscope/internal/operations"
	"branchscope/internal/querier"
	"branchscope/internal/services"
	transport "branchscope/internal/transport/http"
)

// Version is set at build time.
var Version = "dev"

// Application holds the wired components of the web server
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server
}

// NewApplication loads configuration and wires all services.
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	q, err := buildQuerier(cfg.Querier, logger)
	if err != nil {
		return nil, err
	}

	gen, err := buildGenerator(context.Background(), cfg.Narrative, logger)
	if err != nil {
		return nil, err
	}

	store := operations.NewMemoryJobStore()
	reportSvc := services.NewReportService(q, gen, store, cfg.OutputDir, logger)
	healthSvc := services.NewHealthService(Version, store)

	router := transport.NewRouter(
		transport.NewReportHandler(reportSvc, logger),
		transport.NewHealthHandler(healthSvc, logger),
		cfg.RateLimit,
		logger,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config: cfg,
		Logger: logger,
		Server: server,
	}, nil
}

// buildQuerier selects the branch record source from configuration.
func buildQuerier(cfg config.QuerierConfig, logger *slog.Logger) (querier.Querier, error) {
	switch cfg.Source {
	case "csv":
		q, err := querier.NewCSVQuerier(cfg.CSVPath)
		if err != nil {
			return nil, fmt.Errorf("load csv querier: %w", err)
		}
		return q, nil
	default:
		return querier.NewFDICClient(cfg.BaseURL, cfg.Timeout, logger), nil
	}
}

// buildGenerator selects the narrative provider from configuration.
func buildGenerator(ctx context.Context, cfg config.NarrativeConfig, logger *slog.Logger) (narrative.Generator, error) {
	switch cfg.Provider {
	case "gemini":
		gen, err := narrative.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize narrative generator: %w", err)
		}
		return gen, nil
	default:
		return narrative.NewTemplateGenerator(), nil
	}
}

// Run starts the server and blocks until an interrupt signal, then shuts
// down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting",
			slog.String("addr", a.Server.Addr),
			slog.String("version", Version),
		)
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.Logger.Info("server stopped")
	return nil
}

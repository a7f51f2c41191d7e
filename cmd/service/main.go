// Package main is the entry point for the concept name tag service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/conceptnametag-service/internal/bootstrap"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/telemetry"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("lookup_backend", cfg.Lookup.Backend),
	)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		// ctx is already cancelled here; the provider bounds its own flush.
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	components, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		return fmt.Errorf("building service: %w", err)
	}

	defer func() {
		if err := components.Close(); err != nil {
			logger.Error("closing database", slog.Any("error", err))
		}
	}()

	healthCfg := handlers.HealthHandlerConfig{
		Registry: components.Health,
		Build:    handlers.NewBuildInfo(Version, Commit, BuildTime),
	}

	if cfg.Metrics.Enabled {
		healthCfg.Gatherer = components.Metrics
		healthCfg.MetricsPath = cfg.Metrics.Path
	}

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName: cfg.App.Name,
		Auth:        &cfg.Auth,
		Health:      handlers.NewHealthHandler(healthCfg),
		Tags:        handlers.NewConceptNameTagHandler(components.Service, &cfg.Auth),
		Timeout:     cfg.Server.RequestTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)

	if components.Watcher != nil {
		g.Go(func() error { return components.Watcher.Run(gctx) })
	}

	serverErr := server.Start()

	g.Go(func() error {
		return waitForShutdown(gctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
	})

	return g.Wait()
}

// waitForShutdown blocks until ctx is cancelled or the server fails, then
// drains in-flight requests.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		return errors.New("server stopped unexpectedly")

	case <-ctx.Done():
		logger.Info("shutdown requested", slog.Any("cause", context.Cause(ctx)))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

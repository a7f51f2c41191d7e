// Package bootstrap assembles the service graph from configuration. It is
// shared by the HTTP service and the tagctl CLI so both validate tags with
// the same rules and the same store.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/clients"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/conceptnametag-service/internal/app"
	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
	"github.com/jsamuelsen/conceptnametag-service/internal/validation"
)

// Components is the assembled graph. Close releases the database.
type Components struct {
	DB         *sqlx.DB
	Repository *sqlite.Repository
	Lookup     ports.ConceptNameTagLookup
	Lengths    *validation.LengthPolicy
	Validators *validation.Registry
	Service    *app.ConceptNameTagService
	Health     *ports.DefaultHealthRegistry

	// Metrics holds the Go, process and validation collectors.
	Metrics *prometheus.Registry

	// Watcher reloads the length table. Nil unless a watched lengths file
	// is configured.
	Watcher *validation.LengthFileWatcher
}

// Options tune Build for callers that do not serve traffic.
type Options struct {
	// SkipMigrate leaves the schema alone even when auto_migrate is set.
	// tagctl uses it so that "migrate down" can run against any version.
	SkipMigrate bool
}

// Build opens the store and wires the validator registry and service.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Components, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{
		Path:         cfg.Database.Path,
		BusyTimeout:  cfg.Database.BusyTimeout,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		AutoMigrate:  cfg.Database.AutoMigrate && !opts.SkipMigrate,
	}, logger)
	if err != nil {
		return nil, err
	}

	c, err := build(cfg, logger, db)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return c, nil
}

func build(cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*Components, error) {
	c := &Components{
		DB:         db,
		Repository: sqlite.NewRepository(db, logger),
		Health:     ports.NewHealthRegistry(),
		Metrics:    prometheus.NewRegistry(),
	}

	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := c.Health.Register(sqlite.NewHealthChecker(db)); err != nil {
		return nil, fmt.Errorf("registering database health check: %w", err)
	}

	lookup, err := newLookup(cfg, logger, c)
	if err != nil {
		return nil, err
	}

	c.Lookup = lookup

	limits := validation.DefaultLimits().Merge(validation.LimitsFromMap(cfg.Validation.MaxLengths))

	c.Lengths, err = validation.NewLengthPolicy(limits, logger)
	if err != nil {
		return nil, fmt.Errorf("creating length policy: %w", err)
	}

	if cfg.Validation.LengthsFile != "" {
		if err := loadLengthFile(cfg, logger, c, limits); err != nil {
			return nil, err
		}
	}

	metrics, err := validation.NewMetrics(c.Metrics)
	if err != nil {
		return nil, fmt.Errorf("registering validation metrics: %w", err)
	}

	c.Validators = validation.NewRegistry(validation.RegistryConfig{Metrics: metrics, Logger: logger})

	err = c.Validators.Register(&domain.ConceptNameTag{}, validation.ConceptNameTagOrder,
		validation.NewConceptNameTagValidator(validation.ConceptNameTagValidatorConfig{
			Lookup:  c.Lookup,
			Lengths: c.Lengths,
			Logger:  logger,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("registering concept name tag validator: %w", err)
	}

	c.Service = app.NewConceptNameTagService(app.ConceptNameTagServiceConfig{
		Repository: c.Repository,
		Validator:  c.Validators,
		Logger:     logger,
	})

	return c, nil
}

// newLookup picks where duplicate checks look for existing tags.
func newLookup(cfg *config.Config, logger *slog.Logger, c *Components) (ports.ConceptNameTagLookup, error) {
	if cfg.Lookup.Backend != config.LookupBackendRemote {
		return c.Repository, nil
	}

	client, err := clients.New(clients.Config{
		BaseURL:     cfg.Services.Terminology.BaseURL,
		ServiceName: cfg.Services.Terminology.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating terminology client: %w", err)
	}

	lookup := acl.NewTerminologyLookup(acl.TerminologyLookupConfig{Client: client, Logger: logger})

	if err := c.Health.Register(lookup); err != nil {
		return nil, fmt.Errorf("registering terminology health check: %w", err)
	}

	return lookup, nil
}

// loadLengthFile applies the override file once, and prepares a watcher
// when reloads are enabled. A missing file is only an error when it is not
// watched, since a watcher picks it up once it appears.
func loadLengthFile(cfg *config.Config, logger *slog.Logger, c *Components, base validation.Limits) error {
	if cfg.Validation.Watch {
		w, err := validation.NewLengthFileWatcher(c.Lengths, validation.LengthFileWatcherConfig{
			Path:     cfg.Validation.LengthsFile,
			Base:     base,
			Debounce: cfg.Validation.ReloadDebounce,
		}, logger)
		if err != nil {
			return fmt.Errorf("creating length file watcher: %w", err)
		}

		c.Watcher = w

		if err := w.Reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		return nil
	}

	overrides, err := validation.LoadLengthFile(cfg.Validation.LengthsFile)
	if err != nil {
		return err
	}

	if err := c.Lengths.Replace(base.Merge(overrides)); err != nil {
		return fmt.Errorf("applying length file: %w", err)
	}

	return nil
}

// Close releases the database.
func (c *Components) Close() error {
	return c.DB.Close()
}

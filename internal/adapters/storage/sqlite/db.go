// Package sqlite stores concept name tags in an embedded sqlite database.
//
// Tag uniqueness is enforced twice: the validator rejects duplicates with a
// field error, and a NOCASE unique index catches the race between two
// concurrent saves. The index only folds ASCII case, which matches how the
// lookup query compares tags.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/storage/sqlite/migrations"
)

const driverName = "sqlite"

// Config contains connection settings.
type Config struct {
	// Path is the database file. ":memory:" is accepted for throwaway stores.
	Path string

	// BusyTimeout is how long a connection waits on a locked database.
	BusyTimeout time.Duration

	// MaxOpenConns caps the pool. sqlite allows one writer, so 1 is typical.
	MaxOpenConns int

	// AutoMigrate applies pending migrations on open.
	AutoMigrate bool
}

// Open opens the database with WAL journaling and the configured busy timeout.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open(driverName, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, db.DB, logger); err != nil {
			db.Close()
			return nil, err
		}
	}

	logger.Info("database opened",
		slog.String("path", cfg.Path),
		slog.Bool("auto_migrate", cfg.AutoMigrate),
	)

	return db, nil
}

// dsn builds a modernc.org/sqlite connection string. Pragmas are applied to
// every new connection in the pool.
func dsn(cfg Config) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "synchronous(NORMAL)")

	if cfg.Path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}

	return "file:" + cfg.Path + "?" + q.Encode()
}

// HealthChecker reports whether the database answers pings.
type HealthChecker struct {
	db *sqlx.DB
}

// NewHealthChecker creates a health checker for db.
func NewHealthChecker(db *sqlx.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string {
	return "sqlite"
}

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

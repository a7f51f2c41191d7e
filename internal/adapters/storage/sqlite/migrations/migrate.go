// Package migrations embeds the sqlite schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// goose keeps its base FS, dialect and logger in package state.
var gooseMu sync.Mutex

func setup(logger *slog.Logger) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&slogAdapter{logger: logger})

	return goose.SetDialect("sqlite3")
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(logger); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(logger); err != nil {
		return err
	}

	if err := goose.DownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}

	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, logger *slog.Logger) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setup(logger); err != nil {
		return 0, err
	}

	return goose.GetDBVersionContext(ctx, db)
}

// slogAdapter routes goose output to slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (l *slogAdapter) Printf(format string, v ...any) {
	if l.logger == nil {
		return
	}

	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "migrations"))
}

func (l *slogAdapter) Fatalf(format string, v ...any) {
	if l.logger == nil {
		return
	}

	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "migrations"))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/storage/sqlite/migrations"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withDB(cmd.Context(), func(ctx context.Context, db *sqlx.DB) error {
					if err := migrations.Up(ctx, db.DB, c.logger); err != nil {
						return err
					}

					return c.printVersion(ctx, cmd.OutOrStdout(), db)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withDB(cmd.Context(), func(ctx context.Context, db *sqlx.DB) error {
					if err := migrations.Down(ctx, db.DB, c.logger); err != nil {
						return err
					}

					return c.printVersion(ctx, cmd.OutOrStdout(), db)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withDB(cmd.Context(), func(ctx context.Context, db *sqlx.DB) error {
					return c.printVersion(ctx, cmd.OutOrStdout(), db)
				})
			},
		},
	)

	return cmd
}

// withDB opens the store without migrating it.
func (c *cli) withDB(ctx context.Context, fn func(context.Context, *sqlx.DB) error) (err error) {
	db, err := sqlite.Open(ctx, sqlite.Config{
		Path:         c.cfg.Database.Path,
		BusyTimeout:  c.cfg.Database.BusyTimeout,
		MaxOpenConns: c.cfg.Database.MaxOpenConns,
	}, c.logger)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, db.Close())
	}()

	return fn(ctx, db)
}

func (c *cli) printVersion(ctx context.Context, w io.Writer, db *sqlx.DB) error {
	version, err := migrations.Version(ctx, db.DB, c.logger)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if c.jsonOut {
		return c.printJSON(w, map[string]int64{"version": version})
	}

	_, err = fmt.Fprintf(w, "schema version %d\n", version)

	return err
}

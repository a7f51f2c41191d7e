package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/conceptnametag-service/internal/bootstrap"
	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
)

// errInvalid makes the process exit non-zero after rejected tags have been
// printed.
var errInvalid = errors.New("validation failed")

// cli holds the global flags and the state loaded before every subcommand.
type cli struct {
	configDir string
	profile   string
	dbPath    string
	user      string
	logLevel  string
	jsonOut   bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "tagctl",
		Short: "Manage OpenMRS concept name tags",
		Long: `tagctl validates and manages concept name tags in the service's store.

Configuration is read like the service reads it: defaults, then
<config-dir>/base.yaml, then <config-dir>/<profile>.yaml, then APP_*
environment variables. Flags override the result.

Examples:
  # Check a tag without saving it
  tagctl validate --tag "Preferred"

  # Apply pending schema migrations
  tagctl migrate up

  # Retire a tag
  tagctl void 6ba4e2e2-e1a1-4d0f-9f3e-9b3a6b9fd001 --reason "replaced"`,
		Version:           fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.load,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	flags.StringVarP(&c.profile, "profile", "p", "", "configuration profile to layer over base.yaml")
	flags.StringVar(&c.dbPath, "db", "", "database file (overrides database.path)")
	flags.StringVarP(&c.user, "user", "u", "tagctl", "user recorded as creator or voider")
	flags.StringVar(&c.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")
	flags.BoolVar(&c.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		c.newMigrateCmd(),
		c.newValidateCmd(),
		c.newCreateCmd(),
		c.newGetCmd(),
		c.newListCmd(),
		c.newVoidCmd(),
		c.newUnvoidCmd(),
		c.newPurgeCmd(),
	)

	return root
}

func (c *cli) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFrom(c.configDir, c.profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.dbPath != "" {
		cfg.Database.Path = c.dbPath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.cfg = cfg
	c.logger = logging.NewWithWriter(&logging.Config{
		Level:   c.logLevel,
		Format:  "text",
		Service: "tagctl",
		Version: Version,
	}, cmd.ErrOrStderr())

	cmd.SetContext(logging.WithContext(cmd.Context(), c.logger))

	return nil
}

// open builds the service graph and hands it to fn.
func (c *cli) open(ctx context.Context, opts bootstrap.Options, fn func(*bootstrap.Components) error) (err error) {
	components, err := bootstrap.Build(ctx, c.cfg, c.logger, opts)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, components.Close())
	}()

	return fn(components)
}

func (c *cli) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// reportRejection prints field errors and converts them into errInvalid.
// Other errors pass through untouched.
func (c *cli) reportRejection(w io.Writer, err error) error {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) == 0 {
		return err
	}

	if err := c.printFieldErrors(w, ve.Fields); err != nil {
		return err
	}

	return errInvalid
}

func (c *cli) printFieldErrors(w io.Writer, fields []domain.FieldError) error {
	if c.jsonOut {
		if fields == nil {
			fields = []domain.FieldError{}
		}

		return c.printJSON(w, validationOutput{Valid: len(fields) == 0, Errors: fields})
	}

	if len(fields) == 0 {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}

	for _, fe := range fields {
		if _, err := fmt.Fprintln(w, fe.String()); err != nil {
			return err
		}
	}

	return nil
}

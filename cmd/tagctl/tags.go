package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/conceptnametag-service/internal/bootstrap"
	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

type validationOutput struct {
	Valid  bool                `json:"valid"`
	Errors []domain.FieldError `json:"errors"`
}

// tagFlags are the editable fields shared by validate and create.
type tagFlags struct {
	tag         string
	description string
	uuid        string
	voidReason  string
}

func (f *tagFlags) register(cmd *cobra.Command, withVoidReason bool) {
	cmd.Flags().StringVar(&f.tag, "tag", "", "tag value")
	cmd.Flags().StringVar(&f.description, "description", "", "tag description")
	cmd.Flags().StringVar(&f.uuid, "uuid", "", "uuid to assign (generated when empty)")

	if withVoidReason {
		cmd.Flags().StringVar(&f.voidReason, "void-reason", "", "void reason to check against its maximum length")
	}
}

func (f *tagFlags) toDomain() *domain.ConceptNameTag {
	return &domain.ConceptNameTag{
		UUID:        f.uuid,
		Tag:         f.tag,
		Description: f.description,
		VoidReason:  f.voidReason,
	}
}

func (c *cli) newValidateCmd() *cobra.Command {
	var flags tagFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a tag against the registered rules without saving it",
		Long: `Runs every validator registered for concept name tags and prints the
rejected fields as "field: code". Exits 1 when the tag is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context(), bootstrap.Options{}, func(app *bootstrap.Components) error {
				errs, err := app.Service.Validate(cmd.Context(), flags.toDomain())
				if err != nil {
					return err
				}

				if err := c.printFieldErrors(cmd.OutOrStdout(), errs.All()); err != nil {
					return err
				}

				if errs.HasErrors() {
					return errInvalid
				}

				return nil
			})
		},
	}

	flags.register(cmd, true)

	return cmd
}

func (c *cli) newCreateCmd() *cobra.Command {
	var flags tagFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Validate and save a new tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context(), bootstrap.Options{}, func(app *bootstrap.Components) error {
				tag := flags.toDomain()
				if err := app.Service.Save(cmd.Context(), tag, c.user); err != nil {
					return c.reportRejection(cmd.OutOrStdout(), err)
				}

				return c.printTag(cmd.OutOrStdout(), tag)
			})
		},
	}

	flags.register(cmd, false)

	return cmd
}

func (c *cli) newGetCmd() *cobra.Command {
	var byName bool

	cmd := &cobra.Command{
		Use:   "get <uuid>",
		Short: "Show one tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context(), bootstrap.Options{}, func(app *bootstrap.Components) error {
				var (
					tag *domain.ConceptNameTag
					err error
				)

				if byName {
					tag, err = app.Service.GetByName(cmd.Context(), args[0])
				} else {
					tag, err = app.Service.GetByUUID(cmd.Context(), args[0])
				}

				if err != nil {
					return err
				}

				return c.printTag(cmd.OutOrStdout(), tag)
			})
		},
	}

	cmd.Flags().BoolVar(&byName, "by-name", false, "treat the argument as a tag name, matched ignoring case")

	return cmd
}

func (c *cli) newListCmd() *cobra.Command {
	var opts ports.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags ordered by tag value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context(), bootstrap.Options{}, func(app *bootstrap.Components) error {
				tags, err := app.Service.List(cmd.Context(), opts)
				if err != nil {
					return err
				}

				return c.printTags(cmd.OutOrStdout(), tags)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.IncludeVoided, "include-voided", false, "include voided tags")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of tags (default 50, at most 500)")
	cmd.Flags().StringVar(&opts.After, "after", "", "only list tags sorting after this value")

	return cmd
}

func (c *cli) newVoidCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "void <uuid>",
		Short: "Retire a tag; it keeps its name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context(), bootstrap.Options{}, func(app *bootstrap.Components) error {
				tag, err := app.Service.GetByUUID(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				tag, err = app.Service.Void(cmd.Context(), tag.ID, reason, c.user)
				if err != nil {
					return c.reportRejection(cmd.OutOrStdout(), err)
				}

				return c.printTag(cmd.OutOrStdout(), tag)
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the tag is retired (required)")

	return cmd
}

func (c *cli) newUnvoidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unvoid <uuid>",
		Short: "Restore a voided tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context(), bootstrap.Options{}, func(app *bootstrap.Components) error {
				tag, err := app.Service.GetByUUID(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				tag, err = app.Service.Unvoid(cmd.Context(), tag.ID)
				if err != nil {
					return err
				}

				return c.printTag(cmd.OutOrStdout(), tag)
			})
		},
	}
}

func (c *cli) newPurgeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "purge <uuid>",
		Short: "Delete a tag permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("purge deletes %s without history; rerun with --force or use void", args[0])
			}

			return c.open(cmd.Context(), bootstrap.Options{}, func(app *bootstrap.Components) error {
				tag, err := app.Service.GetByUUID(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if err := app.Service.Purge(cmd.Context(), tag.ID); err != nil {
					return err
				}

				if c.jsonOut {
					return c.printJSON(cmd.OutOrStdout(), map[string]string{"purged": tag.UUID})
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", tag.UUID)

				return err
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm the deletion")

	return cmd
}

func (c *cli) printTag(w io.Writer, tag *domain.ConceptNameTag) error {
	if c.jsonOut {
		return c.printJSON(w, dto.FromConceptNameTag(tag))
	}

	lines := []string{
		"uuid:         " + tag.UUID,
		"tag:          " + tag.Tag,
		"description:  " + tag.Description,
		"creator:      " + tag.Creator,
		"date created: " + tag.DateCreated.Format(time.RFC3339),
		"voided:       " + strconv.FormatBool(tag.Voided),
	}

	if tag.Voided {
		lines = append(lines,
			"voided by:    "+tag.VoidedBy,
			"void reason:  "+tag.VoidReason,
		)
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))

	return err
}

func (c *cli) printTags(w io.Writer, tags []*domain.ConceptNameTag) error {
	if c.jsonOut {
		out := make([]dto.ConceptNameTagResponse, 0, len(tags))
		for _, tag := range tags {
			out = append(out, dto.FromConceptNameTag(tag))
		}

		return c.printJSON(w, out)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("UUID", "TAG", "VOIDED", "CREATOR", "DESCRIPTION")

	for _, tag := range tags {
		t.Row(tag.UUID, tag.Tag, strconv.FormatBool(tag.Voided), tag.Creator, tag.Description)
	}

	_, err := fmt.Fprintln(w, t.String())

	return err
}

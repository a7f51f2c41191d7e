package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/conceptnametag-service/internal/validation"

// ConceptNameTagOrder is the registry order of ConceptNameTagValidator.
const ConceptNameTagOrder = 50

// ConceptNameTagger is implemented by *domain.ConceptNameTag and by any type
// embedding it, which lets wrappers be validated as tags.
type ConceptNameTagger interface {
	ConceptNameTag() *domain.ConceptNameTag
}

// ConceptNameTagValidatorConfig contains the validator's dependencies.
type ConceptNameTagValidatorConfig struct {
	// Lookup finds existing tags by name. Required.
	Lookup ports.ConceptNameTagLookup

	// Lengths enforces maximum field lengths. Required.
	Lengths ports.FieldLengthPolicy

	// Logger is optional; defaults to slog.Default().
	Logger *slog.Logger
}

// ConceptNameTagValidator checks that a tag is present, unique ignoring case
// and within its configured field lengths.
type ConceptNameTagValidator struct {
	lookup  ports.ConceptNameTagLookup
	lengths ports.FieldLengthPolicy
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewConceptNameTagValidator creates the validator.
// Panics if Lookup or Lengths is nil.
func NewConceptNameTagValidator(cfg ConceptNameTagValidatorConfig) *ConceptNameTagValidator {
	if cfg.Lookup == nil {
		panic("ConceptNameTagValidator: Lookup is required")
	}

	if cfg.Lengths == nil {
		panic("ConceptNameTagValidator: Lengths is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ConceptNameTagValidator{
		lookup:  cfg.Lookup,
		lengths: cfg.Lengths,
		tracer:  otel.Tracer(instrumentationName),
		logger:  logger.With(slog.String("component", "validation.ConceptNameTagValidator")),
	}
}

// Name implements Validator.
func (v *ConceptNameTagValidator) Name() string {
	return "ConceptNameTagValidator"
}

// Supports reports whether target is a concept name tag or embeds one.
func (v *ConceptNameTagValidator) Supports(target any) bool {
	_, ok := target.(ConceptNameTagger)
	return ok
}

// Validate implements Validator. A nil target, or a target of another type,
// is a precondition violation.
func (v *ConceptNameTagValidator) Validate(ctx context.Context, target any, errs *domain.FieldErrors) error {
	tagger, ok := target.(ConceptNameTagger)
	if !ok {
		if target == nil {
			return domain.NewInvalidArgumentError("candidate", "must not be nil")
		}

		return domain.NewInvalidArgumentError("candidate", fmt.Sprintf("unsupported type %T", target))
	}

	return v.ValidateTag(ctx, tagger.ConceptNameTag(), errs)
}

// ValidateTag runs the three tag rules in order: required, duplicate, length.
// Every failing rule appends to errs; none stops the others.
func (v *ConceptNameTagValidator) ValidateTag(ctx context.Context, candidate *domain.ConceptNameTag, errs *domain.FieldErrors) error {
	if candidate == nil {
		return domain.NewInvalidArgumentError("candidate", "must not be nil")
	}

	if errs == nil {
		return domain.NewInvalidArgumentError("errs", "must not be nil")
	}

	ctx, span := v.tracer.Start(ctx, "ConceptNameTagValidator.ValidateTag",
		trace.WithAttributes(attribute.String("tag.uuid", candidate.UUID)),
	)
	defer span.End()

	logger := logging.FromContextOr(ctx, v.logger)

	if strings.TrimSpace(candidate.Tag) == "" {
		errs.Reject(domain.FieldTag, domain.CodeRequired)
	}

	// An empty tag has nothing to compare against.
	if candidate.Tag != "" {
		existing, err := v.lookup.FindTagByName(ctx, candidate.Tag)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			logger.WarnContext(ctx, "tag lookup failed",
				slog.String("tag", candidate.Tag),
				slog.Any("error", err),
			)

			return fmt.Errorf("looking up tag %q: %w", candidate.Tag, err)
		}

		if isDuplicate(candidate, existing) {
			logger.DebugContext(ctx, "duplicate concept name tag",
				slog.String("tag", candidate.Tag),
				slog.String("existing_uuid", existing.UUID),
			)
			errs.Reject(domain.FieldTag, domain.CodeDuplicateTag)
		}
	}

	v.lengths.CheckLengths(candidate, errs, domain.FieldTag, domain.FieldVoidReason)

	span.SetAttributes(attribute.Int("validation.errors", errs.Len()))

	return nil
}

// isDuplicate re-checks the lookup result ignoring case, since the lookup may
// return a normalized or nearby match. A stored tag never duplicates itself;
// an unsaved one always can, whatever uuid the caller gave it.
func isDuplicate(candidate, existing *domain.ConceptNameTag) bool {
	if existing == nil {
		return false
	}

	if isSelf(candidate, existing) {
		return false
	}

	return domain.SameTag(existing.Tag, candidate.Tag)
}

// isSelf reports whether existing is the stored row of a persisted candidate.
// Remote lookups carry no store ID, so the uuid decides there.
func isSelf(candidate, existing *domain.ConceptNameTag) bool {
	if candidate.IsNew() {
		return false
	}

	if existing.ID != 0 {
		return existing.ID == candidate.ID
	}

	return existing.UUID != "" && existing.UUID == candidate.UUID
}

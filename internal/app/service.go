// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (create, void, purge a tag)
//   - Run business-rule validation before anything is persisted
//   - Stamp audit fields (creator, dates, voiding user)
//
// What does NOT belong here:
//   - HTTP or CLI specifics (that's adapters and cmd)
//   - SQL (that's the storage adapter)
//   - The validation rules themselves (that's internal/validation)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/conceptnametag-service/internal/app"

// Listing limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// errorsObject names the validated object in field error collections.
const errorsObject = "conceptNameTag"

// ConceptNameTagService orchestrates concept name tag use cases.
// It depends on port interfaces, not concrete implementations.
type ConceptNameTagService struct {
	repo      ports.ConceptNameTagRepository
	validator ports.EntityValidator
	now       func() time.Time
	newUUID   func() string
	tracer    trace.Tracer
	logger    *slog.Logger
}

// ConceptNameTagServiceConfig contains the service's dependencies.
type ConceptNameTagServiceConfig struct {
	// Repository persists tags. Required.
	Repository ports.ConceptNameTagRepository

	// Validator runs the registered business rules. Required.
	Validator ports.EntityValidator

	// Now defaults to time.Now.
	Now func() time.Time

	// NewUUID defaults to uuid.NewString.
	NewUUID func() string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewConceptNameTagService creates the service.
// Panics if Repository or Validator is nil.
func NewConceptNameTagService(cfg ConceptNameTagServiceConfig) *ConceptNameTagService {
	if cfg.Repository == nil {
		panic("ConceptNameTagService: Repository is required")
	}

	if cfg.Validator == nil {
		panic("ConceptNameTagService: Validator is required")
	}

	s := &ConceptNameTagService{
		repo:      cfg.Repository,
		validator: cfg.Validator,
		now:       cfg.Now,
		newUUID:   cfg.NewUUID,
		tracer:    otel.Tracer(instrumentationName),
		logger:    cfg.Logger,
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.newUUID == nil {
		s.newUUID = uuid.NewString
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.logger = s.logger.With(slog.String("component", "app.ConceptNameTagService"))

	return s
}

// loggerFor prefers the request-scoped logger.
func (s *ConceptNameTagService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

// Validate runs the registered validators without persisting anything.
// The returned collection is empty when the tag is valid.
func (s *ConceptNameTagService) Validate(ctx context.Context, tag *domain.ConceptNameTag) (errs *domain.FieldErrors, err error) {
	ctx, span := s.tracer.Start(ctx, "ConceptNameTagService.Validate")
	defer func() { endSpan(span, err) }()

	if tag == nil {
		return nil, domain.NewInvalidArgumentError("tag", "must not be nil")
	}

	errs = domain.NewFieldErrors(errorsObject)
	if err := s.validator.Validate(ctx, tag, errs); err != nil {
		return nil, fmt.Errorf("validating tag: %w", err)
	}

	span.SetAttributes(attribute.Int("validation.errors", errs.Len()))

	return errs, nil
}

// validateForSave returns a *domain.ValidationError carrying every field error
// when the tag breaks a rule.
func (s *ConceptNameTagService) validateForSave(ctx context.Context, tag *domain.ConceptNameTag) error {
	errs, err := s.Validate(ctx, tag)
	if err != nil {
		return err
	}

	return errs.Err()
}

// Save creates or updates a tag. New tags get a UUID, creator and creation
// date unless the caller set them.
func (s *ConceptNameTagService) Save(ctx context.Context, tag *domain.ConceptNameTag, user string) (err error) {
	ctx, span := s.tracer.Start(ctx, "ConceptNameTagService.Save")
	defer func() { endSpan(span, err) }()

	if tag == nil {
		return domain.NewInvalidArgumentError("tag", "must not be nil")
	}

	if tag.IsNew() {
		if tag.UUID == "" {
			tag.UUID = s.newUUID()
		}

		if tag.Creator == "" {
			tag.Creator = user
		}

		if tag.DateCreated.IsZero() {
			tag.DateCreated = s.now().UTC()
		}
	}

	span.SetAttributes(attribute.String("tag.uuid", tag.UUID), attribute.Bool("tag.new", tag.IsNew()))

	if err := s.validateForSave(ctx, tag); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, tag); err != nil {
		return fmt.Errorf("saving tag: %w", err)
	}

	s.loggerFor(ctx).InfoContext(ctx, "concept name tag saved",
		slog.Int64("id", tag.ID),
		slog.String("uuid", tag.UUID),
		slog.String("tag", tag.Tag),
	)

	return nil
}

// GetByID returns domain.ErrNotFound for unknown ids.
func (s *ConceptNameTagService) GetByID(ctx context.Context, id int64) (*domain.ConceptNameTag, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting tag %d: %w", id, err)
	}

	return tag, nil
}

// GetByUUID returns domain.ErrNotFound for unknown uuids.
func (s *ConceptNameTagService) GetByUUID(ctx context.Context, uuid string) (*domain.ConceptNameTag, error) {
	tag, err := s.repo.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("getting tag %s: %w", uuid, err)
	}

	return tag, nil
}

// GetByName finds a tag ignoring case. Returns domain.ErrNotFound when the
// store has no tag with that name.
func (s *ConceptNameTagService) GetByName(ctx context.Context, name string) (*domain.ConceptNameTag, error) {
	tag, err := s.repo.FindTagByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("finding tag %q: %w", name, err)
	}

	if tag == nil || !domain.SameTag(tag.Tag, name) {
		return nil, domain.NewNotFoundError("concept name tag", name)
	}

	return tag, nil
}

// clampListLimit bounds a page size to [1, MaxListLimit], defaulting to
// DefaultListLimit.
func clampListLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// List returns tags ordered by tag value. The limit is clamped to
// [1, MaxListLimit] and defaults to DefaultListLimit.
func (s *ConceptNameTagService) List(ctx context.Context, opts ports.ListOptions) ([]*domain.ConceptNameTag, error) {
	opts.Limit = clampListLimit(opts.Limit)

	tags, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	return tags, nil
}

// ListPage is List for paged callers. It returns the clamped page size and
// up to one tag more than that; the extra tag only signals a following page.
func (s *ConceptNameTagService) ListPage(ctx context.Context, opts ports.ListOptions) ([]*domain.ConceptNameTag, int, error) {
	limit := clampListLimit(opts.Limit)
	opts.Limit = limit + 1

	tags, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tags: %w", err)
	}

	return tags, limit, nil
}

// Void retires a tag. The reason is required. Voiding an already voided tag
// returns it unchanged.
func (s *ConceptNameTagService) Void(ctx context.Context, id int64, reason, user string) (tag *domain.ConceptNameTag, err error) {
	ctx, span := s.tracer.Start(ctx, "ConceptNameTagService.Void",
		trace.WithAttributes(attribute.Int64("tag.id", id)),
	)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(reason) == "" {
		errs := domain.NewFieldErrors(errorsObject)
		errs.Reject(domain.FieldVoidReason, domain.CodeNull)

		return nil, errs.Err()
	}

	tag, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tag.Voided {
		return tag, nil
	}

	tag.Void(user, reason, s.now().UTC())

	if err := s.validateForSave(ctx, tag); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, tag); err != nil {
		return nil, fmt.Errorf("voiding tag %d: %w", id, err)
	}

	s.loggerFor(ctx).InfoContext(ctx, "concept name tag voided",
		slog.Int64("id", id),
		slog.String("reason", reason),
	)

	return tag, nil
}

// Unvoid restores a voided tag. Unvoiding an active tag returns it unchanged.
func (s *ConceptNameTagService) Unvoid(ctx context.Context, id int64) (*domain.ConceptNameTag, error) {
	tag, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !tag.Voided {
		return tag, nil
	}

	tag.Unvoid()

	if err := s.repo.Save(ctx, tag); err != nil {
		return nil, fmt.Errorf("unvoiding tag %d: %w", id, err)
	}

	s.loggerFor(ctx).InfoContext(ctx, "concept name tag unvoided", slog.Int64("id", id))

	return tag, nil
}

// Purge permanently deletes a tag. Prefer Void: purged tags leave no history.
func (s *ConceptNameTagService) Purge(ctx context.Context, id int64) error {
	if err := s.repo.Purge(ctx, id); err != nil {
		return fmt.Errorf("purging tag %d: %w", id, err)
	}

	s.loggerFor(ctx).WarnContext(ctx, "concept name tag purged", slog.Int64("id", id))

	return nil
}

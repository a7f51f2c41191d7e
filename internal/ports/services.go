// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application and
// validation layers to depend on abstractions rather than concrete stores or
// downstream services.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
package ports

import (
	"context"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

// ConceptNameTagLookup finds existing tags by name.
// Implementations may match ignoring case or after normalization, so callers
// must not assume the returned tag's value equals the requested name.
type ConceptNameTagLookup interface {
	// FindTagByName returns the tag stored under name, or nil, nil when none exists.
	// Returns domain.ErrUnavailable if the backing store or service is unreachable.
	FindTagByName(ctx context.Context, name string) (*domain.ConceptNameTag, error)
}

// FieldLengthPolicy enforces configured maximum field lengths.
type FieldLengthPolicy interface {
	// CheckLengths rejects every named field of target whose value exceeds its
	// configured maximum. Fields without a configured maximum are not checked.
	CheckLengths(target any, errs *domain.FieldErrors, fields ...string)
}

// ListOptions controls tag listings.
type ListOptions struct {
	// IncludeVoided returns voided tags as well.
	IncludeVoided bool

	// After is an exclusive lower bound on the tag value (cursor pagination).
	After string

	// Limit caps the number of returned tags. Zero means no limit.
	Limit int
}

// ConceptNameTagRepository persists concept name tags.
type ConceptNameTagRepository interface {
	ConceptNameTagLookup

	// GetByID returns domain.ErrNotFound if the tag does not exist.
	GetByID(ctx context.Context, id int64) (*domain.ConceptNameTag, error)

	// GetByUUID returns domain.ErrNotFound if the tag does not exist.
	GetByUUID(ctx context.Context, uuid string) (*domain.ConceptNameTag, error)

	// List returns tags ordered by tag value.
	List(ctx context.Context, opts ListOptions) ([]*domain.ConceptNameTag, error)

	// Save inserts new tags (ID == 0) and updates existing ones.
	// The tag's ID is set after an insert.
	// Returns domain.ErrConflict if the store rejects a duplicate tag.
	Save(ctx context.Context, tag *domain.ConceptNameTag) error

	// Purge permanently deletes a tag.
	// Returns domain.ErrNotFound if the tag does not exist.
	Purge(ctx context.Context, id int64) error
}

// EntityValidator runs every business-rule validator registered for an
// entity's kind. Failing rules append to errs; a returned error means
// validation could not run.
type EntityValidator interface {
	Validate(ctx context.Context, entity domain.Entity, errs *domain.FieldErrors) error
}

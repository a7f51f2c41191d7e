package domain

import (
	"strings"
	"time"
)

// Kind identifies an entity type for validator dispatch.
type Kind string

// KindConceptNameTag is the kind of ConceptNameTag entities.
const KindConceptNameTag Kind = "concept_name_tag"

// Entity is implemented by every type that can be validated through a registry.
type Entity interface {
	Kind() Kind
}

// Field names of ConceptNameTag as they appear in field errors and length tables.
const (
	FieldTag         = "tag"
	FieldDescription = "description"
	FieldVoidReason  = "voidReason"
	FieldUUID        = "uuid"
)

// ConceptNameTag is a short label attached to concept names for
// categorization, e.g. "preferred" or "short".
// This is a domain entity - it has no knowledge of external systems.
type ConceptNameTag struct {
	// ID is the store key. Zero until the tag is persisted.
	ID int64

	// UUID is the stable public identifier.
	UUID string

	// Tag is the label itself. Unique ignoring case.
	Tag string

	// Description is free text explaining the tag's purpose.
	Description string

	// Creator is the user who created the tag.
	Creator string

	// DateCreated is when the tag was first saved.
	DateCreated time.Time

	// Voided marks a retired tag. Voided tags are kept for history.
	Voided bool

	// VoidedBy is the user who voided the tag.
	VoidedBy string

	// DateVoided is when the tag was voided.
	DateVoided *time.Time

	// VoidReason explains why the tag was voided.
	VoidReason string
}

// Kind implements Entity.
func (t *ConceptNameTag) Kind() Kind {
	return KindConceptNameTag
}

// ConceptNameTag returns the tag itself. It lets wrapper types that embed a
// tag be recognized by validators.
func (t *ConceptNameTag) ConceptNameTag() *ConceptNameTag {
	return t
}

// IsNew reports whether the tag has not been persisted yet.
func (t *ConceptNameTag) IsNew() bool {
	return t.ID == 0
}

// Void retires the tag.
func (t *ConceptNameTag) Void(by, reason string, at time.Time) {
	t.Voided = true
	t.VoidedBy = by
	t.VoidReason = reason
	t.DateVoided = &at
}

// Unvoid restores a voided tag and clears the void metadata.
func (t *ConceptNameTag) Unvoid() {
	t.Voided = false
	t.VoidedBy = ""
	t.VoidReason = ""
	t.DateVoided = nil
}

// FieldValue returns the string value of a named field.
// The second result is false for fields the tag does not have.
func (t *ConceptNameTag) FieldValue(field string) (string, bool) {
	switch field {
	case FieldTag:
		return t.Tag, true
	case FieldDescription:
		return t.Description, true
	case FieldVoidReason:
		return t.VoidReason, true
	case FieldUUID:
		return t.UUID, true
	default:
		return "", false
	}
}

// SameTag compares two tag values ignoring case.
func SameTag(a, b string) bool {
	return strings.EqualFold(a, b)
}

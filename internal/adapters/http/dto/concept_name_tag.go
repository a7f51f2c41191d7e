package dto

import (
	"strings"
	"time"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

// CursorField is the sort field encoded in tag listing cursors.
const CursorField = "tag"

// ConceptNameTagRequest is the body of validate, create and update requests.
// Only structural checks live here; tag rules run in the validator so that
// their message codes reach the client.
type ConceptNameTagRequest struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
	UUID        string `json:"uuid,omitempty" validate:"omitempty,uuid"`
	VoidReason  string `json:"voidReason,omitempty"`
}

// ToDomain builds an unsaved tag from the request.
func (r *ConceptNameTagRequest) ToDomain() *domain.ConceptNameTag {
	return &domain.ConceptNameTag{
		UUID:        r.UUID,
		Tag:         r.Tag,
		Description: r.Description,
		VoidReason:  r.VoidReason,
	}
}

// ApplyTo copies the editable fields onto a stored tag.
func (r *ConceptNameTagRequest) ApplyTo(tag *domain.ConceptNameTag) {
	tag.Tag = r.Tag
	tag.Description = r.Description
}

// VoidRequest is the body of a void request.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// BatchValidateRequest is the body of a batch validation request.
type BatchValidateRequest struct {
	Tags []ConceptNameTagRequest `json:"tags" validate:"required,min=1,max=200,dive"`
}

// ListRequest holds the query parameters of a listing.
type ListRequest struct {
	PaginationRequest

	IncludeVoided bool `form:"includeVoided"`
}

// ConceptNameTagResponse is the public representation of a tag.
type ConceptNameTagResponse struct {
	UUID        string     `json:"uuid"`
	Display     string     `json:"display"`
	Tag         string     `json:"tag"`
	Description string     `json:"description,omitempty"`
	Creator     string     `json:"creator,omitempty"`
	DateCreated time.Time  `json:"dateCreated"`
	Voided      bool       `json:"voided"`
	VoidedBy    string     `json:"voidedBy,omitempty"`
	DateVoided  *time.Time `json:"dateVoided,omitempty"`
	VoidReason  string     `json:"voidReason,omitempty"`
}

// FromConceptNameTag converts a domain tag.
func FromConceptNameTag(tag *domain.ConceptNameTag) ConceptNameTagResponse {
	return ConceptNameTagResponse{
		UUID:        tag.UUID,
		Display:     strings.TrimSpace(tag.Tag),
		Tag:         tag.Tag,
		Description: tag.Description,
		Creator:     tag.Creator,
		DateCreated: tag.DateCreated,
		Voided:      tag.Voided,
		VoidedBy:    tag.VoidedBy,
		DateVoided:  tag.DateVoided,
		VoidReason:  tag.VoidReason,
	}
}

// ValidationResult reports the outcome of a dry-run validation.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// NewValidationResult converts a field error collection.
func NewValidationResult(errs *domain.FieldErrors) ValidationResult {
	var all []domain.FieldError
	if errs != nil {
		all = errs.All()
	}

	return ValidationResult{Valid: len(all) == 0, Errors: FromFieldErrors(all)}
}

// BatchItemResult is the outcome for one tag of a batch. Error is set when
// the tag could not be validated at all.
type BatchItemResult struct {
	Index int `json:"index"`
	ValidationResult

	Error *ErrorDetail `json:"error,omitempty"`
}

// BatchValidateResponse lists one result per requested tag, in order.
type BatchValidateResponse struct {
	Results []BatchItemResult `json:"results"`
	Invalid int               `json:"invalid"`
}

// TagCursor builds the listing cursor for the last tag of a page.
func TagCursor(tag ConceptNameTagResponse) *CursorData {
	return NewCursor(CursorField, tag.Tag, tag.UUID)
}

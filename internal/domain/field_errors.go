package domain

import (
	"fmt"
	"strings"
)

// Error codes registered by validators. They double as message keys so
// clients can render localized text.
const (
	// CodeRequired marks a blank required field.
	CodeRequired = "error.name"

	// CodeNull marks a field that must be supplied for the operation.
	CodeNull = "error.null"

	// CodeDuplicateTag marks a tag that already exists ignoring case.
	CodeDuplicateTag = "Concept.name.tag.duplicate"

	// CodeMaxLengthExceeded marks a field longer than its configured maximum.
	// The maximum is passed as the first argument.
	CodeMaxLengthExceeded = "error.exceededMaxLengthOfField"
)

// FieldError is one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
	Args  []any  `json:"args,omitempty"`
}

// String renders the error as "field: code".
func (e FieldError) String() string {
	if len(e.Args) > 0 {
		return fmt.Sprintf("%s: %s %v", e.Field, e.Code, e.Args)
	}

	return e.Field + ": " + e.Code
}

// FieldErrors accumulates field-level validation failures.
// Validators only append to it; the caller owns and reads it.
// The zero value is ready to use.
type FieldErrors struct {
	object string
	errs   []FieldError
}

// NewFieldErrors creates an empty collection for the named object.
func NewFieldErrors(object string) *FieldErrors {
	return &FieldErrors{object: object}
}

// Object returns the name of the validated object.
func (e *FieldErrors) Object() string {
	return e.object
}

// Reject registers an error code for a field.
func (e *FieldErrors) Reject(field, code string, args ...any) {
	e.errs = append(e.errs, FieldError{Field: field, Code: code, Args: args})
}

// HasErrors reports whether any field was rejected.
func (e *FieldErrors) HasErrors() bool {
	return len(e.errs) > 0
}

// Len returns the number of registered errors.
func (e *FieldErrors) Len() int {
	return len(e.errs)
}

// All returns a copy of every registered error in registration order.
func (e *FieldErrors) All() []FieldError {
	out := make([]FieldError, len(e.errs))
	copy(out, e.errs)

	return out
}

// ForField returns the errors registered for one field.
func (e *FieldErrors) ForField(field string) []FieldError {
	var out []FieldError

	for _, fe := range e.errs {
		if fe.Field == field {
			out = append(out, fe)
		}
	}

	return out
}

// HasCode reports whether the field was rejected with the given code.
func (e *FieldErrors) HasCode(field, code string) bool {
	for _, fe := range e.errs {
		if fe.Field == field && fe.Code == code {
			return true
		}
	}

	return false
}

// Err converts the collection into a *ValidationError, or nil when empty.
func (e *FieldErrors) Err() error {
	if len(e.errs) == 0 {
		return nil
	}

	parts := make([]string, 0, len(e.errs))
	for _, fe := range e.errs {
		parts = append(parts, fe.String())
	}

	return &ValidationError{
		Field:   e.errs[0].Field,
		Message: strings.Join(parts, "; "),
		Fields:  e.All(),
	}
}

package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page sizes of list endpoints.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var (
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor marks a request for the first page.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest holds the paging query parameters.
type PaginationRequest struct {
	// Cursor is the NextCursor of the previous page.
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" validate:"omitempty,gte=1,lte=500"`
}

// GetLimit returns Limit clamped to (0, MaxLimit], or DefaultLimit when unset.
func (p *PaginationRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// DecodeCursor returns ErrNoCursor on the first page.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is one page of a listing.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPaginatedResponse builds a page from up to limit+1 fetched items. The
// extra item only signals that another page exists; the cursor points at the
// last item kept.
func NewPaginatedResponse[T any](items []T, limit int, cursorFor func(T) *CursorData) *PaginatedResponse[T] {
	page := &PaginatedResponse[T]{Items: items}

	if len(items) <= limit {
		return page
	}

	page.Items = items[:limit]
	page.HasMore = true

	if limit > 0 && cursorFor != nil {
		page.NextCursor = EncodeCursor(cursorFor(page.Items[limit-1]))
	}

	return page
}

// CursorData is the position a listing resumes after. Tags are unique
// ignoring case, so Value alone orders the listing; ID is informational.
type CursorData struct {
	Field string `json:"f"`
	Value string `json:"v"`
	ID    string `json:"id"`
}

// NewCursor creates a cursor.
func NewCursor(field, value, id string) *CursorData {
	return &CursorData{Field: field, Value: value, ID: id}
}

// EncodeCursor renders data as unpadded URL-safe base64 JSON, or "" for nil.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a cursor produced by EncodeCursor.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

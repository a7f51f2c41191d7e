package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func TestMapDomainError(t *testing.T) {
	duplicate := domain.NewFieldErrors("conceptNameTag")
	duplicate.Reject(domain.FieldTag, domain.CodeDuplicateTag)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: domain.NewNotFoundError("concept name tag", "x"), wantStatus: http.StatusNotFound, wantCode: ErrorCodeNotFound},
		{name: "conflict", err: domain.NewConflictError("concept name tag", "exists"), wantStatus: http.StatusConflict, wantCode: ErrorCodeConflict},
		{name: "field errors", err: duplicate.Err(), wantStatus: http.StatusBadRequest, wantCode: ErrorCodeValidation},
		{name: "invalid argument", err: domain.NewInvalidArgumentError("tag", "must not be nil"), wantStatus: http.StatusBadRequest, wantCode: ErrorCodeBadRequest},
		{name: "forbidden", err: domain.NewForbiddenError("lookup", "denied"), wantStatus: http.StatusForbidden, wantCode: ErrorCodeForbidden},
		{name: "unavailable", err: domain.NewUnavailableError("terminology-service", "down"), wantStatus: http.StatusServiceUnavailable, wantCode: ErrorCodeUnavailable},
		{name: "wrapped", err: fmt.Errorf("getting tag: %w", domain.NewNotFoundError("concept name tag", "x")), wantStatus: http.StatusNotFound, wantCode: ErrorCodeNotFound},
		{name: "deadline", err: fmt.Errorf("listing: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantCode: ErrorCodeTimeout},
		{name: "unknown", err: errors.New("disk on fire"), wantStatus: http.StatusInternalServerError, wantCode: ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	status, resp := MapDomainError(nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	errs := domain.NewFieldErrors("conceptNameTag")
	errs.Reject(domain.FieldTag, domain.CodeMaxLengthExceeded, 50)
	errs.Reject(domain.FieldVoidReason, domain.CodeMaxLengthExceeded, 255)

	_, resp := MapDomainError(errs.Err())
	require.Len(t, resp.Error.Fields, 2)
	assert.Equal(t, FieldError{Field: domain.FieldTag, Code: domain.CodeMaxLengthExceeded, Args: []any{50}}, resp.Error.Fields[0])
	assert.Empty(t, resp.Error.Details)

	_, resp = MapDomainError(domain.NewValidationError("reason", "required"))
	assert.Empty(t, resp.Error.Fields)
	assert.Equal(t, map[string]string{"reason": "required"}, resp.Error.Details)
}

func TestHandleError(t *testing.T) {
	c, w := newTestContext("/", "")

	HandleError(c, errors.New("sqlite: database is locked"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "locked", "internal causes stay in the logs")
}

func TestGetTraceID(t *testing.T) {
	c, _ := newTestContext("/", "")
	assert.Empty(t, GetTraceID(c))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	c.Request = c.Request.WithContext(trace.ContextWithSpanContext(c.Request.Context(), sc))

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(c))
}

func TestAbortWithCode(t *testing.T) {
	c, w := newTestContext("/", "")

	AbortWithCode(c, ErrorCodeUnauthorized, "authentication required")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":{"code":"UNAUTHORIZED","message":"authentication required"}}`, w.Body.String())
}

func TestHTTPStatusFromCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromCode(ErrorCodeBadRequest))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatusFromCode(ErrorCodeTimeout))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromCode("SOMETHING_ELSE"))
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantErr        bool
		wantValidation bool
	}{
		{name: "valid", body: `{"tag":"preferred","uuid":"6ba4e2e2-e1a1-4d0f-9f3e-9b3a6b9fd001"}`},
		{name: "uuid optional", body: `{"tag":""}`},
		{name: "bad uuid", body: `{"tag":"x","uuid":"nope"}`, wantErr: true, wantValidation: true},
		{name: "malformed", body: `{"tag":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext("/", tt.body)

			var req ConceptNameTagRequest
			err := BindAndValidate(c, &req)

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantValidation, IsValidationError(err))

			if tt.wantValidation {
				assert.Equal(t, map[string]string{"uuid": "must be a valid UUID"}, ValidationErrors(err))
			}
		})
	}
}

func TestRespondWithBindingError(t *testing.T) {
	c, w := newTestContext("/", `{"tags":[]}`)

	var req BatchValidateRequest
	err := BindAndValidate(c, &req)
	require.Error(t, err)

	RespondWithBindingError(c, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, "must be at least 1", resp.Error.Details["tags"])
}

func TestPaginationRequest_GetLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: DefaultLimit},
		{limit: -3, want: DefaultLimit},
		{limit: 10, want: 10},
		{limit: 10000, want: MaxLimit},
	}

	for _, tt := range tests {
		p := PaginationRequest{Limit: tt.limit}
		assert.Equal(t, tt.want, p.GetLimit(), "limit %d", tt.limit)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	encoded := EncodeCursor(NewCursor(CursorField, "preferred", "u-1"))

	decoded, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, &CursorData{Field: CursorField, Value: "preferred", ID: "u-1"}, decoded)

	_, err = DecodeCursor("")
	assert.ErrorIs(t, err, ErrNoCursor)

	_, err = DecodeCursor("!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	assert.Empty(t, EncodeCursor(nil))
}

func TestNewPaginatedResponse(t *testing.T) {
	items := []ConceptNameTagResponse{{UUID: "a", Tag: "alpha"}, {UUID: "b", Tag: "beta"}, {UUID: "c", Tag: "gamma"}}

	page := NewPaginatedResponse(items, 2, TagCursor)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)

	cursor, err := DecodeCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, "beta", cursor.Value)

	page = NewPaginatedResponse(items, 5, TagCursor)
	assert.Len(t, page.Items, 3)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestFromConceptNameTag(t *testing.T) {
	voidedAt := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	tag := &domain.ConceptNameTag{
		ID:          7,
		UUID:        "u-7",
		Tag:         " short ",
		Creator:     "admin",
		DateCreated: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Voided:      true,
		VoidedBy:    "admin",
		DateVoided:  &voidedAt,
		VoidReason:  "unused",
	}

	resp := FromConceptNameTag(tag)
	assert.Equal(t, "short", resp.Display)
	assert.Equal(t, " short ", resp.Tag)
	assert.Equal(t, &voidedAt, resp.DateVoided)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"id"`, "store keys are not exposed")
}

func TestNewValidationResult(t *testing.T) {
	valid := NewValidationResult(domain.NewFieldErrors("conceptNameTag"))
	assert.True(t, valid.Valid)

	raw, err := json.Marshal(valid)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":true,"errors":[]}`, string(raw))

	errs := domain.NewFieldErrors("conceptNameTag")
	errs.Reject(domain.FieldTag, domain.CodeRequired)

	invalid := NewValidationResult(errs)
	assert.False(t, invalid.Valid)
	assert.Equal(t, []FieldError{{Field: domain.FieldTag, Code: domain.CodeRequired}}, invalid.Errors)

	assert.True(t, NewValidationResult(nil).Valid)
}

func TestConceptNameTagRequest(t *testing.T) {
	req := ConceptNameTagRequest{Tag: "preferred", Description: "d", UUID: "u", VoidReason: "r"}

	tag := req.ToDomain()
	assert.True(t, tag.IsNew())
	assert.Equal(t, "preferred", tag.Tag)
	assert.Equal(t, "r", tag.VoidReason)

	stored := &domain.ConceptNameTag{ID: 3, UUID: "keep", Tag: "old"}
	req.ApplyTo(stored)
	assert.Equal(t, "keep", stored.UUID, "the uuid of a stored tag never changes")
	assert.Equal(t, "preferred", stored.Tag)
}

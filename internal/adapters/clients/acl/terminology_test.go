package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/clients"
	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLookup(t *testing.T, handler http.HandlerFunc) *TerminologyLookup {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(clients.Config{
		BaseURL:     server.URL + "/ws/rest/v1",
		ServiceName: "terminology-service",
		Timeout:     time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute, HalfOpenLimit: 1},
		Logger:  discardLogger(),
	})
	require.NoError(t, err)

	return NewTerminologyLookup(TerminologyLookupConfig{Client: client, Logger: discardLogger()})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewTerminologyLookup_RequiresClient(t *testing.T) {
	assert.Panics(t, func() { NewTerminologyLookup(TerminologyLookupConfig{}) })
}

func TestTerminologyLookup_FindTagByName(t *testing.T) {
	var gotPath, gotName string

	lookup := newTestLookup(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")

		respond(http.StatusOK, `{"results": [
			{"uuid": "u-1", "tag": "shortened", "voided": false},
			{"uuid": "u-2", "tag": "Short", "description": "short name", "voided": true,
			 "auditInfo": {"creator": {"uuid": "c-1", "display": "admin"}, "dateCreated": "2024-02-03T10:11:12.000+0100"}}
		]}`)(w, r)
	})

	tag, err := lookup.FindTagByName(context.Background(), "SHORT")
	require.NoError(t, err)
	require.NotNil(t, tag)

	assert.Equal(t, "/ws/rest/v1/concept-name-tags", gotPath)
	assert.Equal(t, "SHORT", gotName)

	assert.Equal(t, "u-2", tag.UUID)
	assert.Equal(t, "Short", tag.Tag)
	assert.Equal(t, "short name", tag.Description)
	assert.True(t, tag.Voided)
	assert.Equal(t, "admin", tag.Creator)
	assert.Equal(t, time.Date(2024, 2, 3, 9, 11, 12, 0, time.UTC), tag.DateCreated)
}

func TestTerminologyLookup_FindTagByName_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "empty results", handler: respond(http.StatusOK, `{"results": []}`)},
		{name: "404", handler: respond(http.StatusNotFound, `{"error": {"message": "no such tag"}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := newTestLookup(t, tt.handler)

			tag, err := lookup.FindTagByName(context.Background(), "preferred")
			require.NoError(t, err)
			assert.Nil(t, tag)
		})
	}
}

func TestTerminologyLookup_FindTagByName_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		errCheck func(error) bool
	}{
		{
			name:     "server error",
			handler:  respond(http.StatusInternalServerError, `{"error": {"message": "db down"}}`),
			errCheck: domain.IsUnavailable,
		},
		{
			name:     "forbidden",
			handler:  respond(http.StatusForbidden, `{"message": "privilege required"}`),
			errCheck: domain.IsForbidden,
		},
		{
			name:     "unauthorized",
			handler:  respond(http.StatusUnauthorized, ``),
			errCheck: domain.IsForbidden,
		},
		{
			name:     "rate limited",
			handler:  respond(http.StatusTooManyRequests, ``),
			errCheck: domain.IsUnavailable,
		},
		{
			name:     "malformed body",
			handler:  respond(http.StatusOK, `{"results": [`),
			errCheck: domain.IsUnavailable,
		},
		{
			name:     "result without uuid",
			handler:  respond(http.StatusOK, `{"results": [{"tag": "preferred"}]}`),
			errCheck: domain.IsUnavailable,
		},
		{
			name:     "bad request",
			handler:  respond(http.StatusBadRequest, `{"code": "BAD", "message": "name required"}`),
			errCheck: func(err error) bool { return strings.Contains(err.Error(), "name required") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := newTestLookup(t, tt.handler)

			_, err := lookup.FindTagByName(context.Background(), "preferred")
			require.Error(t, err)
			assert.True(t, tt.errCheck(err), "unexpected error: %v", err)
		})
	}
}

func TestTerminologyLookup_CircuitOpen(t *testing.T) {
	lookup := newTestLookup(t, respond(http.StatusBadGateway, ``))

	for range 2 {
		_, err := lookup.FindTagByName(context.Background(), "preferred")
		require.Error(t, err)
	}

	_, err := lookup.FindTagByName(context.Background(), "preferred")
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "circuit breaker open")

	err = lookup.Check(context.Background())
	assert.True(t, domain.IsUnavailable(err))
}

func TestTerminologyLookup_Check(t *testing.T) {
	healthy := newTestLookup(t, respond(http.StatusOK, `{"results": []}`))
	assert.Equal(t, "terminology-service", healthy.Name())
	assert.NoError(t, healthy.Check(context.Background()))

	failing := newTestLookup(t, respond(http.StatusForbidden, ``))
	assert.Error(t, failing.Check(context.Background()))
}

func TestTranslateTag(t *testing.T) {
	tag, err := translateTag(&tagDTO{UUID: "u-1", Display: "preferred", Retired: true})
	require.NoError(t, err)
	assert.Equal(t, "preferred", tag.Tag, "display is the fallback name")
	assert.True(t, tag.Voided)

	_, err = translateTag(&tagDTO{UUID: "u-1", Tag: "x", AuditInfo: &auditInfoDTO{DateCreated: "yesterday"}})
	assert.Error(t, err)
}

func TestPickMatch(t *testing.T) {
	tags := []*domain.ConceptNameTag{{Tag: "prefix"}, {Tag: "Preferred"}}

	assert.Equal(t, "Preferred", pickMatch(tags, "preferred").Tag)
	assert.Equal(t, "prefix", pickMatch(tags, "other").Tag)
	assert.Nil(t, pickMatch(nil, "preferred"))
}

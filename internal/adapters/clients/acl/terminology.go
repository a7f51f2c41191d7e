package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/clients"
	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
	"github.com/jsamuelsen/conceptnametag-service/internal/ports"
)

const tagsPath = "/concept-name-tags"

// TerminologyLookupConfig contains the lookup's dependencies.
type TerminologyLookupConfig struct {
	// Client is configured with the terminology service base URL. Required.
	Client *clients.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// TerminologyLookup finds existing tags in a remote terminology service.
// It implements ports.ConceptNameTagLookup and ports.HealthChecker.
type TerminologyLookup struct {
	client *clients.Client
	logger *slog.Logger
}

var (
	_ ports.ConceptNameTagLookup = (*TerminologyLookup)(nil)
	_ ports.HealthChecker        = (*TerminologyLookup)(nil)
)

// NewTerminologyLookup creates the lookup. Panics if Client is nil.
func NewTerminologyLookup(cfg TerminologyLookupConfig) *TerminologyLookup {
	if cfg.Client == nil {
		panic("TerminologyLookup: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TerminologyLookup{
		client: cfg.Client,
		logger: logger.With(slog.String("component", "acl.TerminologyLookup")),
	}
}

// FindTagByName returns the tag the service knows under name, or nil when
// there is none.
func (l *TerminologyLookup) FindTagByName(ctx context.Context, name string) (*domain.ConceptNameTag, error) {
	const operation = "find concept name tag"

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "terminology lookup", slog.String("tag", name))

	resp, err := l.client.Get(ctx, tagsPath, url.Values{"name": {name}})
	if err != nil {
		return nil, mapClientError(err, l.client.Name(), operation)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		mapped := mapStatus(resp, l.client.Name(), operation)
		l.logger.WarnContext(ctx, "terminology lookup rejected",
			slog.Int("status", resp.StatusCode),
			slog.Any("error", mapped),
		)

		return nil, mapped
	}

	var body resultsDTO
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewUnavailableError(l.client.Name(), fmt.Sprintf("decoding %s response: %v", operation, err))
	}

	tags, err := translateAll(body.Results)
	if err != nil {
		return nil, domain.NewUnavailableError(l.client.Name(), err.Error())
	}

	return pickMatch(tags, name), nil
}

// Name implements ports.HealthChecker.
func (l *TerminologyLookup) Name() string {
	return l.client.Name()
}

// Check implements ports.HealthChecker. It reports unhealthy while the
// circuit is open instead of adding load to a failing service.
func (l *TerminologyLookup) Check(ctx context.Context) error {
	if l.client.CircuitState() == clients.StateOpen {
		return domain.NewUnavailableError(l.client.Name(), "circuit breaker open")
	}

	resp, err := l.client.Get(ctx, tagsPath, url.Values{"limit": {"1"}})
	if err != nil {
		return mapClientError(err, l.client.Name(), "health check")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mapStatus(resp, l.client.Name(), "health check")
	}

	return nil
}

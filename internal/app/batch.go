package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

// Batch limits.
const (
	DefaultBatchConcurrency = 4
	MaxBatchSize            = 200
)

// BatchResult is the outcome for one tag of a batch. Exactly one of Errors
// and Err is meaningful: Err is set when the tag could not be validated at all.
type BatchResult struct {
	Index  int
	Tag    *domain.ConceptNameTag
	Errors *domain.FieldErrors
	Err    error
}

// Valid reports whether the tag was validated and broke no rule.
func (r BatchResult) Valid() bool {
	return r.Err == nil && r.Errors != nil && !r.Errors.HasErrors()
}

// ValidateBatch validates tags with bounded concurrency and returns one result
// per tag, in input order. A tag that cannot be validated does not stop the
// others; only a canceled context aborts the batch.
func (s *ConceptNameTagService) ValidateBatch(ctx context.Context, tags []*domain.ConceptNameTag, concurrency int) (results []BatchResult, err error) {
	ctx, span := s.tracer.Start(ctx, "ConceptNameTagService.ValidateBatch")
	defer func() { endSpan(span, err) }()

	if len(tags) > MaxBatchSize {
		return nil, domain.NewInvalidArgumentError("tags", fmt.Sprintf("at most %d tags per batch", MaxBatchSize))
	}

	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	span.SetAttributes(attribute.Int("batch.size", len(tags)), attribute.Int("batch.concurrency", concurrency))

	results = make([]BatchResult, len(tags))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, tag := range tags {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			errs, err := s.Validate(gctx, tag)
			results[i] = BatchResult{Index: i, Tag: tag, Errors: errs, Err: err}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validating batch: %w", err)
	}

	// Workers already running when the caller gives up record the
	// cancellation per tag; the batch as a whole still fails.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validating batch: %w", err)
	}

	invalid := 0
	for _, r := range results {
		if !r.Valid() {
			invalid++
		}
	}

	s.loggerFor(ctx).DebugContext(ctx, "batch validated",
		slog.Int("size", len(tags)),
		slog.Int("invalid", invalid),
	)

	return results, nil
}

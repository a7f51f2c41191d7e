// Package validation holds the business-rule validators for terminology
// entities and the registry that dispatches entities to them.
//
// Validators never stop at the first failure: every rule appends to the
// caller's domain.FieldErrors. A returned error means the validator could not
// run at all (nil input, lookup failure), never that the entity is invalid.
package validation

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
)

// Registry errors.
var (
	// ErrNoValidator is returned when no validator is registered for an entity kind.
	ErrNoValidator = errors.New("no validator registered")

	// ErrUnsupported is returned when a validator refuses the kind it is registered for.
	ErrUnsupported = errors.New("validator does not support kind")

	// ErrDuplicateValidator is returned when the same validator is registered twice for a kind.
	ErrDuplicateValidator = errors.New("validator already registered")
)

// Validator checks one entity type and records failures in errs.
type Validator interface {
	// Name identifies the validator in logs and registration errors.
	Name() string

	// Supports reports whether target is a value this validator can check.
	Supports(target any) bool

	// Validate appends field errors for target to errs.
	Validate(ctx context.Context, target any, errs *domain.FieldErrors) error
}

// registration is one validator bound to a kind.
type registration struct {
	order     int
	seq       int
	validator Validator
}

// Registry maps entity kinds to their validators. Registration happens at
// startup; dispatch is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byKind  map[domain.Kind][]registration
	seq     int
	metrics *Metrics
	logger  *slog.Logger
}

// RegistryConfig contains optional registry dependencies.
type RegistryConfig struct {
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		byKind:  make(map[domain.Kind][]registration),
		metrics: cfg.Metrics,
		logger:  logger.With(slog.String("component", "validation.Registry")),
	}
}

// Register binds v to the kind of prototype. Validators for the same kind run
// in ascending order; ties keep registration order.
func (r *Registry) Register(prototype domain.Entity, order int, v Validator) error {
	if prototype == nil || v == nil {
		return domain.NewInvalidArgumentError("registration", "prototype and validator are required")
	}

	kind := prototype.Kind()
	if !v.Supports(prototype) {
		return fmt.Errorf("%w: %s for %s", ErrUnsupported, v.Name(), kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.byKind[kind] {
		if reg.validator.Name() == v.Name() {
			return fmt.Errorf("%w: %s for %s", ErrDuplicateValidator, v.Name(), kind)
		}
	}

	r.seq++
	regs := append(r.byKind[kind], registration{order: order, seq: r.seq, validator: v})
	slices.SortStableFunc(regs, func(a, b registration) int {
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}

		return cmp.Compare(a.seq, b.seq)
	})
	r.byKind[kind] = regs

	r.logger.Debug("validator registered",
		slog.String("kind", string(kind)),
		slog.String("validator", v.Name()),
		slog.Int("order", order),
	)

	return nil
}

// Validators returns the validators for kind in execution order.
func (r *Registry) Validators(kind domain.Kind) []Validator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Validator, 0, len(r.byKind[kind]))
	for _, reg := range r.byKind[kind] {
		out = append(out, reg.validator)
	}

	return out
}

// Validate runs every validator registered for the entity's kind.
// The first validator that cannot run aborts dispatch and its error is returned.
func (r *Registry) Validate(ctx context.Context, entity domain.Entity, errs *domain.FieldErrors) error {
	if entity == nil {
		return domain.NewInvalidArgumentError("entity", "must not be nil")
	}

	if errs == nil {
		return domain.NewInvalidArgumentError("errs", "must not be nil")
	}

	kind := entity.Kind()
	validators := r.Validators(kind)
	if len(validators) == 0 {
		return fmt.Errorf("%w: %s", ErrNoValidator, kind)
	}

	logger := logging.FromContext(ctx).With(slog.String("kind", string(kind)))
	before := errs.Len()

	for _, v := range validators {
		if err := v.Validate(ctx, entity, errs); err != nil {
			logger.WarnContext(ctx, "validator could not run",
				slog.String("validator", v.Name()),
				slog.Any("error", err),
			)

			return fmt.Errorf("%s: %w", v.Name(), err)
		}
	}

	added := errs.All()[before:]
	r.metrics.observe(kind, added)

	if len(added) > 0 {
		logger.DebugContext(ctx, "validation failed", slog.Int("errors", len(added)))
	}

	return nil
}

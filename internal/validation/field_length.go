package validation

import (
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

// Limits maps entity kinds to per-field maximum lengths in characters.
type Limits map[domain.Kind]map[string]int

// DefaultLimits returns the column sizes of the concept_name_tag table.
func DefaultLimits() Limits {
	return Limits{
		domain.KindConceptNameTag: {
			domain.FieldTag:         50,
			domain.FieldDescription: 65535,
			domain.FieldVoidReason:  255,
			domain.FieldUUID:        38,
		},
	}
}

// LimitsFromMap converts a kind-keyed table as found in configuration.
func LimitsFromMap(raw map[string]map[string]int) Limits {
	limits := make(Limits, len(raw))
	for kind, fields := range raw {
		limits[domain.Kind(kind)] = maps.Clone(fields)
	}

	return limits
}

// Merge returns a copy of l with every entry of overrides applied on top.
func (l Limits) Merge(overrides Limits) Limits {
	out := l.Clone()

	for kind, fields := range overrides {
		if out[kind] == nil {
			out[kind] = make(map[string]int, len(fields))
		}

		maps.Copy(out[kind], fields)
	}

	return out
}

// Clone returns a deep copy.
func (l Limits) Clone() Limits {
	out := make(Limits, len(l))
	for kind, fields := range l {
		out[kind] = maps.Clone(fields)
	}

	return out
}

// Validate rejects non-positive maximums.
func (l Limits) Validate() error {
	for kind, fields := range l {
		for field, limit := range fields {
			if limit <= 0 {
				return fmt.Errorf("max length for %s.%s must be positive, got %d", kind, field, limit)
			}
		}
	}

	return nil
}

// FieldValuer exposes string fields by name. Entities implement it so the
// length policy can read fields without reflection.
type FieldValuer interface {
	domain.Entity
	FieldValue(field string) (string, bool)
}

// LengthPolicy enforces maximum field lengths. The limit table can be
// replaced at runtime (see LengthFileWatcher).
type LengthPolicy struct {
	mu       sync.RWMutex
	limits   Limits
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLengthPolicy creates a policy with the given limits.
func NewLengthPolicy(limits Limits, logger *slog.Logger) (*LengthPolicy, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &LengthPolicy{
		limits:   limits.Clone(),
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "validation.LengthPolicy")),
	}, nil
}

// Replace swaps the limit table. Invalid tables are rejected and the current
// table is kept.
func (p *LengthPolicy) Replace(limits Limits) error {
	if err := limits.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.limits = limits.Clone()
	p.mu.Unlock()

	return nil
}

// Limits returns a copy of the current table.
func (p *LengthPolicy) Limits() Limits {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.limits.Clone()
}

// MaxLength returns the configured maximum for a field, if any.
func (p *LengthPolicy) MaxLength(kind domain.Kind, field string) (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	limit, ok := p.limits[kind][field]

	return limit, ok
}

// CheckLengths implements ports.FieldLengthPolicy. Length is measured in
// characters, not bytes.
func (p *LengthPolicy) CheckLengths(target any, errs *domain.FieldErrors, fields ...string) {
	valuer, ok := target.(FieldValuer)
	if !ok {
		p.logger.Debug("length check skipped for unsupported target",
			slog.String("type", fmt.Sprintf("%T", target)),
		)

		return
	}

	kind := valuer.Kind()

	for _, field := range fields {
		limit, ok := p.MaxLength(kind, field)
		if !ok {
			continue
		}

		value, ok := valuer.FieldValue(field)
		if !ok {
			p.logger.Debug("unknown field in length check",
				slog.String("kind", string(kind)),
				slog.String("field", field),
			)

			continue
		}

		if err := p.validate.Var(value, "max="+strconv.Itoa(limit)); err != nil {
			errs.Reject(field, domain.CodeMaxLengthExceeded, limit)
		}
	}
}

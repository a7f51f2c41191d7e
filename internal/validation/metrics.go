package validation

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

const metricsNamespace = "conceptnametag"

// Metrics counts validation outcomes for the /-/metrics endpoint.
type Metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics creates validation metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "validation",
			Name:      "runs_total",
			Help:      "Validation runs by entity kind and result.",
		}, []string{"kind", "result"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "validation",
			Name:      "field_errors_total",
			Help:      "Field errors registered by validators.",
		}, []string{"kind", "field", "code"}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// observe records one completed validation run. Safe on a nil receiver.
func (m *Metrics) observe(kind domain.Kind, added []domain.FieldError) {
	if m == nil {
		return
	}

	result := "valid"
	if len(added) > 0 {
		result = "invalid"
	}

	m.runs.WithLabelValues(string(kind), result).Inc()

	for _, fe := range added {
		m.failures.WithLabelValues(string(kind), fe.Field, fe.Code).Inc()
	}
}

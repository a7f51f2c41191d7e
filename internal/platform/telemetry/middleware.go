package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/conceptnametag-service/internal/platform/telemetry"

// HeaderTraceID echoes the request's trace ID to the client.
const HeaderTraceID = "X-Trace-ID"

// httpMetrics holds the HTTP server instruments.
type httpMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	active   metric.Int64UpDownCounter
}

func newHTTPMetrics() (*httpMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter("http.server.request.total",
		metric.WithDescription("HTTP requests served"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("HTTP requests in flight"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{duration: duration, requests: requests, active: active}, nil
}

// operational reports whether a request targets the /-/ endpoints, which are
// neither traced nor measured.
func operational(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/-/")
}

// Middleware returns the tracing and metrics middleware, in that order.
// Spans come from otelgin; the trace ID is echoed in X-Trace-ID.
func Middleware(serviceName string) []gin.HandlerFunc {
	tracing := otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool { return !operational(r) }),
	)

	return []gin.HandlerFunc{tracing, measure()}
}

func measure() gin.HandlerFunc {
	m, err := newHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if operational(c.Request) {
			c.Next()
			return
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
			c.Header(HeaderTraceID, span.SpanContext().TraceID().String())
		}

		if m == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		start := time.Now()
		inFlight := metric.WithAttributes(attribute.String("http.method", c.Request.Method))

		m.active.Add(ctx, 1, inFlight)
		defer m.active.Add(ctx, -1, inFlight)

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		m.requests.Add(ctx, 1, attrs)
	}
}

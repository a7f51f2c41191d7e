package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/config"
	"github.com/jsamuelsen/conceptnametag-service/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/conceptnametag-service/internal/adapters/clients"

const defaultTimeout = 10 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL prefixes every request path, e.g. "http://terminology:8080/api".
	BaseURL string

	// ServiceName identifies the downstream in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries can exceed it in total.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client is an instrumented HTTP client for one downstream service.
// Idempotent requests are retried with jittered exponential backoff, and a
// circuit breaker sheds load while the downstream keeps failing.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	name    string
	retry   config.RetryConfig
	breaker *CircuitBreaker
	logger  *slog.Logger

	tracer   trace.Tracer
	duration metric.Float64Histogram
	requests metric.Int64Counter
}

// New creates a client.
func New(cfg Config) (*Client, error) {
	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of downstream HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Downstream HTTP requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	breaker := NewCircuitBreaker(cfg.Circuit)
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Transport.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.Transport.MaxIdleConns
	}

	if cfg.Transport.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.Transport.MaxIdleConnsPerHost
	}

	if cfg.Transport.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = cfg.Transport.IdleConnTimeout
	}

	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		baseURL:  base,
		name:     cfg.ServiceName,
		retry:    cfg.Retry,
		breaker:  breaker,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		requests: requests,
	}, nil
}

// Name returns the downstream service name.
func (c *Client) Name() string {
	return c.name
}

// CircuitState returns the breaker state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// Get sends a GET to path with the given query. The caller closes the body.
// Any status below 500 is returned as a response; 5xx answers are retried
// and reported as errors once attempts run out.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	target := c.resolve(path, query)
	start := time.Now()

	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.name),
		slog.String("path", target.Path),
	)

	if !c.breaker.Allow() {
		c.record(ctx, 0, time.Since(start), "circuit_open")
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "HTTP GET "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", target.String()),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	resp, err := c.attempt(ctx, target, logger)
	elapsed := time.Since(start)

	if err != nil {
		c.breaker.RecordFailure()
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, 0, elapsed, "error")
		logger.ErrorContext(ctx, "downstream request failed",
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)

		return nil, err
	}

	c.breaker.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.record(ctx, resp.StatusCode, elapsed, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.DebugContext(ctx, "downstream request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	)

	return resp, nil
}

// attempt runs the retry loop.
func (c *Client) attempt(ctx context.Context, target *url.URL, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for n := range c.retry.MaxAttempts {
		if n > 0 {
			wait := backoff(c.retry, n)
			logger.DebugContext(ctx, "retrying downstream request",
				slog.Int("attempt", n+1),
				slog.Duration("backoff", wait),
			)

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		propagateIDs(ctx, req)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		resp, err := c.http.Do(req)
		if err != nil {
			if !retryable(err) {
				return nil, err
			}

			lastErr = err

			continue
		}

		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("%s answered %d", c.name, resp.StatusCode)
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, c.retry.MaxAttempts, lastErr)
}

func (c *Client) resolve(path string, query url.Values) *url.URL {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimPrefix(path, "/")

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return &u
}

func (c *Client) record(ctx context.Context, status int, elapsed time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", http.MethodGet),
		attribute.String("peer.service", c.name),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	c.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	c.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// propagateIDs forwards the inbound request and correlation IDs.
func propagateIDs(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}
}

// backoff returns initial*multiplier^attempt capped at MaxInterval, with
// ±JitterFactor jitter.
func backoff(retry config.RetryConfig, attempt int) time.Duration {
	multiplier := retry.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	d := float64(retry.InitialInterval) * math.Pow(multiplier, float64(attempt))
	if retry.MaxInterval > 0 && d > float64(retry.MaxInterval) {
		d = float64(retry.MaxInterval)
	}

	if retry.JitterFactor > 0 {
		d += d * retry.JitterFactor * (rand.Float64()*2 - 1) //nolint:gosec // jitter only
	}

	return time.Duration(d)
}

// retryable reports whether a transport error may succeed on retry.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

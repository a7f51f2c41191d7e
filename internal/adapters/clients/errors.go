// Package clients calls downstream HTTP services. Requests carry the inbound
// request and correlation IDs, are traced and metered with OpenTelemetry,
// and go through retries and a circuit breaker.
package clients

import "errors"

// Transport-level failures. Callers translate them to domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the call without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

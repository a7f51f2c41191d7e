package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/conceptnametag-service/internal/adapters/clients"
	"github.com/jsamuelsen/conceptnametag-service/internal/domain"
)

// maxErrorBody caps how much of an error body is read.
const maxErrorBody = 4 << 10

// errorResponse accepts both the OpenMRS envelope {"error": {...}} and a flat
// {"code", "message"} body.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *errorResponse) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// parseErrorBody returns the message carried by an error body, or "".
func parseErrorBody(body io.Reader) string {
	if body == nil {
		return ""
	}

	var resp errorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&resp); err != nil {
		return ""
	}

	return resp.message()
}

// mapClientError translates transport failures. Every one of them means the
// terminology service could not answer.
func mapClientError(err error, service, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open during "+operation)
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(service, "retries exhausted during "+operation)
	default:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatus translates a non-2xx answer. 404 is handled by the caller since
// it means "not found" for lookups rather than an error.
func mapStatus(resp *http.Response, service, operation string) error {
	msg := parseErrorBody(resp.Body)
	if msg == "" {
		msg = fmt.Sprintf("%s returned HTTP %d", operation, resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.NewForbiddenError(operation, "terminology service rejected our credentials")
	case resp.StatusCode == http.StatusForbidden:
		return domain.NewForbiddenError(operation, msg)
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.NewUnavailableError(service, "rate limit exceeded")
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.NewUnavailableError(service, msg)
	default:
		// Any other 4xx means we built a request the service does not accept.
		return fmt.Errorf("%s: unexpected response from %s: %s", operation, service, msg)
	}
}

package intervals

import (
	"fmt"
	"net/http"

	"github.com/kokistudios/intervals-mcp/internal/metrics"
)

// ErrorKind classifies a failed request. Its String form is the metrics
// outcome label.
type ErrorKind int

const (
	// RequestError covers transport failures and timeouts.
	RequestError ErrorKind = iota + 1
	// InvalidResponse means the body was not JSON.
	InvalidResponse
	// HTTPError means the API answered with a status >= 400.
	HTTPError
)

func (k ErrorKind) String() string {
	switch k {
	case RequestError:
		return metrics.OutcomeRequestError
	case InvalidResponse:
		return metrics.OutcomeInvalidResponse
	case HTTPError:
		return metrics.OutcomeHTTPError
	}
	return "unknown"
}

// Failure describes why a request produced no payload. Status is zero when
// no HTTP response was received.
type Failure struct {
	Kind    ErrorKind
	Status  int
	Message string
}

var statusMessages = map[int]string{
	http.StatusUnauthorized:        "Please check your API key.",
	http.StatusForbidden:           "You may not have permission to access this resource.",
	http.StatusNotFound:            "The requested endpoint or ID doesn't exist.",
	http.StatusUnprocessableEntity: "The server couldn't process the request (invalid parameters or unsupported operation).",
	http.StatusTooManyRequests:     "Too many requests in a short time period.",
	http.StatusInternalServerError: "The Intervals.icu server encountered an internal error.",
	http.StatusServiceUnavailable:  "The Intervals.icu server might be down or undergoing maintenance.",
}

// Classify returns the user-facing message for an HTTP error status, falling
// back to the raw response body for statuses without a known phrase.
func Classify(status int, body string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return body
}

// Error renders the failure for display. Classified HTTP errors carry their
// status line as a prefix.
func (f *Failure) Error() string {
	if f.Kind == HTTPError {
		if _, ok := statusMessages[f.Status]; ok {
			return fmt.Sprintf("%d %s: %s", f.Status, http.StatusText(f.Status), f.Message)
		}
	}
	return f.Message
}

package backend

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// APIError represents a non-2xx response from the catalog backend.
type APIError struct {
	Status  int    // HTTP status code
	Message string // Server-provided message, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog API error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("catalog API error %d: %s", e.Status, http.StatusText(e.Status))
}

// statusIs reports whether err is an APIError matching the predicate.
func statusIs(err error, pred func(int) bool) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return pred(apiErr.Status)
	}
	return false
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return statusIs(err, func(s int) bool { return s == http.StatusUnauthorized })
}

// IsForbidden reports whether err is a 403 response.
// Treated as "not logged in" rather than a fatal condition.
func IsForbidden(err error) bool {
	return statusIs(err, func(s int) bool { return s == http.StatusForbidden })
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return statusIs(err, func(s int) bool { return s == http.StatusNotFound })
}

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool {
	return statusIs(err, func(s int) bool { return s >= 500 })
}

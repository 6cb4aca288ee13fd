package entities

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("entity not found")

	// ErrAmbiguous is returned when a singleton lookup matches more than one
	// entity. Shared-server state drifted; failing loudly beats patching an
	// arbitrary row.
	ErrAmbiguous = errors.New("query matched more than one entity")
)

// APIError carries a non-2xx API response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a missing-entity condition, either the
// sentinel or a 404 from the server.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == 404
	}
	return false
}

// IsValidationError reports whether err is a 4xx validation failure other
// than 404.
func IsValidationError(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == 422 || ae.StatusCode == 400
	}
	return false
}

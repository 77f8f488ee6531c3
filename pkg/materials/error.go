package materials

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoPhononData is returned when an entry exists (or not) but carries no
// phonon calculation.
var ErrNoPhononData = errors.New("materials: this materials project entry does not appear to have phonon data")

// Error represents a Materials Project API error.
type Error struct {
	// HTTPStatus is the HTTP status code.
	HTTPStatus int `json:"-"`

	// Detail is the error message reported by the API.
	Detail string `json:"detail"`

	// MaterialID is the material being looked up, when known.
	MaterialID string `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.MaterialID != "" {
		return fmt.Sprintf("materials: %s (status=%d, id=%s)", e.Detail, e.HTTPStatus, e.MaterialID)
	}
	return fmt.Sprintf("materials: %s (status=%d)", e.Detail, e.HTTPStatus)
}

// IsNotFound returns true if the API reported the resource as missing.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
}

// IsRateLimit returns true if this is a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsInvalidAPIKey returns true if this is an invalid API key error.
func (e *Error) IsInvalidAPIKey() bool {
	return e.HTTPStatus == http.StatusUnauthorized || e.HTTPStatus == http.StatusForbidden
}

// IsInvalidRequest returns true if the query was rejected.
func (e *Error) IsInvalidRequest() bool {
	return e.HTTPStatus == http.StatusBadRequest || e.HTTPStatus == http.StatusUnprocessableEntity
}

// IsServerError returns true if this is a server-side error.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable returns true if the request can be retried.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := materials.AsError(err); ok {
//	    if e.IsInvalidAPIKey() {
//	        // ask for a new key
//	    }
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound reports whether err means the material or its phonon data
// does not exist.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNoPhononData) {
		return true
	}
	if e, ok := AsError(err); ok {
		return e.IsNotFound()
	}
	return false
}

// Package studio provides a Go client for the studio app builder API.
package studio

import (
	"errors"
	"fmt"
)

// Error represents an error from the studio API with the HTTP status code
// and the server's error message.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("studio: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

func hasStatus(err error, code int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode == code
	}
	return false
}

// IsNotFound returns true if the error is a 404.
func IsNotFound(err error) bool { return hasStatus(err, 404) }

// IsInvalidInput returns true if the error is a 400.
func IsInvalidInput(err error) bool { return hasStatus(err, 400) }

// IsUnauthorized returns true if the error is a 401, such as an expired share token.
func IsUnauthorized(err error) bool { return hasStatus(err, 401) }

// IsConflict returns true if the error is a 409: a bootstrap is already running.
func IsConflict(err error) bool { return hasStatus(err, 409) }

// IsRateLimited returns true if the error is a 429 (Too Many Requests).
func IsRateLimited(err error) bool { return hasStatus(err, 429) }

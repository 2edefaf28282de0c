package gh

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v71/github"
)

// APIError represents a failed GitHub API call. Callers should prefer the
// predicate functions (IsNotFound, IsUnauthorized, etc.) over asserting on
// this type directly.
type APIError struct {
	operation  string
	statusCode int
	message    string
	err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

func (e *APIError) Unwrap() error { return e.err }

// StatusCode returns the HTTP status code from the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// Message returns the GitHub error message.
func (e *APIError) Message() string { return e.message }

// Operation returns a short description of the API call that failed.
func (e *APIError) Operation() string { return e.operation }

// wrap converts go-github errors into *APIError where a response is
// available, and annotates everything else with the operation.
func wrap(operation string, err error) error {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			operation:  operation,
			statusCode: ghErr.Response.StatusCode,
			message:    ghErr.Message,
			err:        err,
		}
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &APIError{
			operation:  operation,
			statusCode: rateErr.Response.StatusCode,
			message:    rateErr.Message,
			err:        err,
		}
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// IsNotFound reports whether err is an API error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is an API error with HTTP 401 status.
func IsUnauthorized(err error) bool { return HasStatusCode(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is an API error with HTTP 403 status.
func IsForbidden(err error) bool { return HasStatusCode(err, http.StatusForbidden) }

// HasStatusCode reports whether err is an API error whose HTTP status code matches.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}

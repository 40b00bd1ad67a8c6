package gitclient

import (
	"errors"
	"fmt"
)

// ErrServerUnavailable is returned for 5xx and 429 responses.
// Compare with errors.Is, not a type assertion.
var ErrServerUnavailable = errors.New("gitclient: server unavailable")

// ErrUnauthorized is returned for 401 responses.
var ErrUnauthorized = errors.New("gitclient: unauthorized")

// ErrPermissionDenied is returned for 403 responses.
var ErrPermissionDenied = errors.New("gitclient: permission denied")

// ErrRepositoryNotFound is returned for 404 responses.
var ErrRepositoryNotFound = errors.New("gitclient: repository not found")

// ResponseError carries the HTTP status and a truncated body preview for
// any non-success git-upload-pack response that doesn't map to one of
// the sentinel errors above.
type ResponseError struct {
	StatusCode  int
	Endpoint    string
	BodyPreview string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("gitclient: request to %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.BodyPreview)
}

// classify maps an HTTP status code to the sentinel error it matches, or
// nil if none applies.
func classify(statusCode int) error {
	switch {
	case statusCode == 401:
		return ErrUnauthorized
	case statusCode == 403:
		return ErrPermissionDenied
	case statusCode == 404:
		return ErrRepositoryNotFound
	case statusCode >= 500, statusCode == 429:
		return ErrServerUnavailable
	default:
		return nil
	}
}

// wrappedResponseError implements both Error() (from ResponseError) and
// Is/Unwrap against the matching sentinel.
type wrappedResponseError struct {
	*ResponseError
	sentinel error
}

func (e *wrappedResponseError) Unwrap() error { return e.sentinel }

func (e *wrappedResponseError) Is(target error) bool {
	return e.sentinel != nil && target == e.sentinel
}

func newResponseError(endpoint string, statusCode int, bodyPreview string) error {
	re := &ResponseError{StatusCode: statusCode, Endpoint: endpoint, BodyPreview: bodyPreview}
	if s := classify(statusCode); s != nil {
		return &wrappedResponseError{ResponseError: re, sentinel: s}
	}
	return re
}

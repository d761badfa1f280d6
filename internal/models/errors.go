package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateEmail   = errors.New("a user with this email already exists")
	ErrSetupComplete    = errors.New("setup has already been completed")
	ErrInvalidMediaType = errors.New("invalid media type")
	ErrNotConfigured    = errors.New("upstream not configured")
	ErrBadCredentials   = errors.New("invalid email or password")
)

// ValidationError reports bad client input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError from a format string
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failed call to an external catalog.
// Body holds the upstream response for logging and is never sent to clients.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

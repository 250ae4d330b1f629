// Package apperr defines the error kinds shared by the storage, service and
// HTTP layers. Callers classify errors with errors.Is against the sentinels.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that is missing a required field or is malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup by identifier that found nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a unique constraint violation.
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials marks a failed login. The message never says
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated marks a request without a usable session token.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrUpstream marks a failure reported by an external provider.
	ErrUpstream = errors.New("upstream provider failed")
)

// ValidationError describes which field of a request was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

// Required returns a ValidationError for an absent field.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}

// Invalid returns a ValidationError for a present but unacceptable field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is reports ErrValidation as a match so callers need not know the concrete type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFound wraps ErrNotFound with the kind and id of the missing record.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Upstream wraps ErrUpstream around a provider error.
func Upstream(provider string, err error) error {
	return fmt.Errorf("%s: %w: %v", provider, ErrUpstream, err)
}

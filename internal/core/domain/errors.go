package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account not found or disabled")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrResourceNotFound = errors.New("resource not found")

	ErrInvalidID          = errors.New("invalid id")
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// ValidationError describes malformed input. Details maps a field name to a
// human-readable reason and may be nil.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with no field details.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// FieldErrors builds a ValidationError whose message joins every field reason.
func FieldErrors(details map[string]string, order []string) *ValidationError {
	msgs := make([]string, 0, len(order))
	for _, field := range order {
		if reason, ok := details[field]; ok {
			msgs = append(msgs, reason)
		}
	}
	return &ValidationError{Message: strings.Join(msgs, "; "), Details: details}
}

package services

import (
	"errors"
	"strings"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrTransitionRejected = errors.New("status transition not allowed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminInactive      = errors.New("admin account is disabled")
	ErrMediaUnavailable   = errors.New("media host is not configured")
)

// ValidationError carries every failed field check of a form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func newValidationError(msgs ...string) error {
	return &ValidationError{Messages: msgs}
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

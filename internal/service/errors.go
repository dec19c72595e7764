// Package service holds the application logic between the HTTP layer and the
// store: credential checks, token minting, input validation and multi-step
// writes wrapped in transactions.
package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserInactive       = errors.New("user_inactive")
	ErrGoogleDisabled     = errors.New("google_login_disabled")
)

// ValidationError reports a rejected input field. It surfaces as an
// invalid_request response with field detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

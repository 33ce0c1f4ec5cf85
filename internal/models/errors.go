package models

import (
	"errors"
	"fmt"
)

// Error kinds shared by services and handlers.
// Services wrap them with context, handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrRateLimited       = errors.New("rate limited")
	ErrInsufficientFunds = errors.New("insufficient points")
)

// UserError is an error whose message is meant for the end user.
// It unwraps to its Kind so errors.Is keeps working.
type UserError struct {
	Kind    error
	Message string
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Kind
}

// NewUserError creates a UserError of the given kind
func NewUserError(kind error, message string) error {
	return &UserError{Kind: kind, Message: message}
}

// Validationf creates a validation UserError with a formatted message
func Validationf(format string, args ...any) error {
	return &UserError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced user, recipe, tag or
	// ingredient does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when the acting user is neither the
	// author of the resource nor an admin.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrActionImpossible is returned by toggle operations when the relation
	// is already in the requested state: adding an existing row or removing
	// an absent one.
	ErrActionImpossible = errors.New("action impossible")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a bad field value before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

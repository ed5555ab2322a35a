package service

import (
	"errors"
	"strings"
)

// Sentinel errors surfaced to the HTTP layer. Policy denials and not-found are
// distinct: a denial means the actor may not act, not that the target is absent.
var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrDepartmentNotEmpty  = errors.New("department still has employees assigned")
	ErrDepartmentNameTaken = errors.New("department name already in use")
	ErrUsernameTaken       = errors.New("username already in use")
	ErrEmployeeIDTaken     = errors.New("employee id already in use")
	ErrInvalidCredentials  = errors.New("invalid username or password")
)

// ValidationError aggregates every structural violation found in a payload so
// the caller sees the full list at once, not just the first failure.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// AsValidationError unwraps a ValidationError when err carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

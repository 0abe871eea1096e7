package profile

import (
	"errors"
	"fmt"
)

// ValidationError describes a candidate value that violated a field rule.
type ValidationError struct {
	Rule    Rule   // Rule that rejected the value
	Message string // Operator-facing description of the violated rule
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for rule.
func NewValidationError(rule Rule, message string) *ValidationError {
	return &ValidationError{Rule: rule, Message: message}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ErrUnknownField is returned when a field name is not part of the profile.
var ErrUnknownField = errors.New("unknown profile field")

func unknownField(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

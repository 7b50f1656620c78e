package stepper

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes construction failures.
type ConfigErrorCode string

const (
	// ErrCodeUnknownAlgorithm indicates an unsupported algorithm selector.
	ErrCodeUnknownAlgorithm ConfigErrorCode = "UNKNOWN_ALGORITHM"

	// ErrCodeInvalidElements indicates a non-positive element count.
	ErrCodeInvalidElements ConfigErrorCode = "INVALID_ELEMENTS"

	// ErrCodeInvalidSpeed indicates a non-positive or non-finite speed.
	ErrCodeInvalidSpeed ConfigErrorCode = "INVALID_SPEED"

	// ErrCodeInvalidInput indicates explicit input values outside [1,100].
	ErrCodeInvalidInput ConfigErrorCode = "INVALID_INPUT"
)

// ConfigError is returned when a stepper cannot be constructed.
// No stepper is ever partially built.
type ConfigError struct {
	Code    ConfigErrorCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError returns true if err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// InvariantViolation reports a defect inside a stepper. It is raised by
// panic while stepping and is never recovered into further progress: the
// sort is aborted with the context captured here.
type InvariantViolation struct {
	Algorithm Algorithm
	Message   string
	Values    []int  // array contents when the violation was detected
	State     string // cursor or stack description
	Cause     error  // underlying panic value, if it was an error
}

// Error implements the error interface.
func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s (state=%s, array=%v)",
		e.Algorithm, e.Message, e.State, e.Values)
}

// Unwrap returns the underlying cause.
func (e *InvariantViolation) Unwrap() error {
	return e.Cause
}

// IsInvariantViolation returns true if err is or wraps an *InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}

package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed indicates a value is outside its allowed set.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError describes an invalid setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Value is the invalid value.
	Value any
	// Message describes the validation error.
	Message string
	// Err is the sentinel or parse error behind the failure.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

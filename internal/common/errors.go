package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error taxonomy for the pipeline stages.
var (
	// ErrConfiguration: a required credential or endpoint is missing.
	// Fatal to the affected stage, surfaced immediately, never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrService: an outbound OCR or text-generation call failed. Caught
	// at the call boundary and converted to a tagged result value.
	ErrService = errors.New("service error")
	// ErrFormat: agent output is not parseable JSON after fence stripping.
	ErrFormat = errors.New("format error")
	// ErrInvalidInput: caller supplied an unusable request.
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError builds a CONFIG_ERROR for a missing required setting.
func ConfigError(message string) *AppError {
	return NewAppError("CONFIG_ERROR", message, ErrConfiguration)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

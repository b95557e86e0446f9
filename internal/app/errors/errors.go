package errors

import (
	"fmt"
)

// Common error types
var (
	// Configuration errors
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidAPIKey = New("invalid API key format")
	ErrMissingConfig = New("configuration is required")
	ErrInvalidConfig = New("invalid configuration")

	// Engine errors
	ErrEngineNotFound = New("engine not found")
	ErrEngineDisabled = New("engine is disabled")
	ErrEngineTimeout  = New("engine timeout")

	// Job errors
	ErrJobNotFound     = New("job not found")
	ErrJobCancelled    = New("job cancelled")
	ErrInvalidInput    = New("invalid input")
	ErrEmptyAudio      = New("audio payload is empty")
	ErrUnknownFormat   = New("unknown audio container format")
	ErrFormatMismatch  = New("declared format does not match audio bytes")
	ErrPayloadTooLarge = New("audio payload exceeds size limit")

	// Database errors
	ErrDatabaseConnection = New("database connection failed")
	ErrQueryFailed        = New("query failed")
	ErrInsertFailed       = New("insert failed")

	// File errors
	ErrFileNotFound    = New("file not found")
	ErrFileWriteFailed = New("file write failed")

	// Network errors
	ErrConnectionFailed = New("connection failed")
	ErrRequestFailed    = New("request failed")
	ErrResponseInvalid  = New("invalid response")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return Newf("%s not found: %s", itemType, identifier)
}

// Timeout returns a timeout error
func Timeout(operation string, duration string) error {
	return Newf("%s timeout after %s", operation, duration)
}

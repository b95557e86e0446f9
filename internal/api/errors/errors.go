package errors

import (
	"fmt"
	"net/http"
)

// ErrorKind represents different types of API errors. The job kinds are
// the same strings the worker core puts in failed job envelopes, so an
// error looks identical whether it surfaces at the HTTP layer or inside
// a FAILED job.
type ErrorKind string

const (
	// Job failure kinds, shared with the worker core.
	KindInvalidInput  ErrorKind = "invalid_input"
	KindDecodeError   ErrorKind = "decode_error"
	KindFormatError   ErrorKind = "format_error"
	KindFetchError    ErrorKind = "fetch_error"
	KindIOError       ErrorKind = "io_error"
	KindEngineError   ErrorKind = "engine_error"
	KindInternalError ErrorKind = "internal_error"

	// API-layer kinds.
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindBadRequest         ErrorKind = "bad_request"
	KindServiceUnavailable ErrorKind = "service_unavailable"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest, KindInvalidInput, KindDecodeError, KindFormatError:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindFetchError:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternalError,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// FromJobError lifts a job failure (kind + message from the worker core)
// into an API error, keeping both strings verbatim.
func FromJobError(kind, message string) *APIError {
	return &APIError{
		Kind:    ErrorKind(kind),
		Message: message,
	}
}

// Package errors provides typed error definitions for steward.
// This package consolidates error handling and provides structured error types
// that can be used for better error classification and handling.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Lifecycle errors
	ErrLifecycleInvalidState ErrorCode = "LIFECYCLE_INVALID_STATE"
	ErrLifecycleStartFailed  ErrorCode = "LIFECYCLE_START_FAILED"
	ErrLifecycleStopFailed   ErrorCode = "LIFECYCLE_STOP_FAILED"

	// Datastore errors
	ErrDatastoreConnect ErrorCode = "DATASTORE_CONNECT_FAILED"
	ErrDatastoreClose   ErrorCode = "DATASTORE_CLOSE_FAILED"
	ErrDatastoreQuery   ErrorCode = "DATASTORE_QUERY_FAILED"
	ErrDatastoreMigrate ErrorCode = "DATASTORE_MIGRATE_FAILED"

	// Listener errors
	ErrListenerBind  ErrorCode = "LISTENER_BIND_FAILED"
	ErrListenerClose ErrorCode = "LISTENER_CLOSE_FAILED"

	// Configuration errors
	ErrConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Validation errors
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrInvalidPort  ErrorCode = "INVALID_PORT"

	// Network/API errors
	ErrAPICall ErrorCode = "API_CALL"

	// Internal errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	ErrNotFound ErrorCode = "NOT_FOUND"
	ErrTimeout  ErrorCode = "TIMEOUT"
)

// StewardError represents a structured error with additional context
type StewardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *StewardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *StewardError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *StewardError) WithContext(key string, value interface{}) *StewardError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause error
func (e *StewardError) WithCause(cause error) *StewardError {
	e.Cause = cause
	return e
}

// GetHTTPStatus returns the appropriate HTTP status code for this error
func (e *StewardError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}

	switch e.Code {
	case ErrConfigNotFound, ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidInput, ErrInvalidPort, ErrConfigValidation:
		return http.StatusBadRequest
	case ErrLifecycleInvalidState:
		return http.StatusConflict
	case ErrTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new StewardError
func New(code ErrorCode, message string) *StewardError {
	return &StewardError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new StewardError with details
func NewWithDetails(code ErrorCode, message, details string) *StewardError {
	return &StewardError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new StewardError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *StewardError {
	return &StewardError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsStewardError checks if an error is a StewardError
func IsStewardError(err error) bool {
	_, ok := err.(*StewardError)
	return ok
}

// GetCode extracts the error code from an error, if it's a StewardError
func GetCode(err error) ErrorCode {
	if se, ok := err.(*StewardError); ok {
		return se.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

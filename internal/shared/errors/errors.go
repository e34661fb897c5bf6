package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code    string // Error code for client
	Message string // Human-readable message
	Details any    // Optional structured detail, serialised as-is
	Err     error  // Underlying error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnsupportedFile  = "UNSUPPORTED_FORMAT"
	ErrCodeEmptyInput       = "EMPTY_INPUT"
	ErrCodeParse            = "PARSE_ERROR"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrCodeServiceUnhealthy = "SERVICE_UNAVAILABLE"
)

var statusByCode = map[string]int{
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeUnsupportedFile:  http.StatusBadRequest,
	ErrCodeEmptyInput:       http.StatusBadRequest,
	ErrCodeParse:            http.StatusUnprocessableEntity,
	ErrCodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeServiceUnhealthy: http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status code for the error's code.
// Unknown codes are treated as internal errors.
func (e *AppError) HTTPStatus() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithDetails returns a copy of the error carrying details
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation creates a validation error
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// Internal creates an internal error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

// UnsupportedFormat creates an unsupported file format error
func UnsupportedFormat(message string) *AppError {
	return New(ErrCodeUnsupportedFile, message)
}

// EmptyInput creates an empty input error
func EmptyInput(message string) *AppError {
	return New(ErrCodeEmptyInput, message)
}

// Parse creates a row parsing error
func Parse(message string, err error) *AppError {
	return Wrap(err, ErrCodeParse, message)
}

// PayloadTooLarge creates a payload too large error
func PayloadTooLarge(message string) *AppError {
	return New(ErrCodePayloadTooLarge, message)
}

// GetAppError extracts an AppError from an error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

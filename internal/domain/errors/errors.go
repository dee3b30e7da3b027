package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Error codes shared by the domain packages and the API layer
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNumericFormat = "NUMERIC_FORMAT_ERROR"
	CodeNameFormat    = "NAME_FORMAT_ERROR"
	CodeEmptyQuestion = "EMPTY_QUESTION"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodePersistence   = "PERSISTENCE_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError is a custom error type for application errors
type AppError struct {
	Code       string
	Message    string
	StatusCode int // Same rule as HTTP status codes
	Err        error
	Details    map[string]interface{}
}

// Error returns a string representation of the error
func (e AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is implements the errors.Is interface
func (e AppError) Is(target error) bool {
	if target, ok := target.(AppError); ok {
		return target.Code == e.Code
	}
	return false
}

// Unwrap returns the underlying error
func (e AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to the error
func (e AppError) WithDetail(key string, value interface{}) AppError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// Sentinel values usable as errors.Is targets.
var (
	ErrValidation    = AppError{Code: CodeValidation}
	ErrNumericFormat = AppError{Code: CodeNumericFormat}
	ErrNameFormat    = AppError{Code: CodeNameFormat}
	ErrEmptyQuestion = AppError{Code: CodeEmptyQuestion}
	ErrInvalidInput  = AppError{Code: CodeInvalidInput}
	ErrNotFound      = AppError{Code: CodeNotFound}
	ErrConflict      = AppError{Code: CodeConflict}
	ErrUpstream      = AppError{Code: CodeUpstream}
	ErrPersistence   = AppError{Code: CodePersistence}
)

// NewValidationError creates a new validation error
func NewValidationError(message string) AppError {
	return AppError{
		Code:       CodeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewMissingFieldsError reports every missing required field at once.
// The field list keeps the order it was given in.
func NewMissingFieldsError(fields []string) AppError {
	return NewValidationError("missing required fields: "+strings.Join(fields, ", ")).
		WithDetail("missingFields", fields)
}

// NewNumericFormatError creates an error for values that must parse as numbers
func NewNumericFormatError(fields []string) AppError {
	return AppError{
		Code:       CodeNumericFormat,
		Message:    "tax base and tax rate must be numbers",
		StatusCode: http.StatusBadRequest,
		Details:    map[string]interface{}{"fields": fields},
	}
}

// NewNameFormatError creates an error for a name without a surname component
func NewNameFormatError(message string) AppError {
	return AppError{
		Code:       CodeNameFormat,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewEmptyQuestionError creates an error for a blank question
func NewEmptyQuestionError() AppError {
	return AppError{
		Code:       CodeEmptyQuestion,
		Message:    "question must not be empty",
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(message string, err error) AppError {
	return AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) AppError {
	return AppError{
		Code:       CodeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) AppError {
	return AppError{
		Code:       CodeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewUpstreamError wraps a failure of the answering service
func NewUpstreamError(message string, err error) AppError {
	return AppError{
		Code:       CodeUpstream,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// NewPersistenceError wraps a store read/write failure
func NewPersistenceError(message string, err error) AppError {
	return AppError{
		Code:       CodePersistence,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) AppError {
	return AppError{
		Code:       CodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

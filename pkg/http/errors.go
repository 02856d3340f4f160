package http

import (
	"fmt"
	"net/http"
)

// Error codes carried in AppError.Code.
const (
	CodeInvalidInput    = "ERR_INVALID_INPUT"
	CodeDataUnavailable = "ERR_DATA_UNAVAILABLE"
	CodeRateLimited     = "ERR_RATE_LIMITED"
	CodeInternal        = "ERR_INTERNAL"
)

// AppError is an error with a stable code and the HTTP status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithError records the underlying cause. It is never serialized.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// InvalidInputError is a 400 for a malformed or out-of-range parameter.
func InvalidInputError(field, message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Field: field, Message: message, Status: http.StatusBadRequest}
}

// DataUnavailableError is a 503 for a missing source, model or collaborator.
func DataUnavailableError(message string) *AppError {
	return &AppError{Code: CodeDataUnavailable, Message: message, Status: http.StatusServiceUnavailable}
}

func TooManyRequestsError(message string) *AppError {
	return &AppError{Code: CodeRateLimited, Message: message, Status: http.StatusTooManyRequests}
}

func InternalError(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError}
}

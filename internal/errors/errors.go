// Package errors provides custom error types for the stockval API.
// All service-layer errors should use AppError to ensure consistent
// error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Data availability errors. These are raised deliberately when the upstream
// provider has no usable data for a ticker and must pass through to the
// client as 404s unchanged.
var (
	ErrNoCashflowData = &AppError{Code: "NO_CASHFLOW_DATA", Message: "No free cash flow data found for this ticker", StatusCode: http.StatusNotFound}
)

// Request errors.
var (
	ErrInvalidTicker = &AppError{Code: "INVALID_TICKER", Message: "Invalid ticker symbol", StatusCode: http.StatusBadRequest}
)

// Computation errors.
var (
	ErrCalculationFailed = &AppError{Code: "CALCULATION_FAILED", Message: "Valuation calculation failed", StatusCode: http.StatusInternalServerError}
)

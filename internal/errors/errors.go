// Package errors provides custom error types for the Moneta engine.
// All repository and scheduler errors use AppError so that storage-port
// failures are wrapped into a fixed taxonomy and never leak raw driver
// errors to callers.
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

// Storage-port errors. Every storage failure surfaces as one of these three.
var (
	ErrSaveFailed   = &AppError{Code: "SAVE_FAILED", Message: "Failed to save record", StatusCode: http.StatusInternalServerError}
	ErrFetchFailed  = &AppError{Code: "FETCH_FAILED", Message: "Failed to fetch records", StatusCode: http.StatusInternalServerError}
	ErrDeleteFailed = &AppError{Code: "DELETE_FAILED", Message: "Failed to delete record", StatusCode: http.StatusInternalServerError}
)

// General errors.
var (
	ErrNotFound    = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInvalidData = &AppError{Code: "INVALID_DATA", Message: "Invalid data", StatusCode: http.StatusBadRequest}
)

// Entity lookup errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrBudgetNotFound      = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrRecurringNotFound   = &AppError{Code: "RECURRING_NOT_FOUND", Message: "Recurring transaction not found", StatusCode: http.StatusNotFound}
	ErrWalletNotFound      = &AppError{Code: "WALLET_NOT_FOUND", Message: "Wallet not found", StatusCode: http.StatusNotFound}
)

// Budget invariant errors.
var (
	ErrDuplicateBudget = &AppError{Code: "DUPLICATE_BUDGET", Message: "A budget already exists for this category", StatusCode: http.StatusConflict}
)

// Insights errors.
var (
	ErrSuperseded = &AppError{Code: "SUPERSEDED", Message: "Computation superseded by a newer request", StatusCode: http.StatusConflict}
)

// Package errors provides custom error types for the Daybook API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Event errors.
var (
	ErrEventNotFound = &AppError{Code: "EVENT_NOT_FOUND", Message: "Event not found", StatusCode: http.StatusNotFound}
	ErrInvalidTimes  = &AppError{Code: "INVALID_TIMES", Message: "Event end must be after its start", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Budget category not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound  = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// Habit, journal, recipe and vault errors.
var (
	ErrHabitNotFound      = &AppError{Code: "HABIT_NOT_FOUND", Message: "Habit not found", StatusCode: http.StatusNotFound}
	ErrHabitEntryNotFound = &AppError{Code: "HABIT_ENTRY_NOT_FOUND", Message: "Habit entry not found", StatusCode: http.StatusNotFound}
	ErrJournalNotFound    = &AppError{Code: "JOURNAL_ENTRY_NOT_FOUND", Message: "Journal entry not found", StatusCode: http.StatusNotFound}
	ErrRecipeNotFound     = &AppError{Code: "RECIPE_NOT_FOUND", Message: "Recipe not found", StatusCode: http.StatusNotFound}
	ErrVaultItemNotFound  = &AppError{Code: "VAULT_ITEM_NOT_FOUND", Message: "Vault item not found", StatusCode: http.StatusNotFound}
	ErrSecretUnavailable  = &AppError{Code: "SECRET_UNAVAILABLE", Message: "Secret could not be read", StatusCode: http.StatusInternalServerError}
)

// Calendar sync errors. These mirror the failure modes of the external
// calendar integrations: a provider that was never connected, credentials
// that have been revoked, an OAuth exchange that failed, or a remote read
// that could not complete.
var (
	ErrProviderNotFound    = &AppError{Code: "PROVIDER_NOT_FOUND", Message: "Unknown calendar provider", StatusCode: http.StatusNotFound}
	ErrAccountNotFound     = &AppError{Code: "CALENDAR_ACCOUNT_NOT_FOUND", Message: "Calendar account not found", StatusCode: http.StatusNotFound}
	ErrNotAuthorized       = &AppError{Code: "NOT_AUTHORIZED", Message: "Calendar provider is not connected", StatusCode: http.StatusUnauthorized}
	ErrNotAuthenticated    = &AppError{Code: "NOT_AUTHENTICATED", Message: "Calendar credentials are invalid or revoked", StatusCode: http.StatusUnauthorized}
	ErrTokenExchangeFailed = &AppError{Code: "TOKEN_EXCHANGE_FAILED", Message: "Could not exchange the authorization code", StatusCode: http.StatusBadGateway}
	ErrFetchFailed         = &AppError{Code: "FETCH_FAILED", Message: "Could not read from the remote calendar", StatusCode: http.StatusBadGateway}
	ErrSyncFailed          = &AppError{Code: "SYNC_FAILED", Message: "Calendar sync failed", StatusCode: http.StatusBadGateway}
)

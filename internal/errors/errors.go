// Package errors provides custom error types for the Patrimony API.
// Engine and service errors use AppError so handlers can produce consistent
// responses that never leak internal details to clients.
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

// Is matches two AppErrors by code, so wrapped copies of a sentinel still
// satisfy errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

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
	ErrUnauthorized   = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Holding errors.
var (
	ErrNameRequired         = &AppError{Code: "NAME_REQUIRED", Message: "A holding needs a name", StatusCode: http.StatusBadRequest}
	ErrUnknownField         = &AppError{Code: "UNKNOWN_FIELD", Message: "This field cannot be edited", StatusCode: http.StatusBadRequest}
	ErrHoldingNotFound      = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Holding not found", StatusCode: http.StatusNotFound}
	ErrConfirmationRequired = &AppError{Code: "CONFIRMATION_REQUIRED", Message: "This action is destructive and must be confirmed", StatusCode: http.StatusPreconditionRequired}
)

// Import errors.
var (
	ErrImportNotList   = &AppError{Code: "IMPORT_NOT_LIST", Message: "Invalid file: the content is not a list", StatusCode: http.StatusBadRequest}
	ErrImportMalformed = &AppError{Code: "IMPORT_MALFORMED", Message: "The file could not be read; make sure it comes from an export", StatusCode: http.StatusBadRequest}
)

// Price refresh errors.
var (
	ErrNoPriceIdentifiers     = &AppError{Code: "NO_PRICE_IDENTIFIERS", Message: "No price identifiers are set for this scope", StatusCode: http.StatusUnprocessableEntity}
	ErrRefreshInProgress      = &AppError{Code: "REFRESH_IN_PROGRESS", Message: "A refresh is already running", StatusCode: http.StatusConflict}
	ErrPriceSourceUnavailable = &AppError{Code: "PRICE_SOURCE_UNAVAILABLE", Message: "Prices could not be fetched; manual entry remains available", StatusCode: http.StatusBadGateway}
)

// Backup errors.
var (
	ErrBackupNotConfigured = &AppError{Code: "BACKUP_NOT_CONFIGURED", Message: "No remote backup destination is configured", StatusCode: http.StatusServiceUnavailable}
)

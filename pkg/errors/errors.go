package errors

import "fmt"

// AppError represents a custom application error
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidationFailed   = "VALIDATION_ERROR"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeNoToken            = "NO_TOKEN"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeSessionRevoked     = "SESSION_REVOKED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeAccountInactive    = "ACCOUNT_INACTIVE"
	ErrCodeAccountPending     = "ACCOUNT_PENDING"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeDBError            = "DB_ERROR"
	ErrCodeInternalError      = "SERVER_ERROR"
	ErrCodeTimeout            = "TIMEOUT"
)

// NewAppError creates a new application error
func NewAppError(code, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Common errors
var (
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "Invalid email or password", 401)
	ErrNoToken            = NewAppError(ErrCodeNoToken, "No session credential provided", 401)
	ErrInvalidToken       = NewAppError(ErrCodeInvalidToken, "Invalid session token", 401)
	ErrSessionExpired     = NewAppError(ErrCodeSessionExpired, "Session expired", 401)
	ErrSessionRevoked     = NewAppError(ErrCodeSessionRevoked, "Session revoked", 401)
	ErrForbidden          = NewAppError(ErrCodeForbidden, "You do not have permission to perform this action", 403)
	ErrAccountInactive    = NewAppError(ErrCodeAccountInactive, "This account has been deactivated", 403)
	ErrAccountPending     = NewAppError(ErrCodeAccountPending, "This account is awaiting approval", 403)
	ErrRateLimited        = NewAppError(ErrCodeRateLimited, "Too many login attempts", 429)
	ErrNotFound           = NewAppError(ErrCodeNotFound, "Resource not found", 404)
	ErrDBError            = NewAppError(ErrCodeDBError, "A storage error occurred", 500)
	ErrTimeout            = NewAppError(ErrCodeTimeout, "Upstream request timed out", 504)
)

package domain

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	TokenCookieName = "token"
)

var (
	MessageSuccess              = "success"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageServerError          = "Server error"
	MessageTooManyRequests      = "Too many requests from this IP, please try again later"
)

// AppError is the error type every layer returns for anticipated failures.
// Status is the HTTP status the boundary answers with, Code is the stable
// machine readable identifier clients switch on.
type AppError struct {
	Status  int
	Code    string
	Message string
	Errors  []string
	Err     error
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

// Is reports whether target is an *AppError with the same code, so sentinel
// values keep working after WithMessage/WithErrors copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy carrying a more specific message.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// WithErrors returns a copy carrying field level messages.
func (e *AppError) WithErrors(errs []string) *AppError {
	cp := *e
	cp.Errors = errs
	return &cp
}

// Wrap returns a copy that unwraps to err.
func (e *AppError) Wrap(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

func NewAuthError(code, message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func NewAuthorizationError(code, message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: code, Message: message}
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func NewNotFoundError(code, message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: code, Message: message}
}

// AsAppError extracts the *AppError from err, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	// authentication
	ErrAuthRequired       = NewAuthError("AUTH_REQUIRED", "Authentication required. Please log in to access this resource")
	ErrTokenInvalid       = NewAuthError("INVALID_TOKEN", "Invalid token. Please log in again")
	ErrTokenExpired       = NewAuthError("TOKEN_EXPIRED", "Token expired. Please log in again")
	ErrUserNotFound       = NewAuthError("USER_NOT_FOUND", "The user associated with this token no longer exists")
	ErrAccountDeactivated = NewAuthError("ACCOUNT_DEACTIVATED", "This account has been deactivated")

	// authorization
	ErrInsufficientPermissions = NewAuthorizationError("INSUFFICIENT_PERMISSIONS", "Access denied. Your role is not authorized to access this resource")
	ErrNoRoleAssigned          = NewAuthorizationError("NO_ROLE_ASSIGNED", "User has no assigned role")
	// The public API answers 401 for ownership failures on recipe mutation.
	ErrNotResourceOwner = &AppError{Status: http.StatusUnauthorized, Code: "NOT_RESOURCE_OWNER", Message: "User is not authorized to modify this resource"}

	// request shape
	ErrValidation   = NewValidationError("VALIDATION_ERROR", "Validation Error")
	ErrInvalidID    = NewValidationError("INVALID_ID", "Invalid ID format")
	ErrInvalidQuery = NewValidationError("INVALID_QUERY", "Invalid query parameter")

	ErrNotFound       = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrRateLimited    = &AppError{Status: http.StatusTooManyRequests, Code: "RATE_LIMITED", Message: MessageTooManyRequests}
	ErrStorageOffline = &AppError{Status: http.StatusServiceUnavailable, Code: "STORAGE_UNAVAILABLE", Message: "File storage is not configured"}
	ErrInternal       = &AppError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: MessageServerError}
)

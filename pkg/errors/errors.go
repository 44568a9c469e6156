package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the authentication domain. Services wrap these so
// callers can branch with errors.Is without depending on AppError internals.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrOneTimeToken       = errors.New("invalid or expired one-time token")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrDelivery           = errors.New("message delivery failed")
	ErrInternal           = errors.New("internal error")
)

// AppError is a structured application error carrying a machine-readable
// code and the HTTP status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a 400 error for malformed, caller-fixable input.
func Validation(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation,
	}
}

// InvalidCredentials creates a 401 error. The message is identical whether
// the account does not exist or the password was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidCredentials,
	}
}

// AccountLocked creates a 423 error for a temporarily locked account.
func AccountLocked() *AppError {
	return &AppError{
		Code:    "ACCOUNT_LOCKED",
		Message: "account is temporarily locked due to too many failed login attempts",
		Status:  http.StatusLocked,
		Err:     ErrAccountLocked,
	}
}

// TokenExpired creates a 401 error for a correctly signed but expired bearer
// token. The distinct code tells clients a refresh may succeed.
func TokenExpired() *AppError {
	return &AppError{
		Code:    "TOKEN_EXPIRED",
		Message: "token has expired",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenExpired,
	}
}

// TokenInvalid creates a 401 error for a malformed or forged bearer token.
func TokenInvalid() *AppError {
	return &AppError{
		Code:    "TOKEN_INVALID",
		Message: "token is not valid",
		Status:  http.StatusUnauthorized,
		Err:     ErrTokenInvalid,
	}
}

// OneTimeTokenInvalid creates a 400 error for a password-reset or
// email-verification token. Not-found and expired collapse into one message
// so callers cannot probe which tokens exist.
func OneTimeTokenInvalid() *AppError {
	return &AppError{
		Code:    "INVALID_OR_EXPIRED_TOKEN",
		Message: "invalid or expired token",
		Status:  http.StatusBadRequest,
		Err:     ErrOneTimeToken,
	}
}

// DuplicateAccount creates a 409 error.
func DuplicateAccount(email string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_ACCOUNT",
		Message: fmt.Sprintf("an account with email %q already exists", email),
		Status:  http.StatusConflict,
		Err:     ErrDuplicateAccount,
	}
}

// AlreadyVerified creates a 400 error.
func AlreadyVerified() *AppError {
	return &AppError{
		Code:    "ALREADY_VERIFIED",
		Message: "email is already verified",
		Status:  http.StatusBadRequest,
		Err:     ErrAlreadyVerified,
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Internal creates a 500 error. The wrapped cause is logged server-side and
// never detailed to the caller.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrInternal, err),
	}
}

// Delivery wraps an email collaborator failure. It is never returned to HTTP
// callers as the outcome of the triggering operation; services log it and
// roll back any half-issued one-time secret.
func Delivery(err error) error {
	return fmt.Errorf("%w: %w", ErrDelivery, err)
}

// HTTPStatus returns the HTTP status code for err, falling back on sentinel
// matching when err is not an AppError.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrOneTimeToken), errors.Is(err, ErrAlreadyVerified):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountLocked):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

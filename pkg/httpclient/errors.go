package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/taskmaster/auth-service/pkg/errors"
)

// ErrorEnvelope mirrors the {"error": {...}} structure returned by the
// auth service. It is used to parse structured error bodies from responses.
type ErrorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into the matching AppError. The mapping is code-driven so clients can
// branch with errors.Is: a TOKEN_EXPIRED body always yields an error matching
// apperrors.ErrTokenExpired, regardless of how the transport delivered it.
//
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("auth service returned status %d (failed to read body: %w)", resp.StatusCode, err)
	}

	var envelope ErrorEnvelope
	if json.Unmarshal(bodyBytes, &envelope) == nil && envelope.Error != nil {
		return mapErrorCode(resp.StatusCode, envelope.Error.Code, envelope.Error.Message)
	}

	return fmt.Errorf("auth service returned status %d: %s", resp.StatusCode, string(bodyBytes))
}

// mapErrorCode translates an error code from the wire into the corresponding
// AppError, preserving the sentinel chain.
func mapErrorCode(status int, code, message string) error {
	switch code {
	case "TOKEN_EXPIRED":
		return apperrors.TokenExpired()
	case "TOKEN_INVALID":
		return apperrors.TokenInvalid()
	case "INVALID_CREDENTIALS":
		return apperrors.InvalidCredentials()
	case "ACCOUNT_LOCKED":
		return apperrors.AccountLocked()
	case "INVALID_OR_EXPIRED_TOKEN":
		return apperrors.OneTimeTokenInvalid()
	case "ALREADY_VERIFIED":
		return apperrors.AlreadyVerified()
	case "VALIDATION_ERROR":
		return apperrors.Validation(message)
	case "DUPLICATE_ACCOUNT":
		return &apperrors.AppError{
			Code:    code,
			Message: message,
			Status:  http.StatusConflict,
			Err:     apperrors.ErrDuplicateAccount,
		}
	case "NOT_FOUND":
		return &apperrors.AppError{
			Code:    code,
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	default:
		return &apperrors.AppError{
			Code:    code,
			Message: message,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskmaster/auth-service/internal/domain"
	"github.com/taskmaster/auth-service/internal/service"
	apperrors "github.com/taskmaster/auth-service/pkg/errors"
	"github.com/taskmaster/auth-service/pkg/middleware"
	"github.com/taskmaster/auth-service/pkg/validator"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service       *service.AccountService
	logger        *slog.Logger
	refreshExpiry time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new auth HTTP handler. secureCookies should be
// false only in development, where there is no TLS.
func NewAuthHandler(svc *service.AccountService, refreshExpiry time.Duration, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		logger:        logger,
		refreshExpiry: refreshExpiry,
		secureCookies: secureCookies,
	}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for account registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the JSON request body for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the JSON request body for completing a password reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// RefreshRequest carries the refresh token for clients that cannot use
// cookies. Browser clients send the cookie instead.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// --- Response types ---

// SessionResponse carries the account and its access token. For browser
// clients the refresh token is delivered only as an HTTP-only cookie;
// RefreshToken is set only when the caller presented the previous one in the
// request body.
type SessionResponse struct {
	Account      *domain.Account `json:"account"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"`
}

// --- Handlers ---

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account, tokens, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)
	writeJSON(w, http.StatusCreated, response{
		Data: SessionResponse{Account: account, AccessToken: tokens.AccessToken},
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	account, tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)
	writeJSON(w, http.StatusOK, response{
		Data: SessionResponse{Account: account, AccessToken: tokens.AccessToken},
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	if accountID == "" {
		writeAppError(w, apperrors.TokenInvalid())
		return
	}

	if err := h.service.Logout(r.Context(), accountID); err != nil {
		writeAppError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /api/v1/auth/refresh. Browser clients present the
// HTTP-only cookie set at login; other clients may send the token in the
// body and get the rotated one back the same way.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var raw string
	fromBody := false
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		raw = cookie.Value
	} else if r.ContentLength > 0 {
		var req RefreshRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		raw = req.RefreshToken
		fromBody = true
	}
	if raw == "" {
		writeAppError(w, apperrors.TokenInvalid())
		return
	}

	account, tokens, err := h.service.RefreshAccessToken(r.Context(), raw)
	if err != nil {
		if !fromBody {
			h.clearRefreshCookie(w)
		}
		writeAppError(w, err)
		return
	}

	payload := SessionResponse{Account: account, AccessToken: tokens.AccessToken}
	if fromBody {
		payload.RefreshToken = tokens.RefreshToken
	} else {
		h.setRefreshCookie(w, tokens.RefreshToken)
	}
	writeJSON(w, http.StatusOK, response{Data: payload})
}

// ForgotPassword handles POST /api/v1/auth/password/forgot
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeAppError(w, err)
		return
	}

	// Identical response whether or not the account exists.
	writeJSON(w, http.StatusOK, response{
		Data: map[string]string{"status": "if the email exists, a reset link has been sent"},
	})
}

// VerifyResetToken handles GET /api/v1/auth/password/reset/{token}/verify
func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.service.VerifyResetToken(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "valid"}})
}

// ResetPassword handles POST /api/v1/auth/password/reset/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if err := h.service.ConsumePasswordReset(r.Context(), chi.URLParam(r, "token"), req.NewPassword); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "password updated"}})
}

// ResendVerification handles POST /api/v1/auth/verify-email
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	if accountID == "" {
		writeAppError(w, apperrors.TokenInvalid())
		return
	}

	if err := h.service.RequestEmailVerification(r.Context(), accountID); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "verification email sent"}})
}

// VerifyEmail handles GET /api/v1/auth/verify-email/{token}
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.ConsumeEmailVerification(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: account})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.AccountIDFromContext(r.Context())
	if accountID == "" {
		writeAppError(w, apperrors.TokenInvalid())
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: account})
}

// --- helpers ---

func (h *AuthHandler) decodeBody(w http.ResponseWriter, r *http.Request, req any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeBadBody(w, err)
		return false
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

// setRefreshCookie scopes the refresh token to the auth routes; no other
// endpoint ever sees it.
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/v1/auth",
		MaxAge:   int(h.refreshExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

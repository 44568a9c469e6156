package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taskmaster/auth-service/internal/domain"
	"github.com/taskmaster/auth-service/internal/service"
	"github.com/taskmaster/auth-service/pkg/validator"
)

// FederatedVerifier validates a provider-issued ID token and extracts the
// identity it asserts.
type FederatedVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*domain.FederatedIdentity, error)
}

// OAuthHandler exchanges provider ID tokens for local sessions.
type OAuthHandler struct {
	service  *service.AccountService
	verifier FederatedVerifier
	auth     *AuthHandler
	logger   *slog.Logger
}

func NewOAuthHandler(svc *service.AccountService, verifier FederatedVerifier, auth *AuthHandler, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{service: svc, verifier: verifier, auth: auth, logger: logger}
}

// GoogleTokenRequest is the JSON request body for the Google token exchange.
type GoogleTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// GoogleToken handles POST /api/v1/auth/google/token
func (h *OAuthHandler) GoogleToken(w http.ResponseWriter, r *http.Request) {
	var req GoogleTokenRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadBody(w, err)
		return
	}
	if err := validator.Validate(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		writeAppError(w, err)
		return
	}

	account, tokens, err := h.service.LinkOrCreateFederatedAccount(r.Context(), *identity)
	if err != nil {
		writeAppError(w, err)
		return
	}

	h.auth.setRefreshCookie(w, tokens.RefreshToken)
	writeJSON(w, http.StatusOK, response{
		Data: SessionResponse{Account: account, AccessToken: tokens.AccessToken},
	})
}

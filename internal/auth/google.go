package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/taskmaster/auth-service/internal/domain"
	apperrors "github.com/taskmaster/auth-service/pkg/errors"
)

const googleIssuer = "https://accounts.google.com"

// GoogleVerifier validates Google ID tokens against Google's published keys.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier discovers Google's OIDC configuration. The provider
// fetch hits the network, so callers should pass a bounded context.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discovering google oidc provider: %w", err)
	}

	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify checks the ID token signature, issuer, audience, and expiry, and
// maps the claims to a federated identity.
func (v *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*domain.FederatedIdentity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, apperrors.TokenInvalid()
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, apperrors.TokenInvalid()
	}

	return &domain.FederatedIdentity{
		Provider:      "google",
		SubjectID:     idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		FirstName:     claims.GivenName,
		LastName:      claims.FamilyName,
	}, nil
}

package domain

import (
	"time"
)

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account represents a registered account in the system. PasswordHash is nil
// for accounts created through a federated identity provider that never set
// a local password.
type Account struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash *string `json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         string  `json:"role"`
	IsActive     bool    `json:"is_active"`

	EmailVerified           bool       `json:"email_verified"`
	VerificationTokenDigest *string    `json:"-"`
	VerificationExpiresAt   *time.Time `json:"-"`

	// Brute-force lockout state. FailedLoginAttempts counts consecutive
	// failures; LockedUntil is set once the threshold is crossed.
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	// Single active refresh token, stored as a digest. Overwritten on every
	// login and refresh, which revokes the previous one.
	RefreshTokenDigest *string `json:"-"`

	ResetTokenDigest *string    `json:"-"`
	ResetExpiresAt   *time.Time `json:"-"`

	// Federated identity link. Subject IDs are only meaningful per provider.
	Provider          *string `json:"provider,omitempty"`
	ProviderSubjectID *string `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasLocalCredential reports whether the account can authenticate with a
// password at all.
func (a *Account) HasLocalCredential() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}

// IsLocked reports whether the account is locked out at the given instant.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// FederatedIdentity is a provider-asserted identity used to link or create
// an account.
type FederatedIdentity struct {
	Provider      string
	SubjectID     string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

package repository

import (
	"context"
	"time"

	"github.com/taskmaster/auth-service/internal/domain"
)

// AccountRepository defines the interface for account persistence operations.
// One-time token consumption and refresh rotation are single conditional
// statements so concurrent redemptions cannot both succeed.
type AccountRepository interface {
	// Create inserts a new account into the store.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by email address, matched
	// case-insensitively.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetByFederatedID retrieves the account linked to the given provider
	// subject.
	GetByFederatedID(ctx context.Context, provider, subjectID string) (*domain.Account, error)

	// Update modifies an existing account's profile fields and password hash.
	Update(ctx context.Context, account *domain.Account) error

	// RecordLoginFailure atomically increments the consecutive-failure
	// counter and sets lockedUntil once the count reaches threshold. It
	// returns the post-increment state.
	RecordLoginFailure(ctx context.Context, id string, threshold int, lockedUntil time.Time) (int, *time.Time, error)

	// RecordLoginSuccess clears the lockout state, stamps last_login_at and
	// stores the new refresh token digest, all in one statement.
	RecordLoginSuccess(ctx context.Context, id, refreshDigest string) error

	// ResetLockout clears the failure counter and any active lock.
	ResetLockout(ctx context.Context, id string) error

	// SetRefreshTokenDigest overwrites the stored refresh token digest,
	// revoking whatever token was active before.
	SetRefreshTokenDigest(ctx context.Context, id, digest string) error

	// RotateRefreshToken replaces oldDigest with newDigest only if oldDigest
	// is still the active one. A stale oldDigest returns ErrNotFound.
	RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error

	// ClearRefreshToken removes the active refresh token, ending the session.
	ClearRefreshToken(ctx context.Context, id string) error

	// SetResetToken stores a password reset token digest and its expiry,
	// replacing any outstanding one.
	SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error

	// GetByResetTokenDigest retrieves the account holding an unexpired reset
	// token without consuming it, used to pre-validate a reset link.
	GetByResetTokenDigest(ctx context.Context, digest string) (*domain.Account, error)

	// ConsumeResetToken redeems an unexpired reset token by digest, clearing
	// it in the same statement, and returns the owning account. An unknown
	// or expired digest returns ErrNotFound.
	ConsumeResetToken(ctx context.Context, digest string) (*domain.Account, error)

	// ClearResetToken removes an outstanding reset token without redeeming
	// it, used to roll back when the email cannot be sent.
	ClearResetToken(ctx context.Context, id string) error

	// SetVerificationToken stores an email verification token digest and its
	// expiry, replacing any outstanding one.
	SetVerificationToken(ctx context.Context, id, digest string, expiresAt time.Time) error

	// ConsumeVerificationToken redeems an unexpired verification token by
	// digest, marking the email verified and clearing the token in the same
	// statement. An unknown or expired digest returns ErrNotFound.
	ConsumeVerificationToken(ctx context.Context, digest string) (*domain.Account, error)

	// ClearVerificationToken removes an outstanding verification token
	// without redeeming it.
	ClearVerificationToken(ctx context.Context, id string) error

	// LinkFederatedIdentity attaches a provider subject to an existing
	// account, optionally marking the email verified on the provider's
	// assertion. The password hash is never touched.
	LinkFederatedIdentity(ctx context.Context, id, provider, subjectID string, emailVerified bool) error
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskmaster/auth-service/internal/domain"
	"github.com/taskmaster/auth-service/pkg/database"
	apperrors "github.com/taskmaster/auth-service/pkg/errors"
)

const accountColumns = `id, email, password_hash, first_name, last_name, role, is_active,
	email_verified, verification_token_digest, verification_expires_at,
	failed_login_attempts, locked_until, refresh_token_digest,
	reset_token_digest, reset_expires_at, provider, provider_subject_id,
	last_login_at, created_at, updated_at`

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db database.DBTX
}

// NewAccountRepository creates a new PostgreSQL-backed account repository.
func NewAccountRepository(db database.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account into the database.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, role, is_active, email_verified, provider, provider_subject_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.Email,
		a.PasswordHash,
		a.FirstName,
		a.LastName,
		a.Role,
		a.IsActive,
		a.EmailVerified,
		a.Provider,
		a.ProviderSubjectID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateAccount(a.Email)
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves an account by email, matched case-insensitively.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`

	return r.scanAccount(r.db.QueryRow(ctx, query, email))
}

// GetByFederatedID retrieves the account linked to a provider subject.
func (r *AccountRepository) GetByFederatedID(ctx context.Context, provider, subjectID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE provider = $1 AND provider_subject_id = $2`

	return r.scanAccount(r.db.QueryRow(ctx, query, provider, subjectID))
}

// Update modifies an existing account's profile fields and password hash.
func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET email = $1, password_hash = $2, first_name = $3, last_name = $4, role = $5,
		    is_active = $6, email_verified = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		a.Email,
		a.PasswordHash,
		a.FirstName,
		a.LastName,
		a.Role,
		a.IsActive,
		a.EmailVerified,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateAccount(a.Email)
		}
		return fmt.Errorf("update account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", a.ID)
	}

	return nil
}

// RecordLoginFailure atomically increments the failure counter. The lock is
// applied inside the same statement so two racing failures cannot both read
// a pre-threshold count and skip locking.
func (r *AccountRepository) RecordLoginFailure(ctx context.Context, id string, threshold int, lockedUntil time.Time) (int, *time.Time, error) {
	query := `
		UPDATE accounts
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE WHEN failed_login_attempts + 1 >= $2 THEN $3 ELSE locked_until END,
		    updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until`

	var attempts int
	var lock *time.Time
	err := r.db.QueryRow(ctx, query, id, threshold, lockedUntil).Scan(&attempts, &lock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, apperrors.ErrNotFound
		}
		return 0, nil, fmt.Errorf("record login failure: %w", err)
	}

	return attempts, lock, nil
}

// RecordLoginSuccess clears lockout state, stamps the login time and stores
// the new refresh token digest in one statement.
func (r *AccountRepository) RecordLoginSuccess(ctx context.Context, id, refreshDigest string) error {
	query := `
		UPDATE accounts
		SET failed_login_attempts = 0, locked_until = NULL,
		    refresh_token_digest = $2, last_login_at = now(), updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "record login success", query, id, refreshDigest)
}

// ResetLockout clears the failure counter and any active lock.
func (r *AccountRepository) ResetLockout(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET failed_login_attempts = 0, locked_until = NULL, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "reset lockout", query, id)
}

// SetRefreshTokenDigest overwrites the active refresh token digest.
func (r *AccountRepository) SetRefreshTokenDigest(ctx context.Context, id, digest string) error {
	query := `
		UPDATE accounts
		SET refresh_token_digest = $2, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "set refresh token", query, id, digest)
}

// RotateRefreshToken replaces the active digest only when it still matches
// oldDigest. A refresh token that was already rotated or revoked rotates
// zero rows.
func (r *AccountRepository) RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error {
	query := `
		UPDATE accounts
		SET refresh_token_digest = $3, updated_at = now()
		WHERE id = $1 AND refresh_token_digest = $2`

	return r.execExpectingRow(ctx, "rotate refresh token", query, id, oldDigest, newDigest)
}

// ClearRefreshToken removes the active refresh token.
func (r *AccountRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET refresh_token_digest = NULL, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "clear refresh token", query, id)
}

// SetResetToken stores a password reset token digest and expiry.
func (r *AccountRepository) SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	query := `
		UPDATE accounts
		SET reset_token_digest = $2, reset_expires_at = $3, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "set reset token", query, id, digest, expiresAt)
}

// GetByResetTokenDigest retrieves the account holding an unexpired reset
// token without consuming it.
func (r *AccountRepository) GetByResetTokenDigest(ctx context.Context, digest string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE reset_token_digest = $1 AND reset_expires_at > now()`

	return r.scanAccount(r.db.QueryRow(ctx, query, digest))
}

// ConsumeResetToken redeems an unexpired reset token, clearing it in the
// same statement. Concurrent redemptions of one digest cannot both match.
func (r *AccountRepository) ConsumeResetToken(ctx context.Context, digest string) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET reset_token_digest = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE reset_token_digest = $1 AND reset_expires_at > now()
		RETURNING ` + accountColumns

	return r.scanAccount(r.db.QueryRow(ctx, query, digest))
}

// ClearResetToken removes an outstanding reset token without redeeming it.
func (r *AccountRepository) ClearResetToken(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET reset_token_digest = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "clear reset token", query, id)
}

// SetVerificationToken stores an email verification token digest and expiry.
func (r *AccountRepository) SetVerificationToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	query := `
		UPDATE accounts
		SET verification_token_digest = $2, verification_expires_at = $3, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "set verification token", query, id, digest, expiresAt)
}

// ConsumeVerificationToken redeems an unexpired verification token, marking
// the email verified and clearing the token in one statement.
func (r *AccountRepository) ConsumeVerificationToken(ctx context.Context, digest string) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET email_verified = TRUE, verification_token_digest = NULL,
		    verification_expires_at = NULL, updated_at = now()
		WHERE verification_token_digest = $1 AND verification_expires_at > now()
		RETURNING ` + accountColumns

	return r.scanAccount(r.db.QueryRow(ctx, query, digest))
}

// ClearVerificationToken removes an outstanding verification token.
func (r *AccountRepository) ClearVerificationToken(ctx context.Context, id string) error {
	query := `
		UPDATE accounts
		SET verification_token_digest = NULL, verification_expires_at = NULL, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "clear verification token", query, id)
}

// LinkFederatedIdentity attaches a provider subject to an existing account.
func (r *AccountRepository) LinkFederatedIdentity(ctx context.Context, id, provider, subjectID string, emailVerified bool) error {
	query := `
		UPDATE accounts
		SET provider = $2, provider_subject_id = $3,
		    email_verified = email_verified OR $4, updated_at = now()
		WHERE id = $1`

	return r.execExpectingRow(ctx, "link federated identity", query, id, provider, subjectID, emailVerified)
}

// execExpectingRow runs an UPDATE that must affect exactly one row.
func (r *AccountRepository) execExpectingRow(ctx context.Context, op, query string, args ...any) error {
	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanAccount reads a single account row.
func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.Role,
		&a.IsActive,
		&a.EmailVerified,
		&a.VerificationTokenDigest,
		&a.VerificationExpiresAt,
		&a.FailedLoginAttempts,
		&a.LockedUntil,
		&a.RefreshTokenDigest,
		&a.ResetTokenDigest,
		&a.ResetExpiresAt,
		&a.Provider,
		&a.ProviderSubjectID,
		&a.LastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	return &a, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/taskmaster/auth-service/internal/auth"
	"github.com/taskmaster/auth-service/internal/domain"
	"github.com/taskmaster/auth-service/internal/lockout"
	"github.com/taskmaster/auth-service/internal/mailer"
	"github.com/taskmaster/auth-service/internal/repository"
	"github.com/taskmaster/auth-service/internal/token"
	apperrors "github.com/taskmaster/auth-service/pkg/errors"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// dummyBcryptHash is a valid bcrypt hash of an arbitrary string. It is
// compared against when the account lookup misses, so that a login attempt
// for an unknown email costs the same as one with a wrong password.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, hash, plaintext string) (bool, error)
}

// EventPublisher publishes auth domain events. Publish failures never fail
// the triggering operation.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, account *domain.Account) error
	PublishAccountLocked(ctx context.Context, accountID string, attempts int, lockedUntil time.Time) error
	PublishPasswordReset(ctx context.Context, account *domain.Account) error
	PublishEmailVerified(ctx context.Context, account *domain.Account) error
	PublishFederatedLinked(ctx context.Context, accountID, provider string) error
}

// AccountService implements the business logic for account and auth
// operations.
type AccountService struct {
	repo     repository.AccountRepository
	hasher   PasswordHasher
	jwt      *auth.JWTManager
	lockout  *lockout.Policy
	mailer   mailer.Mailer
	producer EventPublisher
	logger   *slog.Logger

	clientURL       string
	lockoutDuration time.Duration
	resetTTL        time.Duration
	verificationTTL time.Duration

	now func() time.Time
}

// Params collects the collaborators and policy knobs for NewAccountService.
type Params struct {
	Repo     repository.AccountRepository
	Hasher   PasswordHasher
	JWT      *auth.JWTManager
	Lockout  *lockout.Policy
	Mailer   mailer.Mailer
	Producer EventPublisher
	Logger   *slog.Logger

	ClientURL            string
	LockoutDuration      time.Duration
	ResetTokenTTL        time.Duration
	VerificationTokenTTL time.Duration
}

// NewAccountService creates a new account service.
func NewAccountService(p Params) *AccountService {
	return &AccountService{
		repo:            p.Repo,
		hasher:          p.Hasher,
		jwt:             p.JWT,
		lockout:         p.Lockout,
		mailer:          p.Mailer,
		producer:        p.Producer,
		logger:          p.Logger,
		clientURL:       p.ClientURL,
		lockoutDuration: p.LockoutDuration,
		resetTTL:        p.ResetTokenTTL,
		verificationTTL: p.VerificationTokenTTL,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account, hashes the password, and returns tokens.
// The verification email is fire-and-forget: a delivery failure is logged
// and the half-issued secret rolled back, but registration still succeeds.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Account, *domain.TokenPair, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		return nil, nil, apperrors.Validation("email is required")
	}
	if input.FirstName == "" {
		return nil, nil, apperrors.Validation("first name is required")
	}
	if input.LastName == "" {
		return nil, nil, apperrors.Validation("last name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: &hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	tokens, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("issue session: %w", err)
	}

	s.sendVerificationEmail(ctx, account)

	if err := s.producer.PublishAccountRegistered(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.registered event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, tokens, nil
}

// Login authenticates an account with email and password, returning tokens.
// A locked account is rejected before any hashing work happens.
func (s *AccountService) Login(ctx context.Context, email, loginPassword string) (*domain.Account, *domain.TokenPair, error) {
	if email == "" {
		return nil, nil, apperrors.Validation("email is required")
	}
	if loginPassword == "" {
		return nil, nil, apperrors.Validation("password is required")
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Burn the same hashing cost as a real comparison.
			_, _ = s.hasher.Verify(ctx, dummyBcryptHash, loginPassword)
			return nil, nil, apperrors.InvalidCredentials()
		}
		return nil, nil, fmt.Errorf("get account by email: %w", err)
	}

	if s.lockout.IsLocked(account.LockedUntil, s.now()) {
		return nil, nil, apperrors.AccountLocked()
	}

	if !account.IsActive {
		return nil, nil, apperrors.InvalidCredentials()
	}

	if !account.HasLocalCredential() {
		// Federated-only account; a password can never match.
		_, _ = s.hasher.Verify(ctx, dummyBcryptHash, loginPassword)
		return nil, nil, apperrors.InvalidCredentials()
	}

	ok, err := s.hasher.Verify(ctx, *account.PasswordHash, loginPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, nil, s.recordFailedLogin(ctx, account)
	}

	tokens, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.InfoContext(ctx, "account logged in",
		slog.String("account_id", account.ID),
	)

	return account, tokens, nil
}

// Logout clears the stored refresh token so it can no longer be exchanged.
// Logging out an already logged-out account is a no-op.
func (s *AccountService) Logout(ctx context.Context, accountID string) error {
	err := s.repo.ClearRefreshToken(ctx, accountID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("clear refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "account logged out",
		slog.String("account_id", accountID),
	)
	return nil
}

// RefreshAccessToken exchanges a refresh token for a new token pair,
// rotating the stored refresh token. Any defect in the presented token,
// including expiry or an already-rotated value, is a forced re-login.
func (s *AccountService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.Account, *domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, apperrors.TokenInvalid()
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	account, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.TokenInvalid()
		}
		return nil, nil, fmt.Errorf("get account for refresh: %w", err)
	}

	presented := token.Digest(refreshToken)
	if account.RefreshTokenDigest == nil || *account.RefreshTokenDigest != presented {
		return nil, nil, apperrors.TokenInvalid()
	}

	tokens, err := s.generateTokenPair(account)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	// Conditional rotation: if a concurrent refresh already spent this
	// token, the rotate matches zero rows and this caller loses.
	err = s.repo.RotateRefreshToken(ctx, account.ID, presented, token.Digest(tokens.RefreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.TokenInvalid()
		}
		return nil, nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "tokens refreshed",
		slog.String("account_id", account.ID),
	)

	return account, tokens, nil
}

// RequestPasswordReset issues a reset secret and hands it to the email
// collaborator. The caller always sees success, whether or not the account
// exists.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.Validation("email is required")
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get account by email: %w", err)
	}

	if !account.HasLocalCredential() {
		// Nothing to reset for a federated-only account.
		s.logger.InfoContext(ctx, "password reset requested for federated-only account",
			slog.String("account_id", account.ID),
		)
		return nil
	}

	raw, digest, err := token.Generate()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	if err := s.repo.SetResetToken(ctx, account.ID, digest, s.now().Add(s.resetTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	body, err := mailer.ResetEmail(s.clientURL, account.FirstName, raw, ttlText(s.resetTTL))
	if err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	if err := s.mailer.Send(ctx, account.Email, mailer.SubjectResetPassword, body); err != nil {
		// The raw token is now undeliverable; a stored digest would be a
		// valid secret nobody can ever present. Roll it back.
		if clearErr := s.repo.ClearResetToken(ctx, account.ID); clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back reset token after delivery failure",
				slog.String("account_id", account.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		s.logger.ErrorContext(ctx, "reset email delivery failed",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("account_id", account.ID),
	)
	return nil
}

// VerifyResetToken reports whether a raw reset token is currently
// redeemable, without consuming it. Used by clients to validate a reset link
// before showing the new-password form.
func (s *AccountService) VerifyResetToken(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return apperrors.OneTimeTokenInvalid()
	}

	_, err := s.repo.GetByResetTokenDigest(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.OneTimeTokenInvalid()
		}
		return fmt.Errorf("look up reset token: %w", err)
	}
	return nil
}

// ConsumePasswordReset redeems a reset token and installs a new password.
// Redemption also clears lockout state and revokes the active refresh token,
// so a compromised session does not survive the reset.
func (s *AccountService) ConsumePasswordReset(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return apperrors.OneTimeTokenInvalid()
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	account, err := s.repo.ConsumeResetToken(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.OneTimeTokenInvalid()
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	account.PasswordHash = &hash
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.ResetLockout(ctx, account.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to reset lockout after password reset",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.repo.ClearRefreshToken(ctx, account.ID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to revoke session after password reset",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishPasswordReset(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish password_reset event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.sendNotice(ctx, account, mailer.SubjectPasswordChanged, mailer.PasswordChangedEmail)

	s.logger.InfoContext(ctx, "password reset completed",
		slog.String("account_id", account.ID),
	)
	return nil
}

// RequestEmailVerification issues a fresh verification secret for an
// authenticated account that has not verified yet.
func (s *AccountService) RequestEmailVerification(ctx context.Context, accountID string) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("account", accountID)
		}
		return fmt.Errorf("get account: %w", err)
	}

	if account.EmailVerified {
		return apperrors.AlreadyVerified()
	}

	if !s.sendVerificationEmail(ctx, account) {
		return apperrors.Internal(errors.New("verification email could not be issued"))
	}

	return nil
}

// ConsumeEmailVerification redeems a verification token, marking the email
// verified.
func (s *AccountService) ConsumeEmailVerification(ctx context.Context, rawToken string) (*domain.Account, error) {
	if rawToken == "" {
		return nil, apperrors.OneTimeTokenInvalid()
	}

	account, err := s.repo.ConsumeVerificationToken(ctx, token.Digest(rawToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.OneTimeTokenInvalid()
		}
		return nil, fmt.Errorf("consume verification token: %w", err)
	}

	if err := s.producer.PublishEmailVerified(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish email_verified event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.sendNotice(ctx, account, mailer.SubjectEmailVerified, mailer.EmailVerifiedEmail)

	s.logger.InfoContext(ctx, "email verified",
		slog.String("account_id", account.ID),
	)
	return account, nil
}

// LinkOrCreateFederatedAccount signs in a provider-asserted identity.
// Resolution order: provider subject match, then email match (linking the
// subject to the existing account), then a fresh account with no local
// password. An existing password hash is never overwritten.
func (s *AccountService) LinkOrCreateFederatedAccount(ctx context.Context, identity domain.FederatedIdentity) (*domain.Account, *domain.TokenPair, error) {
	if identity.Provider == "" || identity.SubjectID == "" {
		return nil, nil, apperrors.Validation("provider identity is incomplete")
	}
	if identity.Email == "" {
		return nil, nil, apperrors.Validation("provider did not supply an email address")
	}

	account, err := s.repo.GetByFederatedID(ctx, identity.Provider, identity.SubjectID)
	switch {
	case err == nil:
		// Known federated account.
	case errors.Is(err, apperrors.ErrNotFound):
		account, err = s.linkOrCreateByEmail(ctx, identity)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("get account by federated id: %w", err)
	}

	if s.lockout.IsLocked(account.LockedUntil, s.now()) {
		return nil, nil, apperrors.AccountLocked()
	}
	if !account.IsActive {
		return nil, nil, apperrors.InvalidCredentials()
	}

	tokens, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.InfoContext(ctx, "federated login",
		slog.String("account_id", account.ID),
		slog.String("provider", identity.Provider),
	)

	return account, tokens, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("account", id)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// --- internals ---

func (s *AccountService) linkOrCreateByEmail(ctx context.Context, identity domain.FederatedIdentity) (*domain.Account, error) {
	account, err := s.repo.GetByEmail(ctx, identity.Email)
	if err == nil {
		// Existing local account; attach the provider subject. Federated
		// providers are trusted to have verified email ownership.
		if err := s.repo.LinkFederatedIdentity(ctx, account.ID, identity.Provider, identity.SubjectID, true); err != nil {
			return nil, fmt.Errorf("link federated identity: %w", err)
		}
		account.Provider = &identity.Provider
		account.ProviderSubjectID = &identity.SubjectID
		account.EmailVerified = true

		if err := s.producer.PublishFederatedLinked(ctx, account.ID, identity.Provider); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish federated_linked event",
				slog.String("account_id", account.ID),
				slog.String("error", err.Error()),
			)
		}
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	now := s.now()
	account = &domain.Account{
		ID:                uuid.New().String(),
		Email:             identity.Email,
		FirstName:         identity.FirstName,
		LastName:          identity.LastName,
		Role:              domain.RoleUser,
		IsActive:          true,
		EmailVerified:     true,
		Provider:          &identity.Provider,
		ProviderSubjectID: &identity.SubjectID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create federated account: %w", err)
	}

	if err := s.producer.PublishAccountRegistered(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.registered event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}
	return account, nil
}

// recordFailedLogin bumps the failure counter and returns the error for the
// failing attempt. The attempt that crosses the threshold still reports
// InvalidCredentials; only subsequent attempts see AccountLocked.
func (s *AccountService) recordFailedLogin(ctx context.Context, account *domain.Account) error {
	attempts, lockedUntil, err := s.repo.RecordLoginFailure(ctx, account.ID, s.lockout.Threshold(), s.now().Add(s.lockoutDuration))
	if err != nil {
		// Failing open would grant unlimited attempts.
		return fmt.Errorf("record login failure: %w", err)
	}

	if lockedUntil != nil && attempts == s.lockout.Threshold() {
		s.logger.WarnContext(ctx, "account locked after repeated login failures",
			slog.String("account_id", account.ID),
			slog.Int("failed_attempts", attempts),
		)
		if err := s.producer.PublishAccountLocked(ctx, account.ID, attempts, *lockedUntil); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish account.locked event",
				slog.String("account_id", account.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return apperrors.InvalidCredentials()
}

// issueSession generates a token pair and persists the refresh digest,
// clearing lockout state and stamping last login.
func (s *AccountService) issueSession(ctx context.Context, account *domain.Account) (*domain.TokenPair, error) {
	tokens, err := s.generateTokenPair(account)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordLoginSuccess(ctx, account.ID, token.Digest(tokens.RefreshToken)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return tokens, nil
}

func (s *AccountService) generateTokenPair(account *domain.Account) (*domain.TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(account.ID, account.Email, account.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// sendVerificationEmail issues and delivers a verification secret,
// reporting success. On delivery failure the stored digest is rolled back.
func (s *AccountService) sendVerificationEmail(ctx context.Context, account *domain.Account) bool {
	raw, digest, err := token.Generate()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to generate verification token",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return false
	}

	if err := s.repo.SetVerificationToken(ctx, account.ID, digest, s.now().Add(s.verificationTTL)); err != nil {
		s.logger.ErrorContext(ctx, "failed to store verification token",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return false
	}

	body, err := mailer.VerificationEmail(s.clientURL, account.FirstName, raw, ttlText(s.verificationTTL))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to render verification email",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return false
	}

	if err := s.mailer.Send(ctx, account.Email, mailer.SubjectVerifyEmail, body); err != nil {
		if clearErr := s.repo.ClearVerificationToken(ctx, account.ID); clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back verification token after delivery failure",
				slog.String("account_id", account.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		s.logger.ErrorContext(ctx, "verification email delivery failed",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return false
	}

	return true
}

// sendNotice delivers a best-effort informational email. There is no secret
// to roll back, so a failure is only logged.
func (s *AccountService) sendNotice(ctx context.Context, account *domain.Account, subject string, renderBody func(string) (string, error)) {
	body, err := renderBody(account.FirstName)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to render notice email",
			slog.String("account_id", account.ID),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.mailer.Send(ctx, account.Email, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "notice email delivery failed",
			slog.String("account_id", account.ID),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
	}
}

// validatePassword enforces minimum password strength.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return apperrors.Validation("password must contain at least one uppercase letter, one lowercase letter, one digit, and one symbol")
	}

	return nil
}

func ttlText(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/taskmaster/auth-service/internal/domain"
)

// --- Mock Account Repository ---

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) GetByFederatedID(ctx context.Context, provider, subjectID string) (*domain.Account, error) {
	args := m.Called(ctx, provider, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) RecordLoginFailure(ctx context.Context, id string, threshold int, lockedUntil time.Time) (int, *time.Time, error) {
	args := m.Called(ctx, id, threshold, lockedUntil)
	var lock *time.Time
	if args.Get(1) != nil {
		lock = args.Get(1).(*time.Time)
	}
	return args.Int(0), lock, args.Error(2)
}

func (m *mockAccountRepository) RecordLoginSuccess(ctx context.Context, id, refreshDigest string) error {
	args := m.Called(ctx, id, refreshDigest)
	return args.Error(0)
}

func (m *mockAccountRepository) ResetLockout(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepository) SetRefreshTokenDigest(ctx context.Context, id, digest string) error {
	args := m.Called(ctx, id, digest)
	return args.Error(0)
}

func (m *mockAccountRepository) RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error {
	args := m.Called(ctx, id, oldDigest, newDigest)
	return args.Error(0)
}

func (m *mockAccountRepository) ClearRefreshToken(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepository) SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	args := m.Called(ctx, id, digest, expiresAt)
	return args.Error(0)
}

func (m *mockAccountRepository) GetByResetTokenDigest(ctx context.Context, digest string) (*domain.Account, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) ConsumeResetToken(ctx context.Context, digest string) (*domain.Account, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) ClearResetToken(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepository) SetVerificationToken(ctx context.Context, id, digest string, expiresAt time.Time) error {
	args := m.Called(ctx, id, digest, expiresAt)
	return args.Error(0)
}

func (m *mockAccountRepository) ConsumeVerificationToken(ctx context.Context, digest string) (*domain.Account, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepository) ClearVerificationToken(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAccountRepository) LinkFederatedIdentity(ctx context.Context, id, provider, subjectID string, emailVerified bool) error {
	args := m.Called(ctx, id, provider, subjectID, emailVerified)
	return args.Error(0)
}

// --- Mock Mailer ---

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

// --- Mock Event Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishAccountRegistered(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockPublisher) PublishAccountLocked(ctx context.Context, accountID string, attempts int, lockedUntil time.Time) error {
	args := m.Called(ctx, accountID, attempts, lockedUntil)
	return args.Error(0)
}

func (m *mockPublisher) PublishPasswordReset(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockPublisher) PublishEmailVerified(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockPublisher) PublishFederatedLinked(ctx context.Context, accountID, provider string) error {
	args := m.Called(ctx, accountID, provider)
	return args.Error(0)
}

// --- Fake Hasher ---

// fakeHasher is a deterministic, instant stand-in for the bcrypt hasher.
type fakeHasher struct {
	hashCalls   int
	verifyCalls int
	hashErr     error
}

func (f *fakeHasher) Hash(_ context.Context, plaintext string) (string, error) {
	f.hashCalls++
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + plaintext, nil
}

func (f *fakeHasher) Verify(_ context.Context, hash, plaintext string) (bool, error) {
	f.verifyCalls++
	return hash == fmt.Sprintf("hashed:%s", plaintext), nil
}

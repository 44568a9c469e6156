package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskmaster/auth-service/internal/domain"
	pkgkafka "github.com/taskmaster/auth-service/pkg/kafka"
	"github.com/taskmaster/auth-service/pkg/logger"
)

// Event type constants for auth domain events.
const (
	TypeAccountRegistered = "auth.account.registered"
	TypeAccountLocked     = "auth.account.locked"
	TypePasswordReset     = "auth.account.password_reset"
	TypeEmailVerified     = "auth.account.email_verified"
	TypeFederatedLinked   = "auth.account.federated_linked"
)

// Aggregate type constant.
const AggregateTypeAccount = "account"

// Source identifier for events originating from the auth service.
const SourceAuthService = "auth-service"

// AccountRegisteredData is the payload for an account.registered event.
type AccountRegisteredData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Provider  string `json:"provider,omitempty"`
}

// AccountLockedData is the payload for an account.locked event. Consumers
// use it for alerting on credential-stuffing patterns.
type AccountLockedData struct {
	AccountID      string    `json:"account_id"`
	FailedAttempts int       `json:"failed_attempts"`
	LockedUntil    time.Time `json:"locked_until"`
}

// PasswordResetData is the payload for a password_reset event.
type PasswordResetData struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// EmailVerifiedData is the payload for an email_verified event.
type EmailVerifiedData struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// FederatedLinkedData is the payload for a federated_linked event.
type FederatedLinkedData struct {
	AccountID string `json:"account_id"`
	Provider  string `json:"provider"`
}

// Producer publishes auth domain events to Kafka. All events for one
// deployment share a single topic; the event type discriminates.
type Producer struct {
	kafka  *pkgkafka.Producer
	topic  string
	logger *slog.Logger
}

// NewProducer creates a new event producer for the auth service.
func NewProducer(kafka *pkgkafka.Producer, topic string, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		topic:  topic,
		logger: logger,
	}
}

// PublishAccountRegistered publishes an account.registered event.
func (p *Producer) PublishAccountRegistered(ctx context.Context, account *domain.Account) error {
	data := AccountRegisteredData{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Role:      account.Role,
	}
	if account.Provider != nil {
		data.Provider = *account.Provider
	}
	return p.publish(ctx, TypeAccountRegistered, account.ID, data)
}

// PublishAccountLocked publishes an account.locked event.
func (p *Producer) PublishAccountLocked(ctx context.Context, accountID string, attempts int, lockedUntil time.Time) error {
	return p.publish(ctx, TypeAccountLocked, accountID, AccountLockedData{
		AccountID:      accountID,
		FailedAttempts: attempts,
		LockedUntil:    lockedUntil,
	})
}

// PublishPasswordReset publishes a password_reset event.
func (p *Producer) PublishPasswordReset(ctx context.Context, account *domain.Account) error {
	return p.publish(ctx, TypePasswordReset, account.ID, PasswordResetData{
		AccountID: account.ID,
		Email:     account.Email,
	})
}

// PublishEmailVerified publishes an email_verified event.
func (p *Producer) PublishEmailVerified(ctx context.Context, account *domain.Account) error {
	return p.publish(ctx, TypeEmailVerified, account.ID, EmailVerifiedData{
		AccountID: account.ID,
		Email:     account.Email,
	})
}

// PublishFederatedLinked publishes a federated_linked event.
func (p *Producer) PublishFederatedLinked(ctx context.Context, accountID, provider string) error {
	return p.publish(ctx, TypeFederatedLinked, accountID, FederatedLinkedData{
		AccountID: accountID,
		Provider:  provider,
	})
}

func (p *Producer) publish(ctx context.Context, eventType, accountID string, data any) error {
	ev, err := pkgkafka.NewEvent(eventType, accountID, AggregateTypeAccount, SourceAuthService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev = ev.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, p.topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("event_type", eventType),
		slog.String("account_id", accountID),
	)
	return nil
}

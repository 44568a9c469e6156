// Package mailer delivers transactional email for the auth service. Delivery
// is asynchronous: messages are handed to the notification pipeline over
// Kafka and a downstream worker owns SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/taskmaster/auth-service/pkg/errors"
	pkgkafka "github.com/taskmaster/auth-service/pkg/kafka"
)

// Mailer sends a single email. Implementations must return an error when the
// message was not durably accepted, so callers can roll back any one-time
// secret that the email was carrying.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailRequestedData is the payload handed to the notification pipeline.
type EmailRequestedData struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

const typeEmailRequested = "notification.email.requested"

// KafkaMailer publishes email requests to the notification topic. Publish is
// synchronous with broker acknowledgement, so a returned nil means the
// message is owned by the pipeline.
type KafkaMailer struct {
	producer *pkgkafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaMailer creates a Kafka-backed mailer.
func NewKafkaMailer(producer *pkgkafka.Producer, topic string, logger *slog.Logger) *KafkaMailer {
	return &KafkaMailer{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Send publishes an email request. Failures come back as delivery errors.
func (m *KafkaMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	ev, err := pkgkafka.NewEvent(typeEmailRequested, to, "email", "auth-service", EmailRequestedData{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
	if err != nil {
		return apperrors.Delivery(fmt.Errorf("create email event: %w", err))
	}

	if err := m.producer.Publish(ctx, m.topic, ev); err != nil {
		return apperrors.Delivery(fmt.Errorf("publish email event: %w", err))
	}

	m.logger.DebugContext(ctx, "email request published", slog.String("subject", subject))
	return nil
}

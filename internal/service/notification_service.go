package service

import (
	"context"
	"fmt"

	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/pkg/mailer"
	"interview-rag-be/pkg/events"
	pktNats "interview-rag-be/pkg/nats"
)

const (
	bookingConfirmationDurable = "booking-confirmation-mailer"
	reindexAuditDurable        = "knowledge-reindex-audit"
)

// NotificationService reacts to domain events published on the bus
type NotificationService struct {
	subscriber *pktNats.Subscriber
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

// NewNotificationService wires the handlers. A nil mailer disables confirmation mails.
func NewNotificationService(sub *pktNats.Subscriber, emailService mailer.IEmailService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		mailer:     emailService,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, events.TypeBookingCommitted, bookingConfirmationDurable, s.HandleBookingCommitted); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.TypeBookingCommitted, err)
	}
	if err := s.subscriber.Subscribe(ctx, events.TypeKnowledgeReindexed, reindexAuditDurable, s.HandleKnowledgeReindexed); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.TypeKnowledgeReindexed, err)
	}
	s.logger.Info("NotificationService", "Notification service started", nil)
	return nil
}

func (s *NotificationService) HandleBookingCommitted(ctx context.Context, event events.Event) error {
	email := events.StringField(event, "email")
	if email == "" {
		s.logger.Warn("NotificationService", "Booking event without email", map[string]interface{}{"payload": event.Payload()})
		return nil
	}
	if s.mailer == nil {
		s.logger.Debug("NotificationService", "SMTP disabled, skipping confirmation", map[string]interface{}{"email": email})
		return nil
	}

	// Returning the error naks the message so JetStream redelivers it
	return s.mailer.SendBookingConfirmation(email, mailer.BookingDetails{
		Name: events.StringField(event, "name"),
		Date: events.StringField(event, "date"),
		Time: events.StringField(event, "time"),
	})
}

func (s *NotificationService) HandleKnowledgeReindexed(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", "Knowledge index replaced", event.Payload())
	return nil
}

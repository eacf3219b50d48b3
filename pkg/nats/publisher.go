package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"interview-rag-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher ensures the event stream exists on the given connection.
func NewPublisher(nc *nats.Conn) (*Publisher, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Limits retention: confirmation mails and audit consumers read the same events
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ">"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		log.Printf("Warn: Failed to ensure stream '%s': %v", StreamName, err)
	}

	return &Publisher{js: js}, nil
}

// Publish sends an event to NATS.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := SubjectPrefix + event.EventType()
	if _, err = p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"interview-rag-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler is a function that processes an event.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber handles listening for events from NATS.
type Subscriber struct {
	js       jetstream.JetStream
	contexts []jetstream.ConsumeContext
}

func NewSubscriber(nc *nats.Conn) (*Subscriber, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return &Subscriber{js: js}, nil
}

// Subscribe registers a handler on a durable consumer so restarts resume
// where they stopped. A handler error naks the message for redelivery.
func (s *Subscriber) Subscribe(ctx context.Context, eventType string, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: SubjectPrefix + eventType,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := decode(msg)
		if err != nil {
			log.Printf("Error unmarshalling event data on %s: %v", msg.Subject(), err)
			_ = msg.Term()
			return
		}

		if err := handler(ctx, event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	s.contexts = append(s.contexts, cc)

	log.Printf("Subscribed to %s%s with durable %s", SubjectPrefix, eventType, durableName)
	return nil
}

// Stop ends every running consumer
func (s *Subscriber) Stop() {
	for _, cc := range s.contexts {
		cc.Stop()
	}
}

func decode(msg jetstream.Msg) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(msg.Data(), &env); err != nil {
		return events.BaseEvent{}, err
	}
	if env.Type == "" {
		env.Type = strings.TrimPrefix(msg.Subject(), SubjectPrefix)
	}
	return events.BaseEvent{
		Type:       env.Type,
		Data:       env.Data,
		OccurredAt: env.OccurredAt,
	}, nil
}

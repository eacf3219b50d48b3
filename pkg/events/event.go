package events

import (
	"context"
	"time"
)

// Event types published on the bus. The subject is "events.<type>".
const (
	TypeBookingCommitted   = "BOOKING_COMMITTED"
	TypeKnowledgeReindexed = "KNOWLEDGE_REINDEXED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "BOOKING_COMMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is what services depend on; the NATS publisher satisfies it
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewBookingCommitted is raised once per newly stored booking
func NewBookingCommitted(bookingID, name, email, date, clock string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeBookingCommitted,
		Data: map[string]interface{}{
			"booking_id": bookingID,
			"name":       name,
			"email":      email,
			"date":       date,
			"time":       clock,
		},
		OccurredAt: at,
	}
}

// NewKnowledgeReindexed is raised after a generation swap commits
func NewKnowledgeReindexed(generationID, strategy string, documents, chunks int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeKnowledgeReindexed,
		Data: map[string]interface{}{
			"generation_id":  generationID,
			"strategy":       strategy,
			"document_count": documents,
			"chunk_count":    chunks,
		},
		OccurredAt: at,
	}
}

// StringField reads a string payload value, empty when absent
func StringField(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}

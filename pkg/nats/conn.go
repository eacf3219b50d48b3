package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	StreamName    = "INTERVIEW_EVENTS"
	SubjectPrefix = "events."
)

// Connect opens the shared NATS connection used by the publisher and subscriber
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("interview-rag-be"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

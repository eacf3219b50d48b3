package contract

import (
	"context"

	"interview-rag-be/pkg/store"
)

// ConversationRepository is the per-session append-only turn log.
// Both operations refresh the session's idle TTL.
type ConversationRepository interface {
	Append(ctx context.Context, sessionID string, turn store.Turn) error
	ReadAll(ctx context.Context, sessionID string) ([]store.Turn, error)
	Ping(ctx context.Context) error
}

package history

import (
	"context"

	"interview-rag-be/pkg/store"
)

// Store is the conversation log the loader reads from and appends to
type Store interface {
	Append(ctx context.Context, sessionID string, turn store.Turn) error
	ReadAll(ctx context.Context, sessionID string) ([]store.Turn, error)
}

// Loader reads session history for the oracle and records finished turns
type Loader struct {
	store    Store
	maxTurns int
}

// NewLoader caps the history handed to the oracle at maxTurns most recent
// turns. maxTurns <= 0 means unbounded. The store itself is never trimmed.
func NewLoader(s Store, maxTurns int) *Loader {
	return &Loader{
		store:    s,
		maxTurns: maxTurns,
	}
}

// LoadConversationHistory returns the ordered turns of a session, oldest first.
// Reading refreshes the session TTL.
func (l *Loader) LoadConversationHistory(ctx context.Context, sessionID string) ([]store.Turn, error) {
	turns, err := l.store.ReadAll(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if l.maxTurns > 0 && len(turns) > l.maxTurns {
		turns = turns[len(turns)-l.maxTurns:]
	}
	return turns, nil
}

func (l *Loader) Record(ctx context.Context, sessionID string, turn store.Turn) error {
	return l.store.Append(ctx, sessionID, turn)
}

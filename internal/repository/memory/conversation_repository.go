package memory

import (
	"context"
	"sync"
	"time"

	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository is an in-process turn log for development and tests.
// Sessions are lost on restart.
type ConversationRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

var _ contract.ConversationRepository = &ConversationRepository{}

func NewConversationRepository(ttl time.Duration) *ConversationRepository {
	// Purge expired sessions every minute
	c := cache.New(ttl, time.Minute)
	return &ConversationRepository{
		cache: c,
		ttl:   ttl,
	}
}

func (r *ConversationRepository) Append(_ context.Context, sessionID string, turn store.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.SessionKey(sessionID)
	turns := r.load(key)
	next := make([]store.Turn, len(turns), len(turns)+1)
	copy(next, turns)
	next = append(next, turn)

	r.cache.Set(key, next, r.ttl)
	return nil
}

func (r *ConversationRepository) ReadAll(_ context.Context, sessionID string) ([]store.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := store.SessionKey(sessionID)
	turns := r.load(key)
	if len(turns) > 0 {
		r.cache.Set(key, turns, r.ttl)
	}

	out := make([]store.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *ConversationRepository) Ping(context.Context) error {
	return nil
}

func (r *ConversationRepository) load(key string) []store.Turn {
	if x, found := r.cache.Get(key); found {
		return x.([]store.Turn)
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

// ConversationRepository keeps each session as a Redis list under chat:{id}.
type ConversationRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.ConversationRepository = &ConversationRepository{}

func NewConversationRepository(client *redis.Client, ttl time.Duration) *ConversationRepository {
	return &ConversationRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *ConversationRepository) Append(ctx context.Context, sessionID string, turn store.Turn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	key := store.SessionKey(sessionID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append turn to %s: %w", key, err)
	}
	return nil
}

func (r *ConversationRepository) ReadAll(ctx context.Context, sessionID string) ([]store.Turn, error) {
	key := store.SessionKey(sessionID)

	var rangeCmd *redis.StringSliceCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		rangeCmd = pipe.LRange(ctx, key, 0, -1)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read turns from %s: %w", key, err)
	}

	raw := rangeCmd.Val()
	turns := make([]store.Turn, 0, len(raw))
	for i, item := range raw {
		var t store.Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("decode turn %d of %s: %w", i, key, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (r *ConversationRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

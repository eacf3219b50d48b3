package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"interview-rag-be/internal/dto"
	"interview-rag-be/pkg/chunking"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubKnowledge struct {
	err   error
	calls int
}

func (s *stubKnowledge) Reindex(context.Context, chunking.Strategy) (*dto.ReindexResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ReindexResult{GenerationId: uuid.New(), ChunkCount: 1}, nil
}

func (s *stubKnowledge) Status(context.Context) (*dto.KnowledgeStatusResponse, error) {
	return &dto.KnowledgeStatusResponse{}, nil
}

func reindexMessage(t *testing.T, strategy string) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PublishReindexMessage{JobId: uuid.New(), FileName: "cv.pdf", ChunkStrategy: strategy})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func settled(msg *message.Message) string {
	select {
	case <-msg.Acked():
		return "ack"
	case <-msg.Nacked():
		return "nack"
	default:
		return "pending"
	}
}

func TestConsumerService_ProcessMessage(t *testing.T) {
	tests := []struct {
		name      string
		payload   func(t *testing.T) *message.Message
		reindex   error
		want      string
		wantCalls int
	}{
		{
			name:      "success",
			payload:   func(t *testing.T) *message.Message { return reindexMessage(t, "recursive") },
			want:      "ack",
			wantCalls: 1,
		},
		{
			name:      "undecodable payload",
			payload:   func(*testing.T) *message.Message { return message.NewMessage(watermill.NewUUID(), []byte("{")) },
			want:      "ack",
			wantCalls: 0,
		},
		{
			name:      "unknown strategy",
			payload:   func(t *testing.T) *message.Message { return reindexMessage(t, "semantic") },
			want:      "ack",
			wantCalls: 0,
		},
		{
			name:      "empty directory",
			payload:   func(t *testing.T) *message.Message { return reindexMessage(t, "document") },
			reindex:   chunking.ErrNoDocuments,
			want:      "ack",
			wantCalls: 1,
		},
		{
			name:      "reindex failure keeps old generation",
			payload:   func(t *testing.T) *message.Message { return reindexMessage(t, "document") },
			reindex:   errors.New("embedding backend down"),
			want:      "ack",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			knowledge := &stubKnowledge{err: tt.reindex}
			cs := &consumerService{knowledgeService: knowledge, retryDelay: time.Millisecond}
			msg := tt.payload(t)

			cs.processMessage(context.Background(), msg)

			assert.Equal(t, tt.want, settled(msg))
			assert.Equal(t, tt.wantCalls, knowledge.calls)
		})
	}
}

func TestConsumerService_BusyReindexIsRetriedAfterDelay(t *testing.T) {
	knowledge := &stubKnowledge{err: ErrReindexInProgress}
	cs := &consumerService{knowledgeService: knowledge, retryDelay: 50 * time.Millisecond}
	msg := reindexMessage(t, "recursive")

	start := time.Now()
	cs.processMessage(context.Background(), msg)

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond, "nack must not redeliver immediately")
	assert.Equal(t, "nack", settled(msg))
}

func TestConsumerService_BusyReindexNacksAtOnceOnShutdown(t *testing.T) {
	knowledge := &stubKnowledge{err: ErrReindexInProgress}
	cs := &consumerService{knowledgeService: knowledge, retryDelay: time.Hour}
	msg := reindexMessage(t, "recursive")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		cs.processMessage(ctx, msg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("processMessage ignored context cancellation")
	}
	assert.Equal(t, "nack", settled(msg))
}

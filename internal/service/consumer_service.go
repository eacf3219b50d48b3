package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"interview-rag-be/internal/dto"
	"interview-rag-be/pkg/chunking"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// gochannel redelivers a nacked message at once, so a busy reindex is
// waited out before the job goes back on the topic
const reindexRetryDelay = 5 * time.Second

type consumerService struct {
	subscriber       message.Subscriber
	topicName        string
	knowledgeService IKnowledgeService
	retryDelay       time.Duration
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	knowledgeService IKnowledgeService,
) IConsumerService {
	return &consumerService{
		subscriber:       subscriber,
		topicName:        topicName,
		knowledgeService: knowledgeService,
		retryDelay:       reindexRetryDelay,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReindexMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal reindex message: %v", err)
		msg.Ack() // poison message, retrying will not help
		return
	}

	strategy, err := chunking.ParseStrategy(payload.ChunkStrategy)
	if err != nil {
		log.Printf("[ERROR] Job %s has invalid strategy: %v", payload.JobId, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Reindex job %s started (file=%s strategy=%s)", payload.JobId, payload.FileName, strategy)

	result, err := cs.knowledgeService.Reindex(ctx, strategy)
	switch {
	case errors.Is(err, ErrReindexInProgress):
		// the running job will not see this upload if it listed the directory already
		log.Printf("[WARN] Job %s waits %s for the running reindex", payload.JobId, cs.retryDelay)
		select {
		case <-time.After(cs.retryDelay):
		case <-ctx.Done():
		}
		msg.Nack()
		return
	case errors.Is(err, chunking.ErrNoDocuments):
		log.Printf("[WARN] Job %s found nothing to index", payload.JobId)
		msg.Ack()
		return
	case err != nil:
		log.Printf("[ERROR] Job %s failed: %v", payload.JobId, err)
		msg.Ack() // the previous generation stays live; operator can rerun cmd/reindex
		return
	}

	log.Printf("[SUCCESS] Job %s indexed %d chunks (generation %s)", payload.JobId, result.ChunkCount, result.GenerationId)
	msg.Ack()
}

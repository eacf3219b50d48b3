package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/pkg/metrics"
	"interview-rag-be/internal/repository/unitofwork"
	"interview-rag-be/pkg/chunking"
	"interview-rag-be/pkg/embedding"
	"interview-rag-be/pkg/events"

	"github.com/google/uuid"
)

const embeddingBatchSize = 32

var ErrReindexInProgress = errors.New("a reindex is already running")

type IKnowledgeService interface {
	// Reindex rebuilds the whole index from the upload directory and swaps
	// it in atomically. Readers see the old generation until commit.
	Reindex(ctx context.Context, strategy chunking.Strategy) (*dto.ReindexResult, error)
	Status(ctx context.Context) (*dto.KnowledgeStatusResponse, error)
}

type knowledgeService struct {
	uowFactory        unitofwork.RepositoryFactory
	chunker           *chunking.Chunker
	embeddingProvider embedding.EmbeddingProvider
	publisher         events.Publisher
	logger            logger.ILogger

	running sync.Mutex
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	chunker *chunking.Chunker,
	embeddingProvider embedding.EmbeddingProvider,
	publisher events.Publisher,
	log logger.ILogger,
) IKnowledgeService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &knowledgeService{
		uowFactory:        uowFactory,
		chunker:           chunker,
		embeddingProvider: embeddingProvider,
		publisher:         publisher,
		logger:            log,
	}
}

func (s *knowledgeService) Reindex(ctx context.Context, strategy chunking.Strategy) (*dto.ReindexResult, error) {
	if !s.running.TryLock() {
		return nil, ErrReindexInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	result, err := s.reindex(ctx, strategy, start)
	if err != nil {
		metrics.ObserveReindex(string(strategy), 0, err)
		s.logger.Error("KNOWLEDGE", "Reindex failed", map[string]interface{}{
			"strategy": strategy,
			"error":    err.Error(),
		})
		return nil, err
	}
	metrics.ObserveReindex(string(strategy), result.ChunkCount, nil)
	return result, nil
}

func (s *knowledgeService) reindex(ctx context.Context, strategy chunking.Strategy, start time.Time) (*dto.ReindexResult, error) {
	// 1. Chunk
	chunks, err := s.chunker.CreateChunks(ctx, strategy, start)
	if err != nil {
		return nil, fmt.Errorf("chunking: %w", err)
	}
	s.logger.Info("KNOWLEDGE", "Chunks created", map[string]interface{}{"count": len(chunks), "strategy": strategy})

	// 2. Embed outside the transaction; this is the slow part
	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	// 3. Swap
	generation := &entity.KnowledgeGeneration{
		Id:            uuid.New(),
		Strategy:      string(strategy),
		DocumentCount: countSources(chunks),
		ChunkCount:    len(chunks),
		CreatedAt:     time.Now(),
	}
	knowledgeChunks := make([]*entity.KnowledgeChunk, len(chunks))
	metadata := make([]*entity.ChunkMetadata, len(chunks))
	for i, c := range chunks {
		knowledgeChunks[i] = &entity.KnowledgeChunk{
			Id:             c.ID,
			Document:       c.Text,
			EmbeddingValue: vectors[i],
			ChunkIndex:     c.Index,
			GenerationId:   generation.Id,
			CreatedAt:      generation.CreatedAt,
		}
		metadata[i] = &entity.ChunkMetadata{
			Id:           c.ID,
			Source:       c.Source,
			Page:         c.Page,
			UploadedTime: c.UploadedTime,
			GenerationId: generation.Id,
			CreatedAt:    generation.CreatedAt,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin reindex transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.KnowledgeGenerationRepository().Create(ctx, generation); err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}
	if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, knowledgeChunks); err != nil {
		return nil, fmt.Errorf("insert chunks: %w", err)
	}
	if err := uow.ChunkMetadataRepository().CreateBulk(ctx, metadata); err != nil {
		return nil, fmt.Errorf("insert chunk metadata: %w", err)
	}
	// Older generations cascade to their chunks and metadata
	replaced, err := uow.KnowledgeGenerationRepository().DeleteAllExcept(ctx, generation.Id)
	if err != nil {
		return nil, fmt.Errorf("drop previous generations: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit reindex: %w", err)
	}

	result := &dto.ReindexResult{
		GenerationId:  generation.Id,
		ChunkStrategy: string(strategy),
		DocumentCount: generation.DocumentCount,
		ChunkCount:    generation.ChunkCount,
		Replaced:      replaced,
		Duration:      time.Since(start),
	}
	s.logger.Info("KNOWLEDGE", "Knowledge index swapped", map[string]interface{}{
		"generation_id": generation.Id.String(),
		"chunks":        result.ChunkCount,
		"replaced":      replaced,
		"duration_ms":   result.Duration.Milliseconds(),
	})

	event := events.NewKnowledgeReindexed(generation.Id.String(), string(strategy), result.DocumentCount, result.ChunkCount, time.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("KNOWLEDGE", "Failed to publish reindex event", map[string]interface{}{"error": err.Error()})
	}

	return result, nil
}

func (s *knowledgeService) embedAll(ctx context.Context, chunks []chunking.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for startIdx := 0; startIdx < len(chunks); startIdx += embeddingBatchSize {
		end := startIdx + embeddingBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-startIdx)
		for _, c := range chunks[startIdx:end] {
			texts = append(texts, c.Text)
		}

		batch, err := s.embeddingProvider.GenerateBatch(ctx, texts, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embedding chunks %d-%d: %w", startIdx, end-1, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedding chunks %d-%d: got %d vectors for %d texts", startIdx, end-1, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (s *knowledgeService) Status(ctx context.Context) (*dto.KnowledgeStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	latest, err := uow.KnowledgeGenerationRepository().FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	count, err := uow.KnowledgeChunkRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.KnowledgeStatusResponse{ChunkCount: count}
	if latest != nil {
		res.GenerationId = &latest.Id
		res.ChunkStrategy = latest.Strategy
		res.DocumentCount = latest.DocumentCount
		res.IndexedAt = &latest.CreatedAt
	}
	return res, nil
}

func countSources(chunks []chunking.Chunk) int {
	seen := make(map[string]struct{})
	for _, c := range chunks {
		seen[c.Source] = struct{}{}
	}
	return len(seen)
}

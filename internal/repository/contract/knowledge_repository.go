package contract

import (
	"context"

	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredKnowledgeChunk wraps KnowledgeChunk with its similarity score
type ScoredKnowledgeChunk struct {
	Chunk      *entity.KnowledgeChunk
	Source     string
	Page       int
	Similarity float64 // cosine similarity, 1.0 = identical
}

type KnowledgeChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns up to limit chunks ordered by descending similarity
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredKnowledgeChunk, error)
}

type ChunkMetadataRepository interface {
	CreateBulk(ctx context.Context, metadata []*entity.ChunkMetadata) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkMetadata, error)
}

type KnowledgeGenerationRepository interface {
	Create(ctx context.Context, generation *entity.KnowledgeGeneration) error
	Update(ctx context.Context, generation *entity.KnowledgeGeneration) error
	// DeleteAllExcept drops every other generation; chunks and metadata cascade.
	DeleteAllExcept(ctx context.Context, keep uuid.UUID) (int64, error)
	FindLatest(ctx context.Context) (*entity.KnowledgeGeneration, error)
}

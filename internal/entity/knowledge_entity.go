package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeChunk is one embedded slice of an ingested document
type KnowledgeChunk struct {
	Id             string // doc_<8 hex>_<i>
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	GenerationId   uuid.UUID
	CreatedAt      time.Time
}

type ChunkMetadata struct {
	Id           string // same id as the chunk it describes
	Source       string
	Page         int
	UploadedTime string
	Extra        map[string]interface{}
	GenerationId uuid.UUID
	CreatedAt    time.Time
}

// KnowledgeGeneration groups every chunk produced by a single reindex run.
// Exactly one generation is live after a successful swap.
type KnowledgeGeneration struct {
	Id            uuid.UUID
	Strategy      string
	DocumentCount int
	ChunkCount    int
	CreatedAt     time.Time
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadFileResponse struct {
	JobId         uuid.UUID `json:"job_id"`
	FileName      string    `json:"file_name"`
	ChunkStrategy string    `json:"chunk_strategy"`
}

// PublishReindexMessage is the watermill payload for a background reindex
type PublishReindexMessage struct {
	JobId         uuid.UUID `json:"job_id"`
	ChunkStrategy string    `json:"chunk_strategy"`
	FileName      string    `json:"file_name"`
}

type ReindexResult struct {
	GenerationId  uuid.UUID     `json:"generation_id"`
	ChunkStrategy string        `json:"chunk_strategy"`
	DocumentCount int           `json:"document_count"`
	ChunkCount    int           `json:"chunk_count"`
	Replaced      int64         `json:"replaced_generations"`
	Duration      time.Duration `json:"duration"`
}

type KnowledgeStatusResponse struct {
	GenerationId  *uuid.UUID `json:"generation_id"`
	ChunkStrategy string     `json:"chunk_strategy,omitempty"`
	DocumentCount int        `json:"document_count"`
	ChunkCount    int64      `json:"chunk_count"`
	IndexedAt     *time.Time `json:"indexed_at"`
}

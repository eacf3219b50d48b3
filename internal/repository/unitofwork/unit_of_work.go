package unitofwork

import (
	"context"

	"interview-rag-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
	ChunkMetadataRepository() contract.ChunkMetadataRepository
	KnowledgeGenerationRepository() contract.KnowledgeGenerationRepository
	BookingRepository() contract.BookingRepository
}

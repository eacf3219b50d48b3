package implementation

import (
	"context"
	"errors"

	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/mapper"
	"interview-rag-be/internal/model"
	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const insertBatchSize = 200

// NoSimilarityThreshold disables the similarity cut-off in searches
const NoSimilarityThreshold = -1.0

type KnowledgeChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeChunkRepository(db *gorm.DB) contract.KnowledgeChunkRepository {
	return &KnowledgeChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.KnowledgeChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ChunkToModel(c)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, insertBatchSize).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ChunkToEntity(m)
	}
	return nil
}

func (r *KnowledgeChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.KnowledgeChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore ranks chunks by cosine similarity.
// pgvector's <=> is cosine distance, so similarity = 1 - distance.
func (r *KnowledgeChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredKnowledgeChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.KnowledgeChunk
		Source     string
		Page       int
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("knowledge_chunks").
		Select(`knowledge_chunks.*,
			COALESCE(chunk_metadata.source, '') AS source,
			COALESCE(chunk_metadata.page, 0) AS page,
			1 - (knowledge_chunks.embedding_value <=> ?) AS similarity`, queryVector).
		Joins("LEFT JOIN chunk_metadata ON chunk_metadata.id = knowledge_chunks.id")

	if threshold > NoSimilarityThreshold {
		query = query.Where("1 - (knowledge_chunks.embedding_value <=> ?) >= ?", queryVector, threshold)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredKnowledgeChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredKnowledgeChunk{
			Chunk:      r.mapper.ChunkToEntity(&res.KnowledgeChunk),
			Source:     res.Source,
			Page:       res.Page,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

type ChunkMetadataRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewChunkMetadataRepository(db *gorm.DB) contract.ChunkMetadataRepository {
	return &ChunkMetadataRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *ChunkMetadataRepositoryImpl) CreateBulk(ctx context.Context, metadata []*entity.ChunkMetadata) error {
	if len(metadata) == 0 {
		return nil
	}
	models := make([]*model.ChunkMetadata, len(metadata))
	for i, m := range metadata {
		models[i] = r.mapper.MetadataToModel(m)
	}
	return r.db.WithContext(ctx).CreateInBatches(models, insertBatchSize).Error
}

func (r *ChunkMetadataRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkMetadata, error) {
	var models []*model.ChunkMetadata
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChunkMetadata, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MetadataToEntity(m)
	}
	return entities, nil
}

type KnowledgeGenerationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.KnowledgeMapper
}

func NewKnowledgeGenerationRepository(db *gorm.DB) contract.KnowledgeGenerationRepository {
	return &KnowledgeGenerationRepositoryImpl{
		db:     db,
		mapper: mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeGenerationRepositoryImpl) Create(ctx context.Context, generation *entity.KnowledgeGeneration) error {
	m := r.mapper.GenerationToModel(generation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*generation = *r.mapper.GenerationToEntity(m)
	return nil
}

func (r *KnowledgeGenerationRepositoryImpl) Update(ctx context.Context, generation *entity.KnowledgeGeneration) error {
	m := r.mapper.GenerationToModel(generation)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *KnowledgeGenerationRepositoryImpl) DeleteAllExcept(ctx context.Context, keep uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id <> ?", keep).Delete(&model.KnowledgeGeneration{})
	return res.RowsAffected, res.Error
}

func (r *KnowledgeGenerationRepositoryImpl) FindLatest(ctx context.Context) (*entity.KnowledgeGeneration, error) {
	var m model.KnowledgeGeneration
	if err := r.db.WithContext(ctx).Order("created_at DESC").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.GenerationToEntity(&m), nil
}

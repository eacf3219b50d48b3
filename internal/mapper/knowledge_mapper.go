package mapper

import (
	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ChunkToEntity(c *model.KnowledgeChunk) *entity.KnowledgeChunk {
	if c == nil {
		return nil
	}
	return &entity.KnowledgeChunk{
		Id:             c.Id,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		ChunkIndex:     c.ChunkIndex,
		GenerationId:   c.GenerationId,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *KnowledgeMapper) ChunkToModel(e *entity.KnowledgeChunk) *model.KnowledgeChunk {
	if e == nil {
		return nil
	}
	return &model.KnowledgeChunk{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		GenerationId:   e.GenerationId,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *KnowledgeMapper) MetadataToEntity(c *model.ChunkMetadata) *entity.ChunkMetadata {
	if c == nil {
		return nil
	}
	return &entity.ChunkMetadata{
		Id:           c.Id,
		Source:       c.Source,
		Page:         c.Page,
		UploadedTime: c.UploadedTime,
		Extra:        map[string]interface{}(c.Extra),
		GenerationId: c.GenerationId,
		CreatedAt:    c.CreatedAt,
	}
}

func (m *KnowledgeMapper) MetadataToModel(e *entity.ChunkMetadata) *model.ChunkMetadata {
	if e == nil {
		return nil
	}
	extra := datatypes.JSONMap{}
	for k, v := range e.Extra {
		extra[k] = v
	}
	return &model.ChunkMetadata{
		Id:           e.Id,
		Source:       e.Source,
		Page:         e.Page,
		UploadedTime: e.UploadedTime,
		Extra:        extra,
		GenerationId: e.GenerationId,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *KnowledgeMapper) GenerationToEntity(g *model.KnowledgeGeneration) *entity.KnowledgeGeneration {
	if g == nil {
		return nil
	}
	return &entity.KnowledgeGeneration{
		Id:            g.Id,
		Strategy:      g.Strategy,
		DocumentCount: g.DocumentCount,
		ChunkCount:    g.ChunkCount,
		CreatedAt:     g.CreatedAt,
	}
}

func (m *KnowledgeMapper) GenerationToModel(e *entity.KnowledgeGeneration) *model.KnowledgeGeneration {
	if e == nil {
		return nil
	}
	return &model.KnowledgeGeneration{
		Id:            e.Id,
		Strategy:      e.Strategy,
		DocumentCount: e.DocumentCount,
		ChunkCount:    e.ChunkCount,
		CreatedAt:     e.CreatedAt,
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type KnowledgeChunk struct {
	Id             string          `gorm:"type:varchar(64);primaryKey"`
	Document       string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 both emit 768 dims
	ChunkIndex     int             `gorm:"default:0"`
	GenerationId   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}

type KnowledgeGeneration struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Strategy      string    `gorm:"type:varchar(32);not null"`
	DocumentCount int       `gorm:"not null;default:0"`
	ChunkCount    int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (KnowledgeGeneration) TableName() string {
	return "knowledge_generations"
}

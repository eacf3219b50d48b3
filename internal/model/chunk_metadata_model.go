package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChunkMetadata struct {
	Id           string            `gorm:"type:varchar(64);primaryKey"`
	Source       string            `gorm:"type:varchar(512);not null"`
	Page         int               `gorm:"default:0"`
	UploadedTime string            `gorm:"type:varchar(19);not null"`
	Extra        datatypes.JSONMap `gorm:"type:jsonb"`
	GenerationId uuid.UUID         `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
}

func (ChunkMetadata) TableName() string {
	return "chunk_metadata"
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type SyllabusChunk struct {
	// Deterministic id (md5 of document id + chunk index) makes the
	// upsert idempotent: ON CONFLICT overwrites instead of duplicating.
	Id         string          `gorm:"type:varchar(32);primaryKey"`
	DocumentId uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex int             `gorm:"not null"`
	Document   string          `gorm:"type:text"`
	TokenCount int             `gorm:"default:0"`
	Class      string          `gorm:"size:64;index"`
	Subject    string          `gorm:"size:64;index"`
	Chapter    string          `gorm:"size:128;index"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small dimension
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

func (SyllabusChunk) TableName() string {
	return "syllabus_chunks"
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SyllabusDocument struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename       string    `gorm:"not null"`
	FileHash       string    `gorm:"size:64;index"`
	Class          string    `gorm:"size:64;index"`
	Subject        string    `gorm:"size:64;index"`
	Chapter        string    `gorm:"size:128;index"`
	Text           string    `gorm:"type:text"`
	PageCount      int
	Status         string `gorm:"size:16;default:pending"`
	ChunkCount     int
	ChunksIngested int
	LastError      string         `gorm:"type:text"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (SyllabusDocument) TableName() string {
	return "syllabus_documents"
}

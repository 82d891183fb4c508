package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Paper struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Class        string    `gorm:"size:64;index"`
	Subject      string    `gorm:"size:64;index"`
	Chapter      string    `gorm:"size:128"`
	Topic        string    `gorm:"size:128"`
	Count        int
	Difficulty   int
	QuestionType string         `gorm:"size:16"`
	ChoiceType   string         `gorm:"size:16"`
	Questions    datatypes.JSON `gorm:"type:jsonb"`
	Report       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Paper) TableName() string {
	return "papers"
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Paper is a finalized, persisted generation result.
type Paper struct {
	Id           uuid.UUID
	Class        string
	Subject      string
	Chapter      string
	Topic        string
	Count        int
	Difficulty   int
	QuestionType string
	ChoiceType   string

	Questions []PassedQuestion
	Report    ValidationReport

	CreatedAt time.Time
}

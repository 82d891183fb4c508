package dto

import (
	"time"

	"ai-papergen-be/pkg/workflow"

	"github.com/google/uuid"
)

type GeneratePaperRequest struct {
	Class        string `json:"class" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	Chapter      string `json:"chapter" validate:"required"`
	Topic        string `json:"topic"`
	Count        int    `json:"count" validate:"required,min=1,max=50"`
	Difficulty   int    `json:"difficulty" validate:"required,min=1,max=5"`
	QuestionType string `json:"question_type" validate:"required,oneof=Objective Descriptive"`
	ChoiceType   string `json:"choice_type" validate:"omitempty,oneof=Single Multiple"`
}

type GeneratePaperResponse struct {
	Id        uuid.UUID                 `json:"id"`
	Questions []workflow.PassedQuestion `json:"questions"`
	Report    workflow.Report           `json:"report"`
}

type PaperListItemResponse struct {
	Id           uuid.UUID `json:"id"`
	Class        string    `json:"class"`
	Subject      string    `json:"subject"`
	Chapter      string    `json:"chapter"`
	Topic        string    `json:"topic"`
	Difficulty   int       `json:"difficulty"`
	QuestionType string    `json:"question_type"`
	Delivered    int       `json:"delivered"`
	Requested    int       `json:"requested"`
	CreatedAt    time.Time `json:"created_at"`
}

type ShowPaperResponse struct {
	Id           uuid.UUID                 `json:"id"`
	Class        string                    `json:"class"`
	Subject      string                    `json:"subject"`
	Chapter      string                    `json:"chapter"`
	Topic        string                    `json:"topic"`
	Difficulty   int                       `json:"difficulty"`
	QuestionType string                    `json:"question_type"`
	Questions    []workflow.PassedQuestion `json:"questions"`
	Report       workflow.Report           `json:"report"`
	CreatedAt    time.Time                 `json:"created_at"`
}

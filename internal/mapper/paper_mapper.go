package mapper

import (
	"encoding/json"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/model"

	"gorm.io/datatypes"
)

type PaperMapper struct{}

func NewPaperMapper() *PaperMapper {
	return &PaperMapper{}
}

func (m *PaperMapper) ToEntity(p *model.Paper) (*entity.Paper, error) {
	if p == nil {
		return nil, nil
	}

	var questions []entity.PassedQuestion
	if len(p.Questions) > 0 {
		if err := json.Unmarshal(p.Questions, &questions); err != nil {
			return nil, err
		}
	}

	var report entity.ValidationReport
	if len(p.Report) > 0 {
		if err := json.Unmarshal(p.Report, &report); err != nil {
			return nil, err
		}
	}

	return &entity.Paper{
		Id:           p.Id,
		Class:        p.Class,
		Subject:      p.Subject,
		Chapter:      p.Chapter,
		Topic:        p.Topic,
		Count:        p.Count,
		Difficulty:   p.Difficulty,
		QuestionType: p.QuestionType,
		ChoiceType:   p.ChoiceType,
		Questions:    questions,
		Report:       report,
		CreatedAt:    p.CreatedAt,
	}, nil
}

func (m *PaperMapper) ToModel(p *entity.Paper) (*model.Paper, error) {
	if p == nil {
		return nil, nil
	}

	questions, err := json.Marshal(p.Questions)
	if err != nil {
		return nil, err
	}
	report, err := json.Marshal(p.Report)
	if err != nil {
		return nil, err
	}

	return &model.Paper{
		Id:           p.Id,
		Class:        p.Class,
		Subject:      p.Subject,
		Chapter:      p.Chapter,
		Topic:        p.Topic,
		Count:        p.Count,
		Difficulty:   p.Difficulty,
		QuestionType: p.QuestionType,
		ChoiceType:   p.ChoiceType,
		Questions:    datatypes.JSON(questions),
		Report:       datatypes.JSON(report),
		CreatedAt:    p.CreatedAt,
	}, nil
}

package mapper

import (
	"testing"
	"time"

	"ai-papergen-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperMapperRoundTrip(t *testing.T) {
	m := NewPaperMapper()
	paper := &entity.Paper{
		Id:           uuid.New(),
		Class:        "Class 10",
		Subject:      "Science",
		Chapter:      "Light",
		Count:        2,
		Difficulty:   3,
		QuestionType: "Objective",
		ChoiceType:   "Single",
		Questions: []entity.PassedQuestion{
			{
				Question: entity.CandidateQuestion{
					Text:           "What is the focal length of a plane mirror?",
					Type:           entity.QuestionTypeObjective,
					Options:        []string{"A) Zero", "B) Infinite"},
					CorrectAnswers: []string{"B) Infinite"},
				},
				Verdict: entity.ValidationVerdict{
					Passed:   true,
					Scores:   entity.ValidationScores{Relevance: 0.9, DifficultyFit: 0.8, Clarity: 0.85},
					Feedback: "clear and on topic",
				},
				Attempt: 1,
			},
		},
		Report: entity.ValidationReport{
			Attempts:        []entity.AttemptReport{{Attempt: 1, Generated: 2, Passed: 1, PassRate: 0.5}},
			OverallPassRate: 0.5,
			Requested:       2,
			Delivered:       1,
			Shortfall:       1,
		},
		CreatedAt: time.Now().Truncate(time.Second),
	}

	model, err := m.ToModel(paper)
	require.NoError(t, err)
	assert.NotEmpty(t, model.Questions)
	assert.NotEmpty(t, model.Report)

	back, err := m.ToEntity(model)
	require.NoError(t, err)
	assert.Equal(t, paper.Id, back.Id)
	assert.Equal(t, paper.Questions, back.Questions)
	assert.Equal(t, paper.Report, back.Report)
}

func TestPaperMapperNilPassthrough(t *testing.T) {
	m := NewPaperMapper()

	model, err := m.ToModel(nil)
	require.NoError(t, err)
	assert.Nil(t, model)

	back, err := m.ToEntity(nil)
	require.NoError(t, err)
	assert.Nil(t, back)
}

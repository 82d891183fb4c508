package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"ai-papergen-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptive(text string) CandidateQuestion {
	return CandidateQuestion{
		Text:           text,
		Type:           QuestionTypeDescriptive,
		CorrectAnswers: []string{"model answer"},
	}
}

func objective(text string, options ...string) CandidateQuestion {
	c := CandidateQuestion{
		Text:    text,
		Type:    QuestionTypeObjective,
		Options: options,
	}
	if len(options) > 0 {
		c.CorrectAnswers = []string{options[0]}
	}
	return c
}

func TestValidatePreservesCandidateOrder(t *testing.T) {
	candidates := make([]CandidateQuestion, 20)
	for i := range candidates {
		candidates[i] = descriptive(fmt.Sprintf("question number %02d", i))
	}
	v := NewValidator(&fakeValLLM{}, 4, 0.6)

	verdicts := v.Validate(context.Background(), baseRequest(20), candidates)

	require.Len(t, verdicts, 20)
	for i, verdict := range verdicts {
		assert.Equal(t, i, verdict.QuestionRef)
		assert.True(t, verdict.Passed)
	}
}

func TestValidateAppliesThresholdPerDimension(t *testing.T) {
	// One dimension below threshold fails the whole candidate even when
	// the average would pass.
	v := NewValidator(&fakeValLLM{}, 2, 0.6)

	verdicts := v.Validate(context.Background(), baseRequest(2), []CandidateQuestion{
		descriptive("a good question"),
		descriptive("a bad question"),
	})

	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Passed)
	assert.False(t, verdicts[1].Passed)
	assert.Greater(t, verdicts[1].Scores.Average(), 0.6, "fails despite a passing average")
	assert.NotEmpty(t, verdicts[1].Feedback)
}

func TestValidateDiscardsStructurallyBrokenCandidates(t *testing.T) {
	tests := []struct {
		name      string
		candidate CandidateQuestion
		reason    string
	}{
		{"empty text", descriptive("  "), "empty"},
		{"objective missing options", objective("pick one"), "options"},
		{
			"objective missing answer",
			CandidateQuestion{Text: "pick one", Type: QuestionTypeObjective, Options: []string{"A", "B"}},
			"correct answer",
		},
		{
			"descriptive missing answer",
			CandidateQuestion{Text: "explain", Type: QuestionTypeDescriptive},
			"model answer",
		},
		{
			"unknown type",
			CandidateQuestion{Text: "what", Type: "TrueFalse", CorrectAnswers: []string{"x"}},
			"unknown question type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			v := NewValidator(&scriptedLLM{
				response: `{"relevance": 0.9, "difficulty_fit": 0.9, "clarity": 0.9}`,
				onCall:   func() { calls++ },
			}, 1, 0.6)

			verdicts := v.Validate(context.Background(), baseRequest(1), []CandidateQuestion{tt.candidate})

			assert.Empty(t, verdicts, "a malformed candidate never becomes a verdict")
			assert.Zero(t, calls, "a malformed candidate is never sent to the model")
			assert.Contains(t, structuralReason(tt.candidate), tt.reason)
		})
	}
}

func TestValidateKeepsOriginalRefsAroundDiscards(t *testing.T) {
	v := NewValidator(&fakeValLLM{}, 2, 0.6)

	verdicts := v.Validate(context.Background(), baseRequest(3), []CandidateQuestion{
		descriptive("a good question"),
		descriptive("  "), // discarded, must not shift the refs below
		descriptive("another good question"),
	})

	require.Len(t, verdicts, 2)
	assert.Equal(t, 0, verdicts[0].QuestionRef)
	assert.Equal(t, 2, verdicts[1].QuestionRef)
	assert.True(t, verdicts[0].Passed)
	assert.True(t, verdicts[1].Passed)
}

func TestValidateSurvivesModelFailure(t *testing.T) {
	v := NewValidator(&fakeGenLLM{err: assert.AnError}, 2, 0.6)

	verdicts := v.Validate(context.Background(), baseRequest(2), []CandidateQuestion{
		descriptive("q one"),
		descriptive("q two"),
	})

	require.Len(t, verdicts, 2)
	for _, verdict := range verdicts {
		assert.False(t, verdict.Passed)
		assert.Contains(t, verdict.Feedback, "validation unavailable")
	}
}

func TestValidateClampsOutOfRangeScores(t *testing.T) {
	provider := &scriptedLLM{response: `{"relevance": 1.4, "difficulty_fit": -0.2, "clarity": 0.9, "feedback": "weird scale"}`}
	v := NewValidator(provider, 1, 0.6)

	verdicts := v.Validate(context.Background(), baseRequest(1), []CandidateQuestion{descriptive("q")})

	require.Len(t, verdicts, 1)
	assert.Equal(t, 1.0, verdicts[0].Scores.Relevance)
	assert.Equal(t, 0.0, verdicts[0].Scores.DifficultyFit)
	assert.False(t, verdicts[0].Passed)
}

func TestParseScoresAcceptsArrayWrapping(t *testing.T) {
	scores, err := parseScores(`[{"relevance": 0.8, "difficulty_fit": 0.7, "clarity": 0.9, "feedback": "fine"}]`)

	require.NoError(t, err)
	assert.Equal(t, 0.8, scores.Relevance)
}

func TestValidateBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0
	provider := &scriptedLLM{
		response: `{"relevance": 0.9, "difficulty_fit": 0.9, "clarity": 0.9}`,
		onCall: func() {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()
		},
		onDone: func() {
			mu.Lock()
			active--
			mu.Unlock()
		},
	}
	v := NewValidator(provider, 3, 0.6)

	candidates := make([]CandidateQuestion, 12)
	for i := range candidates {
		candidates[i] = descriptive(strings.Repeat("q", i+1))
	}
	v.Validate(context.Background(), baseRequest(12), candidates)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 3)
}

// scriptedLLM returns one fixed response and optionally tracks call
// lifecycle for concurrency assertions.
type scriptedLLM struct {
	response string
	onCall   func()
	onDone   func()
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if s.onCall != nil {
		s.onCall()
	}
	if s.onDone != nil {
		defer s.onDone()
	}
	return s.response, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

package workflow

import (
	"context"
	"testing"

	"ai-papergen-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidatesPlainArray(t *testing.T) {
	raw := `[{"question": "What is refraction?", "type": "Descriptive", "correct_answers": ["bending of light"], "difficulty": 2}]`

	candidates, err := parseCandidates(raw)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "What is refraction?", candidates[0].Text)
	assert.Equal(t, QuestionTypeDescriptive, candidates[0].Type)
}

func TestParseCandidatesStripsMarkdownFence(t *testing.T) {
	raw := "```json\n[{\"question\": \"Q1\", \"correct_answers\": [\"A\"]}]\n```"

	candidates, err := parseCandidates(raw)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Q1", candidates[0].Text)
}

func TestParseCandidatesIgnoresSurroundingProse(t *testing.T) {
	raw := `Here are your questions:
[{"question": "Q1", "correct_answers": ["A"]}]
Let me know if you need more.`

	candidates, err := parseCandidates(raw)

	require.NoError(t, err)
	require.Len(t, candidates, 1)
}

func TestParseCandidatesUnwrapsQuestionsObject(t *testing.T) {
	raw := `{"questions": [{"question": "Q1", "correct_answers": ["A"]}, {"question": "Q2", "correct_answers": ["B"]}]}`

	candidates, err := parseCandidates(raw)

	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestParseCandidatesRejectsNonJSON(t *testing.T) {
	_, err := parseCandidates("I cannot generate questions right now.")
	assert.Error(t, err)
}

func TestGenerateFillsDefaultsAndDropsEmpty(t *testing.T) {
	gen := &fakeGenLLM{responses: []string{
		`[{"question": "Q1", "correct_answers": ["A"]}, {"question": "  ", "correct_answers": ["B"]}]`,
	}}
	g := NewGenerator(gen, 0.7)

	req := baseRequest(2)
	candidates, err := g.Generate(context.Background(), req, &ContextBlock{Text: "ctx"}, 2, nil, 1)

	require.NoError(t, err)
	require.Len(t, candidates, 1, "blank question is dropped")
	assert.Equal(t, req.QuestionType, candidates[0].Type, "missing type defaults to the requested one")
	assert.Equal(t, req.Difficulty, candidates[0].DifficultyEstimate)
}

func TestGenerateWrapsModelFailure(t *testing.T) {
	gen := &fakeGenLLM{err: assert.AnError}
	g := NewGenerator(gen, 0.7)

	_, err := g.Generate(context.Background(), baseRequest(2), &ContextBlock{}, 2, nil, 3)

	var genErr *apperror.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 3, genErr.Attempt)
}

func TestGenerateErrorsOnEmptyArray(t *testing.T) {
	gen := &fakeGenLLM{responses: []string{"[]"}}
	g := NewGenerator(gen, 0.7)

	_, err := g.Generate(context.Background(), baseRequest(2), &ContextBlock{}, 2, nil, 1)

	var genErr *apperror.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestExtractJSONVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[1, 2]`, `[1, 2]`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around object", `sure: {"a": 1} done`, `{"a": 1}`},
		{"no json", "nothing here", ""},
		{"unterminated", `[1, 2`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

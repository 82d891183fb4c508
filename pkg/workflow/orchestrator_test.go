package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/pkg/knowledge"
	"ai-papergen-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueryStore serves canned retrieval hits.
type fakeQueryStore struct {
	hits []*knowledge.ScoredChunk
	err  error
}

func (f *fakeQueryStore) Upsert(ctx context.Context, chunks []*entity.SyllabusChunk) error {
	return nil
}

func (f *fakeQueryStore) Query(ctx context.Context, text string, filter knowledge.Filter, topK int) ([]*knowledge.ScoredChunk, error) {
	return f.hits, f.err
}

func (f *fakeQueryStore) DeleteByDocument(ctx context.Context, documentId string) error { return nil }

func (f *fakeQueryStore) Stats(ctx context.Context) (*knowledge.Stats, error) { return nil, nil }

type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

func (wordCounter) Truncate(text string, maxTokens int) string {
	words := strings.Fields(text)
	if len(words) <= maxTokens {
		return text
	}
	return strings.Join(words[:maxTokens], " ")
}

// fakeGenLLM replays scripted generator responses in order.
type fakeGenLLM struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	err       error
}

func (f *fakeGenLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.prompts = append(f.prompts, history[len(history)-1].Content)
	if len(f.responses) == 0 {
		return "[]", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeGenLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (f *fakeGenLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fakeValLLM scores each candidate from markers embedded in the
// question text: "good" passes high, "bad" fails, "mid NN" passes with
// relevance 0.NN for ordering assertions.
type fakeValLLM struct{}

func (f *fakeValLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	prompt := history[len(history)-1].Content
	switch {
	case strings.Contains(prompt, "bad"):
		return `{"relevance": 0.9, "difficulty_fit": 0.3, "clarity": 0.8, "feedback": "difficulty way off target"}`, nil
	case strings.Contains(prompt, "mid"):
		var pct int
		if idx := strings.Index(prompt, "mid "); idx >= 0 {
			fmt.Sscanf(prompt[idx:], "mid %d", &pct)
		}
		return fmt.Sprintf(`{"relevance": %.2f, "difficulty_fit": 0.8, "clarity": 0.8, "feedback": "ok"}`, float64(pct)/100), nil
	default:
		return `{"relevance": 0.95, "difficulty_fit": 0.9, "clarity": 0.9, "feedback": "solid"}`, nil
	}
}

func (f *fakeValLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func candidatesJSON(labels ...string) string {
	type q struct {
		Question       string   `json:"question"`
		QuestionLaTeX  string   `json:"question_latex"`
		Type           string   `json:"type"`
		CorrectAnswers []string `json:"correct_answers"`
		Difficulty     int      `json:"difficulty"`
	}
	out := make([]q, len(labels))
	for i, label := range labels {
		out[i] = q{
			Question:       label,
			QuestionLaTeX:  label,
			Type:           "Descriptive",
			CorrectAnswers: []string{"model answer"},
			Difficulty:     3,
		}
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func repeatLabels(prefix string, n int, marker string) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s %02d %s", prefix, i, marker)
	}
	return labels
}

func testOrchestrator(store knowledge.Store, gen *fakeGenLLM) *Orchestrator {
	retriever := NewRetriever(store, wordCounter{}, 5, 3000)
	generator := NewGenerator(gen, 0.7)
	validator := NewValidator(&fakeValLLM{}, 4, 0.6)
	return NewOrchestrator(retriever, generator, validator, 3, 0.5)
}

func contextHits() []*knowledge.ScoredChunk {
	return []*knowledge.ScoredChunk{
		{Chunk: &entity.SyllabusChunk{Text: "refraction of light through a prism", TokenCount: 7}, Similarity: 0.92},
		{Chunk: &entity.SyllabusChunk{Text: "total internal reflection and critical angle", TokenCount: 7}, Similarity: 0.88},
	}
}

func baseRequest(count int) GenerationRequest {
	return GenerationRequest{
		Class:        "10",
		Subject:      "Physics",
		Chapter:      "Optics",
		Topic:        "Refraction",
		Count:        count,
		Difficulty:   3,
		QuestionType: QuestionTypeDescriptive,
	}
}

func TestRunAcceptsShortfallWithoutRetry(t *testing.T) {
	labels := append(repeatLabels("q", 6, "good"), repeatLabels("r", 4, "bad")...)
	gen := &fakeGenLLM{responses: []string{candidatesJSON(labels...)}}
	orch := testOrchestrator(&fakeQueryStore{hits: contextHits()}, gen)

	result, err := orch.Run(context.Background(), baseRequest(10))

	require.NoError(t, err)
	assert.Equal(t, 1, gen.callCount(), "pass rate 0.6 must not trigger a retry")
	assert.Len(t, result.Questions, 6)
	assert.Equal(t, 6, result.Report.Delivered)
	assert.Equal(t, 4, result.Report.Shortfall)
	assert.Len(t, result.Report.Attempts, 1)
	assert.InDelta(t, 0.6, result.Report.OverallPassRate, 1e-9)
	assert.Equal(t, 2, result.Report.ContextChunks)
}

func TestRunRetriesThenFinalizes(t *testing.T) {
	first := append(repeatLabels("q", 3, "good"), repeatLabels("r", 7, "bad")...)
	second := append(repeatLabels("s", 5, "good"), repeatLabels("t", 2, "bad")...)
	gen := &fakeGenLLM{responses: []string{candidatesJSON(first...), candidatesJSON(second...)}}
	orch := testOrchestrator(&fakeQueryStore{hits: contextHits()}, gen)

	result, err := orch.Run(context.Background(), baseRequest(10))

	require.NoError(t, err)
	require.Equal(t, 2, gen.callCount())
	assert.Contains(t, gen.prompts[1], "Generate 7 ", "second attempt asks only for the remaining count")
	assert.Contains(t, gen.prompts[1], "rejected", "validator feedback is fed back to the generator")
	assert.Len(t, result.Questions, 8, "approved questions accumulate across attempts")
	assert.Equal(t, 2, result.Report.Shortfall)
	assert.Len(t, result.Report.Attempts, 2)
	assert.InDelta(t, 3.0/10, result.Report.Attempts[0].PassRate, 1e-9)
	assert.InDelta(t, 5.0/7, result.Report.Attempts[1].PassRate, 1e-9)
}

func TestRunDegradesWithoutContext(t *testing.T) {
	gen := &fakeGenLLM{responses: []string{candidatesJSON(repeatLabels("q", 5, "good")...)}}
	orch := testOrchestrator(&fakeQueryStore{}, gen)

	result, err := orch.Run(context.Background(), baseRequest(5))

	require.NoError(t, err)
	assert.Len(t, result.Questions, 5)
	assert.Zero(t, result.Report.ContextChunks)
}

func TestRunFailsWhenNothingEverGenerated(t *testing.T) {
	gen := &fakeGenLLM{err: errors.New("model offline")}
	orch := testOrchestrator(&fakeQueryStore{}, gen)

	result, err := orch.Run(context.Background(), baseRequest(5))

	require.Error(t, err)
	assert.Nil(t, result)
	var genErr *apperror.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestRunCapsDeliveredAtRequestedCount(t *testing.T) {
	labels := []string{"a mid 70", "b mid 90", "c mid 80", "d mid 95", "e mid 75"}
	gen := &fakeGenLLM{responses: []string{candidatesJSON(labels...)}}
	orch := testOrchestrator(&fakeQueryStore{hits: contextHits()}, gen)

	result, err := orch.Run(context.Background(), baseRequest(3))

	require.NoError(t, err)
	require.Len(t, result.Questions, 3)
	assert.Zero(t, result.Report.Shortfall)
	// Highest average score wins the cut.
	assert.Equal(t, "d mid 95", result.Questions[0].Question.Text)
	assert.Equal(t, "b mid 90", result.Questions[1].Question.Text)
	assert.Equal(t, "c mid 80", result.Questions[2].Question.Text)
}

func TestRunCancelledBeforeGenerateKeepsPartialResult(t *testing.T) {
	gen := &fakeGenLLM{responses: []string{candidatesJSON(repeatLabels("q", 5, "good")...)}}
	orch := testOrchestrator(&fakeQueryStore{hits: contextHits()}, gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := orch.Run(ctx, baseRequest(5))

	require.NoError(t, err)
	assert.True(t, result.Report.Cancelled)
	assert.Zero(t, gen.callCount(), "cancellation is observed before the model is called")
	assert.Empty(t, result.Questions)
}

func TestRunDiscardsMalformedCandidates(t *testing.T) {
	raw := `[
		{"question": "first good", "type": "Descriptive", "correct_answers": ["model answer"], "difficulty": 3},
		{"question": "middle question", "type": "Descriptive", "difficulty": 3},
		{"question": "last good", "type": "Descriptive", "correct_answers": ["model answer"], "difficulty": 3}
	]`
	gen := &fakeGenLLM{responses: []string{raw}}
	o := testOrchestrator(&fakeQueryStore{hits: contextHits()}, gen)

	res, err := o.Run(context.Background(), baseRequest(2))

	require.NoError(t, err)
	require.Len(t, res.Questions, 2)
	assert.Equal(t, "first good", res.Questions[0].Question.Text)
	assert.Equal(t, "last good", res.Questions[1].Question.Text)

	require.Len(t, res.Report.Attempts, 1)
	attempt := res.Report.Attempts[0]
	assert.Equal(t, 3, attempt.Generated)
	assert.Equal(t, 1, attempt.Discarded, "the answerless candidate is dropped, not failed")
	assert.Equal(t, 2, attempt.Passed)
	assert.Len(t, attempt.Verdicts, 2)
	assert.InDelta(t, 2.0/3.0, attempt.PassRate, 1e-9)
}

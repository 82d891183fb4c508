package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/pkg/llm"
)

// Generator asks the model for a batch of candidate questions and
// parses its output. Model output is treated as hostile input: fences
// and prose around the JSON payload are stripped before decoding.
type Generator struct {
	provider    llm.LLMProvider
	temperature float64
}

func NewGenerator(provider llm.LLMProvider, temperature float64) *Generator {
	return &Generator{
		provider:    provider,
		temperature: temperature,
	}
}

// Generate produces count candidates for the request. feedback carries
// rejection reasons from the previous attempt, empty on the first.
func (g *Generator) Generate(
	ctx context.Context,
	req GenerationRequest,
	contextBlock *ContextBlock,
	count int,
	feedback []string,
	attempt int,
) ([]CandidateQuestion, error) {
	history := []llm.Message{
		{Role: "system", Content: buildGeneratorSystemPrompt(contextBlock)},
		{Role: "user", Content: buildGeneratorUserPrompt(req, count, feedback)},
	}

	log.Printf("[INFO] Generating %d %s questions (attempt %d)", count, req.QuestionType, attempt)
	raw, err := g.provider.Chat(ctx, history, llm.WithTemperature(g.temperature), llm.WithJSONOutput())
	if err != nil {
		return nil, &apperror.GenerationError{Attempt: attempt, Err: err}
	}

	candidates, err := parseCandidates(raw)
	if err != nil {
		return nil, &apperror.GenerationError{Attempt: attempt, Err: err}
	}

	// Candidates missing the core fields are dropped here rather than
	// sent to validation.
	kept := candidates[:0]
	for _, c := range candidates {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		if c.Type == "" {
			c.Type = req.QuestionType
		}
		if c.DifficultyEstimate == 0 {
			c.DifficultyEstimate = req.Difficulty
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil, &apperror.GenerationError{Attempt: attempt, Err: fmt.Errorf("model returned no usable questions")}
	}
	return kept, nil
}

// parseCandidates decodes a model response that should be a JSON array
// of questions, tolerating markdown fences, leading prose, and the
// common {"questions": [...]} wrapping.
func parseCandidates(raw string) ([]CandidateQuestion, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON payload in response")
	}

	var candidates []CandidateQuestion
	if err := json.Unmarshal([]byte(payload), &candidates); err == nil {
		return candidates, nil
	}

	var wrapper struct {
		Questions []CandidateQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapper); err == nil && len(wrapper.Questions) > 0 {
		return wrapper.Questions, nil
	}

	var single CandidateQuestion
	if err := json.Unmarshal([]byte(payload), &single); err == nil && single.Text != "" {
		return []CandidateQuestion{single}, nil
	}

	return nil, fmt.Errorf("response is not a question array")
}

// extractJSON isolates the outermost JSON value from surrounding text.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return ""
	}
	var end int
	if s[start] == '[' {
		end = strings.LastIndex(s, "]")
	} else {
		end = strings.LastIndex(s, "}")
	}
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

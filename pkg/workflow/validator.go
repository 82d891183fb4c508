package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/pkg/llm"
)

// Validator scores candidates against the request with a bounded pool
// of concurrent model calls. Verdict order follows candidate order and
// question_ref always indexes the original candidate slice.
type Validator struct {
	provider      llm.LLMProvider
	workers       int
	passThreshold float64
}

func NewValidator(provider llm.LLMProvider, workers int, passThreshold float64) *Validator {
	if workers <= 0 {
		workers = 1
	}
	return &Validator{
		provider:      provider,
		workers:       workers,
		passThreshold: passThreshold,
	}
}

type scorePayload struct {
	Relevance     float64 `json:"relevance"`
	DifficultyFit float64 `json:"difficulty_fit"`
	Clarity       float64 `json:"clarity"`
	Feedback      string  `json:"feedback"`
}

// Validate scores the structurally sound candidates and returns one
// verdict each, QuestionRef pointing back into the input slice.
// Malformed candidates are logged as ValidationError and dropped, they
// never become verdicts. A model failure for a single candidate yields
// a failed verdict with the failure as feedback instead of aborting
// the whole attempt.
func (v *Validator) Validate(ctx context.Context, req GenerationRequest, candidates []CandidateQuestion) []ValidationVerdict {
	scorable := make([]int, 0, len(candidates))
	for i, candidate := range candidates {
		if reason := structuralReason(candidate); reason != "" {
			log.Printf("[WARN] Discarding candidate: %v",
				&apperror.ValidationError{QuestionRef: i, Reason: reason})
			continue
		}
		scorable = append(scorable, i)
	}

	verdicts := make([]ValidationVerdict, len(scorable))

	sem := make(chan struct{}, v.workers)
	var wg sync.WaitGroup
	for slot, ref := range scorable {
		wg.Add(1)
		go func(slot, ref int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			verdicts[slot] = v.validateOne(ctx, req, ref, candidates[ref])
		}(slot, ref)
	}
	wg.Wait()

	passed := 0
	for _, verdict := range verdicts {
		if verdict.Passed {
			passed++
		}
	}
	log.Printf("[INFO] Validation complete: %d/%d passed, %d discarded",
		passed, len(verdicts), len(candidates)-len(verdicts))
	return verdicts
}

func (v *Validator) validateOne(ctx context.Context, req GenerationRequest, ref int, candidate CandidateQuestion) ValidationVerdict {
	questionJSON, err := json.Marshal(map[string]any{
		"index":          ref,
		"question":       candidate.Text,
		"question_latex": candidate.TextLaTeX,
		"difficulty":     candidate.DifficultyEstimate,
		"options":        candidate.Options,
	})
	if err != nil {
		return ValidationVerdict{QuestionRef: ref, Feedback: fmt.Sprintf("cannot encode candidate: %v", err)}
	}

	history := []llm.Message{
		{Role: "system", Content: validatorSystemPrompt},
		{Role: "user", Content: buildValidatorUserPrompt(req, string(questionJSON))},
	}
	raw, err := v.provider.Chat(ctx, history, llm.WithTemperature(0), llm.WithJSONOutput())
	if err != nil {
		log.Printf("[WARN] Validator call for candidate %d failed: %v", ref, err)
		return ValidationVerdict{QuestionRef: ref, Feedback: fmt.Sprintf("validation unavailable: %v", err)}
	}

	scores, err := parseScores(raw)
	if err != nil {
		log.Printf("[WARN] Validator response for candidate %d unparseable: %v", ref, err)
		return ValidationVerdict{QuestionRef: ref, Feedback: fmt.Sprintf("validation unparseable: %v", err)}
	}

	verdict := ValidationVerdict{
		QuestionRef: ref,
		Scores: ValidationScores{
			Relevance:     clampScore(scores.Relevance),
			DifficultyFit: clampScore(scores.DifficultyFit),
			Clarity:       clampScore(scores.Clarity),
		},
		Feedback: scores.Feedback,
	}
	verdict.Passed = verdict.Scores.Relevance >= v.passThreshold &&
		verdict.Scores.DifficultyFit >= v.passThreshold &&
		verdict.Scores.Clarity >= v.passThreshold
	return verdict
}

// structuralReason reports why a candidate cannot be scored at all.
// A structurally broken question is discarded, never scored.
func structuralReason(c CandidateQuestion) string {
	if strings.TrimSpace(c.Text) == "" {
		return "question text is empty"
	}
	switch c.Type {
	case QuestionTypeObjective:
		if len(c.Options) < 2 {
			return "objective question needs at least two options"
		}
		if len(c.CorrectAnswers) == 0 {
			return "objective question has no correct answer"
		}
	case QuestionTypeDescriptive:
		if len(c.CorrectAnswers) == 0 || strings.TrimSpace(c.CorrectAnswers[0]) == "" {
			return "descriptive question has no model answer"
		}
	default:
		return fmt.Sprintf("unknown question type %q", c.Type)
	}
	return ""
}

func parseScores(raw string) (*scorePayload, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON payload in response")
	}

	var single scorePayload
	if err := json.Unmarshal([]byte(payload), &single); err == nil {
		return &single, nil
	}

	// Some models insist on returning an array even for one question.
	var many []scorePayload
	if err := json.Unmarshal([]byte(payload), &many); err == nil && len(many) > 0 {
		return &many[0], nil
	}
	return nil, fmt.Errorf("response is not a score object")
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

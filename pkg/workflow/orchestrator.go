package workflow

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"ai-papergen-be/internal/pkg/apperror"
)

// Orchestrator drives one generation run through the phase machine.
// All policy lives in Transition; the orchestrator only performs the
// side effects each phase requires and feeds results back into state.
type Orchestrator struct {
	retriever *Retriever
	generator *Generator
	validator *Validator

	maxAttempts   int
	retryPassRate float64
}

func NewOrchestrator(retriever *Retriever, generator *Generator, validator *Validator, maxAttempts int, retryPassRate float64) *Orchestrator {
	return &Orchestrator{
		retriever:     retriever,
		generator:     generator,
		validator:     validator,
		maxAttempts:   maxAttempts,
		retryPassRate: retryPassRate,
	}
}

// Run executes the workflow to completion. Cancellation via ctx is
// observed between attempts: questions already approved are kept and
// returned with the report marked cancelled.
func (o *Orchestrator) Run(ctx context.Context, req GenerationRequest) (*Result, error) {
	state := &WorkflowState{
		Request:       req,
		MaxAttempts:   o.maxAttempts,
		RetryPassRate: o.retryPassRate,
	}

	var attemptStart time.Time
	var lastErr error

	phase := PhaseRetrieve
	for phase != PhaseDone && phase != PhaseFailed {
		switch phase {
		case PhaseRetrieve:
			block, err := o.retriever.Retrieve(ctx, req)
			if err != nil {
				// A broken store degrades the run to general-knowledge
				// generation instead of killing it.
				log.Printf("[WARN] Context retrieval failed, continuing without context: %v", err)
				block = &ContextBlock{}
				lastErr = err
			}
			state.Context = block

		case PhaseGenerate:
			if ctx.Err() != nil {
				state.Cancelled = true
				break
			}
			attemptStart = time.Now()
			state.AttemptCount++
			state.Candidates = nil
			state.Verdicts = nil

			candidates, err := o.generator.Generate(ctx, req, state.Context, state.Remaining(), state.LastFeedback, state.AttemptCount)
			if err != nil {
				log.Printf("[ERROR] Attempt %d generation failed: %v", state.AttemptCount, err)
				lastErr = err
			} else {
				state.Candidates = candidates
			}

		case PhaseValidate:
			state.Verdicts = o.validator.Validate(ctx, req, state.Candidates)
			var feedback []string
			for _, verdict := range state.Verdicts {
				if verdict.Passed {
					state.AccumulatedPassed = append(state.AccumulatedPassed, PassedQuestion{
						Question: state.Candidates[verdict.QuestionRef],
						Verdict:  verdict,
						Attempt:  state.AttemptCount,
					})
				} else if verdict.Feedback != "" {
					feedback = append(feedback, verdict.Feedback)
				}
			}
			state.LastFeedback = feedback

		case PhaseDecide:
			report := AttemptReport{
				Attempt:    state.AttemptCount,
				Generated:  len(state.Candidates),
				Passed:     countPassed(state.Verdicts),
				Discarded:  len(state.Candidates) - len(state.Verdicts),
				PassRate:   state.AttemptPassRate(),
				DurationMs: time.Since(attemptStart).Milliseconds(),
				Verdicts:   state.Verdicts,
			}
			state.Attempts = append(state.Attempts, report)
			log.Printf("[INFO] Attempt %d: %d/%d passed (%.0f%%), %d approved total",
				report.Attempt, report.Passed, report.Generated, report.PassRate*100, len(state.AccumulatedPassed))

		case PhaseFinalize:
			// A cancelled GENERATE phase never produced an attempt
			// report, so the open attempt is closed as empty here.
			if state.Cancelled && state.AttemptCount > len(state.Attempts) {
				state.Attempts = append(state.Attempts, AttemptReport{
					Attempt: state.AttemptCount,
				})
			}
		}

		phase = Transition(phase, state)
	}

	if phase == PhaseFailed {
		if lastErr == nil {
			lastErr = fmt.Errorf("no syllabus context and no questions generated")
		}
		return nil, &apperror.GenerationError{Attempt: state.AttemptCount, Err: lastErr}
	}

	return o.finalize(state), nil
}

// finalize selects the delivered questions from everything approved
// across attempts: best average score first, earlier attempt winning
// ties, original order preserved beyond that.
func (o *Orchestrator) finalize(state *WorkflowState) *Result {
	selected := make([]PassedQuestion, len(state.AccumulatedPassed))
	copy(selected, state.AccumulatedPassed)

	sort.SliceStable(selected, func(i, j int) bool {
		ai, aj := selected[i].Verdict.Scores.Average(), selected[j].Verdict.Scores.Average()
		if ai != aj {
			return ai > aj
		}
		return selected[i].Attempt < selected[j].Attempt
	})
	if len(selected) > state.Request.Count {
		selected = selected[:state.Request.Count]
	}

	totalGen, totalPassed := 0, 0
	for _, a := range state.Attempts {
		totalGen += a.Generated
		totalPassed += a.Passed
	}
	overall := 0.0
	if totalGen > 0 {
		overall = float64(totalPassed) / float64(totalGen)
	}

	return &Result{
		Questions: selected,
		Report: Report{
			Attempts:        state.Attempts,
			OverallPassRate: overall,
			Requested:       state.Request.Count,
			Delivered:       len(selected),
			Shortfall:       state.Request.Count - len(selected),
			ContextChunks:   state.Context.ChunkCount,
			Cancelled:       state.Cancelled,
			LastFeedback:    state.LastFeedback,
		},
	}
}

func countPassed(verdicts []ValidationVerdict) int {
	n := 0
	for _, v := range verdicts {
		if v.Passed {
			n++
		}
	}
	return n
}

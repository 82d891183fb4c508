package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func verdictsFor(passed ...bool) []ValidationVerdict {
	out := make([]ValidationVerdict, len(passed))
	for i, p := range passed {
		out[i] = ValidationVerdict{QuestionRef: i, Passed: p}
	}
	return out
}

func TestTransitionHappyPath(t *testing.T) {
	s := &WorkflowState{
		Request:       GenerationRequest{Count: 5},
		Context:       &ContextBlock{Text: "optics", ChunkCount: 1},
		MaxAttempts:   3,
		RetryPassRate: 0.5,
	}

	assert.Equal(t, PhaseGenerate, Transition(PhaseRetrieve, s))
	assert.Equal(t, PhaseValidate, Transition(PhaseGenerate, s))
	assert.Equal(t, PhaseDecide, Transition(PhaseValidate, s))
}

func TestDecideRetriesOnLowPassRate(t *testing.T) {
	s := &WorkflowState{
		Request:       GenerationRequest{Count: 10},
		Context:       &ContextBlock{Text: "x"},
		AttemptCount:  1,
		Candidates:    make([]CandidateQuestion, 10),
		Verdicts:      verdictsFor(true, true, true, false, false, false, false, false, false, false),
		MaxAttempts:   3,
		RetryPassRate: 0.5,
	}
	s.AccumulatedPassed = make([]PassedQuestion, 3)

	assert.Equal(t, PhaseGenerate, Transition(PhaseDecide, s), "a 0.3 pass rate is below the retry line")
}

func TestDecideAcceptsShortfallOnGoodPassRate(t *testing.T) {
	// 6 of 10 passed: quality is fine, the shortfall of 4 is reported,
	// not retried.
	s := &WorkflowState{
		Request:       GenerationRequest{Count: 10},
		Context:       &ContextBlock{Text: "x"},
		AttemptCount:  1,
		Candidates:    make([]CandidateQuestion, 10),
		Verdicts:      verdictsFor(true, true, true, true, true, true, false, false, false, false),
		MaxAttempts:   3,
		RetryPassRate: 0.5,
	}
	s.AccumulatedPassed = make([]PassedQuestion, 6)

	assert.Equal(t, PhaseFinalize, Transition(PhaseDecide, s))
}

func TestDecideStopsAtMaxAttempts(t *testing.T) {
	s := &WorkflowState{
		Request:       GenerationRequest{Count: 10},
		Context:       &ContextBlock{Text: "x"},
		AttemptCount:  3,
		Candidates:    make([]CandidateQuestion, 10),
		Verdicts:      verdictsFor(false, false, false, false, false, false, false, false, false, false),
		MaxAttempts:   3,
		RetryPassRate: 0.5,
	}

	assert.Equal(t, PhaseFinalize, Transition(PhaseDecide, s))
}

func TestDecideStopsWhenCountReached(t *testing.T) {
	s := &WorkflowState{
		Request:       GenerationRequest{Count: 3},
		Context:       &ContextBlock{Text: "x"},
		AttemptCount:  1,
		Candidates:    make([]CandidateQuestion, 10),
		Verdicts:      verdictsFor(true, true, true, false, false, false, false, false, false, false),
		MaxAttempts:   3,
		RetryPassRate: 0.5,
	}
	s.AccumulatedPassed = make([]PassedQuestion, 3)

	assert.Equal(t, PhaseFinalize, Transition(PhaseDecide, s),
		"already have the requested count, pass rate no longer matters")
}

func TestDecideBoundaryPassRate(t *testing.T) {
	// Exactly at the retry threshold means no retry: the rule is
	// strictly-below.
	s := &WorkflowState{
		Request:       GenerationRequest{Count: 10},
		Context:       &ContextBlock{Text: "x"},
		AttemptCount:  1,
		Candidates:    make([]CandidateQuestion, 10),
		Verdicts:      verdictsFor(true, true, true, true, true, false, false, false, false, false),
		MaxAttempts:   3,
		RetryPassRate: 0.5,
	}
	s.AccumulatedPassed = make([]PassedQuestion, 5)

	assert.Equal(t, PhaseFinalize, Transition(PhaseDecide, s))
}

func TestGenerateRoutesToFinalizeWhenCancelled(t *testing.T) {
	s := &WorkflowState{
		Request:   GenerationRequest{Count: 5},
		Context:   &ContextBlock{Text: "x"},
		Cancelled: true,
	}

	assert.Equal(t, PhaseFinalize, Transition(PhaseGenerate, s))
}

func TestFinalizeFailsOnlyWhenTrulyEmpty(t *testing.T) {
	empty := &WorkflowState{
		Request: GenerationRequest{Count: 5},
		Context: &ContextBlock{},
	}
	assert.Equal(t, PhaseFailed, Transition(PhaseFinalize, empty))

	// Empty context but something was generated: degraded, not failed.
	degraded := &WorkflowState{
		Request:  GenerationRequest{Count: 5},
		Context:  &ContextBlock{},
		Attempts: []AttemptReport{{Attempt: 1, Generated: 5}},
	}
	assert.Equal(t, PhaseDone, Transition(PhaseFinalize, degraded))

	// Context present, nothing approved: still a reportable outcome.
	noPasses := &WorkflowState{
		Request: GenerationRequest{Count: 5},
		Context: &ContextBlock{Text: "x", ChunkCount: 1},
	}
	assert.Equal(t, PhaseDone, Transition(PhaseFinalize, noPasses))
}

func TestRemainingNeverNegative(t *testing.T) {
	s := &WorkflowState{
		Request:           GenerationRequest{Count: 3},
		AccumulatedPassed: make([]PassedQuestion, 5),
	}
	assert.Zero(t, s.Remaining())
}

func TestAttemptPassRateEmptyAttempt(t *testing.T) {
	s := &WorkflowState{}
	assert.Zero(t, s.AttemptPassRate())
}

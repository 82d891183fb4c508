package workflow

// Phase is a state of the generation workflow machine.
type Phase string

const (
	PhaseRetrieve Phase = "RETRIEVE"
	PhaseGenerate Phase = "GENERATE"
	PhaseValidate Phase = "VALIDATE"
	PhaseDecide   Phase = "DECIDE"
	PhaseFinalize Phase = "FINALIZE"
	PhaseDone     Phase = "DONE"
	PhaseFailed   Phase = "FAILED"
)

// WorkflowState is owned exclusively by one orchestrator run and
// discarded on completion. Candidates and Verdicts hold only the
// current attempt; AccumulatedPassed never shrinks across attempts.
type WorkflowState struct {
	Request      GenerationRequest
	Context      *ContextBlock
	AttemptCount int

	// Current attempt
	Candidates []CandidateQuestion
	Verdicts   []ValidationVerdict

	AccumulatedPassed []PassedQuestion
	LastFeedback      []string // feedback from the most recent VALIDATE only
	Attempts          []AttemptReport
	Cancelled         bool

	// Policy knobs, fixed for the run
	MaxAttempts   int
	RetryPassRate float64
}

// Remaining is how many questions the next GENERATE must produce.
func (s *WorkflowState) Remaining() int {
	r := s.Request.Count - len(s.AccumulatedPassed)
	if r < 0 {
		return 0
	}
	return r
}

// AttemptPassRate is the pass rate of the current attempt. A zero
// generated count yields 0, which routes DECIDE towards retry while
// attempts remain.
func (s *WorkflowState) AttemptPassRate() float64 {
	if len(s.Candidates) == 0 {
		return 0
	}
	passed := 0
	for _, v := range s.Verdicts {
		if v.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(s.Candidates))
}

// Transition is the pure state transition function. It inspects the
// state and returns the next phase without performing side effects,
// which keeps the retry policy unit-testable without any external
// service.
func Transition(current Phase, s *WorkflowState) Phase {
	switch current {
	case PhaseRetrieve:
		return PhaseGenerate
	case PhaseGenerate:
		if s.Cancelled {
			return PhaseFinalize
		}
		return PhaseValidate
	case PhaseValidate:
		return PhaseDecide
	case PhaseDecide:
		// Retry on low quality, not on quantity shortfall.
		if s.AttemptPassRate() < s.RetryPassRate &&
			s.AttemptCount < s.MaxAttempts &&
			len(s.AccumulatedPassed) < s.Request.Count {
			return PhaseGenerate
		}
		return PhaseFinalize
	case PhaseFinalize:
		// A run that retrieved nothing and generated nothing has no
		// partial result to surface.
		if len(s.AccumulatedPassed) == 0 && s.Context.Empty() && totalGenerated(s) == 0 {
			return PhaseFailed
		}
		return PhaseDone
	default:
		return PhaseFailed
	}
}

func totalGenerated(s *WorkflowState) int {
	total := 0
	for _, a := range s.Attempts {
		total += a.Generated
	}
	return total
}

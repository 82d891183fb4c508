package entity

// QuestionType selects the paper style being generated.
type QuestionType string

const (
	QuestionTypeObjective   QuestionType = "Objective"
	QuestionTypeDescriptive QuestionType = "Descriptive"
)

// CandidateQuestion is one question produced by the generator, before
// validation. LaTeX variants ride along for export.
type CandidateQuestion struct {
	Text               string       `json:"question"`
	TextLaTeX          string       `json:"question_latex,omitempty"`
	Type               QuestionType `json:"type"`
	Options            []string     `json:"options,omitempty"`
	OptionsLaTeX       []string     `json:"options_latex,omitempty"`
	CorrectAnswers     []string     `json:"correct_answers"`
	CorrectAnswerLaTeX string       `json:"correct_answer_latex,omitempty"`
	DifficultyEstimate int          `json:"difficulty"`
}

// ValidationScores are the three independent quality dimensions, each
// in [0,1]. All three are always computed so feedback stays complete.
type ValidationScores struct {
	Relevance     float64 `json:"relevance"`
	DifficultyFit float64 `json:"difficulty_fit"`
	Clarity       float64 `json:"clarity"`
}

func (s ValidationScores) Average() float64 {
	return (s.Relevance + s.DifficultyFit + s.Clarity) / 3
}

// ValidationVerdict is the validator's judgement of one candidate for
// one attempt. A failed verdict is a valid outcome, not an error.
type ValidationVerdict struct {
	QuestionRef int              `json:"question_ref"`
	Passed      bool             `json:"passed"`
	Scores      ValidationScores `json:"scores"`
	Feedback    string           `json:"feedback"`
}

// PassedQuestion pairs an approved candidate with its verdict and the
// attempt that produced it (used for the finalize tie-break).
type PassedQuestion struct {
	Question CandidateQuestion `json:"question"`
	Verdict  ValidationVerdict `json:"verdict"`
	Attempt  int               `json:"attempt"`
}

// AttemptReport summarizes one generate/validate round. Discarded
// counts structurally malformed candidates dropped before scoring.
type AttemptReport struct {
	Attempt    int                 `json:"attempt"`
	Generated  int                 `json:"generated"`
	Passed     int                 `json:"passed"`
	Discarded  int                 `json:"discarded,omitempty"`
	PassRate   float64             `json:"pass_rate"`
	DurationMs int64               `json:"duration_ms"`
	Verdicts   []ValidationVerdict `json:"verdicts"`
}

// ValidationReport is the full validation report emitted when a
// generation run finalizes.
type ValidationReport struct {
	Attempts        []AttemptReport `json:"attempts"`
	OverallPassRate float64         `json:"overall_pass_rate"`
	Requested       int             `json:"requested"`
	Delivered       int             `json:"delivered"`
	Shortfall       int             `json:"shortfall"`
	ContextChunks   int             `json:"context_chunks"`
	Cancelled       bool            `json:"cancelled,omitempty"`
	LastFeedback    []string        `json:"last_feedback,omitempty"`
}

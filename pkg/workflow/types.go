package workflow

import "ai-papergen-be/internal/entity"

// The question and report shapes live in entity so persistence can
// reference them without depending on the workflow machinery. The
// aliases keep this package's API self-contained.
type (
	QuestionType      = entity.QuestionType
	CandidateQuestion = entity.CandidateQuestion
	ValidationScores  = entity.ValidationScores
	ValidationVerdict = entity.ValidationVerdict
	PassedQuestion    = entity.PassedQuestion
	AttemptReport     = entity.AttemptReport
	Report            = entity.ValidationReport
)

const (
	QuestionTypeObjective   = entity.QuestionTypeObjective
	QuestionTypeDescriptive = entity.QuestionTypeDescriptive
)

// ChoiceType is meaningful only for objective questions.
type ChoiceType string

const (
	ChoiceTypeSingle   ChoiceType = "Single"
	ChoiceTypeMultiple ChoiceType = "Multiple"
)

// GenerationRequest carries all user-chosen parameters for one paper.
// Immutable, created per user action.
type GenerationRequest struct {
	Class        string
	Subject      string
	Chapter      string
	Topic        string
	Count        int // 1..50
	Difficulty   int // 1..5
	QuestionType QuestionType
	ChoiceType   ChoiceType
}

// ContextBlock is the concatenated retrieved syllabus text handed to
// the generator, already truncated to the token budget.
type ContextBlock struct {
	Text       string
	ChunkCount int
	TokenCount int
}

func (c *ContextBlock) Empty() bool {
	return c == nil || c.Text == ""
}

// Result is the orchestrator's output for one run.
type Result struct {
	Questions []PassedQuestion `json:"questions"`
	Report    Report           `json:"report"`
}

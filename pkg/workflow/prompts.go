package workflow

import (
	"fmt"
	"strings"
)

const generatorSystemPrompt = `You are an expert question paper generator for educational assessments.
Your task is to generate high-quality questions that match the specified difficulty level and type.
You MUST generate questions in BOTH plain text AND LaTeX format.

Difficulty Level Guidelines:
- Level 1 (Easy): Basic recall, definitions, simple calculations
- Level 2 (Moderate): Understanding concepts, straightforward applications
- Level 3 (Medium): Problem-solving, multi-step solutions
- Level 4 (Difficult): Complex applications, critical thinking
- Level 5 (Extremely Difficult): Advanced problem-solving, synthesis of multiple concepts

Context from syllabus:
%s

Generate questions as a JSON array with this EXACT structure:
[
  {
    "question": "Plain text question here",
    "question_latex": "LaTeX formatted question here (use \\text for text, proper math symbols)",
    "type": "Objective" or "Descriptive",
    "options": ["A) option1", "B) option2", "C) option3", "D) option4"] or null for descriptive,
    "options_latex": ["A) LaTeX option1", "B) LaTeX option2", "C) LaTeX option3", "D) LaTeX option4"] or null,
    "correct_answers": ["B) option2"] or ["Brief answer for descriptive"],
    "correct_answer_latex": "LaTeX formatted answer",
    "difficulty": 3
  }
]

CRITICAL REQUIREMENTS:
1. Ensure questions are relevant to the topic and aligned with difficulty
2. For objective questions, include exactly 4 options; multiple-choice questions list every correct option in correct_answers
3. For descriptive questions, provide a model answer
4. Use proper LaTeX syntax: \frac{}{}, \sqrt{}, x^2, \text{} for text, etc.
5. Return ONLY valid JSON, no additional text
6. Generate diverse questions covering different aspects of the topic`

const validatorSystemPrompt = `You are an expert educational content validator. Score each question on three independent dimensions, each from 0.0 to 1.0:

1. relevance: Does it match the topic, chapter, and subject?
2. difficulty_fit: Does it align with the target difficulty level?
3. clarity: Is it unambiguous, well-structured, and is the LaTeX correct?

For EACH question, provide a JSON object:
{
  "relevance": 0.85,
  "difficulty_fit": 0.7,
  "clarity": 0.9,
  "feedback": "Specific feedback on strengths and issues"
}

Return as a JSON array matching the order of the input questions.
Return ONLY valid JSON, no additional text.`

func buildGeneratorSystemPrompt(contextBlock *ContextBlock) string {
	contextText := "No specific context available. Use general knowledge."
	if !contextBlock.Empty() {
		contextText = contextBlock.Text
	}
	return fmt.Sprintf(generatorSystemPrompt, contextText)
}

func buildGeneratorUserPrompt(req GenerationRequest, count int, feedback []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d %s questions on the topic %q from chapter %q\nfor class %s %s.\n\n",
		count, req.QuestionType, req.Topic, req.Chapter, req.Class, req.Subject)
	fmt.Fprintf(&b, "Difficulty: %d/5\n", req.Difficulty)
	if req.QuestionType == QuestionTypeObjective {
		fmt.Fprintf(&b, "Choice Type: %s\n", req.ChoiceType)
	}
	if len(feedback) > 0 {
		b.WriteString("\nThe previous batch was rejected for these reasons. Avoid repeating them:\n")
		for _, f := range feedback {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	b.WriteString("\nProvide output as a JSON array.")
	return b.String()
}

func buildValidatorUserPrompt(req GenerationRequest, questionsJSON string) string {
	var b strings.Builder
	b.WriteString("Validate these questions for:\n")
	fmt.Fprintf(&b, "Topic: %s\nChapter: %s\nSubject: %s\nClass: %s\nDifficulty: %d/5\n\n",
		req.Topic, req.Chapter, req.Subject, req.Class, req.Difficulty)
	fmt.Fprintf(&b, "Questions to validate:\n%s\n\nProvide validation as a JSON array.", questionsJSON)
	return b.String()
}

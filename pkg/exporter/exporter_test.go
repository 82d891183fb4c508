package exporter

import (
	"strings"
	"testing"

	"ai-papergen-be/pkg/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePaper() Paper {
	return Paper{
		Class:        "10",
		Subject:      "Physics",
		Chapter:      "Optics",
		Topic:        "Refraction",
		Difficulty:   3,
		QuestionType: "Objective",
		Questions: []workflow.PassedQuestion{
			{
				Question: workflow.CandidateQuestion{
					Text:               "What is the refractive index of water?",
					TextLaTeX:          "What is the refractive index of water? $n = \\frac{c}{v}$",
					Type:               workflow.QuestionTypeObjective,
					Options:            []string{"A) 1.00", "B) 1.33", "C) 1.50", "D) 2.42"},
					OptionsLaTeX:       []string{"A) $1.00$", "B) $1.33$", "C) $1.50$", "D) $2.42$"},
					CorrectAnswers:     []string{"B) 1.33"},
					CorrectAnswerLaTeX: "$1.33$",
				},
			},
			{
				Question: workflow.CandidateQuestion{
					Text:           "State Snell's law.",
					Type:           workflow.QuestionTypeDescriptive,
					CorrectAnswers: []string{"n1 sin i = n2 sin r"},
				},
			},
		},
	}
}

func TestRenderTextLayout(t *testing.T) {
	out := RenderText(samplePaper())

	assert.Contains(t, out, "QUESTION PAPER")
	assert.Contains(t, out, "Class: 10 | Subject: Physics")
	assert.Contains(t, out, "1. What is the refractive index of water?")
	assert.Contains(t, out, "   B) 1.33")
	assert.Contains(t, out, "2. State Snell's law.")
	assert.Contains(t, out, "ANSWER KEY")
	assert.Contains(t, out, "2. n1 sin i = n2 sin r")
}

func TestRenderLaTeXDocument(t *testing.T) {
	out := RenderLaTeX(samplePaper())

	assert.True(t, strings.HasPrefix(out, "\\documentclass[12pt]{article}"))
	assert.Contains(t, out, "\\author{10 - Physics}")
	assert.Contains(t, out, "\\section*{Chapter: Optics}")
	assert.Contains(t, out, "\\item What is the refractive index of water? $n = \\frac{c}{v}$")
	assert.Contains(t, out, "  \\item $1.33$", "option label prefix is stripped for enumerate")
	assert.NotContains(t, out, "\\item B) $1.33$")
	assert.Contains(t, out, "\\section*{Answer Key}")
	assert.Contains(t, out, "\\end{document}")
	// Descriptive question falls back to plain text, no latex variant.
	assert.Contains(t, out, "\\item State Snell's law.")
}

func TestRenderHTMLEscapesAndIncludesMathJax(t *testing.T) {
	p := samplePaper()
	p.Subject = "Physics <b>"

	out := RenderHTML(p)

	assert.Contains(t, out, "mathjax@3")
	assert.Contains(t, out, "Physics &lt;b&gt;")
	assert.NotContains(t, out, "Physics <b>")
	assert.Contains(t, out, "Answer Key")
}

func TestRenderEmptyPaper(t *testing.T) {
	empty := Paper{Class: "10", Subject: "Physics"}

	assert.Contains(t, RenderText(empty), "No valid questions generated")
	assert.Contains(t, RenderLaTeX(empty), "No valid questions generated")
	assert.Contains(t, RenderHTML(empty), "No valid questions generated")
}

func TestRenderDispatch(t *testing.T) {
	p := samplePaper()

	content, mime, err := Render(FormatText, p)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", mime)
	assert.NotEmpty(t, content)

	_, mime, err = Render(FormatLaTeX, p)
	require.NoError(t, err)
	assert.Equal(t, "application/x-latex", mime)

	_, mime, err = Render(FormatHTML, p)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", mime)

	_, _, err = Render(Format("pdf"), p)
	assert.Error(t, err)
}

func TestStripOptionLabel(t *testing.T) {
	assert.Equal(t, "1.33", stripOptionLabel("B) 1.33"))
	assert.Equal(t, "unprefixed option", stripOptionLabel("unprefixed option"))
	assert.Equal(t, "x", stripOptionLabel("x"))
}

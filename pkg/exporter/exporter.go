package exporter

import (
	"fmt"
	"html"
	"strings"

	"ai-papergen-be/pkg/workflow"
)

// Format selects the rendering of a finalized paper.
type Format string

const (
	FormatText  Format = "text"
	FormatLaTeX Format = "latex"
	FormatHTML  Format = "html"
)

// Paper is the renderable view of a generated question paper.
type Paper struct {
	Class        string
	Subject      string
	Chapter      string
	Topic        string
	Difficulty   int
	QuestionType string
	Questions    []workflow.PassedQuestion
}

// Render produces the paper in the requested format and returns the
// content alongside its MIME type.
func Render(format Format, p Paper) (string, string, error) {
	switch format {
	case FormatText:
		return RenderText(p), "text/plain; charset=utf-8", nil
	case FormatLaTeX:
		return RenderLaTeX(p), "application/x-latex", nil
	case FormatHTML:
		return RenderHTML(p), "text/html; charset=utf-8", nil
	default:
		return "", "", fmt.Errorf("unsupported export format %q", format)
	}
}

func RenderText(p Paper) string {
	if len(p.Questions) == 0 {
		return "No valid questions generated. Please try again."
	}

	var b strings.Builder
	rule := strings.Repeat("=", 80)
	b.WriteString(rule + "\n")
	b.WriteString("QUESTION PAPER\n")
	fmt.Fprintf(&b, "Class: %s | Subject: %s\n", p.Class, p.Subject)
	fmt.Fprintf(&b, "Chapter: %s | Topic: %s\n", p.Chapter, p.Topic)
	fmt.Fprintf(&b, "Difficulty Level: %d/5 | Type: %s\n", p.Difficulty, p.QuestionType)
	b.WriteString(rule + "\n\n")

	for i, pq := range p.Questions {
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, pq.Question.Text)
		for _, opt := range pq.Question.Options {
			fmt.Fprintf(&b, "   %s\n", opt)
		}
		if len(pq.Question.Options) > 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString(strings.Repeat("-", 80) + "\n")
	b.WriteString("ANSWER KEY\n\n")
	for i, pq := range p.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.Join(pq.Question.CorrectAnswers, ", "))
	}
	return b.String()
}

func RenderLaTeX(p Paper) string {
	if len(p.Questions) == 0 {
		return "No valid questions generated."
	}

	var b strings.Builder
	b.WriteString("\\documentclass[12pt]{article}\n")
	b.WriteString("\\usepackage{amsmath}\n")
	b.WriteString("\\usepackage{amssymb}\n")
	b.WriteString("\\usepackage{geometry}\n")
	b.WriteString("\\geometry{margin=1in}\n")
	b.WriteString("\\title{Question Paper}\n")
	fmt.Fprintf(&b, "\\author{%s - %s}\n", p.Class, p.Subject)
	b.WriteString("\\date{\\today}\n")
	b.WriteString("\\begin{document}\n")
	b.WriteString("\\maketitle\n\n")
	fmt.Fprintf(&b, "\\section*{Chapter: %s}\n", p.Chapter)
	fmt.Fprintf(&b, "\\subsection*{Topic: %s}\n", p.Topic)
	fmt.Fprintf(&b, "\\textbf{Difficulty Level:} %d/5 \\\\\n", p.Difficulty)
	fmt.Fprintf(&b, "\\textbf{Question Type:} %s\n\n", p.QuestionType)
	b.WriteString("\\begin{enumerate}\n\n")

	for _, pq := range p.Questions {
		fmt.Fprintf(&b, "\\item %s\n\n", latexQuestion(pq.Question))
		opts := pq.Question.OptionsLaTeX
		if len(opts) == 0 {
			opts = pq.Question.Options
		}
		if len(opts) > 0 {
			b.WriteString("\\begin{enumerate}\n")
			for _, opt := range opts {
				fmt.Fprintf(&b, "  \\item %s\n", stripOptionLabel(opt))
			}
			b.WriteString("\\end{enumerate}\n\n")
		}
	}
	b.WriteString("\\end{enumerate}\n\n")

	b.WriteString("\\section*{Answer Key}\n")
	b.WriteString("\\begin{enumerate}\n")
	for _, pq := range p.Questions {
		answer := pq.Question.CorrectAnswerLaTeX
		if answer == "" {
			answer = strings.Join(pq.Question.CorrectAnswers, ", ")
		}
		fmt.Fprintf(&b, "  \\item %s\n", answer)
	}
	b.WriteString("\\end{enumerate}\n")
	b.WriteString("\\end{document}\n")
	return b.String()
}

// RenderHTML produces a standalone page with MathJax so LaTeX math in
// questions renders in the browser without a converter toolchain.
func RenderHTML(p Paper) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>Question Paper</title>\n")
	b.WriteString("<script src=\"https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js\" async></script>\n")
	b.WriteString("<style>body{font-family:Georgia,serif;max-width:52rem;margin:2rem auto;padding:0 1rem}header{border-bottom:2px solid #333;margin-bottom:1.5rem}ol.options{list-style-type:upper-alpha}section.answers{border-top:1px solid #999;margin-top:2rem}</style>\n")
	b.WriteString("</head>\n<body>\n")

	b.WriteString("<header>\n<h1>Question Paper</h1>\n")
	fmt.Fprintf(&b, "<p>Class: %s | Subject: %s<br>Chapter: %s | Topic: %s<br>Difficulty Level: %d/5 | Type: %s</p>\n</header>\n",
		html.EscapeString(p.Class), html.EscapeString(p.Subject),
		html.EscapeString(p.Chapter), html.EscapeString(p.Topic),
		p.Difficulty, html.EscapeString(p.QuestionType))

	if len(p.Questions) == 0 {
		b.WriteString("<p>No valid questions generated. Please try again.</p>\n</body>\n</html>\n")
		return b.String()
	}

	b.WriteString("<ol>\n")
	for _, pq := range p.Questions {
		fmt.Fprintf(&b, "<li><p>%s</p>\n", html.EscapeString(htmlQuestion(pq.Question)))
		if len(pq.Question.Options) > 0 {
			b.WriteString("<ol class=\"options\">\n")
			for _, opt := range pq.Question.Options {
				fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(stripOptionLabel(opt)))
			}
			b.WriteString("</ol>\n")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ol>\n")

	b.WriteString("<section class=\"answers\">\n<h2>Answer Key</h2>\n<ol>\n")
	for _, pq := range p.Questions {
		fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(strings.Join(pq.Question.CorrectAnswers, ", ")))
	}
	b.WriteString("</ol>\n</section>\n")

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func latexQuestion(q workflow.CandidateQuestion) string {
	if q.TextLaTeX != "" {
		return q.TextLaTeX
	}
	return q.Text
}

// htmlQuestion prefers the LaTeX form so MathJax can typeset inline
// math; plain text is already valid MathJax input.
func htmlQuestion(q workflow.CandidateQuestion) string {
	if q.TextLaTeX != "" {
		return q.TextLaTeX
	}
	return q.Text
}

// stripOptionLabel removes "A) " style prefixes so enumerate / the CSS
// counter supplies the labels instead.
func stripOptionLabel(opt string) string {
	if len(opt) > 3 && opt[1] == ')' {
		return strings.TrimSpace(opt[2:])
	}
	return opt
}

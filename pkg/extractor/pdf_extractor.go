package extractor

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ai-papergen-be/internal/pkg/apperror"

	"github.com/ledongthuc/pdf"
)

// Page is one page of extracted text.
type Page struct {
	Number int
	Text   string
}

// Extractor turns an uploaded document into plain text. Scanned or
// image-only documents produce an ExtractionError, never a retry.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractFile reads a document from disk and returns its pages.
// PDF is the primary format; plain .txt and .md are passed through as a
// single page for convenience during seeding.
func (e *Extractor) ExtractFile(path string) ([]Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.extractPDF(path)
	case ".txt", ".md":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return nil, &apperror.ExtractionError{
				Filename: filepath.Base(path),
				Reason:   "file contains no text",
			}
		}
		return []Page{{Number: 1, Text: text}}, nil
	default:
		return nil, &apperror.ExtractionError{
			Filename: filepath.Base(path),
			Reason:   fmt.Sprintf("unsupported file type %q", filepath.Ext(path)),
		}
	}
}

func (e *Extractor) extractPDF(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &apperror.ExtractionError{
			Filename: filepath.Base(path),
			Reason:   fmt.Sprintf("cannot open pdf: %v", err),
		}
	}
	defer f.Close()

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := extractPageText(page)
		if err != nil {
			// A single unreadable page is not fatal, keep going
			log.Printf("[WARN] Failed to extract page %d of %s: %v", i, filepath.Base(path), err)
			continue
		}

		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, Page{Number: i, Text: text})
		}
	}

	if len(pages) == 0 {
		return nil, &apperror.ExtractionError{
			Filename: filepath.Base(path),
			Reason:   "no extractable text (scanned or image-only document)",
		}
	}

	return pages, nil
}

func extractPageText(page pdf.Page) (string, error) {
	texts := page.Content().Text
	if len(texts) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	var lastY float64
	for i, t := range texts {
		// New Y coordinate means a new line in the source layout
		if i > 0 && t.Y != lastY {
			buf.WriteString("\n")
		}
		buf.WriteString(t.S)
		lastY = t.Y
	}
	return buf.String(), nil
}

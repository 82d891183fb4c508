package chunker

import (
	"strings"

	"ai-papergen-be/internal/pkg/apperror"
)

// Tokenizer is the token measurement capability the chunker needs.
// Satisfied by pkg/tokenizer.Tokenizer.
type Tokenizer interface {
	Count(text string) int
	Encode(text string) []int
	Decode(tokens []int) string
}

// Metadata travels with every chunk so the vector store can filter
// retrieval by curriculum position.
type Metadata struct {
	Class            string
	Subject          string
	Chapter          string
	SourceDocumentId string
}

// DocumentChunk is an immutable token-bounded segment of a source
// document. Owned by the chunker until handed to the embedding batcher.
type DocumentChunk struct {
	Text       string
	TokenCount int
	ChunkIndex int
	Metadata   Metadata
}

// Chunker splits extracted text into overlapping token-bounded chunks.
// Boundaries prefer paragraph and sentence breaks; a single sentence
// longer than the chunk size is hard-cut on token positions.
type Chunker struct {
	tok          Tokenizer
	chunkSize    int // max tokens per chunk
	chunkOverlap int // tokens shared between consecutive chunks
}

func New(tok Tokenizer, chunkSize, chunkOverlap int) *Chunker {
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &Chunker{
		tok:          tok,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits text into an ordered chunk sequence covering the whole
// input. Each chunk begins with the token overlap carried from its
// predecessor, so removing that prefix from every chunk after the first
// reconstructs the original text exactly.
func (c *Chunker) Chunk(text string, meta Metadata) ([]DocumentChunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperror.ExtractionError{
			Filename: meta.SourceDocumentId,
			Reason:   "no extractable text",
		}
	}

	units := c.splitUnits(text)

	var chunks []DocumentChunk
	var cur []string
	curTokens := 0
	carryTokens := 0 // leading tokens of cur duplicated from the previous chunk

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunkText := strings.Join(cur, "")
		chunks = append(chunks, DocumentChunk{
			Text:       chunkText,
			TokenCount: c.tok.Count(chunkText),
			ChunkIndex: len(chunks),
			Metadata:   meta,
		})
	}

	for _, unit := range units {
		unitTokens := c.tok.Count(unit)

		if curTokens+unitTokens > c.chunkSize && curTokens > carryTokens {
			flush()
			cur, curTokens = c.carryOverlap(cur, curTokens)
			carryTokens = curTokens
		}

		// A unit that alone (plus carry) still exceeds the budget gets
		// hard token cuts sized to the room left in the current chunk.
		if curTokens+unitTokens > c.chunkSize {
			tokens := c.tok.Encode(unit)
			pos := 0
			for pos < len(tokens) {
				room := c.chunkSize - curTokens
				end := pos + room
				if end > len(tokens) {
					end = len(tokens)
				}
				piece := c.tok.Decode(tokens[pos:end])
				cur = append(cur, piece)
				curTokens += c.tok.Count(piece)
				pos = end

				if pos < len(tokens) {
					flush()
					cur, curTokens = c.carryOverlap(cur, curTokens)
					carryTokens = curTokens
				}
			}
			continue
		}

		cur = append(cur, unit)
		curTokens += unitTokens
	}

	if curTokens > carryTokens || len(chunks) == 0 {
		flush()
	}

	return chunks, nil
}

// carryOverlap returns the trailing portion of the chunk just emitted,
// bounded by chunkOverlap tokens and never empty while text remains.
func (c *Chunker) carryOverlap(prev []string, prevTokens int) ([]string, int) {
	if c.chunkOverlap <= 0 || len(prev) == 0 {
		return nil, 0
	}

	// Prefer carrying whole trailing units
	var carry []string
	carried := 0
	for i := len(prev) - 1; i >= 0; i-- {
		t := c.tok.Count(prev[i])
		if carried+t > c.chunkOverlap {
			break
		}
		carry = append([]string{prev[i]}, carry...)
		carried += t
	}
	if carried > 0 && carried < prevTokens {
		return carry, carried
	}

	// No whole unit fits the overlap budget: carry the trailing tokens
	// of the previous chunk text instead.
	prevText := strings.Join(prev, "")
	tokens := c.tok.Encode(prevText)
	n := c.chunkOverlap
	if n >= len(tokens) {
		n = len(tokens) - 1
	}
	if n <= 0 {
		n = 1
	}
	tail := c.tok.Decode(tokens[len(tokens)-n:])
	return []string{tail}, c.tok.Count(tail)
}

// splitUnits breaks text into paragraph and sentence sized pieces whose
// concatenation is exactly the input.
func (c *Chunker) splitUnits(text string) []string {
	var units []string

	rest := text
	for rest != "" {
		idx := strings.Index(rest, "\n\n")
		var para string
		if idx >= 0 {
			para = rest[:idx+2] // keep the paragraph break with its paragraph
			rest = rest[idx+2:]
		} else {
			para = rest
			rest = ""
		}
		units = append(units, splitSentences(para)...)
	}
	return units
}

func splitSentences(para string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(para); i++ {
		ch := para[i]
		if ch == '.' || ch == '!' || ch == '?' {
			// Sentence ends at punctuation followed by whitespace
			if i+1 < len(para) && (para[i+1] == ' ' || para[i+1] == '\n') {
				sentences = append(sentences, para[start:i+2])
				i++
				start = i + 1
			}
		}
	}
	if start < len(para) {
		sentences = append(sentences, para[start:])
	}
	return sentences
}

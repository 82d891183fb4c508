package chunker

import (
	"errors"
	"strings"
	"testing"

	"ai-papergen-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeTokenizer treats every rune as one token. It keeps the tests
// independent from the tiktoken BPE files while preserving the
// encode/decode round-trip the chunker relies on.
type runeTokenizer struct{}

func (runeTokenizer) Count(text string) int { return len([]rune(text)) }

func (runeTokenizer) Encode(text string) []int {
	runes := []rune(text)
	out := make([]int, len(runes))
	for i, r := range runes {
		out[i] = int(r)
	}
	return out
}

func (runeTokenizer) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, t := range tokens {
		runes[i] = rune(t)
	}
	return string(runes)
}

func testMeta() Metadata {
	return Metadata{
		Class:            "Class 10",
		Subject:          "Math",
		Chapter:          "Algebra",
		SourceDocumentId: "doc-1",
	}
}

// stitch removes the carried overlap from each chunk after the first by
// finding the longest prefix that is also a suffix of the running text.
func stitch(chunks []DocumentChunk) string {
	var sb strings.Builder
	for i, ch := range chunks {
		if i == 0 {
			sb.WriteString(ch.Text)
			continue
		}
		built := sb.String()
		overlap := 0
		maxN := len(ch.Text)
		if len(built) < maxN {
			maxN = len(built)
		}
		for n := maxN; n > 0; n-- {
			if strings.HasSuffix(built, ch.Text[:n]) {
				overlap = n
				break
			}
		}
		sb.WriteString(ch.Text[overlap:])
	}
	return sb.String()
}

func TestChunkReconstructsOriginalText(t *testing.T) {
	c := New(runeTokenizer{}, 80, 20)

	text := "Quadratic equations arise in projectile motion. The discriminant decides the root count.\n\n" +
		"Completing the square rewrites any quadratic. Factoring works when roots are rational. " +
		"The quadratic formula always applies.\n\nGraphs of quadratics are parabolas opening up or down."

	chunks, err := c.Chunk(text, testMeta())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	assert.Equal(t, text, stitch(chunks))

	for i, ch := range chunks {
		assert.LessOrEqual(t, ch.TokenCount, 80, "chunk %d exceeds chunk size", i)
		assert.Equal(t, i, ch.ChunkIndex)
		assert.Equal(t, "doc-1", ch.Metadata.SourceDocumentId)
	}
}

func TestConsecutiveChunksOverlap(t *testing.T) {
	c := New(runeTokenizer{}, 60, 15)

	text := "Alpha beta gamma delta. Epsilon zeta eta theta. Iota kappa lambda mu. " +
		"Nu xi omicron pi. Rho sigma tau upsilon. Phi chi psi omega."

	chunks, err := c.Chunk(text, testMeta())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev, next := chunks[i-1].Text, chunks[i].Text
		found := 0
		maxN := len(next)
		if len(prev) < maxN {
			maxN = len(prev)
		}
		for n := maxN; n > 0; n-- {
			if strings.HasSuffix(prev, next[:n]) {
				found = n
				break
			}
		}
		assert.GreaterOrEqual(t, found, 1, "chunks %d and %d share no overlap", i-1, i)
		assert.LessOrEqual(t, found, 15+1, "overlap between %d and %d exceeds budget", i-1, i)
	}
}

func TestSingleOversizedSentenceIsHardCut(t *testing.T) {
	c := New(runeTokenizer{}, 50, 10)

	// No sentence breaks at all, forcing token-position cuts
	text := strings.Repeat("x", 160)

	chunks, err := c.Chunk(text, testMeta())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	total := 0
	for i, ch := range chunks {
		assert.LessOrEqual(t, ch.TokenCount, 50, "chunk %d exceeds chunk size", i)
		total += ch.TokenCount
	}
	// Each chunk after the first repeats exactly the 10-token overlap,
	// so coverage accounting must land on the original length.
	assert.Equal(t, len(text), total-10*(len(chunks)-1))
}

func TestShortTextYieldsSingleChunk(t *testing.T) {
	c := New(runeTokenizer{}, 1000, 200)

	text := "Photosynthesis converts light energy into chemical energy."
	chunks, err := c.Chunk(text, testMeta())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
}

func TestEmptyTextFailsWithExtractionError(t *testing.T) {
	c := New(runeTokenizer{}, 1000, 200)

	_, err := c.Chunk("   \n\n  ", testMeta())
	require.Error(t, err)

	var extractErr *apperror.ExtractionError
	assert.True(t, errors.As(err, &extractErr))
}

func TestOverlapLargerThanChunkSizeFallsBack(t *testing.T) {
	// Invalid configuration must not wedge the splitter
	c := New(runeTokenizer{}, 40, 60)

	text := "One two three. Four five six. Seven eight nine. Ten eleven twelve."
	chunks, err := c.Chunk(text, testMeta())
	require.NoError(t, err)
	assert.Equal(t, text, stitch(chunks))
}

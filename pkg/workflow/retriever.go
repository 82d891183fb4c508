package workflow

import (
	"context"
	"log"
	"strings"

	"ai-papergen-be/pkg/knowledge"
)

// TokenCounter is the sliver of the tokenizer retrieval needs.
type TokenCounter interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

// Retriever pulls the most similar syllabus chunks for a request and
// assembles them into a single context block capped at a token budget.
type Retriever struct {
	store       knowledge.Store
	counter     TokenCounter
	topK        int
	tokenBudget int
}

func NewRetriever(store knowledge.Store, counter TokenCounter, topK, tokenBudget int) *Retriever {
	return &Retriever{
		store:       store,
		counter:     counter,
		topK:        topK,
		tokenBudget: tokenBudget,
	}
}

// Retrieve queries the knowledge store filtered to the request's
// curriculum slice. Hits arrive ordered by similarity; the budget is
// enforced by dropping whole chunks from the low-similarity end, except
// when the single best chunk alone exceeds it, in which case that chunk
// is truncated to the budget.
func (r *Retriever) Retrieve(ctx context.Context, req GenerationRequest) (*ContextBlock, error) {
	query := buildQueryText(req)
	filter := knowledge.Filter{
		Class:   req.Class,
		Subject: req.Subject,
		Chapter: req.Chapter,
	}

	hits, err := r.store.Query(ctx, query, filter, r.topK)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		log.Printf("[WARN] No syllabus context found for class=%s subject=%s chapter=%s",
			req.Class, req.Subject, req.Chapter)
		return &ContextBlock{}, nil
	}

	var parts []string
	used := 0
	for _, hit := range hits {
		tokens := hit.Chunk.TokenCount
		if tokens == 0 {
			tokens = r.counter.Count(hit.Chunk.Text)
		}
		if used+tokens > r.tokenBudget {
			if len(parts) == 0 {
				// Even the best chunk must fit the budget: keep a
				// token-exact prefix rather than no context at all.
				parts = append(parts, r.counter.Truncate(hit.Chunk.Text, r.tokenBudget))
				used = r.tokenBudget
			}
			break
		}
		parts = append(parts, hit.Chunk.Text)
		used += tokens
		if used >= r.tokenBudget {
			break
		}
	}

	return &ContextBlock{
		Text:       strings.Join(parts, "\n\n"),
		ChunkCount: len(parts),
		TokenCount: used,
	}, nil
}

func buildQueryText(req GenerationRequest) string {
	parts := []string{req.Subject, req.Chapter}
	if req.Topic != "" {
		parts = append(parts, req.Topic)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

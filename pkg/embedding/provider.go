package embedding

import "context"

// EmbeddingProvider converts text into fixed-dimension vectors. Batch
// input order is preserved in the output. The query path and the
// ingestion path MUST use the same provider so stored and query vectors
// share a model and dimension.
type EmbeddingProvider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

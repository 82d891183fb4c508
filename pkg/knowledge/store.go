package knowledge

import (
	"context"

	"ai-papergen-be/internal/entity"
)

// Filter narrows retrieval to one curriculum slice. Empty fields match
// everything.
type Filter struct {
	Class   string
	Subject string
	Chapter string
}

// ScoredChunk is a retrieval hit with its cosine similarity.
type ScoredChunk struct {
	Chunk      *entity.SyllabusChunk
	Similarity float64
}

// Stats describes the current state of the vector index.
type Stats struct {
	TotalChunks    int64 `json:"total_chunks"`
	TotalDocuments int64 `json:"total_documents"`
	Dimension      int   `json:"dimension"`
}

// Store is the vector index surface the ingestion and generation sides
// share. Query embeds the query text itself so callers never handle raw
// vectors.
type Store interface {
	Upsert(ctx context.Context, chunks []*entity.SyllabusChunk) error
	Query(ctx context.Context, text string, filter Filter, topK int) ([]*ScoredChunk, error)
	DeleteByDocument(ctx context.Context, documentId string) error
	Stats(ctx context.Context) (*Stats, error)
}

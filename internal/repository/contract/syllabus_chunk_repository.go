package contract

import (
	"context"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSyllabusChunk wraps a chunk with its cosine similarity score.
type ScoredSyllabusChunk struct {
	Chunk      *entity.SyllabusChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type SyllabusChunkRepository interface {
	// UpsertBulk writes chunks idempotently by their deterministic id.
	UpsertBulk(ctx context.Context, chunks []*entity.SyllabusChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	DeleteByCurriculum(ctx context.Context, class, subject, chapter string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyllabusChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs filtered nearest-neighbor retrieval,
	// ordered by decreasing similarity.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, class, subject, chapter string) ([]*ScoredSyllabusChunk, error)
}

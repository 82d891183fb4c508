package knowledge

import (
	"context"
	"fmt"
	"log"
	"time"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/internal/repository/contract"
	"ai-papergen-be/pkg/embedding"

	"github.com/google/uuid"
)

const storeTimeout = 30 * time.Second

// PgStore backs the Store interface with the pgvector chunk table.
type PgStore struct {
	chunks   contract.SyllabusChunkRepository
	docs     contract.SyllabusDocumentRepository
	embedder embedding.EmbeddingProvider
}

func NewPgStore(
	chunks contract.SyllabusChunkRepository,
	docs contract.SyllabusDocumentRepository,
	embedder embedding.EmbeddingProvider,
) Store {
	return &PgStore{
		chunks:   chunks,
		docs:     docs,
		embedder: embedder,
	}
}

func (s *PgStore) Upsert(ctx context.Context, chunks []*entity.SyllabusChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.chunks.UpsertBulk(ctx, chunks); err != nil {
		return &apperror.StoreError{Op: "upsert", Err: err}
	}
	return nil
}

func (s *PgStore) Query(ctx context.Context, text string, filter Filter, topK int) ([]*ScoredChunk, error) {
	vectors, err := s.embedder.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, &apperror.StoreError{Op: "query-embed", Err: err}
	}
	if len(vectors) == 0 {
		return nil, &apperror.StoreError{Op: "query-embed", Err: fmt.Errorf("provider returned no vector")}
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	hits, err := s.chunks.SearchSimilarWithScore(ctx, vectors[0], topK, filter.Class, filter.Subject, filter.Chapter)
	if err != nil {
		return nil, &apperror.StoreError{Op: "query", Err: err}
	}

	results := make([]*ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		results = append(results, &ScoredChunk{
			Chunk:      hit.Chunk,
			Similarity: hit.Similarity,
		})
	}
	log.Printf("[INFO] Knowledge query returned %d/%d chunks (class=%s subject=%s)",
		len(results), topK, filter.Class, filter.Subject)
	return results, nil
}

func (s *PgStore) DeleteByDocument(ctx context.Context, documentId string) error {
	id, err := uuid.Parse(documentId)
	if err != nil {
		return &apperror.StoreError{Op: "delete", Err: fmt.Errorf("invalid document id %q: %w", documentId, err)}
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.chunks.DeleteByDocumentId(ctx, id); err != nil {
		return &apperror.StoreError{Op: "delete", Err: err}
	}
	return nil
}

func (s *PgStore) Stats(ctx context.Context) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	chunkCount, err := s.chunks.Count(ctx)
	if err != nil {
		return nil, &apperror.StoreError{Op: "stats", Err: err}
	}
	docCount, err := s.docs.Count(ctx)
	if err != nil {
		return nil, &apperror.StoreError{Op: "stats", Err: err}
	}

	return &Stats{
		TotalChunks:    chunkCount,
		TotalDocuments: docCount,
		Dimension:      s.embedder.Dimension(),
	}, nil
}

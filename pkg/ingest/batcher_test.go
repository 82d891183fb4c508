package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/pkg/chunker"
	"ai-papergen-be/pkg/knowledge"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	mu       sync.Mutex
	calls    int
	failText string // any batch containing this text always fails
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	for _, t := range texts {
		if f.failText != "" && strings.Contains(t, f.failText) {
			return nil, errors.New("provider unavailable")
		}
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i]))}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return 1 }

type fakeStore struct {
	mu     sync.Mutex
	chunks map[string]*entity.SyllabusChunk
}

func newFakeStore() *fakeStore {
	return &fakeStore{chunks: make(map[string]*entity.SyllabusChunk)}
}

func (f *fakeStore) Upsert(ctx context.Context, chunks []*entity.SyllabusChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range chunks {
		f.chunks[c.Id] = c
	}
	return nil
}

func (f *fakeStore) Query(ctx context.Context, text string, filter knowledge.Filter, topK int) ([]*knowledge.ScoredChunk, error) {
	return nil, nil
}

func (f *fakeStore) DeleteByDocument(ctx context.Context, documentId string) error { return nil }

func (f *fakeStore) Stats(ctx context.Context) (*knowledge.Stats, error) { return nil, nil }

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

func makeChunks(n int) []chunker.DocumentChunk {
	chunks := make([]chunker.DocumentChunk, n)
	for i := 0; i < n; i++ {
		chunks[i] = chunker.DocumentChunk{
			Text:       fmt.Sprintf("syllabus chunk %03d", i),
			TokenCount: 3,
			ChunkIndex: i,
			Metadata: chunker.Metadata{
				Class:   "10",
				Subject: "Physics",
				Chapter: "Optics",
			},
		}
	}
	return chunks
}

func TestIngestAllBatches(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newFakeStore()
	batcher := NewBatcher(embedder, store, 10, 3, 0)
	docId := uuid.New()

	ingested, err := batcher.Ingest(context.Background(), docId, makeChunks(25), 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 25, ingested)
	assert.Equal(t, 25, store.count())
	assert.Equal(t, 3, embedder.calls, "25 chunks at batch size 10 is 3 batches")
}

func TestIngestResumesFromOffset(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newFakeStore()
	batcher := NewBatcher(embedder, store, 10, 2, 0)

	ingested, err := batcher.Ingest(context.Background(), uuid.New(), makeChunks(25), 20, nil)

	require.NoError(t, err)
	assert.Equal(t, 25, ingested)
	assert.Equal(t, 5, store.count(), "only the remaining chunks get embedded")
}

func TestIngestOffsetPastEndIsNoop(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newFakeStore()
	batcher := NewBatcher(embedder, store, 10, 2, 0)

	ingested, err := batcher.Ingest(context.Background(), uuid.New(), makeChunks(5), 5, nil)

	require.NoError(t, err)
	assert.Equal(t, 5, ingested)
	assert.Zero(t, embedder.calls)
}

func TestIngestKeepsPartialProgressOnFailure(t *testing.T) {
	// Chunk 012 lands in the second batch; the first batch must still be
	// stored and reported as the resume point.
	embedder := &fakeEmbedder{failText: "chunk 012"}
	store := newFakeStore()
	batcher := NewBatcher(embedder, store, 10, 1, 0)
	docId := uuid.New()

	ingested, err := batcher.Ingest(context.Background(), docId, makeChunks(25), 0, nil)

	require.Error(t, err)
	var embErr *apperror.EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Equal(t, docId.String(), embErr.DocumentId)
	assert.Equal(t, 10, embErr.FromChunk)
	assert.Equal(t, 19, embErr.ToChunk)
	assert.Equal(t, 10, ingested)
	assert.GreaterOrEqual(t, store.count(), 10)
}

func TestIngestProgressIsMonotonic(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newFakeStore()
	batcher := NewBatcher(embedder, store, 5, 3, 0)

	var mu sync.Mutex
	var reported []int
	ingested, err := batcher.Ingest(context.Background(), uuid.New(), makeChunks(30), 0, func(p Progress) {
		mu.Lock()
		reported = append(reported, p.Ingested)
		mu.Unlock()
		assert.Equal(t, 30, p.Total)
	})

	require.NoError(t, err)
	assert.Equal(t, 30, ingested)
	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1])
	}
	require.NotEmpty(t, reported)
	assert.Equal(t, 30, reported[len(reported)-1])
}

func TestIngestPopulatesDeterministicIds(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newFakeStore()
	batcher := NewBatcher(embedder, store, 10, 1, 0)
	docId := uuid.New()

	_, err := batcher.Ingest(context.Background(), docId, makeChunks(3), 0, nil)

	require.NoError(t, err)
	stored, ok := store.chunks[entity.ChunkId(docId, 1)]
	require.True(t, ok)
	assert.Equal(t, 1, stored.ChunkIndex)
	assert.Equal(t, "Physics", stored.Subject)
	assert.NotEmpty(t, stored.Embedding)
}

// blockingEmbedder parks every call until its context is cancelled.
type blockingEmbedder struct{}

func (blockingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingEmbedder) Dimension() int { return 1 }

func TestIngestReturnsWhenCancelledMidRun(t *testing.T) {
	store := newFakeStore()
	b := NewBatcher(blockingEmbedder{}, store, 1, 1, 0)
	documentId := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		ingested int
		err      error
	}
	resCh := make(chan result, 1)
	go func() {
		ingested, err := b.Ingest(ctx, documentId, makeChunks(5), 0, nil)
		resCh <- result{ingested, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case res := <-resCh:
		require.Error(t, res.err)
		var embedErr *apperror.EmbeddingError
		require.ErrorAs(t, res.err, &embedErr)
		assert.Equal(t, 0, res.ingested)
		assert.Equal(t, 0, embedErr.FromChunk)
		assert.Equal(t, 0, store.count())
	case <-time.After(3 * time.Second):
		t.Fatal("Ingest did not return after cancellation")
	}
}

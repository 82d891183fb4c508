package ingest

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/pkg/chunker"
	"ai-papergen-be/pkg/embedding"
	"ai-papergen-be/pkg/knowledge"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Progress reports how far ingestion has advanced. Ingested counts the
// contiguous prefix of chunks durably stored, which is what a resumed
// run can safely skip.
type Progress struct {
	Ingested int `json:"ingested"`
	Total    int `json:"total"`
}

// Batcher embeds document chunks in fixed-size batches with a bounded
// worker pool, upserting each batch as soon as it is embedded. Partial
// progress is never thrown away: on failure the caller gets the
// contiguous ingested count back alongside an EmbeddingError naming the
// first batch that could not be embedded.
type Batcher struct {
	embedder   embedding.EmbeddingProvider
	store      knowledge.Store
	batchSize  int
	workers    int
	maxRetries int
}

func NewBatcher(embedder embedding.EmbeddingProvider, store knowledge.Store, batchSize, workers, maxRetries int) *Batcher {
	if batchSize <= 0 {
		batchSize = 100
	}
	if workers <= 0 {
		workers = 1
	}
	return &Batcher{
		embedder:   embedder,
		store:      store,
		batchSize:  batchSize,
		workers:    workers,
		maxRetries: maxRetries,
	}
}

type batchJob struct {
	index int // batch ordinal, for contiguity tracking
	start int // absolute chunk offset of the first chunk in the batch
	items []chunker.DocumentChunk
}

type batchOutcome struct {
	job batchJob
	err error
}

// Ingest embeds and stores chunks[startOffset:] for the given document.
// It returns the new contiguous ingested count (an absolute offset into
// chunks, suitable for persisting as the resume point). onProgress, if
// non-nil, is invoked whenever the contiguous frontier advances.
func (b *Batcher) Ingest(
	ctx context.Context,
	documentId uuid.UUID,
	chunks []chunker.DocumentChunk,
	startOffset int,
	onProgress func(Progress),
) (int, error) {
	total := len(chunks)
	if startOffset >= total {
		return total, nil
	}
	pending := chunks[startOffset:]

	jobs := make([]batchJob, 0, (len(pending)+b.batchSize-1)/b.batchSize)
	for i := 0; i < len(pending); i += b.batchSize {
		end := i + b.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		jobs = append(jobs, batchJob{
			index: len(jobs),
			start: startOffset + i,
			items: pending[i:end],
		})
	}

	log.Printf("[INFO] Ingesting document %s: %d chunks in %d batches (resume offset %d)",
		documentId, len(pending), len(jobs), startOffset)

	jobCh := make(chan batchJob)
	outCh := make(chan batchOutcome, len(jobs))

	workers := b.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				outCh <- batchOutcome{job: job, err: b.processBatch(ctx, documentId, job)}
			}
		}()
	}

	go func() {
		defer close(jobCh)
		for i, job := range jobs {
			select {
			case jobCh <- job:
			case <-ctx.Done():
				// The collector waits for one outcome per job, so the
				// undispatched tail is settled here.
				for _, skipped := range jobs[i:] {
					outCh <- batchOutcome{job: skipped, err: ctx.Err()}
				}
				return
			}
		}
	}()

	done := make([]bool, len(jobs))
	frontier := 0 // first batch index not yet confirmed
	ingested := startOffset
	var failures []batchOutcome

	for range jobs {
		out := <-outCh
		if out.err != nil {
			failures = append(failures, out)
			continue
		}
		done[out.job.index] = true
		for frontier < len(jobs) && done[frontier] {
			ingested = jobs[frontier].start + len(jobs[frontier].items)
			frontier++
		}
		if onProgress != nil {
			onProgress(Progress{Ingested: ingested, Total: total})
		}
	}
	wg.Wait()

	if len(failures) > 0 {
		// Report the earliest failed batch: everything before the
		// contiguous frontier is stored and resumable.
		sort.Slice(failures, func(i, j int) bool {
			return failures[i].job.start < failures[j].job.start
		})
		first := failures[0]
		return ingested, &apperror.EmbeddingError{
			DocumentId: documentId.String(),
			FromChunk:  first.job.start,
			ToChunk:    first.job.start + len(first.job.items) - 1,
			Err:        first.err,
		}
	}
	return total, nil
}

func (b *Batcher) processBatch(ctx context.Context, documentId uuid.UUID, job batchJob) error {
	texts := make([]string, len(job.items))
	for i, c := range job.items {
		texts[i] = c.Text
	}

	var vectors [][]float32
	backoff := retry.WithMaxRetries(uint64(b.maxRetries), retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		vecs, err := b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			log.Printf("[WARN] Embed batch starting at chunk %d failed, will retry: %v", job.start, err)
			return retry.RetryableError(err)
		}
		vectors = vecs
		return nil
	})
	if err != nil {
		return err
	}

	entities := make([]*entity.SyllabusChunk, len(job.items))
	for i, c := range job.items {
		entities[i] = &entity.SyllabusChunk{
			Id:         entity.ChunkId(documentId, c.ChunkIndex),
			DocumentId: documentId,
			ChunkIndex: c.ChunkIndex,
			Text:       c.Text,
			TokenCount: c.TokenCount,
			Class:      c.Metadata.Class,
			Subject:    c.Metadata.Subject,
			Chapter:    c.Metadata.Chapter,
			Embedding:  vectors[i],
		}
	}
	return b.store.Upsert(ctx, entities)
}

package apperror

import (
	"errors"
	"fmt"
)

// ExtractionError means the source document yielded no usable text
// (scanned/image-only pages, corrupt file). Not retryable: retrying
// does not change a structurally text-free document.
type ExtractionError struct {
	Filename string
	Reason   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %s", e.Filename, e.Reason)
}

// EmbeddingError is raised after per-batch retries are exhausted.
// Batches embedded before the failure are already upserted, so the
// caller can resume ingestion from FromChunk.
type EmbeddingError struct {
	DocumentId string
	FromChunk  int
	ToChunk    int
	Err        error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed for document %s (chunks %d-%d): %v",
		e.DocumentId, e.FromChunk, e.ToChunk, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError means the model returned malformed or empty output
// after parse-repair attempts were exhausted.
type GenerationError struct {
	Attempt int
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed on attempt %d: %v", e.Attempt, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ValidationError indicates a structurally malformed candidate (missing
// required fields for its type). A low score is NOT a ValidationError,
// it is a valid negative verdict.
type ValidationError struct {
	QuestionRef int
	Reason      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("candidate %d is malformed: %s", e.QuestionRef, e.Reason)
}

// StoreError wraps vector store / database failures.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotFound is returned for lookups on missing resources.
var ErrNotFound = errors.New("resource not found")

// IsRetryable reports whether the error class is worth another attempt.
// Extraction and validation failures are structural, not transient.
func IsRetryable(err error) bool {
	var embErr *EmbeddingError
	var genErr *GenerationError
	var storeErr *StoreError
	return errors.As(err, &embErr) || errors.As(err, &genErr) || errors.As(err, &storeErr)
}

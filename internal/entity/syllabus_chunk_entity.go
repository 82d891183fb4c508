package entity

import (
	"crypto/md5"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SyllabusChunk is an embedded chunk as stored in the vector index.
// The id is deterministic from (document, chunk index) so re-ingesting
// the same document overwrites instead of duplicating.
type SyllabusChunk struct {
	Id         string
	DocumentId uuid.UUID
	ChunkIndex int
	Text       string
	TokenCount int

	// Denormalized curriculum metadata for filtered retrieval
	Class   string
	Subject string
	Chapter string

	Embedding []float32

	CreatedAt time.Time
}

// ChunkId derives the deterministic vector id for a chunk position.
func ChunkId(documentId uuid.UUID, chunkIndex int) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("%s_%d", documentId, chunkIndex))))
}

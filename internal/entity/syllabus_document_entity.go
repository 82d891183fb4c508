package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ingestion status lifecycle for a syllabus document.
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

type SyllabusDocument struct {
	Id       uuid.UUID
	Filename string
	FileHash string // SHA-256 of the uploaded file, used for dedup
	Class    string
	Subject  string
	Chapter  string

	// Extracted plain text, kept so ingestion can re-derive chunks
	// deterministically on resume.
	Text      string
	PageCount int

	Status         string
	ChunkCount     int
	ChunksIngested int // resume offset after a partial ingestion failure
	LastError      string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadSyllabusRequest carries the curriculum metadata accompanying a
// multipart file upload.
type UploadSyllabusRequest struct {
	Class   string `form:"class" validate:"required"`
	Subject string `form:"subject" validate:"required"`
	Chapter string `form:"chapter" validate:"required"`
}

type UploadSyllabusResponse struct {
	Id       uuid.UUID `json:"id"`
	Status   string    `json:"status"`
	Filename string    `json:"filename"`
	// Duplicate is true when the same file content was already ingested
	// for the same curriculum slice; no new ingestion is started.
	Duplicate bool `json:"duplicate,omitempty"`
}

type SyllabusDocumentResponse struct {
	Id             uuid.UUID  `json:"id"`
	Filename       string     `json:"filename"`
	Class          string     `json:"class"`
	Subject        string     `json:"subject"`
	Chapter        string     `json:"chapter"`
	Status         string     `json:"status"`
	ChunksTotal    int        `json:"chunks_total"`
	ChunksIngested int        `json:"chunks_ingested"`
	LastError      string     `json:"last_error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

type KnowledgeStatsResponse struct {
	TotalChunks    int64 `json:"total_chunks"`
	TotalDocuments int64 `json:"total_documents"`
	Dimension      int   `json:"dimension"`
	// Per-status document counts
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}

// PublishIngestDocumentMessage is the payload queued for the async
// ingestion consumer.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

// IngestProgressMessage is pushed over the WebSocket hub while a
// document is being embedded.
type IngestProgressMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	Status     string    `json:"status"`
	Ingested   int       `json:"ingested"`
	Total      int       `json:"total"`
	Error      string    `json:"error,omitempty"`
}

package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the system.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Lifecycle event codes published to the bus.
const (
	TypeDocumentIngested     = "DOCUMENT_INGESTED"
	TypeDocumentIngestFailed = "DOCUMENT_INGEST_FAILED"
	TypeDocumentDeleted      = "DOCUMENT_DELETED"
	TypePaperGenerated       = "PAPER_GENERATED"
)

// NewDocumentIngested reports a completed ingestion run.
func NewDocumentIngested(documentId string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id": documentId,
			"chunks":      chunks,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngestFailed reports an ingestion run that stopped early.
func NewDocumentIngestFailed(documentId string, ingested int, reason string) Event {
	return BaseEvent{
		Type: TypeDocumentIngestFailed,
		Data: map[string]interface{}{
			"document_id": documentId,
			"ingested":    ingested,
			"reason":      reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentDeleted(documentId string) Event {
	return BaseEvent{
		Type:       TypeDocumentDeleted,
		Data:       map[string]interface{}{"document_id": documentId},
		OccurredAt: time.Now(),
	}
}

// NewPaperGenerated reports a finished generation run.
func NewPaperGenerated(paperId string, delivered, requested int) Event {
	return BaseEvent{
		Type: TypePaperGenerated,
		Data: map[string]interface{}{
			"paper_id":  paperId,
			"delivered": delivered,
			"requested": requested,
		},
		OccurredAt: time.Now(),
	}
}

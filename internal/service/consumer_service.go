package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-papergen-be/internal/dto"
	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/internal/repository/contract"
	"ai-papergen-be/internal/repository/specification"
	"ai-papergen-be/internal/repository/unitofwork"
	"ai-papergen-be/internal/websocket"
	"ai-papergen-be/pkg/chunker"
	"ai-papergen-be/pkg/events"
	"ai-papergen-be/pkg/ingest"
	pktNats "ai-papergen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	chunker        *chunker.Chunker
	batcher        *ingest.Batcher
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	chk *chunker.Chunker,
	batcher *ingest.Batcher,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		chunker:        chk,
		batcher:        batcher,
		hub:            hub,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // invalid payloads would retry forever otherwise
		return
	}

	log.Printf("[INFO] Processing ingestion for document %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	docRepo := uow.SyllabusDocumentRepository()

	doc, err := docRepo.FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %s (deleted before ingestion?)", payload.DocumentId)
		msg.Ack()
		return
	}

	chunks, err := cs.chunker.Chunk(doc.Text, chunker.Metadata{
		Class:            doc.Class,
		Subject:          doc.Subject,
		Chapter:          doc.Chapter,
		SourceDocumentId: doc.Id.String(),
	})
	if err != nil {
		// A document that cannot be chunked will never succeed.
		log.Printf("[ERROR] Chunking failed for document %s: %v", doc.Id, err)
		cs.markFailed(ctx, docRepo, doc, 0, err)
		msg.Ack()
		return
	}

	doc.ChunkCount = len(chunks)
	doc.Status = entity.DocumentStatusProcessing
	if err := docRepo.Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to mark document %s processing: %v", doc.Id, err)
		msg.Nack()
		return
	}
	cs.broadcast(doc, entity.DocumentStatusProcessing, doc.ChunksIngested, len(chunks), "")

	ingested, err := cs.batcher.Ingest(ctx, doc.Id, chunks, doc.ChunksIngested, func(p ingest.Progress) {
		if uerr := docRepo.UpdateIngestionProgress(ctx, doc.Id, entity.DocumentStatusProcessing, p.Ingested, ""); uerr != nil {
			log.Printf("[WARN] Progress write for document %s failed: %v", doc.Id, uerr)
		}
		cs.broadcast(doc, entity.DocumentStatusProcessing, p.Ingested, p.Total, "")
	})
	if err != nil {
		log.Printf("[ERROR] Ingestion failed for document %s at chunk %d: %v", doc.Id, ingested, err)
		cs.markFailed(ctx, docRepo, doc, ingested, err)
		// Progress is persisted, a redelivery resumes instead of
		// restarting, so Nack is safe for retryable errors.
		if apperror.IsRetryable(err) {
			msg.Nack()
		} else {
			msg.Ack()
		}
		return
	}

	if err := docRepo.UpdateIngestionProgress(ctx, doc.Id, entity.DocumentStatusCompleted, ingested, ""); err != nil {
		log.Printf("[ERROR] Failed to mark document %s completed: %v", doc.Id, err)
		msg.Nack()
		return
	}
	cs.broadcast(doc, entity.DocumentStatusCompleted, ingested, len(chunks), "")

	if cs.eventPublisher != nil {
		if err := cs.eventPublisher.Publish(ctx, events.NewDocumentIngested(doc.Id.String(), ingested)); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INGESTED event: %v", err)
		}
	}

	log.Printf("[INFO] Document %s ingested: %d chunks", doc.Id, ingested)
	msg.Ack()
}

func (cs *consumerService) markFailed(ctx context.Context, docRepo contract.SyllabusDocumentRepository, doc *entity.SyllabusDocument, ingested int, cause error) {
	if err := docRepo.UpdateIngestionProgress(ctx, doc.Id, entity.DocumentStatusFailed, ingested, cause.Error()); err != nil {
		log.Printf("[ERROR] Failed to mark document %s failed: %v", doc.Id, err)
	}
	cs.broadcast(doc, entity.DocumentStatusFailed, ingested, doc.ChunkCount, cause.Error())

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIngestFailed(doc.Id.String(), ingested, cause.Error())
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INGEST_FAILED event: %v", err)
		}
	}
}

func (cs *consumerService) broadcast(doc *entity.SyllabusDocument, status string, ingested, total int, errText string) {
	if cs.hub == nil {
		return
	}
	cs.hub.BroadcastProgress(dto.IngestProgressMessage{
		DocumentId: doc.Id,
		Status:     status,
		Ingested:   ingested,
		Total:      total,
		Error:      errText,
	})
}

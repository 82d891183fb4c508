package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ai-papergen-be/internal/constant"
	"ai-papergen-be/internal/dto"
	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/internal/repository/specification"
	"ai-papergen-be/internal/repository/unitofwork"
	"ai-papergen-be/pkg/events"
	"ai-papergen-be/pkg/extractor"
	"ai-papergen-be/pkg/knowledge"
	pktNats "ai-papergen-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const statsCacheKey = "knowledge_stats"

type ISyllabusService interface {
	Upload(ctx context.Context, req *dto.UploadSyllabusRequest, filename, path string) (*dto.UploadSyllabusResponse, error)
	Reingest(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*dto.SyllabusDocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*dto.KnowledgeStatsResponse, error)
	Curriculum() map[string]map[string]map[string][]string
}

type syllabusService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	store            knowledge.Store
	extractor        *extractor.Extractor
	eventPublisher   *pktNats.Publisher
	statsCache       *cache.Cache
}

func NewSyllabusService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	store knowledge.Store,
	ext *extractor.Extractor,
	eventPublisher *pktNats.Publisher,
) ISyllabusService {
	return &syllabusService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		store:            store,
		extractor:        ext,
		eventPublisher:   eventPublisher,
		statsCache:       cache.New(30*time.Second, time.Minute),
	}
}

// Upload extracts text from the stored upload, dedups it by content
// hash within the curriculum slice, and queues the document for async
// embedding. The HTTP response returns before any embedding happens.
func (s *syllabusService) Upload(ctx context.Context, req *dto.UploadSyllabusRequest, filename, path string) (*dto.UploadSyllabusResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperror.ExtractionError{Filename: filename, Reason: err.Error()}
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(raw))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.SyllabusDocumentRepository().FindOne(ctx,
		specification.ByFileHash{Hash: hash},
		specification.ByCurriculum{Class: req.Class, Subject: req.Subject, Chapter: req.Chapter},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != entity.DocumentStatusFailed {
		log.Printf("[INFO] Upload %s is a duplicate of document %s", filename, existing.Id)
		return &dto.UploadSyllabusResponse{
			Id:        existing.Id,
			Status:    existing.Status,
			Filename:  existing.Filename,
			Duplicate: true,
		}, nil
	}

	pages, err := s.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	var texts []string
	for _, p := range pages {
		texts = append(texts, p.Text)
	}

	doc := entity.SyllabusDocument{
		Id:        uuid.New(),
		Filename:  filename,
		FileHash:  hash,
		Class:     req.Class,
		Subject:   req.Subject,
		Chapter:   req.Chapter,
		Text:      strings.Join(texts, "\n\n"),
		PageCount: len(pages),
		Status:    entity.DocumentStatusPending,
		CreatedAt: time.Now(),
	}
	if err := uow.SyllabusDocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	if err := s.queueIngestion(ctx, doc.Id); err != nil {
		return nil, err
	}

	return &dto.UploadSyllabusResponse{
		Id:       doc.Id,
		Status:   doc.Status,
		Filename: doc.Filename,
	}, nil
}

// Reingest requeues an existing document. A failed document resumes
// from its persisted chunk offset, a completed one is re-embedded
// idempotently thanks to deterministic chunk ids.
func (s *syllabusService) Reingest(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.SyllabusDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.ErrNotFound
	}
	if doc.Status == entity.DocumentStatusProcessing {
		return fmt.Errorf("document %s is already being ingested", id)
	}
	return s.queueIngestion(ctx, id)
}

func (s *syllabusService) queueIngestion(ctx context.Context, id uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{DocumentId: id})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func (s *syllabusService) List(ctx context.Context) ([]*dto.SyllabusDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.SyllabusDocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.SyllabusDocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, &dto.SyllabusDocumentResponse{
			Id:             doc.Id,
			Filename:       doc.Filename,
			Class:          doc.Class,
			Subject:        doc.Subject,
			Chapter:        doc.Chapter,
			Status:         doc.Status,
			ChunksTotal:    doc.ChunkCount,
			ChunksIngested: doc.ChunksIngested,
			LastError:      doc.LastError,
			CreatedAt:      doc.CreatedAt,
			UpdatedAt:      doc.UpdatedAt,
		})
	}
	return out, nil
}

// Delete removes the document and all of its vectors. Deletion wins
// over a concurrent ingestion run: the consumer's next progress write
// fails on the missing row and the run is abandoned.
func (s *syllabusService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.SyllabusDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperror.ErrNotFound
	}

	if err := s.store.DeleteByDocument(ctx, id.String()); err != nil {
		return err
	}
	if err := uow.SyllabusDocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.statsCache.Delete(statsCacheKey)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewDocumentDeleted(id.String())); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_DELETED event: %v", err)
		}
	}
	return nil
}

// Stats reads the index shape. Counting is cheap but hit on every
// dashboard poll, so results are cached briefly.
func (s *syllabusService) Stats(ctx context.Context) (*dto.KnowledgeStatsResponse, error) {
	if cached, found := s.statsCache.Get(statsCacheKey); found {
		return cached.(*dto.KnowledgeStatsResponse), nil
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	resp := &dto.KnowledgeStatsResponse{
		TotalChunks:    stats.TotalChunks,
		TotalDocuments: stats.TotalDocuments,
		Dimension:      stats.Dimension,
	}
	statuses := []struct {
		name   string
		target *int64
	}{
		{entity.DocumentStatusPending, &resp.Pending},
		{entity.DocumentStatusProcessing, &resp.Processing},
		{entity.DocumentStatusCompleted, &resp.Completed},
		{entity.DocumentStatusFailed, &resp.Failed},
	}
	for _, st := range statuses {
		n, err := uow.SyllabusDocumentRepository().Count(ctx, specification.ByStatus{Status: st.name})
		if err != nil {
			return nil, err
		}
		*st.target = n
	}

	s.statsCache.Set(statsCacheKey, resp, cache.DefaultExpiration)
	return resp, nil
}

func (s *syllabusService) Curriculum() map[string]map[string]map[string][]string {
	return constant.Curriculum
}

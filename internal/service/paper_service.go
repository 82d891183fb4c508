package service

import (
	"context"
	"log"
	"time"

	"ai-papergen-be/internal/dto"
	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/pkg/apperror"
	"ai-papergen-be/internal/repository/specification"
	"ai-papergen-be/internal/repository/unitofwork"
	"ai-papergen-be/pkg/events"
	"ai-papergen-be/pkg/exporter"
	pktNats "ai-papergen-be/pkg/nats"
	"ai-papergen-be/pkg/workflow"

	"github.com/google/uuid"
)

type IPaperService interface {
	Generate(ctx context.Context, req *dto.GeneratePaperRequest) (*dto.GeneratePaperResponse, error)
	List(ctx context.Context) ([]*dto.PaperListItemResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowPaperResponse, error)
	Export(ctx context.Context, id uuid.UUID, format exporter.Format) (content, contentType string, err error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type paperService struct {
	uowFactory     unitofwork.RepositoryFactory
	orchestrator   *workflow.Orchestrator
	eventPublisher *pktNats.Publisher
}

func NewPaperService(
	uowFactory unitofwork.RepositoryFactory,
	orchestrator *workflow.Orchestrator,
	eventPublisher *pktNats.Publisher,
) IPaperService {
	return &paperService{
		uowFactory:     uowFactory,
		orchestrator:   orchestrator,
		eventPublisher: eventPublisher,
	}
}

// Generate runs the full retrieve/generate/validate workflow and
// persists whatever it delivered, shortfall included.
func (p *paperService) Generate(ctx context.Context, req *dto.GeneratePaperRequest) (*dto.GeneratePaperResponse, error) {
	run := workflow.GenerationRequest{
		Class:        req.Class,
		Subject:      req.Subject,
		Chapter:      req.Chapter,
		Topic:        req.Topic,
		Count:        req.Count,
		Difficulty:   req.Difficulty,
		QuestionType: workflow.QuestionType(req.QuestionType),
		ChoiceType:   workflow.ChoiceType(req.ChoiceType),
	}

	result, err := p.orchestrator.Run(ctx, run)
	if err != nil {
		return nil, err
	}

	paper := entity.Paper{
		Id:           uuid.New(),
		Class:        req.Class,
		Subject:      req.Subject,
		Chapter:      req.Chapter,
		Topic:        req.Topic,
		Count:        req.Count,
		Difficulty:   req.Difficulty,
		QuestionType: req.QuestionType,
		ChoiceType:   req.ChoiceType,
		Questions:    result.Questions,
		Report:       result.Report,
		CreatedAt:    time.Now(),
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PaperRepository().Create(ctx, &paper); err != nil {
		return nil, err
	}

	if p.eventPublisher != nil {
		evt := events.NewPaperGenerated(paper.Id.String(), result.Report.Delivered, result.Report.Requested)
		if err := p.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish PAPER_GENERATED event: %v", err)
		}
	}

	return &dto.GeneratePaperResponse{
		Id:        paper.Id,
		Questions: result.Questions,
		Report:    result.Report,
	}, nil
}

func (p *paperService) List(ctx context.Context) ([]*dto.PaperListItemResponse, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	papers, err := uow.PaperRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.PaperListItemResponse, 0, len(papers))
	for _, paper := range papers {
		out = append(out, &dto.PaperListItemResponse{
			Id:           paper.Id,
			Class:        paper.Class,
			Subject:      paper.Subject,
			Chapter:      paper.Chapter,
			Topic:        paper.Topic,
			Difficulty:   paper.Difficulty,
			QuestionType: paper.QuestionType,
			Delivered:    paper.Report.Delivered,
			Requested:    paper.Report.Requested,
			CreatedAt:    paper.CreatedAt,
		})
	}
	return out, nil
}

func (p *paperService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowPaperResponse, error) {
	paper, err := p.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ShowPaperResponse{
		Id:           paper.Id,
		Class:        paper.Class,
		Subject:      paper.Subject,
		Chapter:      paper.Chapter,
		Topic:        paper.Topic,
		Difficulty:   paper.Difficulty,
		QuestionType: paper.QuestionType,
		Questions:    paper.Questions,
		Report:       paper.Report,
		CreatedAt:    paper.CreatedAt,
	}, nil
}

func (p *paperService) Export(ctx context.Context, id uuid.UUID, format exporter.Format) (string, string, error) {
	paper, err := p.find(ctx, id)
	if err != nil {
		return "", "", err
	}
	return exporter.Render(format, exporter.Paper{
		Class:        paper.Class,
		Subject:      paper.Subject,
		Chapter:      paper.Chapter,
		Topic:        paper.Topic,
		Difficulty:   paper.Difficulty,
		QuestionType: paper.QuestionType,
		Questions:    paper.Questions,
	})
}

func (p *paperService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := p.find(ctx, id); err != nil {
		return err
	}
	uow := p.uowFactory.NewUnitOfWork(ctx)
	return uow.PaperRepository().Delete(ctx, id)
}

func (p *paperService) find(ctx context.Context, id uuid.UUID) (*entity.Paper, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if paper == nil {
		return nil, apperror.ErrNotFound
	}
	return paper, nil
}

package contract

import (
	"context"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SyllabusDocumentRepository interface {
	Create(ctx context.Context, doc *entity.SyllabusDocument) error
	Update(ctx context.Context, doc *entity.SyllabusDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyllabusDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyllabusDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// UpdateIngestionProgress persists status plus resume bookkeeping in
	// one statement so progress survives a consumer crash.
	UpdateIngestionProgress(ctx context.Context, id uuid.UUID, status string, chunksIngested int, lastError string) error
}

package unitofwork

import (
	"context"

	"ai-papergen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SyllabusDocumentRepository() contract.SyllabusDocumentRepository
	SyllabusChunkRepository() contract.SyllabusChunkRepository
	PaperRepository() contract.PaperRepository
}

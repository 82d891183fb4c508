package implementation

import (
	"context"
	"errors"
	"time"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/mapper"
	"ai-papergen-be/internal/model"
	"ai-papergen-be/internal/repository/contract"
	"ai-papergen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SyllabusDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SyllabusDocumentMapper
}

func NewSyllabusDocumentRepository(db *gorm.DB) contract.SyllabusDocumentRepository {
	return &SyllabusDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewSyllabusDocumentMapper(),
	}
}

func (r *SyllabusDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SyllabusDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.SyllabusDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *SyllabusDocumentRepositoryImpl) Update(ctx context.Context, doc *entity.SyllabusDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *SyllabusDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SyllabusDocument{}, id).Error
}

func (r *SyllabusDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyllabusDocument, error) {
	var m model.SyllabusDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SyllabusDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyllabusDocument, error) {
	var models []*model.SyllabusDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SyllabusDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.SyllabusDocument{}).Count(&count).Error
	return count, err
}

func (r *SyllabusDocumentRepositoryImpl) UpdateIngestionProgress(ctx context.Context, id uuid.UUID, status string, chunksIngested int, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&model.SyllabusDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"chunks_ingested": chunksIngested,
			"last_error":      lastError,
			"updated_at":      time.Now(),
		}).Error
}

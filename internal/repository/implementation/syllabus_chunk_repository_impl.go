package implementation

import (
	"context"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/mapper"
	"ai-papergen-be/internal/model"
	"ai-papergen-be/internal/repository/contract"
	"ai-papergen-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyllabusChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SyllabusChunkMapper
}

func NewSyllabusChunkRepository(db *gorm.DB) contract.SyllabusChunkRepository {
	return &SyllabusChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewSyllabusChunkMapper(),
	}
}

func (r *SyllabusChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SyllabusChunkRepositoryImpl) UpsertBulk(ctx context.Context, chunks []*entity.SyllabusChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)

	// Deterministic ids make re-ingestion overwrite in place
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(models).Error
}

func (r *SyllabusChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("document_id = ?", documentId).
		Delete(&model.SyllabusChunk{}).Error
}

func (r *SyllabusChunkRepositoryImpl) DeleteByCurriculum(ctx context.Context, class, subject, chapter string) error {
	query := r.db.WithContext(ctx)
	if class != "" {
		query = query.Where("class = ?", class)
	}
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if chapter != "" {
		query = query.Where("chapter = ?", chapter)
	}
	return query.Delete(&model.SyllabusChunk{}).Error
}

func (r *SyllabusChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyllabusChunk, error) {
	var models []*model.SyllabusChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SyllabusChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SyllabusChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.SyllabusChunk{}).Count(&count).Error
	return count, err
}

func (r *SyllabusChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, class, subject, chapter string) ([]*contract.ScoredSyllabusChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query_vector) recovers the similarity.
	type result struct {
		model.SyllabusChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("syllabus_chunks").
		Select("syllabus_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector)

	if class != "" {
		query = query.Where("class = ?", class)
	}
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if chapter != "" {
		query = query.Where("chapter = ?", chapter)
	}

	err := query.
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSyllabusChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSyllabusChunk{
			Chunk:      r.mapper.ToEntity(&res.SyllabusChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

package mapper

import (
	"time"

	"ai-papergen-be/internal/entity"
	"ai-papergen-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type SyllabusDocumentMapper struct{}

func NewSyllabusDocumentMapper() *SyllabusDocumentMapper {
	return &SyllabusDocumentMapper{}
}

func (m *SyllabusDocumentMapper) ToEntity(d *model.SyllabusDocument) *entity.SyllabusDocument {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.SyllabusDocument{
		Id:             d.Id,
		Filename:       d.Filename,
		FileHash:       d.FileHash,
		Class:          d.Class,
		Subject:        d.Subject,
		Chapter:        d.Chapter,
		Text:           d.Text,
		PageCount:      d.PageCount,
		Status:         d.Status,
		ChunkCount:     d.ChunkCount,
		ChunksIngested: d.ChunksIngested,
		LastError:      d.LastError,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SyllabusDocumentMapper) ToModel(d *entity.SyllabusDocument) *model.SyllabusDocument {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.SyllabusDocument{
		Id:             d.Id,
		Filename:       d.Filename,
		FileHash:       d.FileHash,
		Class:          d.Class,
		Subject:        d.Subject,
		Chapter:        d.Chapter,
		Text:           d.Text,
		PageCount:      d.PageCount,
		Status:         d.Status,
		ChunkCount:     d.ChunkCount,
		ChunksIngested: d.ChunksIngested,
		LastError:      d.LastError,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SyllabusDocumentMapper) ToEntities(docs []*model.SyllabusDocument) []*entity.SyllabusDocument {
	entities := make([]*entity.SyllabusDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

type SyllabusChunkMapper struct{}

func NewSyllabusChunkMapper() *SyllabusChunkMapper {
	return &SyllabusChunkMapper{}
}

func (m *SyllabusChunkMapper) ToEntity(c *model.SyllabusChunk) *entity.SyllabusChunk {
	if c == nil {
		return nil
	}

	return &entity.SyllabusChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Document,
		TokenCount: c.TokenCount,
		Class:      c.Class,
		Subject:    c.Subject,
		Chapter:    c.Chapter,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *SyllabusChunkMapper) ToModel(c *entity.SyllabusChunk) *model.SyllabusChunk {
	if c == nil {
		return nil
	}

	return &model.SyllabusChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		Document:   c.Text,
		TokenCount: c.TokenCount,
		Class:      c.Class,
		Subject:    c.Subject,
		Chapter:    c.Chapter,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *SyllabusChunkMapper) ToModels(chunks []*entity.SyllabusChunk) []*model.SyllabusChunk {
	models := make([]*model.SyllabusChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}

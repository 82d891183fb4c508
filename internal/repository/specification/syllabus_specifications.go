package specification

import "gorm.io/gorm"

// ByCurriculum restricts a query to the non-empty parts of a
// class/subject/chapter triple.
type ByCurriculum struct {
	Class   string
	Subject string
	Chapter string
}

func (s ByCurriculum) Apply(db *gorm.DB) *gorm.DB {
	if s.Class != "" {
		db = db.Where("class = ?", s.Class)
	}
	if s.Subject != "" {
		db = db.Where("subject = ?", s.Subject)
	}
	if s.Chapter != "" {
		db = db.Where("chapter = ?", s.Chapter)
	}
	return db
}

// ByFileHash finds documents with identical uploaded content.
type ByFileHash struct {
	Hash string
}

func (s ByFileHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_hash = ?", s.Hash)
}

// ByStatus filters documents by ingestion status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

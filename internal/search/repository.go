package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

func vectorColumn(vector []float64) pq.Float64Array {
	return pq.Float64Array(vector)
}

// Repository reads document rows for search. Writes stay in the documents
// package; search only updates the embedding column it owns.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a document by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var row models.Document
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveEmbedding stores the computed vector on the document.
func (r *Repository) SaveEmbedding(ctx context.Context, id uuid.UUID, vector []float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Update("embedding", vectorColumn(vector)).
		Error
}

// KeywordCandidates returns the customer's documents whose title, content, or
// tags match the query, newest first. Destroyed documents never surface.
func (r *Repository) KeywordCandidates(ctx context.Context, customerID uuid.UUID, query string, limit int) ([]models.Document, error) {
	pattern := "%" + query + "%"
	var rows []models.Document
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Where("status <> ?", "destroyed").
		Where(
			r.db.Where("title ILIKE ?", pattern).
				Or("content_text ILIKE ?", pattern).
				Or("EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ?)", pattern),
		).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// EmbeddedCandidates returns the customer's documents that carry an embedding
// vector, capped to keep the in-process similarity scan bounded.
func (r *Repository) EmbeddedCandidates(ctx context.Context, customerID uuid.UUID, limit int) ([]models.Document, error) {
	var rows []models.Document
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Where("status <> ?", "destroyed").
		Where("embedding IS NOT NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

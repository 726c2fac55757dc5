package document

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	"github.com/davidquintana/archivio-backend/pkg/pagination"
)

// Repository provides document and folder persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a document with its rack preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var row models.Document
	err := r.db.WithContext(ctx).
		Preload("Rack").
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListFilter narrows document listings.
type ListFilter struct {
	CustomerID uuid.UUID
	FolderID   *uuid.UUID
	Status     enums.DocumentStatus
	Tag        string
}

// List returns a page of the customer's documents, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Document, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("customer_id = ?", filter.CustomerID)
	if filter.FolderID != nil {
		qb = qb.Where("folder_id = ?", *filter.FolderID)
	}
	if filter.Status != "" {
		qb = qb.Where("status = ?", filter.Status)
	}
	if filter.Tag != "" {
		qb = qb.Where("? = ANY(tags)", filter.Tag)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Document
	err = qb.Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// Create inserts a new document row.
func (r *Repository) Create(ctx context.Context, row *models.Document) (*models.Document, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing document row.
func (r *Repository) Update(ctx context.Context, row *models.Document) (*models.Document, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// CountByFolder reports how many documents sit directly in the folder.
func (r *Repository) CountByFolder(ctx context.Context, folderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("folder_id = ?", folderID).
		Count(&count).
		Error
	return count, err
}

// FindFolderByID loads a folder by primary key.
func (r *Repository) FindFolderByID(ctx context.Context, id uuid.UUID) (*models.Folder, error) {
	var row models.Folder
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListFolders returns all of the customer's folders ordered by name.
func (r *Repository) ListFolders(ctx context.Context, customerID uuid.UUID) ([]models.Folder, error) {
	var rows []models.Folder
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateFolder inserts a new folder row.
func (r *Repository) CreateFolder(ctx context.Context, row *models.Folder) (*models.Folder, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// CountChildFolders reports how many folders nest directly under the folder.
func (r *Repository) CountChildFolders(ctx context.Context, folderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Folder{}).
		Where("parent_id = ?", folderID).
		Count(&count).
		Error
	return count, err
}

// DeleteFolder removes an empty folder.
func (r *Repository) DeleteFolder(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Folder{}, "id = ?", id).Error
}

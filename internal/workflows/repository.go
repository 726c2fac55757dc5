package workflow

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// Repository provides workflow rule persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a workflow rule by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WorkflowRule, error) {
	var row models.WorkflowRule
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all workflow rules ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.WorkflowRule, error) {
	var rows []models.WorkflowRule
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListActiveByTransition returns the active rules matching a status change.
func (r *Repository) ListActiveByTransition(ctx context.Context, from, to enums.DocumentStatus) ([]models.WorkflowRule, error) {
	var rows []models.WorkflowRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("from_status = ?", from).
		Where("to_status = ?", to).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new workflow rule row.
func (r *Repository) Create(ctx context.Context, row *models.WorkflowRule) (*models.WorkflowRule, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing workflow rule row.
func (r *Repository) Update(ctx context.Context, row *models.WorkflowRule) (*models.WorkflowRule, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Deactivate disables the rule without deleting it.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkflowRule{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

// ListActiveUsersByRole returns the active users holding the role; the
// consumer fans notifications out to them.
func (r *Repository) ListActiveUsersByRole(ctx context.Context, role enums.MemberRole) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Find(&rows).
		Error
	return rows, err
}

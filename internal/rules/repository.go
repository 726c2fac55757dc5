package rule

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// Repository provides assignment rule persistence.
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

// FindByID loads a rule by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AssignmentRule, error) {
	var row models.AssignmentRule
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all rules ordered by priority level then name.
func (r *Repository) List(ctx context.Context) ([]models.AssignmentRule, error) {
	var rows []models.AssignmentRule
	err := r.db.WithContext(ctx).
		Order("priority_level ASC").
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new rule row.
func (r *Repository) Create(ctx context.Context, row *models.AssignmentRule) (*models.AssignmentRule, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing rule row.
func (r *Repository) Update(ctx context.Context, row *models.AssignmentRule) (*models.AssignmentRule, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Deactivate disables the rule without deleting it.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.AssignmentRule{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

// ListAvailableRacks returns racks eligible for rule materialization with
// their hierarchy preloaded.
func (r *Repository) ListAvailableRacks(ctx context.Context) ([]models.Rack, error) {
	var rows []models.Rack
	err := r.db.WithContext(ctx).
		Preload("Shelf").
		Preload("Shelf.Zone").
		Preload("Shelf.Zone.Warehouse").
		Where("status = ?", "available").
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

package assignment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// Repository wires together assignment persistence and the rack occupancy
// reservation primitives.
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

// FindByID loads an assignment with its rack hierarchy preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var row models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Rack").
		Preload("Rack.Shelf").
		Preload("Rack.Shelf.Zone").
		Preload("Rack.Shelf.Zone.Warehouse").
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListActiveByCustomer returns the customer's active assignments with the full
// rack hierarchy preloaded, ordered the way the evaluator scans them.
func (r *Repository) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Assignment, error) {
	var rows []models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Rack").
		Preload("Rack.Shelf").
		Preload("Rack.Shelf.Zone").
		Preload("Rack.Shelf.Zone.Warehouse").
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Order("priority_order ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListByCustomer returns all assignments for a customer, retired included.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Assignment, error) {
	var rows []models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Rack").
		Where("customer_id = ?", customerID).
		Order("priority_order ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListActiveByRack returns active assignments pointing at the given rack.
func (r *Repository) ListActiveByRack(ctx context.Context, rackID uuid.UUID) ([]models.Assignment, error) {
	var rows []models.Assignment
	err := r.db.WithContext(ctx).
		Where("rack_id = ? AND is_active = ?", rackID, true).
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a new assignment row.
func (r *Repository) Create(ctx context.Context, row *models.Assignment) (*models.Assignment, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing assignment row.
func (r *Repository) Update(ctx context.Context, row *models.Assignment) (*models.Assignment, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Deactivate retires the assignment. Rows are never physically deleted so
// placement history stays reconstructible.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

const reserveSlotSQL = `
UPDATE racks
SET current_count = current_count + 1, updated_at = now()
WHERE id = ?
  AND status = 'available'
  AND capacity > 0
  AND current_count * 100.0 < capacity * ?
`

// ReserveSlot atomically claims one slot on the rack, guarded by the same
// threshold predicate the evaluator applies. Returns false when a concurrent
// writer took the last slot or the rack fell out of service between
// evaluation and commit.
func (r *Repository) ReserveSlot(ctx context.Context, rackID uuid.UUID, thresholdPct float64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(reserveSlotSQL, rackID, thresholdPct)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

const releaseSlotSQL = `
UPDATE racks
SET current_count = current_count - 1, updated_at = now()
WHERE id = ? AND current_count > 0
`

// ReleaseSlot returns one slot to the rack, never decrementing below zero.
func (r *Repository) ReleaseSlot(ctx context.Context, rackID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(releaseSlotSQL, rackID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

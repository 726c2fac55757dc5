package storagetopo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// Repository provides persistence for the physical storage hierarchy:
// warehouses, zones, shelves, and racks.
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

// CreateWarehouse inserts a warehouse row.
func (r *Repository) CreateWarehouse(ctx context.Context, row *models.Warehouse) (*models.Warehouse, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListWarehouses returns all warehouses ordered by code.
func (r *Repository) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var rows []models.Warehouse
	err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error
	return rows, err
}

// FindWarehouseByID loads a warehouse by primary key.
func (r *Repository) FindWarehouseByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var row models.Warehouse
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateZone inserts a zone row.
func (r *Repository) CreateZone(ctx context.Context, row *models.Zone) (*models.Zone, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListZonesByWarehouse returns the zones under a warehouse.
func (r *Repository) ListZonesByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]models.Zone, error) {
	var rows []models.Zone
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("code ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateShelf inserts a shelf row.
func (r *Repository) CreateShelf(ctx context.Context, row *models.Shelf) (*models.Shelf, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListShelvesByZone returns the shelves under a zone.
func (r *Repository) ListShelvesByZone(ctx context.Context, zoneID uuid.UUID) ([]models.Shelf, error) {
	var rows []models.Shelf
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("code ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateRack inserts a rack row.
func (r *Repository) CreateRack(ctx context.Context, row *models.Rack) (*models.Rack, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindRackByID loads a rack with its shelf, zone, and warehouse preloaded.
func (r *Repository) FindRackByID(ctx context.Context, id uuid.UUID) (*models.Rack, error) {
	var row models.Rack
	err := r.db.WithContext(ctx).
		Preload("Shelf").
		Preload("Shelf.Zone").
		Preload("Shelf.Zone.Warehouse").
		First(&row, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListRacksByShelf returns the racks on a shelf.
func (r *Repository) ListRacksByShelf(ctx context.Context, shelfID uuid.UUID) ([]models.Rack, error) {
	var rows []models.Rack
	err := r.db.WithContext(ctx).
		Where("shelf_id = ?", shelfID).
		Order("code ASC").
		Find(&rows).
		Error
	return rows, err
}

// UpdateRack saves an existing rack row. CurrentCount is excluded: occupancy
// is owned by the reservation path.
func (r *Repository) UpdateRack(ctx context.Context, row *models.Rack) (*models.Rack, error) {
	err := r.db.WithContext(ctx).
		Model(row).
		Select("code", "capacity", "status", "updated_at").
		Updates(row).
		Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

package storagetopo

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// WarehouseDTO represents a warehouse payload.
type WarehouseDTO struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ZoneDTO represents a zone payload.
type ZoneDTO struct {
	ID          uuid.UUID `json:"id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShelfDTO represents a shelf payload.
type ShelfDTO struct {
	ID        uuid.UUID `json:"id"`
	ZoneID    uuid.UUID `json:"zone_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RackDTO represents a rack payload with derived utilization.
type RackDTO struct {
	ID             uuid.UUID `json:"id"`
	ShelfID        uuid.UUID `json:"shelf_id"`
	Code           string    `json:"code"`
	Capacity       int       `json:"capacity"`
	CurrentCount   int       `json:"current_count"`
	UtilizationPct float64   `json:"utilization_pct"`
	Status         string    `json:"status"`
	Path           string    `json:"path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewWarehouseDTO builds a DTO from the persisted model.
func NewWarehouseDTO(row *models.Warehouse) *WarehouseDTO {
	return &WarehouseDTO{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// NewZoneDTO builds a DTO from the persisted model.
func NewZoneDTO(row *models.Zone) *ZoneDTO {
	return &ZoneDTO{
		ID:          row.ID,
		WarehouseID: row.WarehouseID,
		Code:        row.Code,
		Name:        row.Name,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// NewShelfDTO builds a DTO from the persisted model.
func NewShelfDTO(row *models.Shelf) *ShelfDTO {
	return &ShelfDTO{
		ID:        row.ID,
		ZoneID:    row.ZoneID,
		Code:      row.Code,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// NewRackDTO builds a DTO from the persisted model.
func NewRackDTO(row *models.Rack) *RackDTO {
	dto := &RackDTO{
		ID:           row.ID,
		ShelfID:      row.ShelfID,
		Code:         row.Code,
		Capacity:     row.Capacity,
		CurrentCount: row.CurrentCount,
		Status:       string(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.Capacity > 0 {
		dto.UtilizationPct = float64(row.CurrentCount) / float64(row.Capacity) * 100
	} else {
		dto.UtilizationPct = 100
	}
	if row.Shelf != nil {
		dto.Path = labelPath(row)
	}
	return dto
}

func labelPath(rack *models.Rack) string {
	payload := RackLabelPayload(rack)
	// Strip the scanner prefix; keep the human-readable path segment.
	for i := len(payload) - 1; i >= 0; i-- {
		if payload[i] == ':' {
			return payload[i+1:]
		}
	}
	return payload
}

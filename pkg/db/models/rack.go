package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// Rack is the smallest addressable storage unit. CurrentCount is owned by the
// reservation path (conditional increments) and never written by the evaluator.
type Rack struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShelfID      uuid.UUID        `gorm:"column:shelf_id;type:uuid;not null;index"`
	Code         string           `gorm:"column:code;not null"`
	Capacity     int              `gorm:"column:capacity;not null;default:0"`
	CurrentCount int              `gorm:"column:current_count;not null;default:0"`
	Status       enums.RackStatus `gorm:"column:status;not null;default:'available'"`
	Shelf        *Shelf           `gorm:"foreignKey:ShelfID"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

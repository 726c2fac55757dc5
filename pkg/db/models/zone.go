package models

import (
	"time"

	"github.com/google/uuid"
)

// Zone subdivides a warehouse.
type Zone struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID uuid.UUID  `gorm:"column:warehouse_id;type:uuid;not null;index"`
	Code        string     `gorm:"column:code;not null"`
	Name        string     `gorm:"column:name;not null"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

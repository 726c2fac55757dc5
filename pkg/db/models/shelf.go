package models

import (
	"time"

	"github.com/google/uuid"
)

// Shelf sits inside a zone and carries racks.
type Shelf struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ZoneID    uuid.UUID `gorm:"column:zone_id;type:uuid;not null;index"`
	Code      string    `gorm:"column:code;not null"`
	Zone      *Zone     `gorm:"foreignKey:ZoneID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

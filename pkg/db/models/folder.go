package models

import (
	"time"

	"github.com/google/uuid"
)

// Folder organizes a customer's documents into a tree.
type Folder struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;index"`
	ParentID   *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Name       string     `gorm:"column:name;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// Assignment links a customer to a rack its documents may occupy. Assignments
// are retired by flipping IsActive, never deleted, so placement history stays
// reconstructible.
type Assignment struct {
	ID                   uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID           uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	RackID               uuid.UUID            `gorm:"column:rack_id;type:uuid;not null;index"`
	Kind                 enums.AssignmentKind `gorm:"column:kind;not null;default:'shared'"`
	PriorityOrder        int                  `gorm:"column:priority_order;not null"`
	CapacityThresholdPct float64              `gorm:"column:capacity_threshold_pct;type:numeric(5,2);not null;default:90"`
	DocumentTypeFilter   pq.StringArray       `gorm:"column:document_type_filter;type:text[];not null;default:ARRAY[]::text[]"`
	FileSizeMin          *int64               `gorm:"column:file_size_min"`
	FileSizeMax          *int64               `gorm:"column:file_size_max"`
	IsActive             bool                 `gorm:"column:is_active;not null;default:true"`
	Rack                 *Rack                `gorm:"foreignKey:RackID"`
	CreatedAt            time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

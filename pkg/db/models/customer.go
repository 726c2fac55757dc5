package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// Customer is the contract holder whose documents occupy physical storage.
// Code is referenced by assignment rules and must stay stable once assignments
// exist.
type Customer struct {
	ID                    uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                  string             `gorm:"column:code;not null;uniqueIndex"`
	Name                  string             `gorm:"column:name;not null"`
	PriorityTier          enums.PriorityTier `gorm:"column:priority_tier;not null;default:'medium'"`
	AcceptedDocumentTypes pq.StringArray     `gorm:"column:accepted_document_types;type:text[];not null;default:ARRAY[]::text[]"`
	AutoAssignEnabled     bool               `gorm:"column:auto_assign_enabled;not null;default:true"`
	IsActive              bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

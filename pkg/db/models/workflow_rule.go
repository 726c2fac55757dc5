package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// WorkflowRule fires when a document moves between the configured statuses and
// notifies every user holding NotifyRole.
type WorkflowRule struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string               `gorm:"column:name;not null"`
	FromStatus enums.DocumentStatus `gorm:"column:from_status;not null"`
	ToStatus   enums.DocumentStatus `gorm:"column:to_status;not null"`
	NotifyRole enums.MemberRole     `gorm:"column:notify_role;not null;default:'operator'"`
	IsActive   bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

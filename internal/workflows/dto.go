package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// WorkflowRuleDTO represents the rule payload returned to clients.
type WorkflowRuleDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	NotifyRole string    `json:"notify_role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewWorkflowRuleDTO builds a DTO from the persisted model.
func NewWorkflowRuleDTO(row *models.WorkflowRule) *WorkflowRuleDTO {
	return &WorkflowRuleDTO{
		ID:         row.ID,
		Name:       row.Name,
		FromStatus: string(row.FromStatus),
		ToStatus:   string(row.ToStatus),
		NotifyRole: string(row.NotifyRole),
		IsActive:   row.IsActive,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// CustomerDTO represents the customer payload returned to clients.
type CustomerDTO struct {
	ID                    uuid.UUID       `json:"id"`
	Code                  string          `json:"code"`
	Name                  string          `json:"name"`
	PriorityTier          string          `json:"priority_tier"`
	AcceptedDocumentTypes []string        `json:"accepted_document_types"`
	AutoAssignEnabled     bool            `json:"auto_assign_enabled"`
	IsActive              bool            `json:"is_active"`
	Rollup                *CapacityRollup `json:"rollup,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// CustomerListResult wraps a page of customers.
type CustomerListResult struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// NewCustomerDTO builds a DTO from the persisted model.
func NewCustomerDTO(row *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:                    row.ID,
		Code:                  row.Code,
		Name:                  row.Name,
		PriorityTier:          string(row.PriorityTier),
		AcceptedDocumentTypes: append([]string{}, row.AcceptedDocumentTypes...),
		AutoAssignEnabled:     row.AutoAssignEnabled,
		IsActive:              row.IsActive,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}

package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// AssignmentDTO represents a customer-to-rack link returned to clients.
type AssignmentDTO struct {
	ID                   uuid.UUID `json:"id"`
	CustomerID           uuid.UUID `json:"customer_id"`
	RackID               uuid.UUID `json:"rack_id"`
	RackCode             string    `json:"rack_code,omitempty"`
	Kind                 string    `json:"kind"`
	PriorityOrder        int       `json:"priority_order"`
	CapacityThresholdPct float64   `json:"capacity_threshold_pct"`
	DocumentTypeFilter   []string  `json:"document_type_filter"`
	FileSizeMin          *int64    `json:"file_size_min,omitempty"`
	FileSizeMax          *int64    `json:"file_size_max,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewAssignmentDTO builds a DTO from the persisted model.
func NewAssignmentDTO(row *models.Assignment) *AssignmentDTO {
	dto := &AssignmentDTO{
		ID:                   row.ID,
		CustomerID:           row.CustomerID,
		RackID:               row.RackID,
		Kind:                 string(row.Kind),
		PriorityOrder:        row.PriorityOrder,
		CapacityThresholdPct: row.CapacityThresholdPct,
		DocumentTypeFilter:   append([]string{}, row.DocumentTypeFilter...),
		FileSizeMin:          row.FileSizeMin,
		FileSizeMax:          row.FileSizeMax,
		IsActive:             row.IsActive,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
	if row.Rack != nil {
		dto.RackCode = row.Rack.Code
	}
	return dto
}

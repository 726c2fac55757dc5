package rule

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// RuleDTO represents the assignment rule payload returned to clients.
type RuleDTO struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	CustomerPattern        string    `json:"customer_pattern"`
	DocumentTypeConditions []string  `json:"document_type_conditions"`
	FileSizeMin            int64     `json:"file_size_min"`
	FileSizeMax            *int64    `json:"file_size_max,omitempty"`
	PriorityLevel          int       `json:"priority_level"`
	PreferredRackPatterns  []string  `json:"preferred_rack_patterns"`
	FallbackRackPatterns   []string  `json:"fallback_rack_patterns"`
	CapacityThresholdPct   float64   `json:"capacity_threshold_pct"`
	OrderBy                string    `json:"order_by"`
	IsActive               bool      `json:"is_active"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewRuleDTO builds a DTO from the persisted model.
func NewRuleDTO(row *models.AssignmentRule) *RuleDTO {
	return &RuleDTO{
		ID:                     row.ID,
		Name:                   row.Name,
		CustomerPattern:        row.CustomerPattern,
		DocumentTypeConditions: append([]string{}, row.DocumentTypeConditions...),
		FileSizeMin:            row.FileSizeMin,
		FileSizeMax:            row.FileSizeMax,
		PriorityLevel:          row.PriorityLevel,
		PreferredRackPatterns:  append([]string{}, row.PreferredRackPatterns...),
		FallbackRackPatterns:   append([]string{}, row.FallbackRackPatterns...),
		CapacityThresholdPct:   row.CapacityThresholdPct,
		OrderBy:                string(row.OrderBy),
		IsActive:               row.IsActive,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
}

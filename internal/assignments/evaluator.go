package assignment

import (
	"sort"
	"strings"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// Failure messages surfaced to operators. Callers and the frontend match on
// these strings, so they are part of the contract.
const (
	MsgNoSuitableRacks = "No suitable racks assigned to this customer"
	MsgAllAtCapacity   = "All assigned racks are at capacity"

	SuggestedActionCapacity = "Assign additional racks or increase capacity thresholds"
)

// PlacementRequest carries the document intake attributes the evaluator
// filters on.
type PlacementRequest struct {
	DocumentType string
	FileSize     int64
}

// RackCandidate reports how one assignment fared during evaluation.
type RackCandidate struct {
	AssignmentID   string               `json:"assignment_id"`
	RackID         string               `json:"rack_id"`
	RackPath       string               `json:"rack_path"`
	Kind           enums.AssignmentKind `json:"kind"`
	PriorityOrder  int                  `json:"priority_order"`
	ThresholdPct   float64              `json:"threshold_pct"`
	Capacity       int                  `json:"capacity"`
	CurrentCount   int                  `json:"current_count"`
	UtilizationPct float64              `json:"utilization_pct"`
	Selected       bool                 `json:"selected"`
	SkipReason     string               `json:"skip_reason,omitempty"`
}

// Decision is the structured result of one placement evaluation. Failures are
// reported, not returned as errors, so the caller can surface them to a human.
type Decision struct {
	Success          bool            `json:"success"`
	Message          string          `json:"message,omitempty"`
	SuggestedAction  string          `json:"suggested_action,omitempty"`
	Chosen           *RackCandidate  `json:"chosen,omitempty"`
	UtilizationAfter float64         `json:"utilization_after,omitempty"`
	Evaluated        []RackCandidate `json:"evaluated"`
}

// Skip reasons recorded per candidate for the dry-run surface.
const (
	skipReasonAtThreshold = "at_or_over_threshold"
	skipReasonUnavailable = "rack_unavailable"
	skipReasonNoCapacity  = "zero_capacity"
)

// Evaluate walks the customer's active assignments in priority order and picks
// the first rack strictly under its capacity threshold. It performs no I/O and
// mutates nothing: rerunning it over unchanged rows yields an identical
// decision. Occupancy is committed separately through Repository.ReserveSlot.
func Evaluate(rows []models.Assignment, req PlacementRequest) Decision {
	candidates := filterAssignments(rows, req)
	if len(candidates) == 0 {
		return Decision{
			Success:   false,
			Message:   MsgNoSuitableRacks,
			Evaluated: []RackCandidate{},
		}
	}

	sortAssignments(candidates)

	evaluated := make([]RackCandidate, 0, len(candidates))
	for _, row := range candidates {
		candidate := describeCandidate(row)

		switch {
		case row.Rack == nil || row.Rack.Status != enums.RackStatusAvailable:
			candidate.SkipReason = skipReasonUnavailable
		case row.Rack.Capacity <= 0:
			// A rack with no capacity is permanently saturated.
			candidate.SkipReason = skipReasonNoCapacity
		case candidate.UtilizationPct < row.CapacityThresholdPct:
			candidate.Selected = true
			evaluated = append(evaluated, candidate)
			return Decision{
				Success:          true,
				Chosen:           &candidate,
				UtilizationAfter: utilizationPct(row.Rack.CurrentCount+1, row.Rack.Capacity),
				Evaluated:        evaluated,
			}
		default:
			candidate.SkipReason = skipReasonAtThreshold
		}

		evaluated = append(evaluated, candidate)
	}

	return Decision{
		Success:         false,
		Message:         MsgAllAtCapacity,
		SuggestedAction: SuggestedActionCapacity,
		Evaluated:       evaluated,
	}
}

func filterAssignments(rows []models.Assignment, req PlacementRequest) []models.Assignment {
	out := make([]models.Assignment, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		if !matchesDocumentType(row.DocumentTypeFilter, req.DocumentType) {
			continue
		}
		if row.FileSizeMin != nil && req.FileSize < *row.FileSizeMin {
			continue
		}
		if row.FileSizeMax != nil && req.FileSize > *row.FileSizeMax {
			continue
		}
		out = append(out, row)
	}
	return out
}

// matchesDocumentType treats an empty filter as match-all.
func matchesDocumentType(filter []string, documentType string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, entry := range filter {
		if strings.EqualFold(entry, documentType) {
			return true
		}
	}
	return false
}

// sortAssignments orders by priority ascending; rows sharing a priority fall
// back to creation time then id so the scan order is total and stable.
func sortAssignments(rows []models.Assignment) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PriorityOrder != rows[j].PriorityOrder {
			return rows[i].PriorityOrder < rows[j].PriorityOrder
		}
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
}

func describeCandidate(row models.Assignment) RackCandidate {
	candidate := RackCandidate{
		AssignmentID:  row.ID.String(),
		RackID:        row.RackID.String(),
		Kind:          row.Kind,
		PriorityOrder: row.PriorityOrder,
		ThresholdPct:  row.CapacityThresholdPct,
	}
	if row.Rack != nil {
		candidate.RackPath = rackPath(row.Rack)
		candidate.Capacity = row.Rack.Capacity
		candidate.CurrentCount = row.Rack.CurrentCount
		candidate.UtilizationPct = utilizationPct(row.Rack.CurrentCount, row.Rack.Capacity)
	}
	return candidate
}

// utilizationPct reports 100 for zero-capacity racks so they never win.
func utilizationPct(count, capacity int) float64 {
	if capacity <= 0 {
		return 100
	}
	return float64(count) / float64(capacity) * 100
}

// rackPath renders the physical location as "warehouse > zone > shelf > rack".
func rackPath(rack *models.Rack) string {
	parts := []string{}
	if rack.Shelf != nil {
		if rack.Shelf.Zone != nil {
			if rack.Shelf.Zone.Warehouse != nil {
				parts = append(parts, rack.Shelf.Zone.Warehouse.Code)
			}
			parts = append(parts, rack.Shelf.Zone.Code)
		}
		parts = append(parts, rack.Shelf.Code)
	}
	parts = append(parts, rack.Code)
	return strings.Join(parts, " > ")
}

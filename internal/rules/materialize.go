package rule

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

// MaterializeResult summarizes one rule materialization run.
type MaterializeResult struct {
	RuleID             string `json:"rule_id"`
	CustomersMatched   int    `json:"customers_matched"`
	AssignmentsCreated int    `json:"assignments_created"`
	AssignmentsSkipped int    `json:"assignments_skipped"`
}

// orderRacks sorts rack candidates according to the rule's ordering policy
// before priority numbers are handed out.
func orderRacks(racks []models.Rack, policy enums.RuleOrderBy) []models.Rack {
	out := make([]models.Rack, len(racks))
	copy(out, racks)

	switch policy {
	case enums.RuleOrderByCapacity:
		// Most free slots first.
		sort.SliceStable(out, func(i, j int) bool {
			return freeSlots(out[i]) > freeSlots(out[j])
		})
	case enums.RuleOrderByPriority:
		// Least utilized first so high-priority customers land on the
		// emptiest racks.
		sort.SliceStable(out, func(i, j int) bool {
			return utilization(out[i]) < utilization(out[j])
		})
	default:
		// Chronological: oldest racks first. ListAvailableRacks already
		// returns created_at ASC.
	}
	return out
}

func freeSlots(rack models.Rack) int {
	free := rack.Capacity - rack.CurrentCount
	if free < 0 {
		return 0
	}
	return free
}

func utilization(rack models.Rack) float64 {
	if rack.Capacity <= 0 {
		return 100
	}
	return float64(rack.CurrentCount) / float64(rack.Capacity) * 100
}

// selectRacks picks the rule's rack candidates: racks matching a preferred
// pattern first, fallback-pattern racks appended after.
func selectRacks(rule *models.AssignmentRule, racks []models.Rack) []models.Rack {
	preferred := make([]models.Rack, 0)
	fallback := make([]models.Rack, 0)
	for _, rack := range racks {
		switch {
		case MatchAnyPattern(rule.PreferredRackPatterns, rack.Code):
			preferred = append(preferred, rack)
		case MatchAnyPattern(rule.FallbackRackPatterns, rack.Code):
			fallback = append(fallback, rack)
		}
	}
	ordered := orderRacks(preferred, rule.OrderBy)
	return append(ordered, orderRacks(fallback, rule.OrderBy)...)
}

// materializeForCustomer creates assignment rows linking the customer to each
// selected rack, skipping racks the customer is already actively linked to.
func (s *service) materializeForCustomer(ctx context.Context, tx *gorm.DB, rule *models.AssignmentRule, customer models.Customer, racks []models.Rack, result *MaterializeResult) error {
	txAssignments := s.assignmentRepo.WithTx(tx)

	existing, err := txAssignments.ListActiveByCustomer(ctx, customer.ID)
	if err != nil {
		return err
	}
	linked := make(map[string]bool, len(existing))
	nextPriority := 1
	for _, row := range existing {
		linked[row.RackID.String()] = true
		if row.PriorityOrder >= nextPriority {
			nextPriority = row.PriorityOrder + 1
		}
	}

	for _, rack := range racks {
		if linked[rack.ID.String()] {
			result.AssignmentsSkipped++
			continue
		}

		var fileSizeMin *int64
		if rule.FileSizeMin > 0 {
			v := rule.FileSizeMin
			fileSizeMin = &v
		}

		row := &models.Assignment{
			CustomerID:           customer.ID,
			RackID:               rack.ID,
			Kind:                 enums.AssignmentKindShared,
			PriorityOrder:        nextPriority,
			CapacityThresholdPct: rule.CapacityThresholdPct,
			DocumentTypeFilter:   rule.DocumentTypeConditions,
			FileSizeMin:          fileSizeMin,
			FileSizeMax:          rule.FileSizeMax,
			IsActive:             true,
		}
		if _, err := txAssignments.Create(ctx, row); err != nil {
			return err
		}
		nextPriority++
		result.AssignmentsCreated++
	}
	return nil
}

package customer

import (
	"github.com/davidquintana/archivio-backend/pkg/db/models"
)

// Rollup status values derived from overall utilization.
const (
	StatusActive         = "active"
	StatusNeedsAttention = "needs_attention"
	StatusOverCapacity   = "over_capacity"
)

// Utilization thresholds. Both comparisons are strictly greater-than: a
// customer sitting exactly at 85% or 95% stays in the lower band.
const (
	needsAttentionPct = 85
	overCapacityPct   = 95
)

// CapacityRollup aggregates a customer's assigned rack capacity. It is
// recomputed on every read and never persisted.
type CapacityRollup struct {
	TotalCapacity      int     `json:"total_capacity"`
	TotalUsed          int     `json:"total_used"`
	OverallUtilization float64 `json:"overall_utilization"`
	Status             string  `json:"status"`
}

// ComputeRollup sums capacity and occupancy across the customer's assignments
// and derives the health status. Assignments without a loaded rack are skipped.
func ComputeRollup(rows []models.Assignment) CapacityRollup {
	rollup := CapacityRollup{}
	for _, row := range rows {
		if row.Rack == nil {
			continue
		}
		rollup.TotalCapacity += row.Rack.Capacity
		rollup.TotalUsed += row.Rack.CurrentCount
	}

	if rollup.TotalCapacity > 0 {
		rollup.OverallUtilization = float64(rollup.TotalUsed) / float64(rollup.TotalCapacity) * 100
	}
	rollup.Status = statusFor(rollup.OverallUtilization)
	return rollup
}

func statusFor(utilizationPct float64) string {
	switch {
	case utilizationPct > overCapacityPct:
		return StatusOverCapacity
	case utilizationPct > needsAttentionPct:
		return StatusNeedsAttention
	default:
		return StatusActive
	}
}

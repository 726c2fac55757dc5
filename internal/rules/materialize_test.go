package rule

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

func testRack(code string, capacity, count int, createdAt time.Time) models.Rack {
	return models.Rack{
		ID:           uuid.New(),
		Code:         code,
		Capacity:     capacity,
		CurrentCount: count,
		Status:       enums.RackStatusAvailable,
		CreatedAt:    createdAt,
	}
}

func rackCodes(racks []models.Rack) []string {
	codes := make([]string, 0, len(racks))
	for _, rack := range racks {
		codes = append(codes, rack.Code)
	}
	return codes
}

func assertCodes(t *testing.T, got []models.Rack, want ...string) {
	t.Helper()
	codes := rackCodes(got)
	if len(codes) != len(want) {
		t.Fatalf("got %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("got %v, want %v", codes, want)
		}
	}
}

func TestOrderRacksChronologicalKeepsInputOrder(t *testing.T) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	racks := []models.Rack{
		testRack("R-OLD", 10, 5, base),
		testRack("R-MID", 10, 1, base.Add(time.Hour)),
		testRack("R-NEW", 10, 9, base.Add(2*time.Hour)),
	}
	got := orderRacks(racks, enums.RuleOrderByChronological)
	assertCodes(t, got, "R-OLD", "R-MID", "R-NEW")
}

func TestOrderRacksCapacityPrefersFreeSlots(t *testing.T) {
	now := time.Now()
	racks := []models.Rack{
		testRack("R-TIGHT", 10, 9, now), // 1 free
		testRack("R-ROOMY", 20, 2, now), // 18 free
		testRack("R-HALF", 10, 5, now),  // 5 free
	}
	got := orderRacks(racks, enums.RuleOrderByCapacity)
	assertCodes(t, got, "R-ROOMY", "R-HALF", "R-TIGHT")
}

func TestOrderRacksPriorityPrefersLeastUtilized(t *testing.T) {
	now := time.Now()
	racks := []models.Rack{
		testRack("R-90", 10, 9, now),
		testRack("R-10", 10, 1, now),
		testRack("R-50", 10, 5, now),
	}
	got := orderRacks(racks, enums.RuleOrderByPriority)
	assertCodes(t, got, "R-10", "R-50", "R-90")
}

func TestOrderRacksZeroCapacityTreatedAsFull(t *testing.T) {
	now := time.Now()
	racks := []models.Rack{
		testRack("R-ZERO", 0, 0, now),
		testRack("R-OK", 10, 5, now),
	}
	got := orderRacks(racks, enums.RuleOrderByPriority)
	assertCodes(t, got, "R-OK", "R-ZERO")

	got = orderRacks(racks, enums.RuleOrderByCapacity)
	assertCodes(t, got, "R-OK", "R-ZERO")
}

func TestOrderRacksDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	racks := []models.Rack{
		testRack("R-B", 10, 9, now),
		testRack("R-A", 10, 1, now),
	}
	orderRacks(racks, enums.RuleOrderByPriority)
	assertCodes(t, racks, "R-B", "R-A")
}

func TestSelectRacksPreferredBeforeFallback(t *testing.T) {
	now := time.Now()
	rule := &models.AssignmentRule{
		PreferredRackPatterns: []string{"FAST-*"},
		FallbackRackPatterns:  []string{"SLOW-*"},
		OrderBy:               enums.RuleOrderByChronological,
	}
	racks := []models.Rack{
		testRack("SLOW-1", 10, 0, now),
		testRack("FAST-1", 10, 8, now),
		testRack("OTHER-1", 10, 0, now),
		testRack("FAST-2", 10, 0, now),
	}
	got := selectRacks(rule, racks)
	assertCodes(t, got, "FAST-1", "FAST-2", "SLOW-1")
}

func TestSelectRacksOrdersEachGroupIndependently(t *testing.T) {
	now := time.Now()
	rule := &models.AssignmentRule{
		PreferredRackPatterns: []string{"FAST-*"},
		FallbackRackPatterns:  []string{"SLOW-*"},
		OrderBy:               enums.RuleOrderByPriority,
	}
	racks := []models.Rack{
		testRack("FAST-FULL", 10, 9, now),
		testRack("SLOW-FULL", 10, 9, now),
		testRack("SLOW-EMPTY", 10, 0, now),
		testRack("FAST-EMPTY", 10, 0, now),
	}
	got := selectRacks(rule, racks)
	// A full preferred rack still outranks an empty fallback rack.
	assertCodes(t, got, "FAST-EMPTY", "FAST-FULL", "SLOW-EMPTY", "SLOW-FULL")
}

func TestSelectRacksNoPatternsSelectsNothing(t *testing.T) {
	rule := &models.AssignmentRule{OrderBy: enums.RuleOrderByChronological}
	racks := []models.Rack{testRack("R-1", 10, 0, time.Now())}
	if got := selectRacks(rule, racks); len(got) != 0 {
		t.Fatalf("expected no racks selected, got %v", rackCodes(got))
	}
}

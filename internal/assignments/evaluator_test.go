package assignment

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

func testRack(capacity, currentCount int) *models.Rack {
	return &models.Rack{
		ID:           uuid.New(),
		Code:         "R-" + uuid.NewString()[:8],
		Capacity:     capacity,
		CurrentCount: currentCount,
		Status:       enums.RackStatusAvailable,
	}
}

func testAssignment(priority int, thresholdPct float64, rack *models.Rack) models.Assignment {
	return models.Assignment{
		ID:                   uuid.New(),
		CustomerID:           uuid.New(),
		RackID:               rack.ID,
		Kind:                 enums.AssignmentKindShared,
		PriorityOrder:        priority,
		CapacityThresholdPct: thresholdPct,
		DocumentTypeFilter:   pq.StringArray{},
		IsActive:             true,
		Rack:                 rack,
		CreatedAt:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEvaluateNoAssignments(t *testing.T) {
	decision := Evaluate(nil, PlacementRequest{DocumentType: "contract"})

	assert.False(t, decision.Success)
	assert.Equal(t, "No suitable racks assigned to this customer", decision.Message)
	assert.Empty(t, decision.SuggestedAction)
	assert.Nil(t, decision.Chosen)
}

func TestEvaluateNoTypeMatchingAssignments(t *testing.T) {
	row := testAssignment(1, 90, testRack(10, 0))
	row.DocumentTypeFilter = pq.StringArray{"invoice"}

	decision := Evaluate([]models.Assignment{row}, PlacementRequest{DocumentType: "contract"})

	assert.False(t, decision.Success)
	assert.Equal(t, MsgNoSuitableRacks, decision.Message)
}

func TestEvaluateInactiveAssignmentsIgnored(t *testing.T) {
	row := testAssignment(1, 90, testRack(10, 0))
	row.IsActive = false

	decision := Evaluate([]models.Assignment{row}, PlacementRequest{DocumentType: "contract"})

	assert.False(t, decision.Success)
	assert.Equal(t, MsgNoSuitableRacks, decision.Message)
}

func TestEvaluateAllAtCapacity(t *testing.T) {
	rows := []models.Assignment{
		testAssignment(1, 90, testRack(10, 9)),
		testAssignment(2, 90, testRack(10, 10)),
	}

	decision := Evaluate(rows, PlacementRequest{DocumentType: "contract"})

	assert.False(t, decision.Success)
	assert.Equal(t, "All assigned racks are at capacity", decision.Message)
	assert.Equal(t, "Assign additional racks or increase capacity thresholds", decision.SuggestedAction)
	assert.Len(t, decision.Evaluated, 2)
}

func TestEvaluateFirstFitRespectsPriorityOrder(t *testing.T) {
	// Only the rack at priority 2 is under threshold. Priority 1 is saturated
	// and priority 3 also qualifies, but the scan is strictly sequential.
	saturated := testRack(10, 9)
	open := testRack(10, 2)
	alsoOpen := testRack(10, 0)

	rows := []models.Assignment{
		testAssignment(3, 90, alsoOpen),
		testAssignment(1, 90, saturated),
		testAssignment(2, 90, open),
	}

	decision := Evaluate(rows, PlacementRequest{DocumentType: "contract"})

	require.True(t, decision.Success)
	require.NotNil(t, decision.Chosen)
	assert.Equal(t, open.ID.String(), decision.Chosen.RackID)
	assert.Equal(t, 2, decision.Chosen.PriorityOrder)
	// Scan stops at the first fit; priority 3 is never reached.
	assert.Len(t, decision.Evaluated, 2)
}

func TestDecisionSerializesSnakeCase(t *testing.T) {
	// The decision is returned straight from the simulate and place
	// endpoints, so its field naming has to match the rest of the API.
	full := testRack(10, 10)
	decision := Evaluate([]models.Assignment{testAssignment(1, 90, full)},
		PlacementRequest{DocumentType: "contract"})

	raw, err := json.Marshal(decision)
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, `"suggested_action"`)
	assert.Contains(t, body, `"assignment_id"`)
	assert.Contains(t, body, `"rack_path"`)
	assert.Contains(t, body, `"priority_order"`)
	assert.Contains(t, body, `"utilization_pct"`)
	assert.Contains(t, body, `"skip_reason"`)
	assert.NotContains(t, body, `"suggestedAction"`)
	assert.NotContains(t, body, `"assignmentId"`)
}

func TestEvaluateThresholdBoundaryIsStrict(t *testing.T) {
	// R1 at exactly its 90% threshold is skipped, R2 at 20% wins.
	r1 := testRack(10, 9)
	r2 := testRack(10, 2)

	rows := []models.Assignment{
		testAssignment(1, 90, r1),
		testAssignment(2, 90, r2),
	}

	decision := Evaluate(rows, PlacementRequest{DocumentType: "contract", FileSize: 5000})

	require.True(t, decision.Success)
	require.NotNil(t, decision.Chosen)
	assert.Equal(t, r2.ID.String(), decision.Chosen.RackID)
	assert.InDelta(t, 20.0, decision.Chosen.UtilizationPct, 0.001)
	assert.InDelta(t, 30.0, decision.UtilizationAfter, 0.001)
	assert.Equal(t, skipReasonAtThreshold, decision.Evaluated[0].SkipReason)
}

func TestEvaluateZeroCapacityRackNeverSelected(t *testing.T) {
	rows := []models.Assignment{
		testAssignment(1, 90, testRack(0, 0)),
	}

	decision := Evaluate(rows, PlacementRequest{DocumentType: "contract"})

	assert.False(t, decision.Success)
	assert.Equal(t, MsgAllAtCapacity, decision.Message)
	assert.Equal(t, skipReasonNoCapacity, decision.Evaluated[0].SkipReason)
	assert.InDelta(t, 100.0, decision.Evaluated[0].UtilizationPct, 0.001)
}

func TestEvaluateSkipsUnavailableRacks(t *testing.T) {
	maintenance := testRack(10, 0)
	maintenance.Status = enums.RackStatusMaintenance
	open := testRack(10, 0)

	rows := []models.Assignment{
		testAssignment(1, 90, maintenance),
		testAssignment(2, 90, open),
	}

	decision := Evaluate(rows, PlacementRequest{DocumentType: "contract"})

	require.True(t, decision.Success)
	assert.Equal(t, open.ID.String(), decision.Chosen.RackID)
	assert.Equal(t, skipReasonUnavailable, decision.Evaluated[0].SkipReason)
}

func TestEvaluateFileSizeBounds(t *testing.T) {
	small := testAssignment(1, 90, testRack(10, 0))
	max := int64(1000)
	small.FileSizeMax = &max

	large := testAssignment(2, 90, testRack(10, 0))
	min := int64(1001)
	large.FileSizeMin = &min

	rows := []models.Assignment{small, large}

	decision := Evaluate(rows, PlacementRequest{DocumentType: "contract", FileSize: 5000})
	require.True(t, decision.Success)
	assert.Equal(t, 2, decision.Chosen.PriorityOrder)

	decision = Evaluate(rows, PlacementRequest{DocumentType: "contract", FileSize: 500})
	require.True(t, decision.Success)
	assert.Equal(t, 1, decision.Chosen.PriorityOrder)
}

func TestEvaluatePriorityTiesBreakOnCreatedAtThenID(t *testing.T) {
	older := testAssignment(1, 90, testRack(10, 0))
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testAssignment(1, 90, testRack(10, 0))
	newer.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	decision := Evaluate([]models.Assignment{newer, older}, PlacementRequest{DocumentType: "contract"})

	require.True(t, decision.Success)
	assert.Equal(t, older.ID.String(), decision.Chosen.AssignmentID)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	rows := []models.Assignment{
		testAssignment(1, 90, testRack(10, 9)),
		testAssignment(2, 90, testRack(10, 2)),
	}
	req := PlacementRequest{DocumentType: "contract", FileSize: 5000}

	first := Evaluate(rows, req)
	second := Evaluate(rows, req)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical decisions, got %+v and %+v", first, second)
	}
}

func TestEvaluateDocumentTypeFilterIsCaseInsensitive(t *testing.T) {
	row := testAssignment(1, 90, testRack(10, 0))
	row.DocumentTypeFilter = pq.StringArray{"Contract"}

	decision := Evaluate([]models.Assignment{row}, PlacementRequest{DocumentType: "contract"})

	assert.True(t, decision.Success)
}

func TestRackPathRendersFullHierarchy(t *testing.T) {
	rack := testRack(10, 0)
	rack.Code = "R1"
	rack.Shelf = &models.Shelf{
		Code: "S1",
		Zone: &models.Zone{
			Code:      "Z1",
			Warehouse: &models.Warehouse{Code: "W1"},
		},
	}
	row := testAssignment(1, 90, rack)

	decision := Evaluate([]models.Assignment{row}, PlacementRequest{DocumentType: "contract"})

	require.True(t, decision.Success)
	assert.Equal(t, "W1 > Z1 > S1 > R1", decision.Chosen.RackPath)
}

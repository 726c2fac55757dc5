package rule

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

func TestRepositoryListOrdersByPriorityLevel(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	low := mustCreateRule(t, tx, func(rule *models.AssignmentRule) {
		rule.Name = fmt.Sprintf("zz-last-%s", uuid.NewString()[:8])
		rule.PriorityLevel = 200
	})
	high := mustCreateRule(t, tx, func(rule *models.AssignmentRule) {
		rule.Name = fmt.Sprintf("aa-first-%s", uuid.NewString()[:8])
		rule.PriorityLevel = 10
	})

	rows, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}

	posHigh, posLow := -1, -1
	for i, row := range rows {
		switch row.ID {
		case high.ID:
			posHigh = i
		case low.ID:
			posLow = i
		}
	}
	if posHigh < 0 || posLow < 0 {
		t.Fatal("expected both rules in listing")
	}
	if posHigh > posLow {
		t.Fatal("expected lower priority_level first")
	}
}

func TestRepositoryDeactivateKeepsRow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	rule := mustCreateRule(t, tx, nil)
	if err := repo.Deactivate(ctx, rule.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	row, err := repo.FindByID(ctx, rule.ID)
	if err != nil {
		t.Fatalf("find after deactivate: %v", err)
	}
	if row.IsActive {
		t.Fatal("expected rule deactivated")
	}
}

func TestRepositoryListAvailableRacksExcludesMaintenance(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	available := mustCreateRuleRack(t, tx, fmt.Sprintf("R-AV-%s", uuid.NewString()[:8]), 10, 0)
	down := mustCreateRuleRack(t, tx, fmt.Sprintf("R-DN-%s", uuid.NewString()[:8]), 10, 0)
	if err := tx.Model(&models.Rack{}).Where("id = ?", down.ID).Update("status", enums.RackStatusMaintenance).Error; err != nil {
		t.Fatalf("set maintenance: %v", err)
	}

	rows, err := repo.ListAvailableRacks(ctx)
	if err != nil {
		t.Fatalf("list available racks: %v", err)
	}

	sawAvailable, sawDown := false, false
	for _, row := range rows {
		if row.ID == available.ID {
			sawAvailable = true
			if row.Shelf == nil || row.Shelf.Zone == nil || row.Shelf.Zone.Warehouse == nil {
				t.Fatal("expected hierarchy preloaded")
			}
		}
		if row.ID == down.ID {
			sawDown = true
		}
	}
	if !sawAvailable {
		t.Fatal("expected available rack in listing")
	}
	if sawDown {
		t.Fatal("maintenance rack must not be listed")
	}
}

func TestMaterializeForCustomerCreatesAndSkips(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	svc := &service{assignmentRepo: assignment.NewRepository(conn)}

	customer := mustCreateRuleCustomer(t, tx, fmt.Sprintf("CUST-%s", uuid.NewString()[:8]))
	rackLinked := mustCreateRuleRack(t, tx, fmt.Sprintf("R-LN-%s", uuid.NewString()[:8]), 10, 0)
	rackNew := mustCreateRuleRack(t, tx, fmt.Sprintf("R-NW-%s", uuid.NewString()[:8]), 10, 0)

	existing := &models.Assignment{
		ID:                   uuid.New(),
		CustomerID:           customer.ID,
		RackID:               rackLinked.ID,
		Kind:                 enums.AssignmentKindShared,
		PriorityOrder:        3,
		CapacityThresholdPct: 90,
		DocumentTypeFilter:   pq.StringArray{},
		IsActive:             true,
	}
	if err := tx.Create(existing).Error; err != nil {
		t.Fatalf("create existing assignment: %v", err)
	}

	rule := mustCreateRule(t, tx, func(rule *models.AssignmentRule) {
		rule.CapacityThresholdPct = 85
		rule.DocumentTypeConditions = pq.StringArray{"invoice"}
	})

	result := &MaterializeResult{RuleID: rule.ID.String()}
	racks := []models.Rack{*rackLinked, *rackNew}
	if err := svc.materializeForCustomer(ctx, tx, rule, *customer, racks, result); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if result.AssignmentsCreated != 1 {
		t.Fatalf("expected 1 assignment created, got %d", result.AssignmentsCreated)
	}
	if result.AssignmentsSkipped != 1 {
		t.Fatalf("expected 1 assignment skipped, got %d", result.AssignmentsSkipped)
	}

	rows, err := assignment.NewRepository(tx).ListActiveByCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(rows))
	}

	var created *models.Assignment
	for i := range rows {
		if rows[i].RackID == rackNew.ID {
			created = &rows[i]
		}
	}
	if created == nil {
		t.Fatal("expected assignment on the new rack")
	}
	if created.PriorityOrder != 4 {
		t.Fatalf("expected priority continued after existing max, got %d", created.PriorityOrder)
	}
	if created.CapacityThresholdPct != 85 {
		t.Fatalf("expected rule threshold carried over, got %v", created.CapacityThresholdPct)
	}
	if len(created.DocumentTypeFilter) != 1 || created.DocumentTypeFilter[0] != "invoice" {
		t.Fatalf("expected rule document types carried over, got %v", created.DocumentTypeFilter)
	}
}

package assignment

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRepositoryAssignmentFlow(t *testing.T) {
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

	customer := mustCreateTestCustomer(t, tx)
	rackA := mustCreateTestRack(t, tx, 10, 0)
	rackB := mustCreateTestRack(t, tx, 10, 9)

	second := mustCreateTestAssignment(t, tx, customer.ID, rackB.ID, 2, 90)
	first := mustCreateTestAssignment(t, tx, customer.ID, rackA.ID, 1, 90)

	rows, err := repo.ListActiveByCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(rows))
	}
	if rows[0].ID != first.ID || rows[1].ID != second.ID {
		t.Fatal("expected assignments ordered by priority_order ascending")
	}
	if rows[0].Rack == nil || rows[0].Rack.Shelf == nil || rows[0].Rack.Shelf.Zone == nil || rows[0].Rack.Shelf.Zone.Warehouse == nil {
		t.Fatal("expected full rack hierarchy preloaded")
	}

	if err := repo.Deactivate(ctx, second.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	rows, err = repo.ListActiveByCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list active after deactivate: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected deactivated assignment excluded, got %d rows", len(rows))
	}

	all, err := repo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected retired assignment retained, got %d rows", len(all))
	}
}

func TestRepositoryReserveSlot(t *testing.T) {
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

	// capacity 10, threshold 90: slots 0..8 reserve, the 10th attempt loses.
	rack := mustCreateTestRack(t, tx, 10, 8)

	reserved, err := repo.ReserveSlot(ctx, rack.ID, 90)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !reserved {
		t.Fatal("expected reservation under threshold to succeed")
	}

	reserved, err = repo.ReserveSlot(ctx, rack.ID, 90)
	if err != nil {
		t.Fatalf("reserve at threshold: %v", err)
	}
	if reserved {
		t.Fatal("expected reservation at threshold to be refused")
	}

	reserved, err = repo.ReserveSlot(ctx, uuid.New(), 90)
	if err != nil {
		t.Fatalf("reserve unknown rack: %v", err)
	}
	if reserved {
		t.Fatal("expected reservation on unknown rack to be refused")
	}
}

func TestRepositoryReserveSlotZeroCapacity(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	rack := mustCreateTestRack(t, tx, 0, 0)

	reserved, err := repo.ReserveSlot(context.Background(), rack.ID, 90)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if reserved {
		t.Fatal("expected zero-capacity rack to refuse reservations")
	}
}

func TestRepositoryReleaseSlotFloorsAtZero(t *testing.T) {
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
	rack := mustCreateTestRack(t, tx, 10, 1)

	released, err := repo.ReleaseSlot(ctx, rack.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if !released {
		t.Fatal("expected release to succeed")
	}

	released, err = repo.ReleaseSlot(ctx, rack.ID)
	if err != nil {
		t.Fatalf("release at zero: %v", err)
	}
	if released {
		t.Fatal("expected release at zero occupancy to be a no-op")
	}
}

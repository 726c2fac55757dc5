package document

import (
	"context"
	"testing"

	"gorm.io/gorm"

	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	customer "github.com/davidquintana/archivio-backend/internal/customers"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

func newPlacementService(t *testing.T, tx *gorm.DB) *service {
	t.Helper()
	return &service{
		repo:           NewRepository(tx),
		customerRepo:   customer.NewRepository(tx),
		assignmentRepo: assignment.NewRepository(tx),
		gcsCfg:         config.GCSConfig{},
		docsCfg:        config.DocumentsConfig{MaxUploadMB: 100},
	}
}

func TestPlaceStoresDocumentAndReservesSlot(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	svc := newPlacementService(t, tx)

	cust := mustCreateDocCustomer(t, tx)
	rack := mustCreateDocRack(t, tx, 10, 3)
	mustCreateDocAssignment(t, tx, cust.ID, rack.ID, 1, 90)
	doc := mustCreateDoc(t, tx, cust.ID, enums.DocumentStatusPending)

	decision, err := svc.Place(ctx, doc.ID, nil)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !decision.Success {
		t.Fatalf("expected placement to succeed, got %q", decision.Message)
	}
	if decision.Chosen == nil || decision.Chosen.RackID != rack.ID.String() {
		t.Fatal("expected the assigned rack to be chosen")
	}

	var stored models.Document
	if err := tx.First(&stored, "id = ?", doc.ID).Error; err != nil {
		t.Fatalf("reload document: %v", err)
	}
	if stored.Status != enums.DocumentStatusStored {
		t.Fatalf("expected status stored, got %s", stored.Status)
	}
	if stored.RackID == nil || *stored.RackID != rack.ID {
		t.Fatal("expected rack id persisted")
	}

	var placedRack models.Rack
	if err := tx.First(&placedRack, "id = ?", rack.ID).Error; err != nil {
		t.Fatalf("reload rack: %v", err)
	}
	if placedRack.CurrentCount != 4 {
		t.Fatalf("expected slot reserved, count = %d", placedRack.CurrentCount)
	}
}

func TestPlaceReturnsFailureDecisionWhenAllAtCapacity(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	svc := newPlacementService(t, tx)

	cust := mustCreateDocCustomer(t, tx)
	rack := mustCreateDocRack(t, tx, 10, 9)
	mustCreateDocAssignment(t, tx, cust.ID, rack.ID, 1, 90)
	doc := mustCreateDoc(t, tx, cust.ID, enums.DocumentStatusPending)

	decision, err := svc.Place(ctx, doc.ID, nil)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if decision.Success {
		t.Fatal("expected placement to fail")
	}
	if decision.Message != assignment.MsgAllAtCapacity {
		t.Fatalf("message = %q", decision.Message)
	}

	var unchanged models.Document
	if err := tx.First(&unchanged, "id = ?", doc.ID).Error; err != nil {
		t.Fatalf("reload document: %v", err)
	}
	if unchanged.Status != enums.DocumentStatusPending {
		t.Fatal("failed placement must leave the document pending")
	}
}

func TestPlaceRejectsNonPendingDocument(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	svc := newPlacementService(t, tx)

	cust := mustCreateDocCustomer(t, tx)
	doc := mustCreateDoc(t, tx, cust.ID, enums.DocumentStatusStored)

	_, err := svc.Place(ctx, doc.ID, nil)
	if err == nil {
		t.Fatal("expected state conflict")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict code, got %v", err)
	}
}

func TestTransitionDestroyReleasesSlot(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	svc := newPlacementService(t, tx)

	cust := mustCreateDocCustomer(t, tx)
	rack := mustCreateDocRack(t, tx, 10, 5)
	doc := mustCreateDoc(t, tx, cust.ID, enums.DocumentStatusStored)
	if err := tx.Model(&models.Document{}).Where("id = ?", doc.ID).Update("rack_id", rack.ID).Error; err != nil {
		t.Fatalf("attach rack: %v", err)
	}

	dto, err := svc.Transition(ctx, doc.ID, enums.DocumentStatusDestroyed, nil)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if dto.Status != string(enums.DocumentStatusDestroyed) {
		t.Fatalf("status = %s", dto.Status)
	}
	if dto.RackID != nil {
		t.Fatal("destroyed document must not keep a rack")
	}

	var freedRack models.Rack
	if err := tx.First(&freedRack, "id = ?", rack.ID).Error; err != nil {
		t.Fatalf("reload rack: %v", err)
	}
	if freedRack.CurrentCount != 4 {
		t.Fatalf("expected slot released, count = %d", freedRack.CurrentCount)
	}
}

func TestTransitionRejectsPendingToStored(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	svc := newPlacementService(t, tx)

	cust := mustCreateDocCustomer(t, tx)
	doc := mustCreateDoc(t, tx, cust.ID, enums.DocumentStatusPending)

	_, err := svc.Transition(ctx, doc.ID, enums.DocumentStatusStored, nil)
	if err == nil {
		t.Fatal("expected state conflict")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict code, got %v", err)
	}
}

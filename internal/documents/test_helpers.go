package document

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

func mustCreateDocCustomer(t *testing.T, tx *gorm.DB) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:                    uuid.New(),
		Code:                  fmt.Sprintf("CUST-%s", uuid.NewString()[:8]),
		Name:                  "Doc Customer",
		PriorityTier:          enums.PriorityTierMedium,
		AcceptedDocumentTypes: pq.StringArray{},
		AutoAssignEnabled:     true,
		IsActive:              true,
	}
	if err := tx.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func mustCreateDocRack(t *testing.T, tx *gorm.DB, capacity, currentCount int) *models.Rack {
	t.Helper()

	warehouse := &models.Warehouse{
		ID:   uuid.New(),
		Code: fmt.Sprintf("W-%s", uuid.NewString()[:8]),
		Name: "Doc Warehouse",
	}
	if err := tx.Create(warehouse).Error; err != nil {
		t.Fatalf("create warehouse: %v", err)
	}
	zone := &models.Zone{
		ID:          uuid.New(),
		WarehouseID: warehouse.ID,
		Code:        "Z1",
		Name:        "Zone One",
	}
	if err := tx.Create(zone).Error; err != nil {
		t.Fatalf("create zone: %v", err)
	}
	shelf := &models.Shelf{
		ID:     uuid.New(),
		ZoneID: zone.ID,
		Code:   "S1",
	}
	if err := tx.Create(shelf).Error; err != nil {
		t.Fatalf("create shelf: %v", err)
	}
	rack := &models.Rack{
		ID:           uuid.New(),
		ShelfID:      shelf.ID,
		Code:         fmt.Sprintf("R-%s", uuid.NewString()[:8]),
		Capacity:     capacity,
		CurrentCount: currentCount,
		Status:       enums.RackStatusAvailable,
	}
	if err := tx.Create(rack).Error; err != nil {
		t.Fatalf("create rack: %v", err)
	}
	return rack
}

func mustCreateDocAssignment(t *testing.T, tx *gorm.DB, customerID, rackID uuid.UUID, priority int, thresholdPct float64) *models.Assignment {
	t.Helper()
	row := &models.Assignment{
		ID:                   uuid.New(),
		CustomerID:           customerID,
		RackID:               rackID,
		Kind:                 enums.AssignmentKindShared,
		PriorityOrder:        priority,
		CapacityThresholdPct: thresholdPct,
		DocumentTypeFilter:   pq.StringArray{},
		IsActive:             true,
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return row
}

func mustCreateDoc(t *testing.T, tx *gorm.DB, customerID uuid.UUID, status enums.DocumentStatus) *models.Document {
	t.Helper()
	id := uuid.New()
	row := &models.Document{
		ID:           id,
		CustomerID:   customerID,
		Title:        "Quarterly report",
		DocumentType: "report",
		FileSize:     2048,
		GCSKey:       objectKey(customerID, id),
		Tags:         pq.StringArray{},
		Status:       status,
	}
	if err := tx.Create(row).Error; err != nil {
		t.Fatalf("create document: %v", err)
	}
	return row
}

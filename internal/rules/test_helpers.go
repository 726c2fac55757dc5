package rule

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
)

func mustCreateRuleCustomer(t *testing.T, tx *gorm.DB, code string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:                    uuid.New(),
		Code:                  code,
		Name:                  "Rule Customer",
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

func mustCreateRuleRack(t *testing.T, tx *gorm.DB, code string, capacity, currentCount int) *models.Rack {
	t.Helper()

	warehouse := &models.Warehouse{
		ID:   uuid.New(),
		Code: fmt.Sprintf("W-%s", uuid.NewString()[:8]),
		Name: "Rule Warehouse",
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
		Code:         code,
		Capacity:     capacity,
		CurrentCount: currentCount,
		Status:       enums.RackStatusAvailable,
	}
	if err := tx.Create(rack).Error; err != nil {
		t.Fatalf("create rack: %v", err)
	}
	return rack
}

func mustCreateRule(t *testing.T, tx *gorm.DB, mutate func(rule *models.AssignmentRule)) *models.AssignmentRule {
	t.Helper()
	rule := &models.AssignmentRule{
		ID:                     uuid.New(),
		Name:                   fmt.Sprintf("rule-%s", uuid.NewString()[:8]),
		CustomerPattern:        "*",
		DocumentTypeConditions: pq.StringArray{},
		PriorityLevel:          100,
		PreferredRackPatterns:  pq.StringArray{"*"},
		FallbackRackPatterns:   pq.StringArray{},
		CapacityThresholdPct:   90,
		OrderBy:                enums.RuleOrderByChronological,
		IsActive:               true,
	}
	if mutate != nil {
		mutate(rule)
	}
	if err := tx.Create(rule).Error; err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return rule
}

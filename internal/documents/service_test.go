package document

import (
	"context"
	"testing"

	"github.com/google/uuid"

	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	"github.com/davidquintana/archivio-backend/pkg/metrics"
)

type fakeCustomerLoader struct {
	rows map[uuid.UUID]*models.Customer
}

func (f *fakeCustomerLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if row, ok := f.rows[id]; ok {
		return row, nil
	}
	return nil, context.Canceled
}

type fakeAssignmentStore struct{}

func (f *fakeAssignmentStore) ListActiveByCustomer(context.Context, uuid.UUID) ([]models.Assignment, error) {
	return nil, nil
}

func (f *fakeAssignmentStore) ReserveSlot(context.Context, uuid.UUID, float64) (bool, error) {
	return false, nil
}

func (f *fakeAssignmentStore) ReleaseSlot(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	repo := NewRepository(nil)
	customers := &fakeCustomerLoader{}
	assignments := &fakeAssignmentStore{}

	if _, err := NewService(nil, customers, assignments, nil, nil, config.GCSConfig{}, config.DocumentsConfig{}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(repo, nil, assignments, nil, nil, config.GCSConfig{}, config.DocumentsConfig{}); err == nil {
		t.Fatal("expected error without customer repository")
	}
	if _, err := NewService(repo, customers, nil, nil, nil, config.GCSConfig{}, config.DocumentsConfig{}); err == nil {
		t.Fatal("expected error without assignment repository")
	}
	if _, err := NewService(repo, customers, assignments, nil, nil, config.GCSConfig{}, config.DocumentsConfig{}); err != nil {
		t.Fatalf("expected service to construct without signer and publisher, got %v", err)
	}
}

func TestAcceptsDocumentType(t *testing.T) {
	if !acceptsDocumentType(nil, "invoice") {
		t.Fatal("empty accept list must accept everything")
	}
	if !acceptsDocumentType([]string{"Invoice", "contract"}, "INVOICE") {
		t.Fatal("matching is case-insensitive")
	}
	if acceptsDocumentType([]string{"contract"}, "invoice") {
		t.Fatal("non-listed type must be rejected")
	}
}

func TestObjectKeyIsCustomerScoped(t *testing.T) {
	customerID := uuid.New()
	documentID := uuid.New()
	want := "customers/" + customerID.String() + "/documents/" + documentID.String()
	if got := objectKey(customerID, documentID); got != want {
		t.Fatalf("objectKey = %q, want %q", got, want)
	}
}

func TestEventTypeFor(t *testing.T) {
	if got := eventTypeFor(enums.DocumentStatusStored); got != "document.stored" {
		t.Fatalf("stored event = %q", got)
	}
	if got := eventTypeFor(enums.DocumentStatusArchived); got != "document.archived" {
		t.Fatalf("archived event = %q", got)
	}
	if got := eventTypeFor(enums.DocumentStatusDestroyed); got != "document.destroyed" {
		t.Fatalf("destroyed event = %q", got)
	}
	if got := eventTypeFor(enums.DocumentStatusPending); got != "" {
		t.Fatalf("pending must not publish, got %q", got)
	}
}

func TestDecisionOutcome(t *testing.T) {
	noRacks := assignment.Decision{Message: assignment.MsgNoSuitableRacks}
	if got := decisionOutcome(noRacks); got != metrics.OutcomeNoRacks {
		t.Fatalf("outcome = %q", got)
	}
	atCapacity := assignment.Decision{Message: assignment.MsgAllAtCapacity}
	if got := decisionOutcome(atCapacity); got != metrics.OutcomeAllAtCapacity {
		t.Fatalf("outcome = %q", got)
	}
}

func TestDropAssignment(t *testing.T) {
	first := models.Assignment{ID: uuid.New()}
	second := models.Assignment{ID: uuid.New()}
	rows := []models.Assignment{first, second}

	got := dropAssignment(rows, first.ID.String())
	if len(got) != 1 || got[0].ID != second.ID {
		t.Fatalf("expected only the second assignment to remain, got %d rows", len(got))
	}

	got = dropAssignment(got, uuid.NewString())
	if len(got) != 1 {
		t.Fatal("dropping an unknown id must keep the slice intact")
	}
}

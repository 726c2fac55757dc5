package assignment

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

type fakeCustomerLoader struct {
	rows map[uuid.UUID]*models.Customer
}

func (f *fakeCustomerLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if row, ok := f.rows[id]; ok {
		return row, nil
	}
	return nil, errNotFound
}

type fakeRackLoader struct {
	rows map[uuid.UUID]*models.Rack
}

func (f *fakeRackLoader) FindRackByID(_ context.Context, id uuid.UUID) (*models.Rack, error) {
	if row, ok := f.rows[id]; ok {
		return row, nil
	}
	return nil, errNotFound
}

var errNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "not found")

func TestNewServiceRequiresDependencies(t *testing.T) {
	repo := NewRepository(nil)
	customers := &fakeCustomerLoader{}
	racks := &fakeRackLoader{}

	if _, err := NewService(nil, customers, racks); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewService(repo, nil, racks); err == nil {
		t.Fatal("expected error without customer repository")
	}
	if _, err := NewService(repo, customers, nil); err == nil {
		t.Fatal("expected error without rack repository")
	}
	if _, err := NewService(repo, customers, racks); err != nil {
		t.Fatalf("expected service to construct, got %v", err)
	}
}

func TestValidateThreshold(t *testing.T) {
	cases := []struct {
		pct     float64
		wantErr bool
	}{
		{0, true},
		{-1, true},
		{100.01, true},
		{0.5, false},
		{90, false},
		{100, false},
	}

	for _, tc := range cases {
		err := validateThreshold(tc.pct)
		if tc.wantErr && err == nil {
			t.Errorf("expected error for pct=%v", tc.pct)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("unexpected error for pct=%v: %v", tc.pct, err)
		}
		if err != nil {
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Errorf("expected validation code for pct=%v, got %v", tc.pct, err)
			}
		}
	}
}

func TestValidateFileSizeBounds(t *testing.T) {
	i64 := func(v int64) *int64 { return &v }

	if err := validateFileSizeBounds(nil, nil); err != nil {
		t.Fatalf("nil bounds should be valid: %v", err)
	}
	if err := validateFileSizeBounds(i64(0), i64(100)); err != nil {
		t.Fatalf("ordered bounds should be valid: %v", err)
	}
	if err := validateFileSizeBounds(i64(-1), nil); err == nil {
		t.Fatal("expected error for negative min")
	}
	if err := validateFileSizeBounds(nil, i64(-1)); err == nil {
		t.Fatal("expected error for negative max")
	}
	if err := validateFileSizeBounds(i64(200), i64(100)); err == nil {
		t.Fatal("expected error for min > max")
	}
}

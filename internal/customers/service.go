package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/pagination"
)

// Service exposes customer registry operations.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	DeactivateCustomer(ctx context.Context, id uuid.UUID) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	GetRollup(ctx context.Context, id uuid.UUID) (*CapacityRollup, error)
	ListCustomers(ctx context.Context, params pagination.Params) (*CustomerListResult, error)
}

// CreateCustomerInput holds the validated payload to create a customer.
type CreateCustomerInput struct {
	Code                  string
	Name                  string
	PriorityTier          enums.PriorityTier
	AcceptedDocumentTypes []string
	AutoAssignEnabled     bool
}

// UpdateCustomerInput holds optional mutation values for a customer. Code is
// deliberately absent: it is referenced by assignment rules and must stay
// stable once assignments exist.
type UpdateCustomerInput struct {
	Name                  *string
	PriorityTier          *enums.PriorityTier
	AcceptedDocumentTypes *[]string
	AutoAssignEnabled     *bool
	IsActive              *bool
}

type assignmentLister interface {
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Assignment, error)
}

type service struct {
	repo           *Repository
	assignmentRepo assignmentLister
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, assignmentRepo assignmentLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if assignmentRepo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	return &service{repo: repo, assignmentRepo: assignmentRepo}, nil
}

// CreateCustomer registers a new customer.
func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	tier := input.PriorityTier
	if tier == "" {
		tier = enums.PriorityTierMedium
	}
	if !tier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid priority tier %q", tier))
	}

	row := &models.Customer{
		Code:                  code,
		Name:                  name,
		PriorityTier:          tier,
		AcceptedDocumentTypes: input.AcceptedDocumentTypes,
		AutoAssignEnabled:     input.AutoAssignEnabled,
		IsActive:              true,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("customer code %q already exists", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return NewCustomerDTO(created), nil
}

// UpdateCustomer applies partial mutations.
func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	row, err := s.loadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
	}
	if input.PriorityTier != nil {
		if !input.PriorityTier.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid priority tier %q", *input.PriorityTier))
		}
		row.PriorityTier = *input.PriorityTier
	}
	if input.AcceptedDocumentTypes != nil {
		row.AcceptedDocumentTypes = *input.AcceptedDocumentTypes
	}
	if input.AutoAssignEnabled != nil {
		row.AutoAssignEnabled = *input.AutoAssignEnabled
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	return NewCustomerDTO(updated), nil
}

// DeactivateCustomer disables the customer without touching its assignments.
func (s *service) DeactivateCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate customer")
	}
	return nil
}

// GetCustomer returns the customer with its capacity rollup computed from the
// current assignment and rack state.
func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	row, err := s.loadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListActiveByCustomer(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list assignments for rollup")
	}

	dto := NewCustomerDTO(row)
	rollup := ComputeRollup(assignments)
	dto.Rollup = &rollup
	return dto, nil
}

// GetRollup computes the capacity rollup on its own, for dashboards that
// poll utilization without the rest of the customer record.
func (s *service) GetRollup(ctx context.Context, id uuid.UUID) (*CapacityRollup, error) {
	if _, err := s.loadCustomer(ctx, id); err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.ListActiveByCustomer(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list assignments for rollup")
	}
	rollup := ComputeRollup(assignments)
	return &rollup, nil
}

// ListCustomers returns a page of customers without rollups; the per-customer
// detail endpoint computes those on demand.
func (s *service) ListCustomers(ctx context.Context, params pagination.Params) (*CustomerListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}

	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCustomerDTO(&rows[i]))
	}
	return &CustomerListResult{Customers: dtos, NextCursor: nextCursor}, nil
}

func (s *service) loadCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return row, nil
}

package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/metrics"
)

// Service exposes assignment management and placement evaluation.
type Service interface {
	Evaluate(ctx context.Context, customerID uuid.UUID, req PlacementRequest) (*Decision, error)
	CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*AssignmentDTO, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, input UpdateAssignmentInput) (*AssignmentDTO, error)
	DeactivateAssignment(ctx context.Context, id uuid.UUID) error
	ListCustomerAssignments(ctx context.Context, customerID uuid.UUID, includeRetired bool) ([]AssignmentDTO, error)
	ReserveSlot(ctx context.Context, rackID uuid.UUID, thresholdPct float64) error
	ReleaseSlot(ctx context.Context, rackID uuid.UUID) error
}

// CreateAssignmentInput holds the validated payload to link a customer to a rack.
type CreateAssignmentInput struct {
	CustomerID           uuid.UUID
	RackID               uuid.UUID
	Kind                 enums.AssignmentKind
	PriorityOrder        int
	CapacityThresholdPct float64
	DocumentTypeFilter   []string
	FileSizeMin          *int64
	FileSizeMax          *int64
}

// UpdateAssignmentInput holds optional mutation values for an assignment.
type UpdateAssignmentInput struct {
	Kind                 *enums.AssignmentKind
	PriorityOrder        *int
	CapacityThresholdPct *float64
	DocumentTypeFilter   *[]string
	FileSizeMin          *int64
	FileSizeMax          *int64
	IsActive             *bool
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type rackLoader interface {
	FindRackByID(ctx context.Context, id uuid.UUID) (*models.Rack, error)
}

// service implements the assignment service.
type service struct {
	repo         *Repository
	customerRepo customerLoader
	rackRepo     rackLoader
}

// NewService constructs an assignment service instance.
func NewService(repo *Repository, customerRepo customerLoader, rackRepo rackLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if rackRepo == nil {
		return nil, fmt.Errorf("rack repository required")
	}
	return &service{
		repo:         repo,
		customerRepo: customerRepo,
		rackRepo:     rackRepo,
	}, nil
}

// Evaluate loads the customer's active assignments and runs the pure
// evaluator. The decision is advisory: no occupancy changes until the caller
// commits through ReserveSlot.
func (s *service) Evaluate(ctx context.Context, customerID uuid.UUID, req PlacementRequest) (*Decision, error) {
	if _, err := s.loadCustomer(ctx, customerID); err != nil {
		metrics.RecordDecision(metrics.OutcomeInvalidRequest)
		return nil, err
	}

	rows, err := s.repo.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list active assignments")
	}

	decision := Evaluate(rows, req)
	switch {
	case decision.Success:
		metrics.RecordDecision(metrics.OutcomeAssigned)
	case decision.Message == MsgNoSuitableRacks:
		metrics.RecordDecision(metrics.OutcomeNoRacks)
	default:
		metrics.RecordDecision(metrics.OutcomeAllAtCapacity)
	}
	return &decision, nil
}

// CreateAssignment links the customer to a rack after validating both exist.
func (s *service) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*AssignmentDTO, error) {
	if err := validateThreshold(input.CapacityThresholdPct); err != nil {
		return nil, err
	}
	if err := validateFileSizeBounds(input.FileSizeMin, input.FileSizeMax); err != nil {
		return nil, err
	}
	if input.PriorityOrder < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "priority_order must be >= 1")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid assignment kind %q", input.Kind))
	}

	if _, err := s.loadCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	rack, err := s.rackRepo.FindRackByID(ctx, input.RackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rack not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load rack")
	}
	if rack.Status == enums.RackStatusRetired {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot assign a retired rack")
	}

	row := &models.Assignment{
		CustomerID:           input.CustomerID,
		RackID:               input.RackID,
		Kind:                 input.Kind,
		PriorityOrder:        input.PriorityOrder,
		CapacityThresholdPct: input.CapacityThresholdPct,
		DocumentTypeFilter:   input.DocumentTypeFilter,
		FileSizeMin:          input.FileSizeMin,
		FileSizeMax:          input.FileSizeMax,
		IsActive:             true,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert assignment")
	}
	created.Rack = rack
	return NewAssignmentDTO(created), nil
}

// UpdateAssignment applies the provided mutations to an existing assignment.
func (s *service) UpdateAssignment(ctx context.Context, id uuid.UUID, input UpdateAssignmentInput) (*AssignmentDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load assignment")
	}

	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid assignment kind %q", *input.Kind))
		}
		row.Kind = *input.Kind
	}
	if input.PriorityOrder != nil {
		if *input.PriorityOrder < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "priority_order must be >= 1")
		}
		row.PriorityOrder = *input.PriorityOrder
	}
	if input.CapacityThresholdPct != nil {
		if err := validateThreshold(*input.CapacityThresholdPct); err != nil {
			return nil, err
		}
		row.CapacityThresholdPct = *input.CapacityThresholdPct
	}
	if input.DocumentTypeFilter != nil {
		row.DocumentTypeFilter = *input.DocumentTypeFilter
	}
	if input.FileSizeMin != nil {
		row.FileSizeMin = input.FileSizeMin
	}
	if input.FileSizeMax != nil {
		row.FileSizeMax = input.FileSizeMax
	}
	if err := validateFileSizeBounds(row.FileSizeMin, row.FileSizeMax); err != nil {
		return nil, err
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update assignment")
	}
	return NewAssignmentDTO(updated), nil
}

// DeactivateAssignment retires the link without deleting it.
func (s *service) DeactivateAssignment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load assignment")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate assignment")
	}
	return nil
}

// ListCustomerAssignments returns the customer's rack links.
func (s *service) ListCustomerAssignments(ctx context.Context, customerID uuid.UUID, includeRetired bool) ([]AssignmentDTO, error) {
	if _, err := s.loadCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	var (
		rows []models.Assignment
		err  error
	)
	if includeRetired {
		rows, err = s.repo.ListByCustomer(ctx, customerID)
	} else {
		rows, err = s.repo.ListActiveByCustomer(ctx, customerID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list assignments")
	}

	dtos := make([]AssignmentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewAssignmentDTO(&rows[i]))
	}
	return dtos, nil
}

// ReserveSlot commits one slot on the rack under the threshold guard.
func (s *service) ReserveSlot(ctx context.Context, rackID uuid.UUID, thresholdPct float64) error {
	reserved, err := s.repo.ReserveSlot(ctx, rackID, thresholdPct)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserve rack slot")
	}
	if !reserved {
		metrics.RecordReservationConflict()
		return pkgerrors.New(pkgerrors.CodeCapacityConflict, "rack slot no longer available")
	}
	return nil
}

// ReleaseSlot returns a slot after a failed commit or a document leaving the rack.
func (s *service) ReleaseSlot(ctx context.Context, rackID uuid.UUID) error {
	if _, err := s.repo.ReleaseSlot(ctx, rackID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release rack slot")
	}
	return nil
}

func (s *service) loadCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return customer, nil
}

func validateThreshold(pct float64) error {
	if pct <= 0 || pct > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "capacity_threshold_pct must be in (0, 100]")
	}
	return nil
}

func validateFileSizeBounds(min, max *int64) error {
	if min != nil && *min < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "file_size_min cannot be negative")
	}
	if max != nil && *max < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "file_size_max cannot be negative")
	}
	if min != nil && max != nil && *min > *max {
		return pkgerrors.New(pkgerrors.CodeValidation, "file_size_min cannot exceed file_size_max")
	}
	return nil
}

package rule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/pkg/db"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

// Service exposes assignment rule management and materialization.
type Service interface {
	CreateRule(ctx context.Context, input CreateRuleInput) (*RuleDTO, error)
	UpdateRule(ctx context.Context, id uuid.UUID, input UpdateRuleInput) (*RuleDTO, error)
	DeactivateRule(ctx context.Context, id uuid.UUID) error
	GetRule(ctx context.Context, id uuid.UUID) (*RuleDTO, error)
	ListRules(ctx context.Context) ([]RuleDTO, error)
	MaterializeRule(ctx context.Context, id uuid.UUID) (*MaterializeResult, error)
}

// CreateRuleInput holds the validated payload to create a rule.
type CreateRuleInput struct {
	Name                   string
	CustomerPattern        string
	DocumentTypeConditions []string
	FileSizeMin            int64
	FileSizeMax            *int64
	PriorityLevel          int
	PreferredRackPatterns  []string
	FallbackRackPatterns   []string
	CapacityThresholdPct   float64
	OrderBy                enums.RuleOrderBy
}

// UpdateRuleInput holds optional mutation values for a rule.
type UpdateRuleInput struct {
	Name                   *string
	CustomerPattern        *string
	DocumentTypeConditions *[]string
	FileSizeMin            *int64
	FileSizeMax            *int64
	PriorityLevel          *int
	PreferredRackPatterns  *[]string
	FallbackRackPatterns   *[]string
	CapacityThresholdPct   *float64
	OrderBy                *enums.RuleOrderBy
	IsActive               *bool
}

type customerLister interface {
	ListActive(ctx context.Context) ([]models.Customer, error)
}

type service struct {
	repo           *Repository
	assignmentRepo *assignment.Repository
	customerRepo   customerLister
	dbClient       *db.Client
}

// NewService constructs a rule service instance.
func NewService(repo *Repository, assignmentRepo *assignment.Repository, customerRepo customerLister, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rule repository required")
	}
	if assignmentRepo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:           repo,
		assignmentRepo: assignmentRepo,
		customerRepo:   customerRepo,
		dbClient:       dbClient,
	}, nil
}

// CreateRule registers a new assignment rule.
func (s *service) CreateRule(ctx context.Context, input CreateRuleInput) (*RuleDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	thresholdPct := input.CapacityThresholdPct
	if thresholdPct == 0 {
		thresholdPct = 90
	}
	if err := validateRuleShape(thresholdPct, input.FileSizeMin, input.FileSizeMax); err != nil {
		return nil, err
	}
	orderBy := input.OrderBy
	if orderBy == "" {
		orderBy = enums.RuleOrderByChronological
	}
	if !orderBy.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order_by %q", orderBy))
	}
	pattern := strings.TrimSpace(input.CustomerPattern)
	if pattern == "" {
		pattern = "*"
	}
	priorityLevel := input.PriorityLevel
	if priorityLevel <= 0 {
		priorityLevel = 100
	}

	row := &models.AssignmentRule{
		Name:                   name,
		CustomerPattern:        pattern,
		DocumentTypeConditions: input.DocumentTypeConditions,
		FileSizeMin:            input.FileSizeMin,
		FileSizeMax:            input.FileSizeMax,
		PriorityLevel:          priorityLevel,
		PreferredRackPatterns:  input.PreferredRackPatterns,
		FallbackRackPatterns:   input.FallbackRackPatterns,
		CapacityThresholdPct:   thresholdPct,
		OrderBy:                orderBy,
		IsActive:               true,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("rule name %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert rule")
	}
	return NewRuleDTO(created), nil
}

// UpdateRule applies partial mutations. Changing a rule never rewrites
// assignments it already materialized; re-run materialization for that.
func (s *service) UpdateRule(ctx context.Context, id uuid.UUID, input UpdateRuleInput) (*RuleDTO, error) {
	row, err := s.loadRule(ctx, id)
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
	if input.CustomerPattern != nil {
		pattern := strings.TrimSpace(*input.CustomerPattern)
		if pattern == "" {
			pattern = "*"
		}
		row.CustomerPattern = pattern
	}
	if input.DocumentTypeConditions != nil {
		row.DocumentTypeConditions = *input.DocumentTypeConditions
	}
	if input.FileSizeMin != nil {
		row.FileSizeMin = *input.FileSizeMin
	}
	if input.FileSizeMax != nil {
		row.FileSizeMax = input.FileSizeMax
	}
	if input.PriorityLevel != nil {
		if *input.PriorityLevel <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "priority_level must be positive")
		}
		row.PriorityLevel = *input.PriorityLevel
	}
	if input.PreferredRackPatterns != nil {
		row.PreferredRackPatterns = *input.PreferredRackPatterns
	}
	if input.FallbackRackPatterns != nil {
		row.FallbackRackPatterns = *input.FallbackRackPatterns
	}
	if input.CapacityThresholdPct != nil {
		row.CapacityThresholdPct = *input.CapacityThresholdPct
	}
	if input.OrderBy != nil {
		if !input.OrderBy.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order_by %q", *input.OrderBy))
		}
		row.OrderBy = *input.OrderBy
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := validateRuleShape(row.CapacityThresholdPct, row.FileSizeMin, row.FileSizeMax); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("rule name %q already exists", row.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update rule")
	}
	return NewRuleDTO(updated), nil
}

// DeactivateRule disables the rule. Assignments it created stay in place.
func (s *service) DeactivateRule(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadRule(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate rule")
	}
	return nil
}

// GetRule returns a single rule.
func (s *service) GetRule(ctx context.Context, id uuid.UUID) (*RuleDTO, error) {
	row, err := s.loadRule(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewRuleDTO(row), nil
}

// ListRules returns all rules ordered by priority level.
func (s *service) ListRules(ctx context.Context) ([]RuleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list rules")
	}
	dtos := make([]RuleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewRuleDTO(&rows[i]))
	}
	return dtos, nil
}

// MaterializeRule expands the rule into concrete assignment rows: every
// active customer whose code matches the customer pattern gets linked to the
// racks the rule selects, each customer inside its own transaction so one
// failure does not roll back the whole run.
func (s *service) MaterializeRule(ctx context.Context, id uuid.UUID) (*MaterializeResult, error) {
	rule, err := s.loadRule(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rule.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "rule is inactive")
	}

	customers, err := s.customerRepo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list active customers")
	}

	racks, err := s.repo.ListAvailableRacks(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list available racks")
	}
	selected := selectRacks(rule, racks)

	result := &MaterializeResult{RuleID: rule.ID.String()}
	for i := range customers {
		customer := customers[i]
		if !MatchPattern(rule.CustomerPattern, customer.Code) {
			continue
		}
		result.CustomersMatched++

		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			return s.materializeForCustomer(ctx, tx, rule, customer, selected, result)
		})
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: materialize rule")
		}
	}
	return result, nil
}

func (s *service) loadRule(ctx context.Context, id uuid.UUID) (*models.AssignmentRule, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load rule")
	}
	return row, nil
}

func validateRuleShape(thresholdPct float64, fileSizeMin int64, fileSizeMax *int64) error {
	if thresholdPct <= 0 || thresholdPct > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "capacity_threshold_pct must be in (0, 100]")
	}
	if fileSizeMin < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "file_size_min cannot be negative")
	}
	if fileSizeMax != nil {
		if *fileSizeMax <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "file_size_max must be positive")
		}
		if *fileSizeMax < fileSizeMin {
			return pkgerrors.New(pkgerrors.CodeValidation, "file_size_max cannot be below file_size_min")
		}
	}
	return nil
}

package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
)

// Service exposes workflow rule management.
type Service interface {
	CreateRule(ctx context.Context, input CreateWorkflowRuleInput) (*WorkflowRuleDTO, error)
	UpdateRule(ctx context.Context, id uuid.UUID, input UpdateWorkflowRuleInput) (*WorkflowRuleDTO, error)
	DeactivateRule(ctx context.Context, id uuid.UUID) error
	GetRule(ctx context.Context, id uuid.UUID) (*WorkflowRuleDTO, error)
	ListRules(ctx context.Context) ([]WorkflowRuleDTO, error)
}

// CreateWorkflowRuleInput holds the validated payload to create a rule.
type CreateWorkflowRuleInput struct {
	Name       string
	FromStatus enums.DocumentStatus
	ToStatus   enums.DocumentStatus
	NotifyRole enums.MemberRole
}

// UpdateWorkflowRuleInput holds optional mutation values for a rule.
type UpdateWorkflowRuleInput struct {
	Name       *string
	FromStatus *enums.DocumentStatus
	ToStatus   *enums.DocumentStatus
	NotifyRole *enums.MemberRole
	IsActive   *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a workflow service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("workflow repository required")
	}
	return &service{repo: repo}, nil
}

// CreateRule registers a workflow rule for a document status transition.
func (s *service) CreateRule(ctx context.Context, input CreateWorkflowRuleInput) (*WorkflowRuleDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateTransition(input.FromStatus, input.ToStatus); err != nil {
		return nil, err
	}
	role := input.NotifyRole
	if role == "" {
		role = enums.MemberRoleOperator
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid notify role %q", role))
	}

	row := &models.WorkflowRule{
		Name:       name,
		FromStatus: input.FromStatus,
		ToStatus:   input.ToStatus,
		NotifyRole: role,
		IsActive:   true,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert workflow rule")
	}
	return NewWorkflowRuleDTO(created), nil
}

// UpdateRule applies partial mutations.
func (s *service) UpdateRule(ctx context.Context, id uuid.UUID, input UpdateWorkflowRuleInput) (*WorkflowRuleDTO, error) {
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
	if input.FromStatus != nil {
		row.FromStatus = *input.FromStatus
	}
	if input.ToStatus != nil {
		row.ToStatus = *input.ToStatus
	}
	if err := validateTransition(row.FromStatus, row.ToStatus); err != nil {
		return nil, err
	}
	if input.NotifyRole != nil {
		if !input.NotifyRole.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid notify role %q", *input.NotifyRole))
		}
		row.NotifyRole = *input.NotifyRole
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update workflow rule")
	}
	return NewWorkflowRuleDTO(updated), nil
}

// DeactivateRule disables the rule.
func (s *service) DeactivateRule(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadRule(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate workflow rule")
	}
	return nil
}

// GetRule returns a single rule.
func (s *service) GetRule(ctx context.Context, id uuid.UUID) (*WorkflowRuleDTO, error) {
	row, err := s.loadRule(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewWorkflowRuleDTO(row), nil
}

// ListRules returns all rules.
func (s *service) ListRules(ctx context.Context) ([]WorkflowRuleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list workflow rules")
	}
	dtos := make([]WorkflowRuleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewWorkflowRuleDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) loadRule(ctx context.Context, id uuid.UUID) (*models.WorkflowRule, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "workflow rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load workflow rule")
	}
	return row, nil
}

func validateTransition(from, to enums.DocumentStatus) error {
	if !from.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid from_status %q", from))
	}
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid to_status %q", to))
	}
	if from == to {
		return pkgerrors.New(pkgerrors.CodeValidation, "from_status and to_status must differ")
	}
	if !from.CanTransitionTo(to) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("documents never move from %s to %s", from, to))
	}
	return nil
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/davidquintana/archivio-backend/api/responses"
	"github.com/davidquintana/archivio-backend/api/validators"
	workflow "github.com/davidquintana/archivio-backend/internal/workflows"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	"github.com/davidquintana/archivio-backend/pkg/logger"
)

type createWorkflowRuleRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	FromStatus string `json:"from_status" validate:"required,oneof=pending stored archived destroyed"`
	ToStatus   string `json:"to_status" validate:"required,oneof=pending stored archived destroyed"`
	NotifyRole string `json:"notify_role" validate:"omitempty,oneof=admin operator viewer"`
}

type updateWorkflowRuleRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=120"`
	FromStatus *string `json:"from_status" validate:"omitempty,oneof=pending stored archived destroyed"`
	ToStatus   *string `json:"to_status" validate:"omitempty,oneof=pending stored archived destroyed"`
	NotifyRole *string `json:"notify_role" validate:"omitempty,oneof=admin operator viewer"`
	IsActive   *bool   `json:"is_active"`
}

func WorkflowRuleCreate(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWorkflowRuleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateRule(r.Context(), workflow.CreateWorkflowRuleInput{
			Name:       strings.TrimSpace(req.Name),
			FromStatus: enums.DocumentStatus(req.FromStatus),
			ToStatus:   enums.DocumentStatus(req.ToStatus),
			NotifyRole: enums.MemberRole(req.NotifyRole),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func WorkflowRuleUpdate(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "workflowRuleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateWorkflowRuleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := workflow.UpdateWorkflowRuleInput{
			Name:     req.Name,
			IsActive: req.IsActive,
		}
		if req.FromStatus != nil {
			status := enums.DocumentStatus(*req.FromStatus)
			input.FromStatus = &status
		}
		if req.ToStatus != nil {
			status := enums.DocumentStatus(*req.ToStatus)
			input.ToStatus = &status
		}
		if req.NotifyRole != nil {
			role := enums.MemberRole(*req.NotifyRole)
			input.NotifyRole = &role
		}

		dto, err := svc.UpdateRule(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func WorkflowRuleDeactivate(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "workflowRuleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateRule(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func WorkflowRuleDetail(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "workflowRuleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetRule(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func WorkflowRuleList(svc workflow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListRules(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/davidquintana/archivio-backend/api/responses"
	"github.com/davidquintana/archivio-backend/api/validators"
	rule "github.com/davidquintana/archivio-backend/internal/rules"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	"github.com/davidquintana/archivio-backend/pkg/logger"
)

type createRuleRequest struct {
	Name                   string   `json:"name" validate:"required,min=2,max=120"`
	CustomerPattern        string   `json:"customer_pattern" validate:"omitempty,max=120"`
	DocumentTypeConditions []string `json:"document_type_conditions" validate:"omitempty,dive,min=1"`
	FileSizeMin            int64    `json:"file_size_min" validate:"omitempty,min=0"`
	FileSizeMax            *int64   `json:"file_size_max" validate:"omitempty,min=1"`
	PriorityLevel          int      `json:"priority_level" validate:"omitempty,min=1"`
	PreferredRackPatterns  []string `json:"preferred_rack_patterns" validate:"omitempty,dive,min=1"`
	FallbackRackPatterns   []string `json:"fallback_rack_patterns" validate:"omitempty,dive,min=1"`
	CapacityThresholdPct   *float64 `json:"capacity_threshold_pct" validate:"omitempty,gt=0,lte=100"`
	OrderBy                string   `json:"order_by" validate:"omitempty,oneof=chronological capacity priority"`
}

type updateRuleRequest struct {
	Name                   *string   `json:"name" validate:"omitempty,min=2,max=120"`
	CustomerPattern        *string   `json:"customer_pattern" validate:"omitempty,max=120"`
	DocumentTypeConditions *[]string `json:"document_type_conditions"`
	FileSizeMin            *int64    `json:"file_size_min" validate:"omitempty,min=0"`
	FileSizeMax            *int64    `json:"file_size_max" validate:"omitempty,min=1"`
	PriorityLevel          *int      `json:"priority_level" validate:"omitempty,min=1"`
	PreferredRackPatterns  *[]string `json:"preferred_rack_patterns"`
	FallbackRackPatterns   *[]string `json:"fallback_rack_patterns"`
	CapacityThresholdPct   *float64  `json:"capacity_threshold_pct" validate:"omitempty,gt=0,lte=100"`
	OrderBy                *string   `json:"order_by" validate:"omitempty,oneof=chronological capacity priority"`
	IsActive               *bool     `json:"is_active"`
}

func RuleCreate(svc rule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRuleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := rule.CreateRuleInput{
			Name:                   strings.TrimSpace(req.Name),
			CustomerPattern:        strings.TrimSpace(req.CustomerPattern),
			DocumentTypeConditions: req.DocumentTypeConditions,
			FileSizeMin:            req.FileSizeMin,
			FileSizeMax:            req.FileSizeMax,
			PriorityLevel:          req.PriorityLevel,
			PreferredRackPatterns:  req.PreferredRackPatterns,
			FallbackRackPatterns:   req.FallbackRackPatterns,
			OrderBy:                enums.RuleOrderBy(req.OrderBy),
		}
		if req.CapacityThresholdPct != nil {
			input.CapacityThresholdPct = *req.CapacityThresholdPct
		}

		dto, err := svc.CreateRule(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func RuleUpdate(svc rule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "ruleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRuleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := rule.UpdateRuleInput{
			Name:                   req.Name,
			CustomerPattern:        req.CustomerPattern,
			DocumentTypeConditions: req.DocumentTypeConditions,
			FileSizeMin:            req.FileSizeMin,
			FileSizeMax:            req.FileSizeMax,
			PriorityLevel:          req.PriorityLevel,
			PreferredRackPatterns:  req.PreferredRackPatterns,
			FallbackRackPatterns:   req.FallbackRackPatterns,
			CapacityThresholdPct:   req.CapacityThresholdPct,
			IsActive:               req.IsActive,
		}
		if req.OrderBy != nil {
			orderBy := enums.RuleOrderBy(*req.OrderBy)
			input.OrderBy = &orderBy
		}

		dto, err := svc.UpdateRule(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func RuleDeactivate(svc rule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "ruleID")
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

func RuleDetail(svc rule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "ruleID")
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

func RuleList(svc rule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListRules(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// RuleMaterialize expands a rule into concrete assignments for every
// matching customer.
func RuleMaterialize(svc rule.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "ruleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.MaterializeRule(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

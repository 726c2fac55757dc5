package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/davidquintana/archivio-backend/api/responses"
	"github.com/davidquintana/archivio-backend/api/validators"
	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/logger"
)

type createAssignmentRequest struct {
	CustomerID           string   `json:"customer_id" validate:"required,uuid"`
	RackID               string   `json:"rack_id" validate:"required,uuid"`
	Kind                 string   `json:"kind" validate:"omitempty,oneof=dedicated shared overflow"`
	PriorityOrder        int      `json:"priority_order" validate:"omitempty,min=1"`
	CapacityThresholdPct *float64 `json:"capacity_threshold_pct" validate:"omitempty,gt=0,lte=100"`
	DocumentTypeFilter   []string `json:"document_type_filter" validate:"omitempty,dive,min=1"`
	FileSizeMin          *int64   `json:"file_size_min" validate:"omitempty,min=0"`
	FileSizeMax          *int64   `json:"file_size_max" validate:"omitempty,min=1"`
}

type updateAssignmentRequest struct {
	Kind                 *string   `json:"kind" validate:"omitempty,oneof=dedicated shared overflow"`
	PriorityOrder        *int      `json:"priority_order" validate:"omitempty,min=1"`
	CapacityThresholdPct *float64  `json:"capacity_threshold_pct" validate:"omitempty,gt=0,lte=100"`
	DocumentTypeFilter   *[]string `json:"document_type_filter"`
	FileSizeMin          *int64    `json:"file_size_min" validate:"omitempty,min=0"`
	FileSizeMax          *int64    `json:"file_size_max" validate:"omitempty,min=1"`
	IsActive             *bool     `json:"is_active"`
}

func AssignmentCreate(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAssignmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := parseBodyUUID(req.CustomerID, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rackID, err := parseBodyUUID(req.RackID, "rack_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := assignment.CreateAssignmentInput{
			CustomerID:         customerID,
			RackID:             rackID,
			Kind:               enums.AssignmentKind(req.Kind),
			PriorityOrder:      req.PriorityOrder,
			DocumentTypeFilter: req.DocumentTypeFilter,
			FileSizeMin:        req.FileSizeMin,
			FileSizeMax:        req.FileSizeMax,
		}
		if req.CapacityThresholdPct != nil {
			input.CapacityThresholdPct = *req.CapacityThresholdPct
		}

		dto, err := svc.CreateAssignment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func AssignmentUpdate(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateAssignmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := assignment.UpdateAssignmentInput{
			PriorityOrder:        req.PriorityOrder,
			CapacityThresholdPct: req.CapacityThresholdPct,
			DocumentTypeFilter:   req.DocumentTypeFilter,
			FileSizeMin:          req.FileSizeMin,
			FileSizeMax:          req.FileSizeMax,
			IsActive:             req.IsActive,
		}
		if req.Kind != nil {
			kind := enums.AssignmentKind(*req.Kind)
			input.Kind = &kind
		}

		dto, err := svc.UpdateAssignment(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func AssignmentDeactivate(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "assignmentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateAssignment(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "retired"})
	}
}

// AssignmentList returns a customer's assignments ordered by priority.
func AssignmentList(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if customerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer_id query parameter required"))
			return
		}

		includeRetired, err := validators.ParseQueryBool(r, "include_retired")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListCustomerAssignments(r.Context(), customerID, includeRetired)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

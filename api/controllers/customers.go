package controllers

import (
	"net/http"
	"strings"

	"github.com/davidquintana/archivio-backend/api/responses"
	"github.com/davidquintana/archivio-backend/api/validators"
	assignment "github.com/davidquintana/archivio-backend/internal/assignments"
	customer "github.com/davidquintana/archivio-backend/internal/customers"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/logger"
	"github.com/davidquintana/archivio-backend/pkg/pagination"
)

type createCustomerRequest struct {
	Code                  string   `json:"code" validate:"required,min=2,max=32"`
	Name                  string   `json:"name" validate:"required,min=2,max=120"`
	PriorityTier          string   `json:"priority_tier" validate:"omitempty,oneof=high medium low"`
	AcceptedDocumentTypes []string `json:"accepted_document_types" validate:"omitempty,dive,min=1"`
	AutoAssignEnabled     *bool    `json:"auto_assign_enabled"`
}

type updateCustomerRequest struct {
	Name                  *string   `json:"name" validate:"omitempty,min=2,max=120"`
	PriorityTier          *string   `json:"priority_tier" validate:"omitempty,oneof=high medium low"`
	AcceptedDocumentTypes *[]string `json:"accepted_document_types"`
	AutoAssignEnabled     *bool     `json:"auto_assign_enabled"`
	IsActive              *bool     `json:"is_active"`
}

type simulateAssignmentRequest struct {
	DocumentType string `json:"document_type" validate:"required,min=1"`
	FileSize     int64  `json:"file_size" validate:"required,min=1"`
}

func CustomerCreate(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCustomerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := customer.CreateCustomerInput{
			Code:                  strings.TrimSpace(req.Code),
			Name:                  strings.TrimSpace(req.Name),
			PriorityTier:          enums.PriorityTier(req.PriorityTier),
			AcceptedDocumentTypes: req.AcceptedDocumentTypes,
		}
		if req.AutoAssignEnabled != nil {
			input.AutoAssignEnabled = *req.AutoAssignEnabled
		}

		dto, err := svc.CreateCustomer(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func CustomerUpdate(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := customer.UpdateCustomerInput{
			Name:                  req.Name,
			AcceptedDocumentTypes: req.AcceptedDocumentTypes,
			AutoAssignEnabled:     req.AutoAssignEnabled,
			IsActive:              req.IsActive,
		}
		if req.PriorityTier != nil {
			tier := enums.PriorityTier(*req.PriorityTier)
			input.PriorityTier = &tier
		}

		dto, err := svc.UpdateCustomer(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func CustomerDeactivate(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeactivateCustomer(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

// CustomerDetail includes the capacity rollup across the customer's active
// assignments.
func CustomerDetail(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CustomerRollup returns just the capacity aggregation, computed live.
func CustomerRollup(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rollup, err := svc.GetRollup(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rollup)
	}
}

func CustomerList(svc customer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := listParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CustomerSimulateAssignment runs the placement evaluator without reserving
// anything, so operators can preview where a document would land.
func CustomerSimulateAssignment(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		id, err := validators.ParseURLUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req simulateAssignmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decision, err := svc.Evaluate(r.Context(), id, assignment.PlacementRequest{
			DocumentType: req.DocumentType,
			FileSize:     req.FileSize,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decision)
	}
}

func listParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

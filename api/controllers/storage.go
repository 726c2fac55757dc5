package controllers

import (
	"net/http"
	"strings"

	"github.com/davidquintana/archivio-backend/api/responses"
	"github.com/davidquintana/archivio-backend/api/validators"
	"github.com/davidquintana/archivio-backend/internal/storagetopo"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	"github.com/davidquintana/archivio-backend/pkg/logger"
)

type createWarehouseRequest struct {
	Code string `json:"code" validate:"required,min=1,max=32"`
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type createZoneRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Code        string `json:"code" validate:"required,min=1,max=32"`
	Name        string `json:"name" validate:"required,min=2,max=120"`
}

type createShelfRequest struct {
	ZoneID string `json:"zone_id" validate:"required,uuid"`
	Code   string `json:"code" validate:"required,min=1,max=32"`
}

type createRackRequest struct {
	ShelfID  string `json:"shelf_id" validate:"required,uuid"`
	Code     string `json:"code" validate:"required,min=1,max=32"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

type updateRackRequest struct {
	Code     *string `json:"code" validate:"omitempty,min=1,max=32"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=1"`
	Status   *string `json:"status" validate:"omitempty,oneof=available maintenance retired"`
}

func WarehouseCreate(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createWarehouseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateWarehouse(r.Context(), strings.TrimSpace(req.Code), strings.TrimSpace(req.Name))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func WarehouseList(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListWarehouses(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ZoneCreate(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createZoneRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		warehouseID, err := parseBodyUUID(req.WarehouseID, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateZone(r.Context(), warehouseID, strings.TrimSpace(req.Code), strings.TrimSpace(req.Name))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ZoneList(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, err := validators.ParseQueryUUID(r, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListZones(r.Context(), warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ShelfCreate(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createShelfRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zoneID, err := parseBodyUUID(req.ZoneID, "zone_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateShelf(r.Context(), zoneID, strings.TrimSpace(req.Code))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func ShelfList(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID, err := validators.ParseQueryUUID(r, "zone_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListShelves(r.Context(), zoneID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func RackCreate(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRackRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shelfID, err := parseBodyUUID(req.ShelfID, "shelf_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.CreateRack(r.Context(), storagetopo.CreateRackInput{
			ShelfID:  shelfID,
			Code:     strings.TrimSpace(req.Code),
			Capacity: req.Capacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func RackDetail(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "rackID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetRack(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func RackList(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shelfID, err := validators.ParseQueryUUID(r, "shelf_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListRacks(r.Context(), shelfID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func RackUpdate(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "rackID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateRackRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := storagetopo.UpdateRackInput{
			Code:     req.Code,
			Capacity: req.Capacity,
		}
		if req.Status != nil {
			status := enums.RackStatus(*req.Status)
			input.Status = &status
		}

		dto, err := svc.UpdateRack(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// RackLabel streams the printable QR label for a rack.
func RackLabel(svc storagetopo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "rackID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		png, err := svc.RackLabel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

package storagetopo

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
)

// Service exposes storage topology management.
type Service interface {
	CreateWarehouse(ctx context.Context, code, name string) (*WarehouseDTO, error)
	ListWarehouses(ctx context.Context) ([]WarehouseDTO, error)
	CreateZone(ctx context.Context, warehouseID uuid.UUID, code, name string) (*ZoneDTO, error)
	ListZones(ctx context.Context, warehouseID uuid.UUID) ([]ZoneDTO, error)
	CreateShelf(ctx context.Context, zoneID uuid.UUID, code string) (*ShelfDTO, error)
	ListShelves(ctx context.Context, zoneID uuid.UUID) ([]ShelfDTO, error)
	CreateRack(ctx context.Context, input CreateRackInput) (*RackDTO, error)
	GetRack(ctx context.Context, id uuid.UUID) (*RackDTO, error)
	ListRacks(ctx context.Context, shelfID uuid.UUID) ([]RackDTO, error)
	UpdateRack(ctx context.Context, id uuid.UUID, input UpdateRackInput) (*RackDTO, error)
	RackLabel(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// CreateRackInput holds the payload to register a rack on a shelf.
type CreateRackInput struct {
	ShelfID  uuid.UUID
	Code     string
	Capacity int
}

// UpdateRackInput holds optional mutation values for a rack. Occupancy is
// not settable here; it only moves through slot reservations.
type UpdateRackInput struct {
	Code     *string
	Capacity *int
	Status   *enums.RackStatus
}

type assignmentChecker interface {
	ListActiveByRack(ctx context.Context, rackID uuid.UUID) ([]models.Assignment, error)
}

type service struct {
	repo           *Repository
	assignmentRepo assignmentChecker
}

// NewService constructs a storage topology service instance.
func NewService(repo *Repository, assignmentRepo assignmentChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("storage repository required")
	}
	if assignmentRepo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	return &service{repo: repo, assignmentRepo: assignmentRepo}, nil
}

func (s *service) CreateWarehouse(ctx context.Context, code, name string) (*WarehouseDTO, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code and name are required")
	}

	row, err := s.repo.CreateWarehouse(ctx, &models.Warehouse{Code: code, Name: name})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("warehouse code %q already exists", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert warehouse")
	}
	return NewWarehouseDTO(row), nil
}

func (s *service) ListWarehouses(ctx context.Context) ([]WarehouseDTO, error) {
	rows, err := s.repo.ListWarehouses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list warehouses")
	}
	dtos := make([]WarehouseDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewWarehouseDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateZone(ctx context.Context, warehouseID uuid.UUID, code, name string) (*ZoneDTO, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code and name are required")
	}
	if _, err := s.repo.FindWarehouseByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load warehouse")
	}

	row, err := s.repo.CreateZone(ctx, &models.Zone{WarehouseID: warehouseID, Code: code, Name: name})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("zone code %q already exists in warehouse", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert zone")
	}
	return NewZoneDTO(row), nil
}

func (s *service) ListZones(ctx context.Context, warehouseID uuid.UUID) ([]ZoneDTO, error) {
	rows, err := s.repo.ListZonesByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list zones")
	}
	dtos := make([]ZoneDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewZoneDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateShelf(ctx context.Context, zoneID uuid.UUID, code string) (*ShelfDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	row, err := s.repo.CreateShelf(ctx, &models.Shelf{ZoneID: zoneID, Code: code})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("shelf code %q already exists in zone", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert shelf")
	}
	return NewShelfDTO(row), nil
}

func (s *service) ListShelves(ctx context.Context, zoneID uuid.UUID) ([]ShelfDTO, error) {
	rows, err := s.repo.ListShelvesByZone(ctx, zoneID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list shelves")
	}
	dtos := make([]ShelfDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewShelfDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateRack(ctx context.Context, input CreateRackInput) (*RackDTO, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if input.Capacity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity cannot be negative")
	}

	row, err := s.repo.CreateRack(ctx, &models.Rack{
		ShelfID:  input.ShelfID,
		Code:     code,
		Capacity: input.Capacity,
		Status:   enums.RackStatusAvailable,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("rack code %q already exists on shelf", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert rack")
	}
	return NewRackDTO(row), nil
}

func (s *service) GetRack(ctx context.Context, id uuid.UUID) (*RackDTO, error) {
	row, err := s.loadRack(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewRackDTO(row), nil
}

func (s *service) ListRacks(ctx context.Context, shelfID uuid.UUID) ([]RackDTO, error) {
	rows, err := s.repo.ListRacksByShelf(ctx, shelfID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list racks")
	}
	dtos := make([]RackDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewRackDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) UpdateRack(ctx context.Context, id uuid.UUID, input UpdateRackInput) (*RackDTO, error) {
	row, err := s.loadRack(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "code cannot be empty")
		}
		row.Code = code
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity cannot be negative")
		}
		row.Capacity = *input.Capacity
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid rack status %q", *input.Status))
		}
		if *input.Status == enums.RackStatusRetired {
			links, err := s.assignmentRepo.ListActiveByRack(ctx, id)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list rack assignments")
			}
			if len(links) > 0 {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot retire a rack with active assignments")
			}
		}
		row.Status = *input.Status
	}

	updated, err := s.repo.UpdateRack(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update rack")
	}
	return NewRackDTO(updated), nil
}

// RackLabel renders the rack's printable QR label.
func (s *service) RackLabel(ctx context.Context, id uuid.UUID) ([]byte, error) {
	row, err := s.loadRack(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := GenerateRackLabel(row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering rack label")
	}
	return png, nil
}

func (s *service) loadRack(ctx context.Context, id uuid.UUID) (*models.Rack, error) {
	row, err := s.repo.FindRackByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rack not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load rack")
	}
	return row, nil
}

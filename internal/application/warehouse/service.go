package warehouse

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// Service manages the warehouse topology: sites and their bins
type Service struct {
	warehouseRepo warehouse.WarehouseRepository
	binRepo       warehouse.BinRepository
	logger        *zap.Logger
}

// NewService creates a new topology Service
func NewService(warehouseRepo warehouse.WarehouseRepository, binRepo warehouse.BinRepository, logger *zap.Logger) *Service {
	return &Service{
		warehouseRepo: warehouseRepo,
		binRepo:       binRepo,
		logger:        logger,
	}
}

// CreateWarehouseCommand describes a new storage site
type CreateWarehouseCommand struct {
	Code    string
	Name    string
	Address string
}

// CreateWarehouse registers a new site. Codes are unique across all sites.
func (s *Service) CreateWarehouse(ctx context.Context, cmd CreateWarehouseCommand) (*warehouse.Warehouse, error) {
	if _, err := s.warehouseRepo.FindByCode(ctx, cmd.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a warehouse with this code already exists")
	} else if !isNotFound(err) {
		return nil, err
	}

	w, err := warehouse.NewWarehouse(cmd.Code, cmd.Name)
	if err != nil {
		return nil, err
	}
	w.Address = cmd.Address

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("warehouse created", zap.String("code", w.Code), zap.String("id", w.ID.String()))
	return w, nil
}

// GetWarehouse loads one site by ID
func (s *Service) GetWarehouse(ctx context.Context, id uuid.UUID) (*warehouse.Warehouse, error) {
	return s.warehouseRepo.FindByID(ctx, id)
}

// ListWarehouses returns sites matching the filter with the total count
func (s *Service) ListWarehouses(ctx context.Context, filter shared.Filter) ([]warehouse.Warehouse, int64, error) {
	warehouses, err := s.warehouseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return warehouses, total, nil
}

// UpdateWarehouseCommand carries optional field updates
type UpdateWarehouseCommand struct {
	Name    *string
	Address *string
}

// UpdateWarehouse applies partial updates to a site
func (s *Service) UpdateWarehouse(ctx context.Context, id uuid.UUID, cmd UpdateWarehouseCommand) (*warehouse.Warehouse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "warehouse name cannot be empty")
		}
		w.Name = *cmd.Name
	}
	if cmd.Address != nil {
		w.Address = *cmd.Address
	}
	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// SetWarehouseActive toggles whether the site accepts new receipts and
// transfers
func (s *Service) SetWarehouseActive(ctx context.Context, id uuid.UUID, active bool) (*warehouse.Warehouse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		w.Activate()
	} else {
		w.Deactivate()
	}
	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Info("warehouse active flag changed",
		zap.String("id", w.ID.String()), zap.Bool("active", w.Active))
	return w, nil
}

// CreateBinCommand describes a new storage location inside a site
type CreateBinCommand struct {
	WarehouseID uuid.UUID
	Code        string
	Zone        string
}

// CreateBin adds a bin to a site. Bin codes are unique per warehouse.
func (s *Service) CreateBin(ctx context.Context, cmd CreateBinCommand) (*warehouse.Bin, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, cmd.WarehouseID); err != nil {
		return nil, err
	}
	if _, err := s.binRepo.FindByCode(ctx, cmd.WarehouseID, cmd.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a bin with this code already exists in the warehouse")
	} else if !isNotFound(err) {
		return nil, err
	}

	b, err := warehouse.NewBin(cmd.WarehouseID, cmd.Code, cmd.Zone)
	if err != nil {
		return nil, err
	}
	if err := s.binRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("bin created",
		zap.String("warehouse_id", cmd.WarehouseID.String()), zap.String("code", b.Code))
	return b, nil
}

// GetBin loads one bin by ID
func (s *Service) GetBin(ctx context.Context, id uuid.UUID) (*warehouse.Bin, error) {
	return s.binRepo.FindByID(ctx, id)
}

// ListBins returns the bins of one site with the total count
func (s *Service) ListBins(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]warehouse.Bin, int64, error) {
	bins, err := s.binRepo.FindByWarehouse(ctx, warehouseID, filter)
	if err != nil {
		return nil, 0, err
	}
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters["warehouse_id"] = warehouseID
	total, err := s.binRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return bins, total, nil
}

// SetBinActive toggles whether the bin accepts receipts. Deactivation never
// touches stock already in the bin, it only blocks new placements.
func (s *Service) SetBinActive(ctx context.Context, id uuid.UUID, active bool) (*warehouse.Bin, error) {
	b, err := s.binRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		b.Activate()
	} else {
		b.Deactivate()
	}
	if err := s.binRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrNotFound.Code
	}
	return false
}

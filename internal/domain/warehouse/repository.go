package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// WarehouseRepository defines persistence operations for warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByCode(ctx context.Context, code string) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)
	Save(ctx context.Context, w *Warehouse) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// BinRepository defines persistence operations for bins
type BinRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bin, error)
	FindByCode(ctx context.Context, warehouseID uuid.UUID, code string) (*Bin, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]Bin, error)
	Save(ctx context.Context, b *Bin) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

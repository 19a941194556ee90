package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// GormBinRepository implements warehouse.BinRepository using GORM
type GormBinRepository struct {
	db *gorm.DB
}

// NewGormBinRepository creates a new GormBinRepository
func NewGormBinRepository(db *gorm.DB) *GormBinRepository {
	return &GormBinRepository{db: db}
}

// FindByID finds a bin by its ID
func (r *GormBinRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Bin, error) {
	var bin warehouse.Bin
	if err := r.db.WithContext(ctx).First(&bin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindByCode finds a bin by its code within a warehouse
func (r *GormBinRepository) FindByCode(ctx context.Context, warehouseID uuid.UUID, code string) (*warehouse.Bin, error) {
	var bin warehouse.Bin
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND code = ?", warehouseID, code).
		First(&bin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bin, nil
}

// FindByWarehouse finds all bins of a warehouse matching the filter
func (r *GormBinRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]warehouse.Bin, error) {
	var bins []warehouse.Bin
	query := applyBinFilter(
		r.db.WithContext(ctx).Model(&warehouse.Bin{}).Where("warehouse_id = ?", warehouseID),
		filter,
	)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, BinSortFields, "code ASC")

	if err := query.Find(&bins).Error; err != nil {
		return nil, err
	}
	return bins, nil
}

// Save creates or updates a bin
func (r *GormBinRepository) Save(ctx context.Context, b *warehouse.Bin) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Count counts bins matching the filter
func (r *GormBinRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyBinFilter(r.db.WithContext(ctx).Model(&warehouse.Bin{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyBinFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR zone ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "zone":
			query = query.Where("zone = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

// Ensure GormBinRepository implements BinRepository
var _ warehouse.BinRepository = (*GormBinRepository)(nil)

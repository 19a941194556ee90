package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// GormWarehouseRepository implements warehouse.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by its ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Warehouse, error) {
	var w warehouse.Warehouse
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// FindByCode finds a warehouse by its code
func (r *GormWarehouseRepository) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	var w warehouse.Warehouse
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.TrimSpace(code)).
		First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// FindAll finds all warehouses matching the filter
func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]warehouse.Warehouse, error) {
	var warehouses []warehouse.Warehouse
	query := applyWarehouseFilter(r.db.WithContext(ctx).Model(&warehouse.Warehouse{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, WarehouseSortFields, "code ASC")

	if err := query.Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, w *warehouse.Warehouse) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// Count counts warehouses matching the filter
func (r *GormWarehouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyWarehouseFilter(r.db.WithContext(ctx).Model(&warehouse.Warehouse{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyWarehouseFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR address ILIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}
	return query
}

// applyPagination applies page-based offsets. PageSize <= 0 means unpaged,
// reports over the full ledger rely on that.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies the requested ordering, falling back to the default.
// The sort field is checked against the entity's whitelist so a caller can
// never inject arbitrary SQL through the order clause.
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, "")
	if field == "" {
		return query.Order(defaultOrder)
	}
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormWarehouseRepository implements WarehouseRepository
var _ warehouse.WarehouseRepository = (*GormWarehouseRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// GormBinContentRepository implements stock.BinContentRepository using GORM.
// It is the persistence side of the quantity ledger: every balance update
// goes through SaveWithLock so concurrent writers cannot overwrite each
// other.
type GormBinContentRepository struct {
	db *gorm.DB
}

// NewGormBinContentRepository creates a new GormBinContentRepository
func NewGormBinContentRepository(db *gorm.DB) *GormBinContentRepository {
	return &GormBinContentRepository{db: db}
}

// FindByID finds a bin content by its ID
func (r *GormBinContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.BinContent, error) {
	var content stock.BinContent
	if err := r.db.WithContext(ctx).First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

// FindByBin returns all contents of a bin
func (r *GormBinContentRepository) FindByBin(ctx context.Context, binID uuid.UUID) ([]stock.BinContent, error) {
	var contents []stock.BinContent
	if err := r.db.WithContext(ctx).
		Where("bin_id = ?", binID).
		Order("use_by_date ASC, batch_number ASC").
		Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

// FindByBinProductBatch locates the unique record for a merge on receipt
func (r *GormBinContentRepository) FindByBinProductBatch(ctx context.Context, binID, productID uuid.UUID, batchNumber string) (*stock.BinContent, error) {
	var content stock.BinContent
	if err := r.db.WithContext(ctx).
		Where("bin_id = ? AND product_id = ? AND batch_number = ?", binID, productID, batchNumber).
		First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

// FindAllocatable returns the FEFO candidate set: available contents of one
// product in one warehouse, ordered by the allocation key so in-memory
// ranking starts from a stable base.
func (r *GormBinContentRepository) FindAllocatable(ctx context.Context, warehouseID, productID uuid.UUID) ([]stock.BinContent, error) {
	var contents []stock.BinContent
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ? AND status = ?", warehouseID, productID, stock.ContentStatusAvailable).
		Where("quantity > reserved_quantity").
		Order("use_by_date ASC, batch_number ASC, received_at ASC").
		Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

// FindAll finds all contents matching the filter
func (r *GormBinContentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.BinContent, error) {
	var contents []stock.BinContent
	query := applyContentFilter(r.db.WithContext(ctx).Model(&stock.BinContent{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, BinContentSortFields, "use_by_date ASC, batch_number ASC")

	if err := query.Find(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

// Count counts contents matching the filter
func (r *GormBinContentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyContentFilter(r.db.WithContext(ctx).Model(&stock.BinContent{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a bin content without a version check. Used for
// newly created records only; balance updates go through SaveWithLock.
func (r *GormBinContentRepository) Save(ctx context.Context, content *stock.BinContent) error {
	return r.db.WithContext(ctx).Save(content).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormBinContentRepository) SaveWithLock(ctx context.Context, content *stock.BinContent) error {
	result := r.db.WithContext(ctx).
		Model(content).
		Where("id = ? AND version = ?", content.ID, content.Version-1).
		Updates(map[string]interface{}{
			"quantity":          content.Quantity,
			"reserved_quantity": content.ReservedQuantity,
			"status":            content.Status,
			"version":           content.Version,
			"updated_at":        content.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func applyContentFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "bin_id":
			query = query.Where("bin_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormBinContentRepository implements BinContentRepository
var _ stock.BinContentRepository = (*GormBinContentRepository)(nil)

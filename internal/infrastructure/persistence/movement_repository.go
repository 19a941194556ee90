package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// GormMovementRepository implements stock.MovementRepository using GORM.
// The movement log is append-only; this repository exposes no update or
// delete operation.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement record
func (r *GormMovementRepository) Create(ctx context.Context, movement *stock.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	var movement stock.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// Find returns movements newest first with the total match count
func (r *GormMovementRepository) Find(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, int64, error) {
	query := applyMovementFilter(r.db.WithContext(ctx).Model(&stock.Movement{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var movements []stock.Movement
	if err := query.Order("created_at DESC, id DESC").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// FindByBinContent returns the full history of one content oldest first
func (r *GormMovementRepository) FindByBinContent(ctx context.Context, binContentID uuid.UUID) ([]stock.Movement, error) {
	var movements []stock.Movement
	if err := r.db.WithContext(ctx).
		Where("bin_content_id = ?", binContentID).
		Order("created_at ASC, id ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// ExistsByReference reports whether a movement with the reference exists
func (r *GormMovementRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.Movement{}).
		Where("reference_number = ?", reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyMovementFilter(query *gorm.DB, filter stock.MovementFilter) *gorm.DB {
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.BinID != nil {
		query = query.Where("bin_id = ?", *filter.BinID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

// Ensure GormMovementRepository implements MovementRepository
var _ stock.MovementRepository = (*GormMovementRepository)(nil)

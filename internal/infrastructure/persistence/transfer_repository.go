package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
)

// GormTransferRepository implements transfer.Repository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer by its ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var t transfer.Transfer
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByNumber finds a transfer by its human-readable number
func (r *GormTransferRepository) FindByNumber(ctx context.Context, number string) (*transfer.Transfer, error) {
	var t transfer.Transfer
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.Transfer, error) {
	var transfers []transfer.Transfer
	query := applyTransferFilter(r.db.WithContext(ctx).Model(&transfer.Transfer{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, TransferSortFields, "created_at DESC")

	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyTransferFilter(r.db.WithContext(ctx).Model(&transfer.Transfer{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a transfer
func (r *GormTransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormTransferRepository) SaveWithLock(ctx context.Context, t *transfer.Transfer) error {
	result := r.db.WithContext(ctx).
		Model(t).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(map[string]interface{}{
			"status":               t.Status,
			"target_bin_id":        t.TargetBinID,
			"quantity_received":    t.QuantityReceived,
			"condition_on_receipt": t.ConditionOnReceipt,
			"dispatched_at":        t.DispatchedAt,
			"received_at":          t.ReceivedAt,
			"cancelled_at":         t.CancelledAt,
			"received_by":          t.ReceivedBy,
			"version":              t.Version,
			"updated_at":           t.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// NextNumber allocates the next transfer number from a database sequence
func (r *GormTransferRepository) NextNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval('transfer_number_seq')").
		Scan(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("TRF-%06d", seq), nil
}

func applyTransferFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "source_warehouse_id":
			query = query.Where("source_warehouse_id = ?", value)
		case "target_warehouse_id":
			query = query.Where("target_warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormTransferRepository implements Repository
var _ transfer.Repository = (*GormTransferRepository)(nil)

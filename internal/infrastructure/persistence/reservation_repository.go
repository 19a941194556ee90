package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// GormReservationRepository implements reservation.Repository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation with its lines
func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var res reservation.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindAll finds reservations matching the filter
func (r *GormReservationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]reservation.Reservation, error) {
	var reservations []reservation.Reservation
	query := applyReservationFilter(r.db.WithContext(ctx).Model(&reservation.Reservation{}), filter)
	query = applyPagination(query, filter)
	query = applyOrdering(query, filter, ReservationSortFields, "created_at DESC")

	if err := query.Preload("Lines").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Count counts reservations matching the filter
func (r *GormReservationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyReservationFilter(r.db.WithContext(ctx).Model(&reservation.Reservation{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindExpired returns active reservations whose deadline passed, oldest
// deadline first, bounded by limit
func (r *GormReservationRepository) FindExpired(ctx context.Context, before time.Time, limit int) ([]reservation.Reservation, error) {
	var reservations []reservation.Reservation
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", reservation.StatusActive, before).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Save creates or updates a reservation and its lines
func (r *GormReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	return r.db.WithContext(ctx).Save(res).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormReservationRepository) SaveWithLock(ctx context.Context, res *reservation.Reservation) error {
	result := r.db.WithContext(ctx).
		Model(res).
		Where("id = ? AND version = ?", res.ID, res.Version-1).
		Updates(map[string]interface{}{
			"status":             res.Status,
			"allocated_quantity": res.AllocatedQuantity,
			"partial":            res.Partial,
			"fulfilled_at":       res.FulfilledAt,
			"cancelled_at":       res.CancelledAt,
			"version":            res.Version,
			"updated_at":         res.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func applyReservationFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "reference":
			query = query.Where("reference = ?", value)
		}
	}
	return query
}

// Ensure GormReservationRepository implements Repository
var _ reservation.Repository = (*GormReservationRepository)(nil)

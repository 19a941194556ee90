package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Repository defines persistence operations for reservations
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Reservation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindExpired returns active reservations whose deadline passed before
	// the given time, the work list of the expiry sweep
	FindExpired(ctx context.Context, before time.Time, limit int) ([]Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	// SaveWithLock persists only when the stored version matches
	// r.Version-1, failing with OPTIMISTIC_LOCK_FAILED otherwise
	SaveWithLock(ctx context.Context, r *Reservation) error
}

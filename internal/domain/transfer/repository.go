package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Repository defines persistence operations for cross-warehouse transfers
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindByNumber(ctx context.Context, number string) (*Transfer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Transfer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, t *Transfer) error
	// SaveWithLock persists only when the stored version matches
	// t.Version-1, failing with OPTIMISTIC_LOCK_FAILED otherwise
	SaveWithLock(ctx context.Context, t *Transfer) error
	// NextNumber allocates the next human-readable transfer number
	NextNumber(ctx context.Context) (string, error)
}

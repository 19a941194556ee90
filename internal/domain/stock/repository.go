package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// BinContentRepository defines persistence operations for the quantity ledger
type BinContentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BinContent, error)
	// FindByBin returns all non-deleted contents of a bin
	FindByBin(ctx context.Context, binID uuid.UUID) ([]BinContent, error)
	// FindByBinProductBatch locates the unique record for a merge on receipt
	FindByBinProductBatch(ctx context.Context, binID, productID uuid.UUID, batchNumber string) (*BinContent, error)
	// FindAllocatable returns available contents of a product in a warehouse,
	// the candidate set for FEFO ranking
	FindAllocatable(ctx context.Context, warehouseID, productID uuid.UUID) ([]BinContent, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BinContent, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, content *BinContent) error
	// SaveWithLock persists the content only if the stored version matches
	// content.Version-1, failing with OPTIMISTIC_LOCK_FAILED otherwise.
	// Callers must call IncrementVersion before saving.
	SaveWithLock(ctx context.Context, content *BinContent) error
}

// MovementFilter narrows movement log queries
type MovementFilter struct {
	WarehouseID *uuid.UUID
	BinID       *uuid.UUID
	ProductID   *uuid.UUID
	Type        *MovementType
	CreatedBy   *uuid.UUID
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// MovementRepository defines persistence for the append-only movement log.
// Records are never updated or deleted.
type MovementRepository interface {
	Create(ctx context.Context, movement *Movement) error
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)
	// Find returns movements newest first
	Find(ctx context.Context, filter MovementFilter) ([]Movement, int64, error)
	// FindByBinContent returns the full history of one content, oldest first,
	// as needed for replay verification
	FindByBinContent(ctx context.Context, binContentID uuid.UUID) ([]Movement, error)
	// ExistsByReference reports whether a movement already carries the
	// given reference number
	ExistsByReference(ctx context.Context, reference string) (bool, error)
}

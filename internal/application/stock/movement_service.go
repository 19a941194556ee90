package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// MovementService answers queries against the append-only movement log
type MovementService struct {
	movementRepo stock.MovementRepository
	contentRepo  stock.BinContentRepository
	logger       *zap.Logger
}

// NewMovementService creates a new MovementService
func NewMovementService(movementRepo stock.MovementRepository, contentRepo stock.BinContentRepository, logger *zap.Logger) *MovementService {
	return &MovementService{
		movementRepo: movementRepo,
		contentRepo:  contentRepo,
		logger:       logger,
	}
}

// List returns movements newest first, with the total match count
func (s *MovementService) List(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}
	return s.movementRepo.Find(ctx, filter)
}

// ReplayResult reports whether a content's movement history reproduces its
// current balance
type ReplayResult struct {
	BinContentID    uuid.UUID       `json:"bin_content_id"`
	MovementCount   int             `json:"movement_count"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	LedgerBalance   decimal.Decimal `json:"ledger_balance"`
	Consistent      bool            `json:"consistent"`
	// BrokenAt is the index of the first movement whose balance snapshots
	// do not chain, nil when the snapshots are intact
	BrokenAt *int `json:"broken_at,omitempty"`
}

// Replay walks a content's movements oldest first, verifies that the
// balance snapshots chain, and compares the summed signed quantities with
// the current ledger balance.
func (s *MovementService) Replay(ctx context.Context, binContentID uuid.UUID) (*ReplayResult, error) {
	content, err := s.contentRepo.FindByID(ctx, binContentID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByBinContent(ctx, binContentID)
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{
		BinContentID:  binContentID,
		MovementCount: len(movements),
		LedgerBalance: content.Quantity,
	}

	balance := decimal.Zero
	for i, m := range movements {
		if !m.QuantityBefore.Equal(balance) || !m.QuantityBefore.Add(m.Quantity).Equal(m.QuantityAfter) {
			idx := i
			result.BrokenAt = &idx
			break
		}
		balance = balance.Add(m.SignedQuantity())
	}
	result.ComputedBalance = balance
	result.Consistent = result.BrokenAt == nil && balance.Equal(content.Quantity)

	if !result.Consistent {
		s.logger.Error("movement log does not replay to ledger balance",
			zap.String("bin_content_id", binContentID.String()),
			zap.String("computed", balance.String()),
			zap.String("ledger", content.Quantity.String()),
		)
	}
	return result, nil
}

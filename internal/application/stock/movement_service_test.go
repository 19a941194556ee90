package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork/uowtest"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

func chainMovement(t *testing.T, content *stock.BinContent, movementType stock.MovementType, quantity, before int64) stock.Movement {
	t.Helper()
	q := decimal.NewFromInt(quantity)
	b := decimal.NewFromInt(before)
	m, err := stock.NewMovementBuilder(content, movementType).
		WithQuantityChange(q, b, b.Add(q)).
		WithReason("test").
		Build()
	require.NoError(t, err)
	return *m
}

func TestMovementServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps page and page size", func(t *testing.T) {
		movements := new(uowtest.MockMovementRepository)
		contents := new(uowtest.MockBinContentRepository)
		svc := NewMovementService(movements, contents, zap.NewNop())

		var seen stock.MovementFilter
		movements.On("Find", mock.Anything, mock.AnythingOfType("stock.MovementFilter")).
			Run(func(args mock.Arguments) { seen = args.Get(1).(stock.MovementFilter) }).
			Return([]stock.Movement{}, int64(0), nil)

		_, _, err := svc.List(ctx, stock.MovementFilter{Page: 0, PageSize: 10000})

		require.NoError(t, err)
		assert.Equal(t, 1, seen.Page)
		assert.Equal(t, 50, seen.PageSize)
	})
}

func TestMovementServiceReplay(t *testing.T) {
	ctx := context.Background()

	t.Run("a consistent chain replays to the ledger balance", func(t *testing.T) {
		bin := newTestBin(t)
		content := newTestContent(t, bin, 65, 30)
		movements := new(uowtest.MockMovementRepository)
		contents := new(uowtest.MockBinContentRepository)
		svc := NewMovementService(movements, contents, zap.NewNop())

		history := []stock.Movement{
			chainMovement(t, content, stock.MovementTypeReceipt, 100, 0),
			chainMovement(t, content, stock.MovementTypeIssue, -30, 100),
			chainMovement(t, content, stock.MovementTypeAdjustment, -5, 70),
		}
		contents.On("FindByID", mock.Anything, content.ID).Return(content, nil)
		movements.On("FindByBinContent", mock.Anything, content.ID).Return(history, nil)

		result, err := svc.Replay(ctx, content.ID)

		require.NoError(t, err)
		assert.True(t, result.Consistent)
		assert.Nil(t, result.BrokenAt)
		assert.Equal(t, 3, result.MovementCount)
		assert.True(t, result.ComputedBalance.Equal(decimal.NewFromInt(65)))
	})

	t.Run("a broken snapshot chain is flagged with its index", func(t *testing.T) {
		bin := newTestBin(t)
		content := newTestContent(t, bin, 65, 30)
		movements := new(uowtest.MockMovementRepository)
		contents := new(uowtest.MockBinContentRepository)
		svc := NewMovementService(movements, contents, zap.NewNop())

		history := []stock.Movement{
			chainMovement(t, content, stock.MovementTypeReceipt, 100, 0),
			// QuantityBefore does not match the running balance of 100.
			chainMovement(t, content, stock.MovementTypeIssue, -30, 90),
		}
		contents.On("FindByID", mock.Anything, content.ID).Return(content, nil)
		movements.On("FindByBinContent", mock.Anything, content.ID).Return(history, nil)

		result, err := svc.Replay(ctx, content.ID)

		require.NoError(t, err)
		assert.False(t, result.Consistent)
		require.NotNil(t, result.BrokenAt)
		assert.Equal(t, 1, *result.BrokenAt)
	})

	t.Run("a ledger drift without broken chain is inconsistent", func(t *testing.T) {
		bin := newTestBin(t)
		content := newTestContent(t, bin, 70, 30)
		movements := new(uowtest.MockMovementRepository)
		contents := new(uowtest.MockBinContentRepository)
		svc := NewMovementService(movements, contents, zap.NewNop())

		history := []stock.Movement{
			chainMovement(t, content, stock.MovementTypeReceipt, 100, 0),
			chainMovement(t, content, stock.MovementTypeIssue, -35, 100),
		}
		contents.On("FindByID", mock.Anything, content.ID).Return(content, nil)
		movements.On("FindByBinContent", mock.Anything, content.ID).Return(history, nil)

		result, err := svc.Replay(ctx, content.ID)

		require.NoError(t, err)
		assert.False(t, result.Consistent)
		assert.Nil(t, result.BrokenAt)
		assert.True(t, result.ComputedBalance.Equal(decimal.NewFromInt(65)))
		assert.True(t, result.LedgerBalance.Equal(decimal.NewFromInt(70)))
	})

	t.Run("an empty history replays to zero", func(t *testing.T) {
		bin := newTestBin(t)
		content := newTestContent(t, bin, 10, 30)
		movements := new(uowtest.MockMovementRepository)
		contents := new(uowtest.MockBinContentRepository)
		svc := NewMovementService(movements, contents, zap.NewNop())

		contents.On("FindByID", mock.Anything, content.ID).Return(content, nil)
		movements.On("FindByBinContent", mock.Anything, content.ID).Return([]stock.Movement{}, nil)

		result, err := svc.Replay(ctx, content.ID)

		require.NoError(t, err)
		assert.False(t, result.Consistent)
		assert.True(t, result.ComputedBalance.IsZero())
	})
}

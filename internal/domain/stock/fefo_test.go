package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

func fefoContent(t *testing.T, batch string, quantity int64, useByInDays int, receivedAt time.Time) BinContent {
	t.Helper()
	content, err := NewBinContent(
		uuid.New(), uuid.New(), uuid.New(),
		batch,
		decimal.NewFromInt(quantity),
		time.Now().AddDate(0, 0, useByInDays),
		receivedAt,
	)
	require.NoError(t, err)
	return *content
}

func TestFefoSelectorOrdering(t *testing.T) {
	selector := NewFefoSelector()
	now := time.Now()

	t.Run("earliest use-by date wins", func(t *testing.T) {
		candidates := []BinContent{
			fefoContent(t, "BATCH-1", 50, 60, now),
			fefoContent(t, "BATCH-2", 50, 30, now),
			fefoContent(t, "BATCH-3", 50, 10, now),
		}

		ranked := selector.Rank(candidates)

		require.Len(t, ranked, 3)
		assert.Equal(t, "BATCH-3", ranked[0].BatchNumber)
		assert.Equal(t, "BATCH-2", ranked[1].BatchNumber)
		assert.Equal(t, "BATCH-1", ranked[2].BatchNumber)
	})

	t.Run("batch number breaks use-by ties", func(t *testing.T) {
		candidates := []BinContent{
			fefoContent(t, "BATCH-Z", 50, 10, now),
			fefoContent(t, "BATCH-A", 50, 10, now),
		}

		ranked := selector.Rank(candidates)

		require.Len(t, ranked, 2)
		assert.Equal(t, "BATCH-A", ranked[0].BatchNumber)
		assert.Equal(t, "BATCH-Z", ranked[1].BatchNumber)
	})

	t.Run("received timestamp breaks remaining ties", func(t *testing.T) {
		later := now.Add(2 * time.Hour)
		newer := fefoContent(t, "BATCH-A", 50, 10, later)
		older := fefoContent(t, "BATCH-A", 50, 10, now)
		candidates := []BinContent{newer, older}

		ranked := selector.Rank(candidates)

		require.Len(t, ranked, 2)
		assert.Equal(t, older.ID, ranked[0].ID)
		assert.Equal(t, newer.ID, ranked[1].ID)
	})

	t.Run("expired and depleted candidates are filtered", func(t *testing.T) {
		expired := fefoContent(t, "BATCH-E", 50, -1, now)
		depleted := fefoContent(t, "BATCH-D", 10, 10, now)
		require.NoError(t, depleted.Issue(decimal.NewFromInt(10)))
		fresh := fefoContent(t, "BATCH-F", 50, 20, now)

		ranked := selector.Rank([]BinContent{expired, depleted, fresh})

		require.Len(t, ranked, 1)
		assert.Equal(t, "BATCH-F", ranked[0].BatchNumber)
	})

	t.Run("fully reserved candidates are filtered", func(t *testing.T) {
		reserved := fefoContent(t, "BATCH-R", 50, 10, now)
		require.NoError(t, reserved.Reserve(decimal.NewFromInt(50)))

		ranked := selector.Rank([]BinContent{reserved})

		assert.Empty(t, ranked)
	})
}

func TestFefoSelectorAllocate(t *testing.T) {
	selector := NewFefoSelector()
	now := time.Now()

	t.Run("greedy allocation across batches", func(t *testing.T) {
		candidates := []BinContent{
			fefoContent(t, "BATCH-1", 30, 10, now),
			fefoContent(t, "BATCH-2", 50, 20, now),
		}

		plan, err := selector.Allocate(candidates, decimal.NewFromInt(60))

		require.NoError(t, err)
		assert.True(t, plan.FullyFulfilled)
		require.Len(t, plan.Lines, 2)
		assert.Equal(t, "BATCH-1", plan.Lines[0].BatchNumber)
		assert.True(t, plan.Lines[0].Quantity.Equal(decimal.NewFromInt(30)))
		assert.True(t, plan.Lines[0].FullyConsumed)
		assert.Equal(t, "BATCH-2", plan.Lines[1].BatchNumber)
		assert.True(t, plan.Lines[1].Quantity.Equal(decimal.NewFromInt(30)))
		assert.False(t, plan.Lines[1].FullyConsumed)
	})

	t.Run("partial allocation when stock is short", func(t *testing.T) {
		candidates := []BinContent{
			fefoContent(t, "BATCH-1", 30, 10, now),
		}

		plan, err := selector.Allocate(candidates, decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.False(t, plan.FullyFulfilled)
		assert.True(t, plan.IsPartial())
		assert.True(t, plan.TotalAllocated.Equal(decimal.NewFromInt(30)))
		assert.True(t, plan.RemainingQuantity.Equal(decimal.NewFromInt(70)))
	})

	t.Run("no allocatable stock fails", func(t *testing.T) {
		expired := fefoContent(t, "BATCH-E", 50, -1, now)

		_, err := selector.Allocate([]BinContent{expired}, decimal.NewFromInt(10))

		assert.ErrorIs(t, err, shared.ErrInsufficientAvailable)
	})

	t.Run("allocation respects reserved quantity", func(t *testing.T) {
		content := fefoContent(t, "BATCH-1", 100, 10, now)
		require.NoError(t, content.Reserve(decimal.NewFromInt(70)))

		plan, err := selector.Allocate([]BinContent{content}, decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.True(t, plan.TotalAllocated.Equal(decimal.NewFromInt(30)))
	})

	t.Run("rejects non-positive demand", func(t *testing.T) {
		_, err := selector.Allocate(nil, decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestFefoSelectorIsCompliant(t *testing.T) {
	selector := NewFefoSelector()
	now := time.Now()

	t.Run("head of the queue is compliant", func(t *testing.T) {
		head := fefoContent(t, "BATCH-1", 50, 10, now)
		tail := fefoContent(t, "BATCH-2", 50, 30, now)

		assert.True(t, selector.IsCompliant(&head, []BinContent{head, tail}))
	})

	t.Run("later batch is not compliant", func(t *testing.T) {
		head := fefoContent(t, "BATCH-1", 50, 10, now)
		tail := fefoContent(t, "BATCH-2", 50, 30, now)

		assert.False(t, selector.IsCompliant(&tail, []BinContent{head, tail}))
	})

	t.Run("compliant when earlier batches are exhausted", func(t *testing.T) {
		head := fefoContent(t, "BATCH-1", 10, 10, now)
		require.NoError(t, head.Issue(decimal.NewFromInt(10)))
		tail := fefoContent(t, "BATCH-2", 50, 30, now)

		assert.True(t, selector.IsCompliant(&tail, []BinContent{head, tail}))
	})
}

package stock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork/uowtest"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

func expiryContent(t *testing.T, warehouseID uuid.UUID, batch string, quantity int64, useBy time.Time) stock.BinContent {
	t.Helper()
	content, err := stock.NewBinContent(
		uuid.New(), warehouseID, uuid.New(), batch,
		decimal.NewFromInt(quantity),
		useBy,
		time.Now(),
	)
	require.NoError(t, err)
	content.ClearDomainEvents()
	return *content
}

func TestExpiryServiceWarnings(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	t.Run("classifies and sorts soonest first", func(t *testing.T) {
		contents := new(uowtest.MockBinContentRepository)
		svc := NewExpiryService(contents, stock.DefaultUrgencyThresholds())
		svc.SetClock(func() time.Time { return now })

		inventory := []stock.BinContent{
			expiryContent(t, warehouseID, "LOW", 10, now.AddDate(0, 0, 30)),
			expiryContent(t, warehouseID, "EXPIRED", 10, now.AddDate(0, 0, -2)),
			expiryContent(t, warehouseID, "HIGH", 10, now.AddDate(0, 0, 6)),
			expiryContent(t, warehouseID, "CRITICAL", 10, now.AddDate(0, 0, 1)),
			expiryContent(t, warehouseID, "MEDIUM", 10, now.AddDate(0, 0, 12)),
		}
		contents.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(inventory, nil)

		report, err := svc.Warnings(ctx, WarningQuery{})

		require.NoError(t, err)
		require.Len(t, report.Items, 5)
		assert.Equal(t, "EXPIRED", report.Items[0].BatchNumber)
		assert.Equal(t, stock.UrgencyExpired, report.Items[0].Urgency)
		assert.Equal(t, "CRITICAL", report.Items[1].BatchNumber)
		assert.Equal(t, stock.UrgencyCritical, report.Items[1].Urgency)
		assert.Equal(t, "HIGH", report.Items[2].BatchNumber)
		assert.Equal(t, "MEDIUM", report.Items[3].BatchNumber)
		assert.Equal(t, "LOW", report.Items[4].BatchNumber)
		assert.Equal(t, 1, report.Summary[stock.UrgencyExpired])
		assert.Equal(t, 1, report.Summary[stock.UrgencyCritical])
		assert.Equal(t, 1, report.Summary[stock.UrgencyLow])
	})

	t.Run("min level filters items but not the summary", func(t *testing.T) {
		contents := new(uowtest.MockBinContentRepository)
		svc := NewExpiryService(contents, stock.DefaultUrgencyThresholds())
		svc.SetClock(func() time.Time { return now })

		inventory := []stock.BinContent{
			expiryContent(t, warehouseID, "LOW", 10, now.AddDate(0, 0, 30)),
			expiryContent(t, warehouseID, "CRITICAL", 10, now.AddDate(0, 0, 1)),
		}
		contents.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(inventory, nil)

		minLevel := stock.UrgencyHigh
		report, err := svc.Warnings(ctx, WarningQuery{MinLevel: &minLevel})

		require.NoError(t, err)
		require.Len(t, report.Items, 1)
		assert.Equal(t, "CRITICAL", report.Items[0].BatchNumber)
		assert.Equal(t, 1, report.Summary[stock.UrgencyLow])
	})

	t.Run("skips scrapped and depleted stock", func(t *testing.T) {
		contents := new(uowtest.MockBinContentRepository)
		svc := NewExpiryService(contents, stock.DefaultUrgencyThresholds())
		svc.SetClock(func() time.Time { return now })

		scrapped := expiryContent(t, warehouseID, "SCRAPPED", 10, now.AddDate(0, 0, 1))
		_, err := scrapped.Scrap()
		require.NoError(t, err)
		live := expiryContent(t, warehouseID, "LIVE", 10, now.AddDate(0, 0, 1))

		contents.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
			Return([]stock.BinContent{scrapped, live}, nil)

		report, err := svc.Warnings(ctx, WarningQuery{})

		require.NoError(t, err)
		require.Len(t, report.Items, 1)
		assert.Equal(t, "LIVE", report.Items[0].BatchNumber)
	})

	t.Run("warehouse filter reaches the repository", func(t *testing.T) {
		contents := new(uowtest.MockBinContentRepository)
		svc := NewExpiryService(contents, stock.DefaultUrgencyThresholds())
		svc.SetClock(func() time.Time { return now })

		var seen shared.Filter
		contents.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) { seen = args.Get(1).(shared.Filter) }).
			Return([]stock.BinContent{}, nil)

		_, err := svc.Warnings(ctx, WarningQuery{WarehouseID: &warehouseID})

		require.NoError(t, err)
		assert.Equal(t, warehouseID, seen.Filters["warehouse_id"])
		assert.Equal(t, 0, seen.PageSize)
	})
}

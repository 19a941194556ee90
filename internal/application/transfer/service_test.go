package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork/uowtest"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

func testBin(t *testing.T, warehouseID uuid.UUID, code string) *warehouse.Bin {
	t.Helper()
	bin, err := warehouse.NewBin(warehouseID, code, "A")
	require.NoError(t, err)
	return bin
}

func testContent(t *testing.T, bin *warehouse.Bin, quantity int64) *stock.BinContent {
	t.Helper()
	content, err := stock.NewBinContent(
		bin.ID, bin.WarehouseID, uuid.New(), "BATCH-001",
		decimal.NewFromInt(quantity),
		time.Now().AddDate(0, 0, 30),
		time.Now().Add(-48*time.Hour),
	)
	require.NoError(t, err)
	content.ClearDomainEvents()
	return content
}

func TestTransferWithinWarehouse(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	t.Run("moves stock between bins preserving the FEFO key", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, warehouseID, "A-01-01")
		sourceBin.MarkOccupied()
		targetBin := testBin(t, warehouseID, "A-01-02")
		source := testContent(t, sourceBin, 100)

		var placed *stock.BinContent
		f.Contents.On("FindByID", mock.Anything, source.ID).Return(source, nil)
		f.Bins.On("FindByID", mock.Anything, targetBin.ID).Return(targetBin, nil)
		f.Bins.On("FindByID", mock.Anything, sourceBin.ID).Return(sourceBin, nil)
		f.Contents.On("FindByBin", mock.Anything, targetBin.ID).Return([]stock.BinContent{}, nil)
		f.Contents.On("FindByBin", mock.Anything, sourceBin.ID).Return([]stock.BinContent{*source}, nil)
		f.Contents.On("SaveWithLock", mock.Anything, source).Return(nil)
		f.Contents.On("FindByBinProductBatch", mock.Anything, targetBin.ID, source.ProductID, source.BatchNumber).
			Return(nil, shared.ErrNotFound)
		f.Contents.On("Save", mock.Anything, mock.AnythingOfType("*stock.BinContent")).
			Run(func(args mock.Arguments) { placed = args.Get(1).(*stock.BinContent) }).Return(nil)
		f.Movements.On("Create", mock.Anything, mock.AnythingOfType("*stock.Movement")).Return(nil)
		f.Bins.On("Save", mock.Anything, mock.AnythingOfType("*warehouse.Bin")).Return(nil).Maybe()

		result, err := svc.TransferWithinWarehouse(ctx, WithinWarehouseCommand{
			BinContentID: source.ID,
			TargetBinID:  targetBin.ID,
			Quantity:     decimal.NewFromInt(40),
			OperatorID:   uuid.New(),
		})

		require.NoError(t, err)
		assert.True(t, result.Source.Quantity.Equal(decimal.NewFromInt(60)))
		assert.True(t, result.Target.Quantity.Equal(decimal.NewFromInt(40)))
		require.NotNil(t, placed)
		assert.Equal(t, source.BatchNumber, placed.BatchNumber)
		assert.True(t, placed.UseByDate.Equal(source.UseByDate))
		assert.True(t, placed.ReceivedAt.Equal(source.ReceivedAt))
		f.Movements.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("rejects moving into the same bin", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())
		sourceBin := testBin(t, warehouseID, "A-01-01")
		source := testContent(t, sourceBin, 100)

		f.Contents.On("FindByID", mock.Anything, source.ID).Return(source, nil)

		_, err := svc.TransferWithinWarehouse(ctx, WithinWarehouseCommand{
			BinContentID: source.ID,
			TargetBinID:  source.BinID,
			Quantity:     decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, shared.ErrSameLocation)
	})

	t.Run("rejects a bin in another warehouse", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())
		sourceBin := testBin(t, warehouseID, "A-01-01")
		foreignBin := testBin(t, uuid.New(), "B-01-01")
		source := testContent(t, sourceBin, 100)

		f.Contents.On("FindByID", mock.Anything, source.ID).Return(source, nil)
		f.Bins.On("FindByID", mock.Anything, foreignBin.ID).Return(foreignBin, nil)

		_, err := svc.TransferWithinWarehouse(ctx, WithinWarehouseCommand{
			BinContentID: source.ID,
			TargetBinID:  foreignBin.ID,
			Quantity:     decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, shared.ErrCrossWarehouseMismatch)
	})

	t.Run("rejects a bin holding another product", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())
		sourceBin := testBin(t, warehouseID, "A-01-01")
		targetBin := testBin(t, warehouseID, "A-01-02")
		source := testContent(t, sourceBin, 100)
		other := testContent(t, targetBin, 10)

		f.Contents.On("FindByID", mock.Anything, source.ID).Return(source, nil)
		f.Bins.On("FindByID", mock.Anything, targetBin.ID).Return(targetBin, nil)
		f.Contents.On("FindByBin", mock.Anything, targetBin.ID).Return([]stock.BinContent{*other}, nil)

		_, err := svc.TransferWithinWarehouse(ctx, WithinWarehouseCommand{
			BinContentID: source.ID,
			TargetBinID:  targetBin.ID,
			Quantity:     decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, shared.ErrBinOccupied)
	})
}

func TestCrossWarehouseLifecycle(t *testing.T) {
	ctx := context.Background()
	sourceWarehouseID := uuid.New()

	newPendingTransfer := func(t *testing.T, source *stock.BinContent, targetWarehouseID uuid.UUID, quantity int64) *transfer.Transfer {
		t.Helper()
		tr, err := transfer.NewTransfer("TRF-000042", source.WarehouseID, targetWarehouseID, source.BinID, source.ProductID, source.BatchNumber, decimal.NewFromInt(quantity), source.UseByDate, uuid.New())
		require.NoError(t, err)
		tr.ClearDomainEvents()
		return tr
	}

	t.Run("create removes stock and opens a pending transfer", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, sourceWarehouseID, "A-01-01")
		sourceBin.MarkOccupied()
		source := testContent(t, sourceBin, 100)
		targetWarehouse, err := warehouse.NewWarehouse("WH-02", "North site")
		require.NoError(t, err)

		var recorded *stock.Movement
		f.Contents.On("FindByID", mock.Anything, source.ID).Return(source, nil)
		f.Warehouses.On("FindByID", mock.Anything, targetWarehouse.ID).Return(targetWarehouse, nil)
		f.Transfers.On("NextNumber", mock.Anything).Return("TRF-000042", nil)
		f.Contents.On("SaveWithLock", mock.Anything, source).Return(nil)
		f.Movements.On("Create", mock.Anything, mock.AnythingOfType("*stock.Movement")).
			Run(func(args mock.Arguments) { recorded = args.Get(1).(*stock.Movement) }).Return(nil)
		f.Transfers.On("Save", mock.Anything, mock.AnythingOfType("*transfer.Transfer")).Return(nil)
		f.Contents.On("FindByBin", mock.Anything, sourceBin.ID).Return([]stock.BinContent{*source}, nil)
		f.Bins.On("FindByID", mock.Anything, sourceBin.ID).Return(sourceBin, nil)
		f.Bins.On("Save", mock.Anything, sourceBin).Return(nil).Maybe()

		created, err := svc.CreateCrossWarehouse(ctx, CreateCrossWarehouseCommand{
			BinContentID:      source.ID,
			TargetWarehouseID: targetWarehouse.ID,
			Quantity:          decimal.NewFromInt(40),
			OperatorID:        uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, transfer.StatusPending, created.Status)
		assert.Equal(t, "TRF-000042", created.Number)
		assert.True(t, source.Quantity.Equal(decimal.NewFromInt(60)))
		require.NotNil(t, recorded)
		assert.True(t, recorded.Quantity.Equal(decimal.NewFromInt(-40)))
		assert.Equal(t, "TRF-000042", recorded.ReferenceNumber)
	})

	t.Run("rejects an inactive target warehouse", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, sourceWarehouseID, "A-01-01")
		source := testContent(t, sourceBin, 100)
		targetWarehouse, err := warehouse.NewWarehouse("WH-02", "North site")
		require.NoError(t, err)
		targetWarehouse.Deactivate()

		f.Contents.On("FindByID", mock.Anything, source.ID).Return(source, nil)
		f.Warehouses.On("FindByID", mock.Anything, targetWarehouse.ID).Return(targetWarehouse, nil)

		_, err = svc.CreateCrossWarehouse(ctx, CreateCrossWarehouseCommand{
			BinContentID:      source.ID,
			TargetWarehouseID: targetWarehouse.ID,
			Quantity:          decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("dispatch then confirm books the goods into the target bin", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, sourceWarehouseID, "A-01-01")
		source := testContent(t, sourceBin, 60)
		targetWarehouseID := uuid.New()
		targetBin := testBin(t, targetWarehouseID, "R-01-01")
		tr := newPendingTransfer(t, source, targetWarehouseID, 40)

		f.Transfers.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
		f.Transfers.On("SaveWithLock", mock.Anything, tr).Return(nil)

		_, err := svc.Dispatch(ctx, tr.ID)
		require.NoError(t, err)
		assert.Equal(t, transfer.StatusInTransit, tr.Status)

		var placed *stock.BinContent
		f.Bins.On("FindByID", mock.Anything, targetBin.ID).Return(targetBin, nil)
		f.Contents.On("FindByBin", mock.Anything, targetBin.ID).Return([]stock.BinContent{}, nil)
		f.Contents.On("FindByBinProductBatch", mock.Anything, targetBin.ID, tr.ProductID, tr.BatchNumber).
			Return(nil, shared.ErrNotFound)
		f.Contents.On("Save", mock.Anything, mock.AnythingOfType("*stock.BinContent")).
			Run(func(args mock.Arguments) { placed = args.Get(1).(*stock.BinContent) }).Return(nil)
		f.Movements.On("Create", mock.Anything, mock.AnythingOfType("*stock.Movement")).Return(nil)
		f.Bins.On("Save", mock.Anything, mock.AnythingOfType("*warehouse.Bin")).Return(nil).Maybe()

		confirmed, err := svc.Confirm(ctx, ConfirmCommand{
			TransferID:         tr.ID,
			TargetBinID:        targetBin.ID,
			QuantityReceived:   decimal.NewFromInt(38),
			ConditionOnReceipt: "two crates damaged",
			OperatorID:         uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, transfer.StatusReceived, confirmed.Status)
		require.NotNil(t, confirmed.QuantityReceived)
		assert.True(t, confirmed.QuantityReceived.Equal(decimal.NewFromInt(38)))
		require.NotNil(t, placed)
		assert.True(t, placed.Quantity.Equal(decimal.NewFromInt(38)))
		assert.Equal(t, tr.BatchNumber, placed.BatchNumber)
	})

	t.Run("confirm rejects a bin outside the target warehouse", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, sourceWarehouseID, "A-01-01")
		source := testContent(t, sourceBin, 60)
		tr := newPendingTransfer(t, source, uuid.New(), 40)
		require.NoError(t, tr.Dispatch())
		tr.ClearDomainEvents()
		wrongBin := testBin(t, uuid.New(), "X-01-01")

		f.Transfers.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
		f.Bins.On("FindByID", mock.Anything, wrongBin.ID).Return(wrongBin, nil)

		_, err := svc.Confirm(ctx, ConfirmCommand{
			TransferID:       tr.ID,
			TargetBinID:      wrongBin.ID,
			QuantityReceived: decimal.NewFromInt(40),
		})

		assert.ErrorIs(t, err, shared.ErrCrossWarehouseMismatch)
	})

	t.Run("confirm requires an in-transit transfer", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, sourceWarehouseID, "A-01-01")
		source := testContent(t, sourceBin, 60)
		targetWarehouseID := uuid.New()
		targetBin := testBin(t, targetWarehouseID, "R-01-01")
		tr := newPendingTransfer(t, source, targetWarehouseID, 40)

		f.Transfers.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
		f.Bins.On("FindByID", mock.Anything, targetBin.ID).Return(targetBin, nil)
		f.Contents.On("FindByBin", mock.Anything, targetBin.ID).Return([]stock.BinContent{}, nil)

		_, err := svc.Confirm(ctx, ConfirmCommand{
			TransferID:       tr.ID,
			TargetBinID:      targetBin.ID,
			QuantityReceived: decimal.NewFromInt(40),
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("cancel returns the sent quantity to the source bin", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, sourceWarehouseID, "A-01-01")
		sourceBin.MarkOccupied()
		source := testContent(t, sourceBin, 60)
		tr := newPendingTransfer(t, source, uuid.New(), 40)

		var recorded *stock.Movement
		f.Transfers.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)
		f.Contents.On("FindByBinProductBatch", mock.Anything, tr.SourceBinID, tr.ProductID, tr.BatchNumber).
			Return(source, nil)
		f.Contents.On("SaveWithLock", mock.Anything, source).Return(nil)
		f.Movements.On("Create", mock.Anything, mock.AnythingOfType("*stock.Movement")).
			Run(func(args mock.Arguments) { recorded = args.Get(1).(*stock.Movement) }).Return(nil)
		f.Transfers.On("SaveWithLock", mock.Anything, tr).Return(nil)
		f.Contents.On("FindByBin", mock.Anything, sourceBin.ID).Return([]stock.BinContent{*source}, nil)
		f.Bins.On("FindByID", mock.Anything, sourceBin.ID).Return(sourceBin, nil)

		cancelled, err := svc.Cancel(ctx, tr.ID, uuid.New())

		require.NoError(t, err)
		assert.Equal(t, transfer.StatusCancelled, cancelled.Status)
		assert.True(t, source.Quantity.Equal(decimal.NewFromInt(100)))
		require.NotNil(t, recorded)
		assert.Equal(t, stock.MovementTypeTransferCancelled, recorded.Type)
		assert.True(t, recorded.Quantity.Equal(decimal.NewFromInt(40)))
	})

	t.Run("cancelling a received transfer fails", func(t *testing.T) {
		f := uowtest.NewFixture()
		svc := NewService(f.Scope, zap.NewNop())

		sourceBin := testBin(t, sourceWarehouseID, "A-01-01")
		source := testContent(t, sourceBin, 60)
		tr := newPendingTransfer(t, source, uuid.New(), 40)
		require.NoError(t, tr.Dispatch())
		require.NoError(t, tr.Confirm(uuid.New(), decimal.NewFromInt(40), "", uuid.New()))
		tr.ClearDomainEvents()

		f.Transfers.On("FindByID", mock.Anything, tr.ID).Return(tr, nil)

		_, err := svc.Cancel(ctx, tr.ID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrAlreadyTerminal)
	})
}

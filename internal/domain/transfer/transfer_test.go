package transfer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

func createTestTransfer(t *testing.T, quantity int64) *Transfer {
	t.Helper()
	tr, err := NewTransfer(
		"TRF-2026-0001",
		uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		"BATCH-001",
		decimal.NewFromInt(quantity),
		time.Now().AddDate(0, 0, 30),
		uuid.New(),
	)
	require.NoError(t, err)
	return tr
}

func TestNewTransfer(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		tr := createTestTransfer(t, 40)

		assert.Equal(t, StatusPending, tr.Status)
		assert.True(t, tr.QuantitySent.Equal(decimal.NewFromInt(40)))
		assert.Nil(t, tr.QuantityReceived)
		assert.Nil(t, tr.TargetBinID)
	})

	t.Run("rejects same warehouse", func(t *testing.T) {
		wh := uuid.New()
		_, err := NewTransfer("TRF-1", wh, wh, uuid.New(), uuid.New(), "B", decimal.NewFromInt(1), time.Now(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrSameLocation)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewTransfer("TRF-1", uuid.New(), uuid.New(), uuid.New(), uuid.New(), "B", decimal.Zero, time.Now(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestTransferDispatch(t *testing.T) {
	t.Run("pending goes in transit", func(t *testing.T) {
		tr := createTestTransfer(t, 40)

		require.NoError(t, tr.Dispatch())

		assert.Equal(t, StatusInTransit, tr.Status)
		assert.NotNil(t, tr.DispatchedAt)
	})

	t.Run("double dispatch fails", func(t *testing.T) {
		tr := createTestTransfer(t, 40)
		require.NoError(t, tr.Dispatch())

		assert.ErrorIs(t, tr.Dispatch(), shared.ErrInvalidState)
	})
}

func TestTransferConfirm(t *testing.T) {
	t.Run("requires in transit", func(t *testing.T) {
		tr := createTestTransfer(t, 40)

		err := tr.Confirm(uuid.New(), decimal.NewFromInt(40), "good", uuid.New())

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("books received quantity and condition", func(t *testing.T) {
		tr := createTestTransfer(t, 40)
		require.NoError(t, tr.Dispatch())
		targetBin := uuid.New()

		err := tr.Confirm(targetBin, decimal.NewFromInt(38), "two cases damaged", uuid.New())

		require.NoError(t, err)
		assert.Equal(t, StatusReceived, tr.Status)
		require.NotNil(t, tr.QuantityReceived)
		assert.True(t, tr.QuantityReceived.Equal(decimal.NewFromInt(38)))
		assert.Equal(t, &targetBin, tr.TargetBinID)
		assert.Equal(t, "two cases damaged", tr.ConditionOnReceipt)
	})

	t.Run("rejects receiving more than sent", func(t *testing.T) {
		tr := createTestTransfer(t, 40)
		require.NoError(t, tr.Dispatch())

		err := tr.Confirm(uuid.New(), decimal.NewFromInt(41), "", uuid.New())

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestTransferCancel(t *testing.T) {
	t.Run("cancel from pending", func(t *testing.T) {
		tr := createTestTransfer(t, 40)

		require.NoError(t, tr.Cancel())

		assert.Equal(t, StatusCancelled, tr.Status)
		assert.NotNil(t, tr.CancelledAt)
	})

	t.Run("cancel from in transit", func(t *testing.T) {
		tr := createTestTransfer(t, 40)
		require.NoError(t, tr.Dispatch())

		require.NoError(t, tr.Cancel())

		assert.Equal(t, StatusCancelled, tr.Status)
	})

	t.Run("terminal transfers reject every change", func(t *testing.T) {
		tr := createTestTransfer(t, 40)
		require.NoError(t, tr.Dispatch())
		require.NoError(t, tr.Confirm(uuid.New(), decimal.NewFromInt(40), "good", uuid.New()))

		assert.ErrorIs(t, tr.Cancel(), shared.ErrAlreadyTerminal)
		assert.ErrorIs(t, tr.Dispatch(), shared.ErrAlreadyTerminal)
		assert.ErrorIs(t, tr.Confirm(uuid.New(), decimal.NewFromInt(1), "", uuid.New()), shared.ErrAlreadyTerminal)
	})
}

package warehouse

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork/uowtest"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	whdomain "github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

func newTestService() (*Service, *uowtest.MockWarehouseRepository, *uowtest.MockBinRepository) {
	warehouseRepo := new(uowtest.MockWarehouseRepository)
	binRepo := new(uowtest.MockBinRepository)
	return NewService(warehouseRepo, binRepo, zap.NewNop()), warehouseRepo, binRepo
}

func TestCreateWarehouse(t *testing.T) {
	t.Run("creates an active warehouse", func(t *testing.T) {
		svc, warehouseRepo, _ := newTestService()
		warehouseRepo.On("FindByCode", mock.Anything, "WH-COLD-01").Return(nil, shared.ErrNotFound)
		warehouseRepo.On("Save", mock.Anything, mock.AnythingOfType("*warehouse.Warehouse")).Return(nil)

		w, err := svc.CreateWarehouse(context.Background(), CreateWarehouseCommand{
			Code:    "WH-COLD-01",
			Name:    "Cold Storage North",
			Address: "14 Dock Road",
		})

		require.NoError(t, err)
		assert.Equal(t, "WH-COLD-01", w.Code)
		assert.Equal(t, "14 Dock Road", w.Address)
		assert.True(t, w.Active)
		warehouseRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, warehouseRepo, _ := newTestService()
		existing, _ := whdomain.NewWarehouse("WH-COLD-01", "Cold Storage North")
		warehouseRepo.On("FindByCode", mock.Anything, "WH-COLD-01").Return(existing, nil)

		_, err := svc.CreateWarehouse(context.Background(), CreateWarehouseCommand{
			Code: "WH-COLD-01",
			Name: "Another Site",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		warehouseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		svc, warehouseRepo, _ := newTestService()
		warehouseRepo.On("FindByCode", mock.Anything, "WH-1").Return(nil, shared.ErrNotFound)

		_, err := svc.CreateWarehouse(context.Background(), CreateWarehouseCommand{Code: "WH-1"})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestUpdateWarehouse(t *testing.T) {
	svc, warehouseRepo, _ := newTestService()
	w, _ := whdomain.NewWarehouse("WH-1", "Old Name")
	warehouseRepo.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	warehouseRepo.On("Save", mock.Anything, w).Return(nil)

	newName := "New Name"
	updated, err := svc.UpdateWarehouse(context.Background(), w.ID, UpdateWarehouseCommand{Name: &newName})

	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestSetWarehouseActive(t *testing.T) {
	svc, warehouseRepo, _ := newTestService()
	w, _ := whdomain.NewWarehouse("WH-1", "Site")
	warehouseRepo.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	warehouseRepo.On("Save", mock.Anything, w).Return(nil)

	updated, err := svc.SetWarehouseActive(context.Background(), w.ID, false)

	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestCreateBin(t *testing.T) {
	t.Run("creates a bin in an existing warehouse", func(t *testing.T) {
		svc, warehouseRepo, binRepo := newTestService()
		w, _ := whdomain.NewWarehouse("WH-1", "Site")
		warehouseRepo.On("FindByID", mock.Anything, w.ID).Return(w, nil)
		binRepo.On("FindByCode", mock.Anything, w.ID, "A-01-01").Return(nil, shared.ErrNotFound)
		binRepo.On("Save", mock.Anything, mock.AnythingOfType("*warehouse.Bin")).Return(nil)

		b, err := svc.CreateBin(context.Background(), CreateBinCommand{
			WarehouseID: w.ID,
			Code:        "A-01-01",
			Zone:        "A",
		})

		require.NoError(t, err)
		assert.Equal(t, "A-01-01", b.Code)
		assert.Equal(t, whdomain.BinStatusEmpty, b.Status)
		assert.True(t, b.Active)
	})

	t.Run("rejects unknown warehouse", func(t *testing.T) {
		svc, warehouseRepo, binRepo := newTestService()
		warehouseID := uuid.New()
		warehouseRepo.On("FindByID", mock.Anything, warehouseID).Return(nil, shared.ErrNotFound)

		_, err := svc.CreateBin(context.Background(), CreateBinCommand{
			WarehouseID: warehouseID,
			Code:        "A-01-01",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		binRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate bin code in the same warehouse", func(t *testing.T) {
		svc, warehouseRepo, binRepo := newTestService()
		w, _ := whdomain.NewWarehouse("WH-1", "Site")
		existing, _ := whdomain.NewBin(w.ID, "A-01-01", "A")
		warehouseRepo.On("FindByID", mock.Anything, w.ID).Return(w, nil)
		binRepo.On("FindByCode", mock.Anything, w.ID, "A-01-01").Return(existing, nil)

		_, err := svc.CreateBin(context.Background(), CreateBinCommand{
			WarehouseID: w.ID,
			Code:        "A-01-01",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestSetBinActive(t *testing.T) {
	svc, _, binRepo := newTestService()
	b, _ := whdomain.NewBin(uuid.New(), "A-01-01", "A")
	binRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	binRepo.On("Save", mock.Anything, b).Return(nil)

	updated, err := svc.SetBinActive(context.Background(), b.ID, false)

	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Error(t, updated.CanReceive())
}

func TestListWarehouses(t *testing.T) {
	svc, warehouseRepo, _ := newTestService()
	w, _ := whdomain.NewWarehouse("WH-1", "Site")
	filter := shared.DefaultFilter()
	warehouseRepo.On("FindAll", mock.Anything, filter).Return([]whdomain.Warehouse{*w}, nil)
	warehouseRepo.On("Count", mock.Anything, filter).Return(int64(1), nil)

	warehouses, total, err := svc.ListWarehouses(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, warehouses, 1)
	assert.Equal(t, int64(1), total)
}

// Package uowtest provides testify mock repositories for service tests.
package uowtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// MockWarehouseRepository mocks warehouse.WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]warehouse.Warehouse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, w *warehouse.Warehouse) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWarehouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBinRepository mocks warehouse.BinRepository
type MockBinRepository struct {
	mock.Mock
}

func (m *MockBinRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Bin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Bin), args.Error(1)
}

func (m *MockBinRepository) FindByCode(ctx context.Context, warehouseID uuid.UUID, code string) (*warehouse.Bin, error) {
	args := m.Called(ctx, warehouseID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Bin), args.Error(1)
}

func (m *MockBinRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]warehouse.Bin, error) {
	args := m.Called(ctx, warehouseID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]warehouse.Bin), args.Error(1)
}

func (m *MockBinRepository) Save(ctx context.Context, b *warehouse.Bin) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBinRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBinContentRepository mocks stock.BinContentRepository
type MockBinContentRepository struct {
	mock.Mock
}

func (m *MockBinContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.BinContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.BinContent), args.Error(1)
}

func (m *MockBinContentRepository) FindByBin(ctx context.Context, binID uuid.UUID) ([]stock.BinContent, error) {
	args := m.Called(ctx, binID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.BinContent), args.Error(1)
}

func (m *MockBinContentRepository) FindByBinProductBatch(ctx context.Context, binID, productID uuid.UUID, batchNumber string) (*stock.BinContent, error) {
	args := m.Called(ctx, binID, productID, batchNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.BinContent), args.Error(1)
}

func (m *MockBinContentRepository) FindAllocatable(ctx context.Context, warehouseID, productID uuid.UUID) ([]stock.BinContent, error) {
	args := m.Called(ctx, warehouseID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.BinContent), args.Error(1)
}

func (m *MockBinContentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.BinContent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.BinContent), args.Error(1)
}

func (m *MockBinContentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBinContentRepository) Save(ctx context.Context, content *stock.BinContent) error {
	return m.Called(ctx, content).Error(0)
}

func (m *MockBinContentRepository) SaveWithLock(ctx context.Context, content *stock.BinContent) error {
	return m.Called(ctx, content).Error(0)
}

// MockMovementRepository mocks stock.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *stock.Movement) error {
	return m.Called(ctx, movement).Error(0)
}

func (m *MockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Movement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Movement), args.Error(1)
}

func (m *MockMovementRepository) Find(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]stock.Movement), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovementRepository) FindByBinContent(ctx context.Context, binContentID uuid.UUID) ([]stock.Movement, error) {
	args := m.Called(ctx, binContentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Movement), args.Error(1)
}

func (m *MockMovementRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

// MockReservationRepository mocks reservation.Repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]reservation.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) FindExpired(ctx context.Context, before time.Time, limit int) ([]reservation.Reservation, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Save(ctx context.Context, r *reservation.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReservationRepository) SaveWithLock(ctx context.Context, r *reservation.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

// MockTransferRepository mocks transfer.Repository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindByNumber(ctx context.Context, number string) (*transfer.Transfer, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.Transfer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.Transfer), args.Error(1)
}

func (m *MockTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransferRepository) SaveWithLock(ctx context.Context, t *transfer.Transfer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTransferRepository) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockEventPublisher mocks shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// Fixture bundles the mocks behind a NoOpScope
type Fixture struct {
	Warehouses   *MockWarehouseRepository
	Bins         *MockBinRepository
	Contents     *MockBinContentRepository
	Movements    *MockMovementRepository
	Reservations *MockReservationRepository
	Transfers    *MockTransferRepository
	Scope        *unitofwork.NoOpScope
}

// NewFixture wires fresh mocks into a no-op scope
func NewFixture() *Fixture {
	f := &Fixture{
		Warehouses:   new(MockWarehouseRepository),
		Bins:         new(MockBinRepository),
		Contents:     new(MockBinContentRepository),
		Movements:    new(MockMovementRepository),
		Reservations: new(MockReservationRepository),
		Transfers:    new(MockTransferRepository),
	}
	f.Scope = &unitofwork.NoOpScope{
		WarehouseRepo:   f.Warehouses,
		BinRepo:         f.Bins,
		ContentRepo:     f.Contents,
		MovementRepo:    f.Movements,
		ReservationRepo: f.Reservations,
		TransferRepo:    f.Transfers,
	}
	return f
}

// AssertExpectations verifies all mocks at once
func (f *Fixture) AssertExpectations(t mock.TestingT) {
	f.Warehouses.AssertExpectations(t)
	f.Bins.AssertExpectations(t)
	f.Contents.AssertExpectations(t)
	f.Movements.AssertExpectations(t)
	f.Reservations.AssertExpectations(t)
	f.Transfers.AssertExpectations(t)
}

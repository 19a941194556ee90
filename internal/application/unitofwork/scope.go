package unitofwork

import (
	"context"
	"errors"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// Scope provides transactional access to the warehouse repositories.
// When a function is executed within a scope, all repository operations
// are part of the same database transaction and commit or roll back
// atomically.
type Scope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to all repositories within one transaction.
// All repositories returned share the same underlying database transaction.
//
// Aggregate boundary notes:
//   - Contents is the quantity ledger; every stock balance change goes
//     through it, guarded by optimistic locking.
//   - Movements is append-only; records are never updated or deleted.
//   - Reservations and Transfers are separate aggregates that reference
//     bin contents by ID only.
type Repositories interface {
	Warehouses() warehouse.WarehouseRepository
	Bins() warehouse.BinRepository
	Contents() stock.BinContentRepository
	Movements() stock.MovementRepository
	Reservations() reservation.Repository
	Transfers() transfer.Repository
}

// MaxLockRetries bounds how often a scope callback is retried after an
// optimistic lock conflict before the conflict is surfaced to the caller.
const MaxLockRetries = 3

// ExecuteWithRetry re-runs the scope callback on optimistic lock conflicts.
// The callback must be safe to run again from scratch; each attempt re-reads
// its aggregates inside a fresh transaction.
func ExecuteWithRetry(ctx context.Context, scope Scope, fn func(repos Repositories) error) error {
	var err error
	for attempt := 0; attempt < MaxLockRetries; attempt++ {
		err = scope.Execute(ctx, fn)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

// NoOpScope is a scope that doesn't open real transactions. It hands the
// configured repositories straight to the callback, which is what service
// tests with mock repositories need.
type NoOpScope struct {
	WarehouseRepo   warehouse.WarehouseRepository
	BinRepo         warehouse.BinRepository
	ContentRepo     stock.BinContentRepository
	MovementRepo    stock.MovementRepository
	ReservationRepo reservation.Repository
	TransferRepo    transfer.Repository
}

// Execute runs the function without a real transaction
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// Warehouses returns the warehouse repository
func (s *NoOpScope) Warehouses() warehouse.WarehouseRepository { return s.WarehouseRepo }

// Bins returns the bin repository
func (s *NoOpScope) Bins() warehouse.BinRepository { return s.BinRepo }

// Contents returns the bin content repository
func (s *NoOpScope) Contents() stock.BinContentRepository { return s.ContentRepo }

// Movements returns the movement repository
func (s *NoOpScope) Movements() stock.MovementRepository { return s.MovementRepo }

// Reservations returns the reservation repository
func (s *NoOpScope) Reservations() reservation.Repository { return s.ReservationRepo }

// Transfers returns the transfer repository
func (s *NoOpScope) Transfers() transfer.Repository { return s.TransferRepo }

// Ensure NoOpScope implements both interfaces
var _ Scope = (*NoOpScope)(nil)
var _ Repositories = (*NoOpScope)(nil)

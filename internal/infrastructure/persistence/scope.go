package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// GormScope implements unitofwork.Scope using GORM transactions.
// Every repository handed to the callback shares one transaction, so a
// ledger update and its movement record commit or roll back together.
type GormScope struct {
	db *gorm.DB
}

// NewGormScope creates a new GormScope
func NewGormScope(db *gorm.DB) *GormScope {
	return &GormScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormScope) Execute(ctx context.Context, fn func(repos unitofwork.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

// gormRepositories provides access to all repositories within a transaction
type gormRepositories struct {
	tx *gorm.DB
}

// Warehouses returns the warehouse repository scoped to the transaction
func (r *gormRepositories) Warehouses() warehouse.WarehouseRepository {
	return NewGormWarehouseRepository(r.tx)
}

// Bins returns the bin repository scoped to the transaction
func (r *gormRepositories) Bins() warehouse.BinRepository {
	return NewGormBinRepository(r.tx)
}

// Contents returns the bin content repository scoped to the transaction
func (r *gormRepositories) Contents() stock.BinContentRepository {
	return NewGormBinContentRepository(r.tx)
}

// Movements returns the movement repository scoped to the transaction
func (r *gormRepositories) Movements() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Reservations returns the reservation repository scoped to the transaction
func (r *gormRepositories) Reservations() reservation.Repository {
	return NewGormReservationRepository(r.tx)
}

// Transfers returns the transfer repository scoped to the transaction
func (r *gormRepositories) Transfers() transfer.Repository {
	return NewGormTransferRepository(r.tx)
}

// Ensure GormScope implements Scope
var _ unitofwork.Scope = (*GormScope)(nil)

// Ensure gormRepositories implements Repositories
var _ unitofwork.Repositories = (*gormRepositories)(nil)

package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// Movement reasons recorded by transfer operations
const (
	ReasonTransferOut       = "transfer_out"
	ReasonTransferIn        = "transfer_in"
	ReasonCrossWarehouseOut = "cross_warehouse_out"
	ReasonCrossWarehouseIn  = "cross_warehouse_in"
	ReasonTransferCancelled = "transfer_cancelled"
)

// Service moves stock between bins and warehouses
type Service struct {
	scope          unitofwork.Scope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new transfer Service
func NewService(scope unitofwork.Scope, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		logger: logger,
		now:    time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the wall clock, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// WithinWarehouseCommand moves stock between two bins of one warehouse
type WithinWarehouseCommand struct {
	BinContentID uuid.UUID
	TargetBinID  uuid.UUID
	Quantity     decimal.Decimal
	OperatorID   uuid.UUID
}

// WithinWarehouseResult carries both sides of a same-warehouse move
type WithinWarehouseResult struct {
	Source *stock.BinContent
	Target *stock.BinContent
}

// TransferWithinWarehouse moves unreserved stock between two bins of the
// same warehouse in one atomic transaction, recording a transfer_out and a
// transfer_in movement. The batch number, use-by date and original receipt
// timestamp travel with the stock so FEFO ordering is unaffected.
func (s *Service) TransferWithinWarehouse(ctx context.Context, cmd WithinWarehouseCommand) (*WithinWarehouseResult, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}

	var result *WithinWarehouseResult
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		source, err := repos.Contents().FindByID(ctx, cmd.BinContentID)
		if err != nil {
			return err
		}
		if source.BinID == cmd.TargetBinID {
			return shared.ErrSameLocation
		}

		targetBin, err := repos.Bins().FindByID(ctx, cmd.TargetBinID)
		if err != nil {
			return err
		}
		if targetBin.WarehouseID != source.WarehouseID {
			return shared.ErrCrossWarehouseMismatch
		}
		if err := targetBin.CanReceive(); err != nil {
			return err
		}
		if err := checkOccupancy(ctx, repos, targetBin.ID, source.ProductID); err != nil {
			return err
		}

		sourceBefore := source.Quantity
		if err := source.Issue(cmd.Quantity); err != nil {
			return err
		}
		source.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, source); err != nil {
			return err
		}

		outMovement, err := stock.NewMovementBuilder(source, stock.MovementTypeTransferOut).
			WithQuantityChange(cmd.Quantity.Neg(), sourceBefore, source.Quantity).
			WithReason(ReasonTransferOut).
			WithCreatedBy(cmd.OperatorID).
			Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, outMovement); err != nil {
			return err
		}

		target, targetBefore, err := s.placeStock(ctx, repos, targetBin, source.ProductID, source.BatchNumber, cmd.Quantity, source.UseByDate, source.ReceivedAt)
		if err != nil {
			return err
		}

		inMovement, err := stock.NewMovementBuilder(target, stock.MovementTypeTransferIn).
			WithQuantityChange(cmd.Quantity, targetBefore, target.Quantity).
			WithReason(ReasonTransferIn).
			WithCreatedBy(cmd.OperatorID).
			Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, inMovement); err != nil {
			return err
		}

		if err := refreshBins(ctx, repos, source.BinID, targetBin); err != nil {
			return err
		}

		events = append(drainEvents(source), drainEvents(target)...)
		result = &WithinWarehouseResult{Source: source, Target: target}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return result, nil
}

// CreateCrossWarehouseCommand starts a transfer to another warehouse
type CreateCrossWarehouseCommand struct {
	BinContentID      uuid.UUID
	TargetWarehouseID uuid.UUID
	Quantity          decimal.Decimal
	Notes             string
	OperatorID        uuid.UUID
}

// CreateCrossWarehouse removes the quantity from the source bin right away
// and opens a pending transfer. The stock is in limbo until the target
// warehouse confirms receipt or the transfer is cancelled.
func (s *Service) CreateCrossWarehouse(ctx context.Context, cmd CreateCrossWarehouseCommand) (*transfer.Transfer, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}

	var created *transfer.Transfer
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		source, err := repos.Contents().FindByID(ctx, cmd.BinContentID)
		if err != nil {
			return err
		}
		targetWarehouse, err := repos.Warehouses().FindByID(ctx, cmd.TargetWarehouseID)
		if err != nil {
			return err
		}
		if !targetWarehouse.Active {
			return shared.NewDomainError("INVALID_STATE", "target warehouse is not active")
		}

		number, err := repos.Transfers().NextNumber(ctx)
		if err != nil {
			return err
		}
		t, err := transfer.NewTransfer(number, source.WarehouseID, cmd.TargetWarehouseID, source.BinID, source.ProductID, source.BatchNumber, cmd.Quantity, source.UseByDate, cmd.OperatorID)
		if err != nil {
			return err
		}
		t.Notes = cmd.Notes

		before := source.Quantity
		if err := source.Issue(cmd.Quantity); err != nil {
			return err
		}
		source.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, source); err != nil {
			return err
		}

		movement, err := stock.NewMovementBuilder(source, stock.MovementTypeCrossWarehouseOut).
			WithQuantityChange(cmd.Quantity.Neg(), before, source.Quantity).
			WithReason(ReasonCrossWarehouseOut).
			WithReference(number).
			WithCreatedBy(cmd.OperatorID).
			Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}
		if err := refreshBins(ctx, repos, source.BinID, nil); err != nil {
			return err
		}

		events = append(drainEvents(source), drainEvents(t)...)
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("cross-warehouse transfer created",
		zap.String("number", created.Number),
		zap.String("quantity", created.QuantitySent.String()),
	)
	return created, nil
}

// Dispatch moves a pending transfer in transit
func (s *Service) Dispatch(ctx context.Context, transferID uuid.UUID) (*transfer.Transfer, error) {
	var dispatched *transfer.Transfer
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		t, err := repos.Transfers().FindByID(ctx, transferID)
		if err != nil {
			return err
		}
		if err := t.Dispatch(); err != nil {
			return err
		}
		t.IncrementVersion()
		if err := repos.Transfers().SaveWithLock(ctx, t); err != nil {
			return err
		}
		events = drainEvents(t)
		dispatched = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return dispatched, nil
}

// ConfirmCommand books an in-transit transfer into a target bin
type ConfirmCommand struct {
	TransferID         uuid.UUID
	TargetBinID        uuid.UUID
	QuantityReceived   decimal.Decimal
	ConditionOnReceipt string
	OperatorID         uuid.UUID
}

// Confirm receives an in-transit transfer at the target warehouse. The
// target bin must be active, belong to the target warehouse and not hold a
// different product; the goods keep their batch number and use-by date.
func (s *Service) Confirm(ctx context.Context, cmd ConfirmCommand) (*transfer.Transfer, error) {
	var confirmed *transfer.Transfer
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		t, err := repos.Transfers().FindByID(ctx, cmd.TransferID)
		if err != nil {
			return err
		}

		targetBin, err := repos.Bins().FindByID(ctx, cmd.TargetBinID)
		if err != nil {
			return err
		}
		if targetBin.WarehouseID != t.TargetWarehouseID {
			return shared.ErrCrossWarehouseMismatch
		}
		if err := targetBin.CanReceive(); err != nil {
			return err
		}
		if err := checkOccupancy(ctx, repos, targetBin.ID, t.ProductID); err != nil {
			return err
		}

		if err := t.Confirm(cmd.TargetBinID, cmd.QuantityReceived, cmd.ConditionOnReceipt, cmd.OperatorID); err != nil {
			return err
		}

		if cmd.QuantityReceived.GreaterThan(decimal.Zero) {
			target, targetBefore, err := s.placeStock(ctx, repos, targetBin, t.ProductID, t.BatchNumber, cmd.QuantityReceived, t.UseByDate, s.now())
			if err != nil {
				return err
			}
			movement, err := stock.NewMovementBuilder(target, stock.MovementTypeCrossWarehouseIn).
				WithQuantityChange(cmd.QuantityReceived, targetBefore, target.Quantity).
				WithReason(ReasonCrossWarehouseIn).
				WithReference(t.Number).
				WithCreatedBy(cmd.OperatorID).
				Build()
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return err
			}
			events = append(events, drainEvents(target)...)
		}

		t.IncrementVersion()
		if err := repos.Transfers().SaveWithLock(ctx, t); err != nil {
			return err
		}
		if err := refreshBins(ctx, repos, targetBin.ID, nil); err != nil {
			return err
		}

		events = append(events, drainEvents(t)...)
		confirmed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return confirmed, nil
}

// Cancel aborts a pending or in-transit transfer and returns the sent
// quantity to the source bin with a reversal movement, so the movement log
// for the batch sums back to zero.
func (s *Service) Cancel(ctx context.Context, transferID, operatorID uuid.UUID) (*transfer.Transfer, error) {
	var cancelled *transfer.Transfer
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		t, err := repos.Transfers().FindByID(ctx, transferID)
		if err != nil {
			return err
		}
		if err := t.Cancel(); err != nil {
			return err
		}

		source, err := repos.Contents().FindByBinProductBatch(ctx, t.SourceBinID, t.ProductID, t.BatchNumber)
		if err != nil {
			return err
		}
		before := source.Quantity
		if err := source.AddQuantity(t.QuantitySent); err != nil {
			return err
		}
		source.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, source); err != nil {
			return err
		}

		movement, err := stock.NewMovementBuilder(source, stock.MovementTypeTransferCancelled).
			WithQuantityChange(t.QuantitySent, before, source.Quantity).
			WithReason(ReasonTransferCancelled).
			WithReference(t.Number).
			WithCreatedBy(operatorID).
			Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		t.IncrementVersion()
		if err := repos.Transfers().SaveWithLock(ctx, t); err != nil {
			return err
		}
		if err := refreshBins(ctx, repos, source.BinID, nil); err != nil {
			return err
		}

		events = append(drainEvents(source), drainEvents(t)...)
		cancelled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return cancelled, nil
}

// placeStock merges quantity into an existing record of the same product
// and batch in the bin, or creates a new one
func (s *Service) placeStock(ctx context.Context, repos unitofwork.Repositories, bin *warehouse.Bin, productID uuid.UUID, batchNumber string, quantity decimal.Decimal, useByDate, receivedAt time.Time) (*stock.BinContent, decimal.Decimal, error) {
	existing, err := repos.Contents().FindByBinProductBatch(ctx, bin.ID, productID, batchNumber)
	if err == nil {
		before := existing.Quantity
		if err := existing.AddQuantity(quantity); err != nil {
			return nil, decimal.Zero, err
		}
		existing.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, existing); err != nil {
			return nil, decimal.Zero, err
		}
		return existing, before, nil
	}
	if !isNotFound(err) {
		return nil, decimal.Zero, err
	}

	content, err := stock.NewBinContent(bin.ID, bin.WarehouseID, productID, batchNumber, quantity, useByDate, receivedAt)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := repos.Contents().Save(ctx, content); err != nil {
		return nil, decimal.Zero, err
	}
	return content, decimal.Zero, nil
}

// checkOccupancy rejects placing a product into a bin that holds another one
func checkOccupancy(ctx context.Context, repos unitofwork.Repositories, binID, productID uuid.UUID) error {
	contents, err := repos.Contents().FindByBin(ctx, binID)
	if err != nil {
		return err
	}
	for _, c := range contents {
		if c.ProductID != productID && c.Quantity.GreaterThan(decimal.Zero) {
			return shared.ErrBinOccupied
		}
	}
	return nil
}

// refreshBins re-derives the occupancy flag of the given bins
func refreshBins(ctx context.Context, repos unitofwork.Repositories, binID uuid.UUID, preloaded *warehouse.Bin) error {
	if err := refreshOne(ctx, repos, binID); err != nil {
		return err
	}
	if preloaded != nil && preloaded.ID != binID {
		return refreshOne(ctx, repos, preloaded.ID)
	}
	return nil
}

func refreshOne(ctx context.Context, repos unitofwork.Repositories, binID uuid.UUID) error {
	contents, err := repos.Contents().FindByBin(ctx, binID)
	if err != nil {
		return err
	}
	holdsStock := false
	for _, c := range contents {
		if c.Quantity.GreaterThan(decimal.Zero) {
			holdsStock = true
			break
		}
	}
	bin, err := repos.Bins().FindByID(ctx, binID)
	if err != nil {
		return err
	}
	if holdsStock && bin.IsEmpty() {
		bin.MarkOccupied()
		return repos.Bins().Save(ctx, bin)
	}
	if !holdsStock && !bin.IsEmpty() {
		bin.MarkEmpty()
		return repos.Bins().Save(ctx, bin)
	}
	return nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == shared.ErrNotFound.Code
	}
	return false
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

func drainEvents(root shared.AggregateRoot) []shared.DomainEvent {
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	return events
}

package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// FulfillmentReason is the movement reason recorded when reserved stock ships
const FulfillmentReason = "reservation_fulfillment"

// Service earmarks, fulfills and releases stock reservations. Allocation
// follows FEFO order and may cover the request only partially.
type Service struct {
	scope          unitofwork.Scope
	fefo           *stock.FefoSelector
	eventPublisher shared.EventPublisher
	defaultExpiry  time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new reservation Service
func NewService(scope unitofwork.Scope, logger *zap.Logger) *Service {
	return &Service{
		scope:  scope,
		fefo:   stock.NewFefoSelector(),
		logger: logger,
		now:    time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDefaultExpiry sets the deadline applied to reservations created
// without an explicit one. Zero keeps them open until cancelled.
func (s *Service) SetDefaultExpiry(d time.Duration) {
	s.defaultExpiry = d
}

// SetClock overrides the wall clock, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
	s.fefo = stock.NewFefoSelectorAt(now)
}

// CreateCommand requests a reservation of one product in one warehouse
type CreateCommand struct {
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
	Reference   string
	ExpiresAt   *time.Time
	OperatorID  uuid.UUID
}

// Create allocates stock in FEFO order and earmarks it. A short allocation
// yields a partial reservation; when nothing is allocatable the call fails
// with INSUFFICIENT_AVAILABLE.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*reservation.Reservation, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if cmd.ExpiresAt == nil && s.defaultExpiry > 0 {
		deadline := s.now().Add(s.defaultExpiry)
		cmd.ExpiresAt = &deadline
	}

	var created *reservation.Reservation
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		candidates, err := repos.Contents().FindAllocatable(ctx, cmd.WarehouseID, cmd.ProductID)
		if err != nil {
			return err
		}
		plan, err := s.fefo.Allocate(candidates, cmd.Quantity)
		if err != nil {
			return err
		}

		res, err := reservation.NewReservation(cmd.WarehouseID, cmd.ProductID, cmd.Quantity, cmd.Reference, cmd.ExpiresAt, cmd.OperatorID)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*stock.BinContent, len(candidates))
		for i := range candidates {
			byID[candidates[i].ID] = &candidates[i]
		}
		for _, line := range plan.Lines {
			content := byID[line.BinContentID]
			if err := content.Reserve(line.Quantity); err != nil {
				return err
			}
			content.IncrementVersion()
			if err := repos.Contents().SaveWithLock(ctx, content); err != nil {
				return err
			}
			res.AddLine(content.ID, content.BinID, content.BatchNumber, line.Quantity, content.UseByDate)
		}

		res.AddDomainEvent(reservation.NewReservationCreatedEvent(res))
		if err := repos.Reservations().Save(ctx, res); err != nil {
			return err
		}

		events = drainEvents(res)
		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("reservation created",
		zap.String("reservation_id", created.ID.String()),
		zap.String("requested", created.RequestedQuantity.String()),
		zap.String("allocated", created.AllocatedQuantity.String()),
		zap.Bool("partial", created.Partial),
	)
	return created, nil
}

// Fulfill ships the reserved stock: each line consumes both the on-hand and
// the reserved quantity of its content and appends a fulfillment movement.
func (s *Service) Fulfill(ctx context.Context, reservationID, operatorID uuid.UUID) (*reservation.Reservation, error) {
	var fulfilled *reservation.Reservation
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		res, err := repos.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := res.Fulfill(); err != nil {
			return err
		}

		for _, line := range res.Lines {
			content, err := repos.Contents().FindByID(ctx, line.BinContentID)
			if err != nil {
				return err
			}
			before := content.Quantity
			if err := content.ConsumeReserved(line.Quantity); err != nil {
				return err
			}
			content.IncrementVersion()
			if err := repos.Contents().SaveWithLock(ctx, content); err != nil {
				return err
			}

			movement, err := stock.NewMovementBuilder(content, stock.MovementTypeReservationFulfillment).
				WithQuantityChange(line.Quantity.Neg(), before, content.Quantity).
				WithReason(FulfillmentReason).
				WithReference(res.Reference).
				WithCreatedBy(operatorID).
				Build()
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, movement); err != nil {
				return err
			}
		}

		res.IncrementVersion()
		if err := repos.Reservations().SaveWithLock(ctx, res); err != nil {
			return err
		}

		events = drainEvents(res)
		fulfilled = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return fulfilled, nil
}

// Cancel releases an active reservation, returning every earmarked slice
// to the available pool
func (s *Service) Cancel(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error) {
	var cancelled *reservation.Reservation
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		res, err := repos.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := res.Cancel(); err != nil {
			return err
		}
		if err := s.releaseLines(ctx, repos, res); err != nil {
			return err
		}

		res.IncrementVersion()
		if err := repos.Reservations().SaveWithLock(ctx, res); err != nil {
			return err
		}

		events = drainEvents(res)
		cancelled = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return cancelled, nil
}

// releaseLines hands each line's reserved quantity back to its content.
// Scrapped contents already discarded their reservations and are skipped.
func (s *Service) releaseLines(ctx context.Context, repos unitofwork.Repositories, res *reservation.Reservation) error {
	for _, line := range res.Lines {
		content, err := repos.Contents().FindByID(ctx, line.BinContentID)
		if err != nil {
			return err
		}
		if content.Status == stock.ContentStatusScrapped {
			continue
		}
		if err := content.ReleaseReserved(line.Quantity); err != nil {
			return err
		}
		content.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, content); err != nil {
			return err
		}
	}
	return nil
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

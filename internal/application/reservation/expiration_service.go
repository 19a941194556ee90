package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// sweepBatchSize bounds how many expired reservations one sweep picks up
const sweepBatchSize = 200

// SweepStats summarizes one expiry sweep run
type SweepStats struct {
	TotalExpired int       `json:"total_expired"`
	Released     int       `json:"released"`
	Failed       int       `json:"failed"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// ExpirationService releases reservations whose deadline has passed
type ExpirationService struct {
	scope          unitofwork.Scope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewExpirationService creates a new ExpirationService
func NewExpirationService(scope unitofwork.Scope, logger *zap.Logger) *ExpirationService {
	return &ExpirationService{
		scope:  scope,
		logger: logger,
		now:    time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *ExpirationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the wall clock, for tests
func (s *ExpirationService) SetClock(now func() time.Time) {
	s.now = now
}

// Sweep finds overdue reservations and releases them one by one. A failing
// reservation is logged and skipped so the rest of the batch still runs.
func (s *ExpirationService) Sweep(ctx context.Context) (*SweepStats, error) {
	stats := &SweepStats{ProcessedAt: s.now()}

	var expired []reservation.Reservation
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		expired, err = repos.Reservations().FindExpired(ctx, s.now(), sweepBatchSize)
		return err
	})
	if err != nil {
		s.logger.Error("failed to find expired reservations", zap.Error(err))
		return nil, err
	}

	stats.TotalExpired = len(expired)
	if stats.TotalExpired == 0 {
		return stats, nil
	}
	s.logger.Info("found expired reservations", zap.Int("count", stats.TotalExpired))

	for i := range expired {
		if err := s.expireOne(ctx, expired[i].ID); err != nil {
			s.logger.Error("failed to release expired reservation",
				zap.String("reservation_id", expired[i].ID.String()),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		stats.Released++
	}

	s.logger.Info("completed reservation expiry sweep",
		zap.Int("total", stats.TotalExpired),
		zap.Int("released", stats.Released),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (s *ExpirationService) expireOne(ctx context.Context, id uuid.UUID) error {
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		res, err := repos.Reservations().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !res.IsActive() {
			// Another worker got here first.
			return nil
		}
		if err := res.Expire(); err != nil {
			return err
		}

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

		res.IncrementVersion()
		if err := repos.Reservations().SaveWithLock(ctx, res); err != nil {
			return err
		}
		events = drainEvents(res)
		return nil
	})
	if err != nil {
		return err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish domain events", zap.Error(err))
		}
	}
	return nil
}

// Start runs the sweep on a fixed interval until the context is cancelled
func (s *ExpirationService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					s.logger.Error("reservation expiry sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

package reservation

import (
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Event types emitted by the reservation domain
const (
	EventTypeReservationCreated   = "reservation.created"
	EventTypeReservationFulfilled = "reservation.fulfilled"
	EventTypeReservationReleased  = "reservation.released"
)

const aggregateTypeReservation = "Reservation"

// ReservationCreatedEvent is emitted when stock has been earmarked
type ReservationCreatedEvent struct {
	shared.BaseDomainEvent
	WarehouseID       string          `json:"warehouse_id"`
	ProductID         string          `json:"product_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
	Partial           bool            `json:"partial"`
}

// NewReservationCreatedEvent creates a reservation created event
func NewReservationCreatedEvent(r *Reservation) *ReservationCreatedEvent {
	return &ReservationCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeReservationCreated, aggregateTypeReservation, r.ID),
		WarehouseID:       r.WarehouseID.String(),
		ProductID:         r.ProductID.String(),
		RequestedQuantity: r.RequestedQuantity,
		AllocatedQuantity: r.AllocatedQuantity,
		Partial:           r.Partial,
	}
}

// ReservationFulfilledEvent is emitted when reserved stock ships
type ReservationFulfilledEvent struct {
	shared.BaseDomainEvent
	WarehouseID       string          `json:"warehouse_id"`
	ProductID         string          `json:"product_id"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
}

// NewReservationFulfilledEvent creates a reservation fulfilled event
func NewReservationFulfilledEvent(r *Reservation) *ReservationFulfilledEvent {
	return &ReservationFulfilledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeReservationFulfilled, aggregateTypeReservation, r.ID),
		WarehouseID:       r.WarehouseID.String(),
		ProductID:         r.ProductID.String(),
		AllocatedQuantity: r.AllocatedQuantity,
	}
}

// ReservationReleasedEvent is emitted when a reservation is cancelled or
// expires and its stock returns to the available pool
type ReservationReleasedEvent struct {
	shared.BaseDomainEvent
	WarehouseID      string          `json:"warehouse_id"`
	ProductID        string          `json:"product_id"`
	ReleasedQuantity decimal.Decimal `json:"released_quantity"`
	Cause            string          `json:"cause"`
}

// NewReservationReleasedEvent creates a reservation released event
func NewReservationReleasedEvent(r *Reservation, cause string) *ReservationReleasedEvent {
	return &ReservationReleasedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeReservationReleased, aggregateTypeReservation, r.ID),
		WarehouseID:      r.WarehouseID.String(),
		ProductID:        r.ProductID.String(),
		ReleasedQuantity: r.AllocatedQuantity,
		Cause:            cause,
	}
}

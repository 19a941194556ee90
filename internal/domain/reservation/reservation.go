package reservation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Status represents the lifecycle state of a reservation
type Status string

const (
	StatusActive    Status = "active"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// IsTerminal reports whether the reservation can no longer change
func (s Status) IsTerminal() bool {
	return s != StatusActive
}

// Line pins a slice of a reservation to one bin content
type Line struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReservationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BinContentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BinID         uuid.UUID       `gorm:"type:uuid;not null"`
	BatchNumber   string          `gorm:"type:varchar(64);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	UseByDate     time.Time       `gorm:"type:date;not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the database table name
func (Line) TableName() string {
	return "reservation_lines"
}

// Reservation earmarks stock of one product in one warehouse. Allocation
// follows FEFO order; a reservation may cover only part of the requested
// quantity.
type Reservation struct {
	shared.AuditedAggregateRoot
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	RequestedQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	AllocatedQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Status            Status          `gorm:"type:varchar(16);not null;default:'active';index"`
	Partial           bool            `gorm:"not null;default:false"`
	Reference         string          `gorm:"type:varchar(64);index"`
	ExpiresAt         *time.Time      `gorm:"index"`
	FulfilledAt       *time.Time
	CancelledAt       *time.Time
	Lines             []Line `gorm:"foreignKey:ReservationID"`
}

// TableName returns the database table name
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates an active reservation shell, before allocation
func NewReservation(warehouseID, productID uuid.UUID, requested decimal.Decimal, reference string, expiresAt *time.Time, createdBy uuid.UUID) (*Reservation, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	return &Reservation{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		WarehouseID:          warehouseID,
		ProductID:            productID,
		RequestedQuantity:    requested,
		AllocatedQuantity:    decimal.Zero,
		Status:               StatusActive,
		Reference:            reference,
		ExpiresAt:            expiresAt,
	}, nil
}

// AddLine records an allocated slice against a bin content
func (r *Reservation) AddLine(binContentID, binID uuid.UUID, batchNumber string, quantity decimal.Decimal, useByDate time.Time) {
	r.Lines = append(r.Lines, Line{
		ID:            uuid.New(),
		ReservationID: r.ID,
		BinContentID:  binContentID,
		BinID:         binID,
		BatchNumber:   batchNumber,
		Quantity:      quantity,
		UseByDate:     useByDate,
		CreatedAt:     time.Now(),
	})
	r.AllocatedQuantity = r.AllocatedQuantity.Add(quantity)
	r.Partial = r.AllocatedQuantity.LessThan(r.RequestedQuantity)
}

// IsActive reports whether the reservation still holds stock
func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// IsExpired reports whether the expiry deadline has passed
func (r *Reservation) IsExpired(asOf time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(asOf)
}

// Fulfill marks the reservation consumed
func (r *Reservation) Fulfill() error {
	if r.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	now := time.Now()
	r.Status = StatusFulfilled
	r.FulfilledAt = &now
	r.UpdatedAt = now
	r.AddDomainEvent(NewReservationFulfilledEvent(r))
	return nil
}

// Cancel releases the reservation before fulfillment
func (r *Reservation) Cancel() error {
	if r.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	now := time.Now()
	r.Status = StatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.AddDomainEvent(NewReservationReleasedEvent(r, string(StatusCancelled)))
	return nil
}

// Expire releases the reservation after its deadline passed
func (r *Reservation) Expire() error {
	if r.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	now := time.Now()
	r.Status = StatusExpired
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.AddDomainEvent(NewReservationReleasedEvent(r, string(StatusExpired)))
	return nil
}

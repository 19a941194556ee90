package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Status represents the state of a cross-warehouse transfer
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether the transfer can no longer change
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// Transfer is a cross-warehouse stock move. The source quantity leaves the
// ledger when the transfer is created and re-enters at the target on
// confirmation, or back at the source on cancellation.
type Transfer struct {
	shared.AuditedAggregateRoot
	Number             string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	SourceWarehouseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	TargetWarehouseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceBinID        uuid.UUID       `gorm:"type:uuid;not null"`
	TargetBinID        *uuid.UUID      `gorm:"type:uuid"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber        string          `gorm:"type:varchar(64);not null"`
	QuantitySent       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	QuantityReceived   *decimal.Decimal `gorm:"type:decimal(20,4)"`
	UseByDate          time.Time       `gorm:"type:date;not null"`
	Status             Status          `gorm:"type:varchar(16);not null;default:'pending';index"`
	ConditionOnReceipt string          `gorm:"type:varchar(64)"`
	Notes              string          `gorm:"type:text"`
	DispatchedAt       *time.Time
	ReceivedAt         *time.Time
	CancelledAt        *time.Time
	ReceivedBy         *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the database table name
func (Transfer) TableName() string {
	return "warehouse_transfers"
}

// NewTransfer creates a pending cross-warehouse transfer
func NewTransfer(number string, sourceWarehouseID, targetWarehouseID, sourceBinID, productID uuid.UUID, batchNumber string, quantity decimal.Decimal, useByDate time.Time, createdBy uuid.UUID) (*Transfer, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if sourceWarehouseID == targetWarehouseID {
		return nil, shared.ErrSameLocation
	}
	t := &Transfer{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Number:               number,
		SourceWarehouseID:    sourceWarehouseID,
		TargetWarehouseID:    targetWarehouseID,
		SourceBinID:          sourceBinID,
		ProductID:            productID,
		BatchNumber:          batchNumber,
		QuantitySent:         quantity,
		UseByDate:            useByDate,
		Status:               StatusPending,
	}
	t.AddDomainEvent(NewTransferCreatedEvent(t))
	return t, nil
}

// Dispatch moves a pending transfer onto the truck
func (t *Transfer) Dispatch() error {
	if t.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	if t.Status != StatusPending {
		return shared.ErrInvalidState
	}
	now := time.Now()
	t.Status = StatusInTransit
	t.DispatchedAt = &now
	t.UpdatedAt = now
	t.AddDomainEvent(NewTransferDispatchedEvent(t))
	return nil
}

// Confirm books the goods into the target bin. Only in-transit transfers
// can be confirmed; the received quantity may differ from the sent one when
// goods are damaged or lost on the way.
func (t *Transfer) Confirm(targetBinID uuid.UUID, quantityReceived decimal.Decimal, condition string, receivedBy uuid.UUID) error {
	if t.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	if t.Status != StatusInTransit {
		return shared.ErrInvalidState
	}
	if quantityReceived.IsNegative() || quantityReceived.GreaterThan(t.QuantitySent) {
		return shared.ErrInvalidQuantity
	}
	now := time.Now()
	t.Status = StatusReceived
	t.TargetBinID = &targetBinID
	t.QuantityReceived = &quantityReceived
	t.ConditionOnReceipt = condition
	t.ReceivedAt = &now
	t.ReceivedBy = &receivedBy
	t.UpdatedAt = now
	t.AddDomainEvent(NewTransferReceivedEvent(t))
	return nil
}

// Cancel aborts the transfer and signals the caller to return the sent
// quantity to the source bin
func (t *Transfer) Cancel() error {
	if t.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	now := time.Now()
	t.Status = StatusCancelled
	t.CancelledAt = &now
	t.UpdatedAt = now
	t.AddDomainEvent(NewTransferCancelledEvent(t))
	return nil
}

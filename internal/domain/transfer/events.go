package transfer

import (
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Event types emitted by the transfer domain
const (
	EventTypeTransferCreated    = "transfer.created"
	EventTypeTransferDispatched = "transfer.dispatched"
	EventTypeTransferReceived   = "transfer.received"
	EventTypeTransferCancelled  = "transfer.cancelled"
)

const aggregateTypeTransfer = "Transfer"

// TransferCreatedEvent is emitted when stock leaves the source warehouse
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	Number            string          `json:"number"`
	SourceWarehouseID string          `json:"source_warehouse_id"`
	TargetWarehouseID string          `json:"target_warehouse_id"`
	ProductID         string          `json:"product_id"`
	QuantitySent      decimal.Decimal `json:"quantity_sent"`
}

// NewTransferCreatedEvent creates a transfer created event
func NewTransferCreatedEvent(t *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransferCreated, aggregateTypeTransfer, t.ID),
		Number:            t.Number,
		SourceWarehouseID: t.SourceWarehouseID.String(),
		TargetWarehouseID: t.TargetWarehouseID.String(),
		ProductID:         t.ProductID.String(),
		QuantitySent:      t.QuantitySent,
	}
}

// TransferDispatchedEvent is emitted when the goods go in transit
type TransferDispatchedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewTransferDispatchedEvent creates a transfer dispatched event
func NewTransferDispatchedEvent(t *Transfer) *TransferDispatchedEvent {
	return &TransferDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferDispatched, aggregateTypeTransfer, t.ID),
		Number:          t.Number,
	}
}

// TransferReceivedEvent is emitted when the target warehouse books the goods
type TransferReceivedEvent struct {
	shared.BaseDomainEvent
	Number           string          `json:"number"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	Condition        string          `json:"condition"`
}

// NewTransferReceivedEvent creates a transfer received event
func NewTransferReceivedEvent(t *Transfer) *TransferReceivedEvent {
	received := decimal.Zero
	if t.QuantityReceived != nil {
		received = *t.QuantityReceived
	}
	return &TransferReceivedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTransferReceived, aggregateTypeTransfer, t.ID),
		Number:           t.Number,
		QuantityReceived: received,
		Condition:        t.ConditionOnReceipt,
	}
}

// TransferCancelledEvent is emitted when a transfer is aborted
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	Number           string          `json:"number"`
	QuantityReturned decimal.Decimal `json:"quantity_returned"`
}

// NewTransferCancelledEvent creates a transfer cancelled event
func NewTransferCancelledEvent(t *Transfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTransferCancelled, aggregateTypeTransfer, t.ID),
		Number:           t.Number,
		QuantityReturned: t.QuantitySent,
	}
}

package stock

import (
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Event types emitted by the stock domain
const (
	EventTypeStockReceived = "stock.received"
	EventTypeStockIssued   = "stock.issued"
	EventTypeStockAdjusted = "stock.adjusted"
	EventTypeStockScrapped = "stock.scrapped"
)

const aggregateTypeBinContent = "BinContent"

// StockReceivedEvent is emitted when stock is placed into a bin
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	BinID       string          `json:"bin_id"`
	ProductID   string          `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

// NewStockReceivedEvent creates a stock received event
func NewStockReceivedEvent(content *BinContent, quantity decimal.Decimal) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, aggregateTypeBinContent, content.ID),
		BinID:           content.BinID.String(),
		ProductID:       content.ProductID.String(),
		BatchNumber:     content.BatchNumber,
		Quantity:        quantity,
		NewBalance:      content.Quantity,
	}
}

// StockIssuedEvent is emitted when stock leaves a bin
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	BinID       string          `json:"bin_id"`
	ProductID   string          `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

// NewStockIssuedEvent creates a stock issued event
func NewStockIssuedEvent(content *BinContent, quantity decimal.Decimal) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIssued, aggregateTypeBinContent, content.ID),
		BinID:           content.BinID.String(),
		ProductID:       content.ProductID.String(),
		BatchNumber:     content.BatchNumber,
		Quantity:        quantity,
		NewBalance:      content.Quantity,
	}
}

// StockAdjustedEvent is emitted when a physical count corrects the balance
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	BinID       string          `json:"bin_id"`
	ProductID   string          `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Delta       decimal.Decimal `json:"delta"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

// NewStockAdjustedEvent creates a stock adjusted event
func NewStockAdjustedEvent(content *BinContent, delta decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, aggregateTypeBinContent, content.ID),
		BinID:           content.BinID.String(),
		ProductID:       content.ProductID.String(),
		BatchNumber:     content.BatchNumber,
		Delta:           delta,
		NewBalance:      content.Quantity,
	}
}

// StockScrappedEvent is emitted when a batch is written off
type StockScrappedEvent struct {
	shared.BaseDomainEvent
	BinID            string          `json:"bin_id"`
	ProductID        string          `json:"product_id"`
	BatchNumber      string          `json:"batch_number"`
	ScrappedQuantity decimal.Decimal `json:"scrapped_quantity"`
}

// NewStockScrappedEvent creates a stock scrapped event
func NewStockScrappedEvent(content *BinContent, scrapped decimal.Decimal) *StockScrappedEvent {
	return &StockScrappedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockScrapped, aggregateTypeBinContent, content.ID),
		BinID:            content.BinID.String(),
		ProductID:        content.ProductID.String(),
		BatchNumber:      content.BatchNumber,
		ScrappedQuantity: scrapped,
	}
}

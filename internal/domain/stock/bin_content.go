package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// ContentStatus represents the lifecycle state of a batch record
type ContentStatus string

// DefaultUnit is the unit of measure assumed when a receipt names none
const DefaultUnit = "pcs"

const (
	ContentStatusAvailable ContentStatus = "available"
	ContentStatusDepleted  ContentStatus = "depleted"
	ContentStatusScrapped  ContentStatus = "scrapped"
)

// IsTerminal reports whether no further stock operations are allowed
func (s ContentStatus) IsTerminal() bool {
	return s == ContentStatusScrapped
}

// BinContent is the quantity ledger aggregate: one batch of one product
// stored in one bin. Reserved quantity never exceeds quantity on hand.
type BinContent struct {
	shared.BaseAggregateRoot
	BinID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_contents_bin_product_batch,unique"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_contents_bin_product_batch,unique"`
	BatchNumber      string          `gorm:"type:varchar(64);not null;index:idx_contents_bin_product_batch,unique"`
	Unit             string          `gorm:"type:varchar(16);not null;default:'pcs'"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	UseByDate        time.Time       `gorm:"type:date;not null;index"`
	ReceivedAt       time.Time       `gorm:"not null"`
	Status           ContentStatus   `gorm:"type:varchar(16);not null;default:'available'"`
}

// TableName returns the database table name
func (BinContent) TableName() string {
	return "bin_contents"
}

// NewBinContent creates a new batch record for a receipt
func NewBinContent(binID, warehouseID, productID uuid.UUID, batchNumber string, quantity decimal.Decimal, useByDate, receivedAt time.Time) (*BinContent, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "batch number is required")
	}
	content := &BinContent{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BinID:             binID,
		WarehouseID:       warehouseID,
		ProductID:         productID,
		BatchNumber:       batchNumber,
		Unit:              DefaultUnit,
		Quantity:          quantity,
		ReservedQuantity:  decimal.Zero,
		UseByDate:         truncateToDate(useByDate),
		ReceivedAt:        receivedAt,
		Status:            ContentStatusAvailable,
	}
	content.AddDomainEvent(NewStockReceivedEvent(content, quantity))
	return content, nil
}

// AvailableQuantity returns quantity on hand minus reserved
func (c *BinContent) AvailableQuantity() decimal.Decimal {
	return c.Quantity.Sub(c.ReservedQuantity)
}

// SameUseBy reports whether the given date names this record's use-by day
func (c *BinContent) SameUseBy(t time.Time) bool {
	return c.UseByDate.Equal(truncateToDate(t))
}

// IsExpired reports whether the use-by date is before the given day
func (c *BinContent) IsExpired(asOf time.Time) bool {
	return c.UseByDate.Before(truncateToDate(asOf))
}

// DaysUntilUseBy returns whole days between asOf and the use-by date.
// Negative when the use-by date has passed.
func (c *BinContent) DaysUntilUseBy(asOf time.Time) int {
	return int(c.UseByDate.Sub(truncateToDate(asOf)).Hours() / 24)
}

// IsAllocatable reports whether this record can satisfy new demand
func (c *BinContent) IsAllocatable(asOf time.Time) bool {
	return c.Status == ContentStatusAvailable &&
		c.AvailableQuantity().GreaterThan(decimal.Zero) &&
		!c.IsExpired(asOf)
}

// AddQuantity merges a receipt of the same batch into this record
func (c *BinContent) AddQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if c.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	c.Quantity = c.Quantity.Add(quantity)
	c.Status = ContentStatusAvailable
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewStockReceivedEvent(c, quantity))
	return nil
}

// Issue removes quantity from unreserved stock
func (c *BinContent) Issue(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if c.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	if c.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientAvailable
	}
	c.Quantity = c.Quantity.Sub(quantity)
	c.refreshDepletion()
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewStockIssuedEvent(c, quantity))
	return nil
}

// AdjustTo sets the absolute quantity after a physical count
func (c *BinContent) AdjustTo(newQuantity decimal.Decimal) (decimal.Decimal, error) {
	if newQuantity.IsNegative() {
		return decimal.Zero, shared.ErrInvalidQuantity
	}
	if c.Status.IsTerminal() {
		return decimal.Zero, shared.ErrAlreadyTerminal
	}
	if newQuantity.LessThan(c.ReservedQuantity) {
		return decimal.Zero, shared.ErrReservedQuantityViolation
	}
	delta := newQuantity.Sub(c.Quantity)
	c.Quantity = newQuantity
	c.refreshDepletion()
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewStockAdjustedEvent(c, delta))
	return delta, nil
}

// Scrap zeroes the record and marks it terminal. Reservations on the
// record are discarded with it; callers surface those to operators.
func (c *BinContent) Scrap() (decimal.Decimal, error) {
	if c.Status.IsTerminal() {
		return decimal.Zero, shared.ErrAlreadyTerminal
	}
	scrapped := c.Quantity
	c.Quantity = decimal.Zero
	c.ReservedQuantity = decimal.Zero
	c.Status = ContentStatusScrapped
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewStockScrappedEvent(c, scrapped))
	return scrapped, nil
}

// Reserve earmarks quantity for a reservation
func (c *BinContent) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if c.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	if c.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientAvailable
	}
	c.ReservedQuantity = c.ReservedQuantity.Add(quantity)
	c.UpdatedAt = time.Now()
	return nil
}

// ReleaseReserved returns earmarked quantity to available stock
func (c *BinContent) ReleaseReserved(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if c.ReservedQuantity.LessThan(quantity) {
		return shared.ErrReservedQuantityViolation
	}
	c.ReservedQuantity = c.ReservedQuantity.Sub(quantity)
	c.UpdatedAt = time.Now()
	return nil
}

// ConsumeReserved removes earmarked quantity from stock on fulfillment
func (c *BinContent) ConsumeReserved(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.ErrInvalidQuantity
	}
	if c.Status.IsTerminal() {
		return shared.ErrAlreadyTerminal
	}
	if c.ReservedQuantity.LessThan(quantity) {
		return shared.ErrReservedQuantityViolation
	}
	c.ReservedQuantity = c.ReservedQuantity.Sub(quantity)
	c.Quantity = c.Quantity.Sub(quantity)
	c.refreshDepletion()
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewStockIssuedEvent(c, quantity))
	return nil
}

func (c *BinContent) refreshDepletion() {
	if c.Quantity.IsZero() && c.Status == ContentStatusAvailable {
		c.Status = ContentStatusDepleted
	} else if c.Quantity.GreaterThan(decimal.Zero) && c.Status == ContentStatusDepleted {
		c.Status = ContentStatusAvailable
	}
}

// truncateToDate drops the time-of-day portion in the local zone
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package warehouse

import (
	"strings"

	"github.com/google/uuid"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// BinStatus represents the occupancy state of a bin
type BinStatus string

const (
	BinStatusEmpty    BinStatus = "empty"
	BinStatusOccupied BinStatus = "occupied"
)

// Bin represents a single storage location inside a warehouse.
// A bin holds at most one product at a time, possibly split across
// several batch records.
type Bin struct {
	shared.BaseAggregateRoot
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index:idx_bins_warehouse_code,unique"`
	Code        string    `gorm:"type:varchar(32);not null;index:idx_bins_warehouse_code,unique"`
	Zone        string    `gorm:"type:varchar(32);index"`
	Status      BinStatus `gorm:"type:varchar(16);not null;default:'empty'"`
	Active      bool      `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Bin) TableName() string {
	return "bins"
}

// NewBin creates a new empty, active bin
func NewBin(warehouseID uuid.UUID, code, zone string) (*Bin, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "bin code is required")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "warehouse ID is required")
	}
	return &Bin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		Code:              code,
		Zone:              zone,
		Status:            BinStatusEmpty,
		Active:            true,
	}, nil
}

// IsEmpty reports whether the bin currently holds no stock
func (b *Bin) IsEmpty() bool {
	return b.Status == BinStatusEmpty
}

// MarkOccupied flags the bin as holding stock
func (b *Bin) MarkOccupied() {
	b.Status = BinStatusOccupied
}

// MarkEmpty flags the bin as holding no stock
func (b *Bin) MarkEmpty() {
	b.Status = BinStatusEmpty
}

// Deactivate blocks the bin from receiving new stock
func (b *Bin) Deactivate() {
	b.Active = false
}

// Activate re-enables the bin for receipts
func (b *Bin) Activate() {
	b.Active = true
}

// CanReceive reports whether stock of the given product may be placed here.
// An inactive bin rejects all receipts; an occupied bin only accepts more of
// the product it already holds, which the caller verifies against contents.
func (b *Bin) CanReceive() error {
	if !b.Active {
		return shared.ErrBinInactive
	}
	return nil
}

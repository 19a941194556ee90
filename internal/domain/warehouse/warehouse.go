package warehouse

import (
	"strings"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// Warehouse represents a physical storage site
type Warehouse struct {
	shared.BaseAggregateRoot
	Code    string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name    string `gorm:"type:varchar(128);not null"`
	Address string `gorm:"type:varchar(256)"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new active warehouse
func NewWarehouse(code, name string) (*Warehouse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "warehouse code is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "warehouse name is required")
	}
	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Active:            true,
	}, nil
}

// Deactivate marks the warehouse inactive, blocking new receipts
func (w *Warehouse) Deactivate() {
	w.Active = false
}

// Activate marks the warehouse active
func (w *Warehouse) Activate() {
	w.Active = true
}

package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
)

// MovementType classifies an entry in the movement log
type MovementType string

const (
	MovementTypeReceipt                MovementType = "receipt"
	MovementTypeIssue                  MovementType = "issue"
	MovementTypeAdjustment             MovementType = "adjustment"
	MovementTypeScrap                  MovementType = "scrap"
	MovementTypeTransferOut            MovementType = "transfer_out"
	MovementTypeTransferIn             MovementType = "transfer_in"
	MovementTypeCrossWarehouseOut      MovementType = "cross_warehouse_out"
	MovementTypeCrossWarehouseIn       MovementType = "cross_warehouse_in"
	MovementTypeTransferCancelled      MovementType = "transfer_cancelled"
	MovementTypeReservationFulfillment MovementType = "reservation_fulfillment"
)

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt, MovementTypeIssue, MovementTypeAdjustment,
		MovementTypeScrap, MovementTypeTransferOut, MovementTypeTransferIn,
		MovementTypeCrossWarehouseOut, MovementTypeCrossWarehouseIn,
		MovementTypeTransferCancelled, MovementTypeReservationFulfillment:
		return true
	}
	return false
}

// String returns the string representation
func (t MovementType) String() string {
	return string(t)
}

// Movement is an append-only, immutable record of one quantity change on a
// bin content. Quantity is signed; QuantityBefore and QuantityAfter snapshot
// the content balance around the change so the log can be replayed.
type Movement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BinContentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	BinID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber   string          `gorm:"type:varchar(64);not null"`
	Type          MovementType    `gorm:"type:varchar(32);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Reason         string          `gorm:"type:varchar(128)"`
	ReferenceNumber string         `gorm:"type:varchar(64);index"`
	FefoCompliant   bool           `gorm:"not null;default:true"`
	ForceOverride   bool           `gorm:"not null;default:false"`
	OverrideReason  string         `gorm:"type:varchar(256)"`
	Notes           string         `gorm:"type:text"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt       time.Time      `gorm:"not null;index"`
}

// TableName returns the database table name
func (Movement) TableName() string {
	return "movements"
}

// SignedQuantity returns the quantity with its direction applied.
// Movements are stored signed already, so this is the raw value.
func (m *Movement) SignedQuantity() decimal.Decimal {
	return m.Quantity
}

// Validate checks internal consistency of the record
func (m *Movement) Validate() error {
	if !m.Type.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "unknown movement type")
	}
	if m.Quantity.IsZero() {
		return shared.ErrInvalidQuantity
	}
	if !m.QuantityBefore.Add(m.Quantity).Equal(m.QuantityAfter) {
		return shared.NewDomainError("INVALID_INPUT", "movement balance snapshots do not add up")
	}
	return nil
}

// MovementBuilder assembles a movement record step by step
type MovementBuilder struct {
	movement *Movement
}

// NewMovementBuilder starts a builder for the given content and type
func NewMovementBuilder(content *BinContent, movementType MovementType) *MovementBuilder {
	return &MovementBuilder{
		movement: &Movement{
			ID:            uuid.New(),
			BinContentID:  content.ID,
			BinID:         content.BinID,
			WarehouseID:   content.WarehouseID,
			ProductID:     content.ProductID,
			BatchNumber:   content.BatchNumber,
			Type:          movementType,
			FefoCompliant: true,
			CreatedAt:     time.Now(),
		},
	}
}

// WithQuantityChange records the signed quantity and balance snapshots
func (b *MovementBuilder) WithQuantityChange(signed, before, after decimal.Decimal) *MovementBuilder {
	b.movement.Quantity = signed
	b.movement.QuantityBefore = before
	b.movement.QuantityAfter = after
	return b
}

// WithReason sets the business reason for the change
func (b *MovementBuilder) WithReason(reason string) *MovementBuilder {
	b.movement.Reason = reason
	return b
}

// WithReference sets the external reference number
func (b *MovementBuilder) WithReference(reference string) *MovementBuilder {
	b.movement.ReferenceNumber = reference
	return b
}

// WithFefoOverride records a non-FEFO issue and its justification
func (b *MovementBuilder) WithFefoOverride(overrideReason string) *MovementBuilder {
	b.movement.FefoCompliant = false
	b.movement.ForceOverride = true
	b.movement.OverrideReason = overrideReason
	return b
}

// WithNotes attaches free-form notes
func (b *MovementBuilder) WithNotes(notes string) *MovementBuilder {
	b.movement.Notes = notes
	return b
}

// WithCreatedBy records the operator
func (b *MovementBuilder) WithCreatedBy(userID uuid.UUID) *MovementBuilder {
	b.movement.CreatedBy = &userID
	return b
}

// Build validates and returns the movement
func (b *MovementBuilder) Build() (*Movement, error) {
	if err := b.movement.Validate(); err != nil {
		return nil, err
	}
	return b.movement, nil
}

// NewReceiptMovement records stock arriving into a bin content
func NewReceiptMovement(content *BinContent, quantity, before decimal.Decimal, reason, reference string, createdBy *uuid.UUID) (*Movement, error) {
	b := NewMovementBuilder(content, MovementTypeReceipt).
		WithQuantityChange(quantity, before, before.Add(quantity)).
		WithReason(reason).
		WithReference(reference)
	if createdBy != nil {
		b.WithCreatedBy(*createdBy)
	}
	return b.Build()
}

// NewIssueMovement records stock leaving a bin content. Quantity is stored
// negative.
func NewIssueMovement(content *BinContent, quantity, before decimal.Decimal, reason, reference string, createdBy *uuid.UUID) (*Movement, error) {
	signed := quantity.Neg()
	b := NewMovementBuilder(content, MovementTypeIssue).
		WithQuantityChange(signed, before, before.Add(signed)).
		WithReason(reason).
		WithReference(reference)
	if createdBy != nil {
		b.WithCreatedBy(*createdBy)
	}
	return b.Build()
}

package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/warehouse"
)

// WarehouseResponse is the wire shape of a storage site
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newWarehouseResponse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func newWarehouseListResponse(warehouses []warehouse.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, newWarehouseResponse(&warehouses[i]))
	}
	return out
}

// BinResponse is the wire shape of a storage location
type BinResponse struct {
	ID          uuid.UUID           `json:"id"`
	WarehouseID uuid.UUID           `json:"warehouse_id"`
	Code        string              `json:"code"`
	Zone        string              `json:"zone,omitempty"`
	Status      warehouse.BinStatus `json:"status"`
	Active      bool                `json:"active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func newBinResponse(b *warehouse.Bin) BinResponse {
	return BinResponse{
		ID:          b.ID,
		WarehouseID: b.WarehouseID,
		Code:        b.Code,
		Zone:        b.Zone,
		Status:      b.Status,
		Active:      b.Active,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func newBinListResponse(bins []warehouse.Bin) []BinResponse {
	out := make([]BinResponse, 0, len(bins))
	for i := range bins {
		out = append(out, newBinResponse(&bins[i]))
	}
	return out
}

// BinContentResponse is the wire shape of one batch in one bin
type BinContentResponse struct {
	ID                uuid.UUID           `json:"id"`
	BinID             uuid.UUID           `json:"bin_id"`
	WarehouseID       uuid.UUID           `json:"warehouse_id"`
	ProductID         uuid.UUID           `json:"product_id"`
	BatchNumber       string              `json:"batch_number"`
	Unit              string              `json:"unit"`
	Quantity          decimal.Decimal     `json:"quantity"`
	ReservedQuantity  decimal.Decimal     `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal     `json:"available_quantity"`
	UseByDate         time.Time           `json:"use_by_date"`
	ReceivedAt        time.Time           `json:"received_at"`
	Status            stock.ContentStatus `json:"status"`
	Version           int                 `json:"version"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func newBinContentResponse(c *stock.BinContent) BinContentResponse {
	return BinContentResponse{
		ID:                c.ID,
		BinID:             c.BinID,
		WarehouseID:       c.WarehouseID,
		ProductID:         c.ProductID,
		BatchNumber:       c.BatchNumber,
		Unit:              c.Unit,
		Quantity:          c.Quantity,
		ReservedQuantity:  c.ReservedQuantity,
		AvailableQuantity: c.AvailableQuantity(),
		UseByDate:         c.UseByDate,
		ReceivedAt:        c.ReceivedAt,
		Status:            c.Status,
		Version:           c.Version,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func newBinContentListResponse(contents []stock.BinContent) []BinContentResponse {
	out := make([]BinContentResponse, 0, len(contents))
	for i := range contents {
		out = append(out, newBinContentResponse(&contents[i]))
	}
	return out
}

// MovementResponse is the wire shape of one movement log entry
type MovementResponse struct {
	ID              uuid.UUID          `json:"id"`
	BinContentID    uuid.UUID          `json:"bin_content_id"`
	BinID           uuid.UUID          `json:"bin_id"`
	WarehouseID     uuid.UUID          `json:"warehouse_id"`
	ProductID       uuid.UUID          `json:"product_id"`
	BatchNumber     string             `json:"batch_number"`
	Type            stock.MovementType `json:"type"`
	Quantity        decimal.Decimal    `json:"quantity"`
	QuantityBefore  decimal.Decimal    `json:"quantity_before"`
	QuantityAfter   decimal.Decimal    `json:"quantity_after"`
	Reason          string             `json:"reason,omitempty"`
	ReferenceNumber string             `json:"reference_number,omitempty"`
	FefoCompliant   bool               `json:"fefo_compliant"`
	ForceOverride   bool               `json:"force_override"`
	OverrideReason  string             `json:"override_reason,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func newMovementResponse(m *stock.Movement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		BinContentID:    m.BinContentID,
		BinID:           m.BinID,
		WarehouseID:     m.WarehouseID,
		ProductID:       m.ProductID,
		BatchNumber:     m.BatchNumber,
		Type:            m.Type,
		Quantity:        m.Quantity,
		QuantityBefore:  m.QuantityBefore,
		QuantityAfter:   m.QuantityAfter,
		Reason:          m.Reason,
		ReferenceNumber: m.ReferenceNumber,
		FefoCompliant:   m.FefoCompliant,
		ForceOverride:   m.ForceOverride,
		OverrideReason:  m.OverrideReason,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

func newMovementListResponse(movements []stock.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		out = append(out, newMovementResponse(&movements[i]))
	}
	return out
}

// LedgerResultResponse pairs the updated content with the movement recorded
type LedgerResultResponse struct {
	Content  BinContentResponse `json:"content"`
	Movement *MovementResponse  `json:"movement,omitempty"`
}

func newLedgerResultResponse(content *stock.BinContent, movement *stock.Movement) LedgerResultResponse {
	resp := LedgerResultResponse{Content: newBinContentResponse(content)}
	if movement != nil {
		m := newMovementResponse(movement)
		resp.Movement = &m
	}
	return resp
}

// ReservationLineResponse is one allocated slice of a reservation
type ReservationLineResponse struct {
	ID           uuid.UUID       `json:"id"`
	BinContentID uuid.UUID       `json:"bin_content_id"`
	BinID        uuid.UUID       `json:"bin_id"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     decimal.Decimal `json:"quantity"`
	UseByDate    time.Time       `json:"use_by_date"`
}

// ReservationResponse is the wire shape of a reservation
type ReservationResponse struct {
	ID                uuid.UUID                 `json:"id"`
	WarehouseID       uuid.UUID                 `json:"warehouse_id"`
	ProductID         uuid.UUID                 `json:"product_id"`
	RequestedQuantity decimal.Decimal           `json:"requested_quantity"`
	AllocatedQuantity decimal.Decimal           `json:"allocated_quantity"`
	Status            reservation.Status        `json:"status"`
	Partial           bool                      `json:"partial"`
	Reference         string                    `json:"reference,omitempty"`
	ExpiresAt         *time.Time                `json:"expires_at,omitempty"`
	FulfilledAt       *time.Time                `json:"fulfilled_at,omitempty"`
	CancelledAt       *time.Time                `json:"cancelled_at,omitempty"`
	Lines             []ReservationLineResponse `json:"lines"`
	CreatedBy         *uuid.UUID                `json:"created_by,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

func newReservationResponse(r *reservation.Reservation) ReservationResponse {
	lines := make([]ReservationLineResponse, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, ReservationLineResponse{
			ID:           line.ID,
			BinContentID: line.BinContentID,
			BinID:        line.BinID,
			BatchNumber:  line.BatchNumber,
			Quantity:     line.Quantity,
			UseByDate:    line.UseByDate,
		})
	}
	return ReservationResponse{
		ID:                r.ID,
		WarehouseID:       r.WarehouseID,
		ProductID:         r.ProductID,
		RequestedQuantity: r.RequestedQuantity,
		AllocatedQuantity: r.AllocatedQuantity,
		Status:            r.Status,
		Partial:           r.Partial,
		Reference:         r.Reference,
		ExpiresAt:         r.ExpiresAt,
		FulfilledAt:       r.FulfilledAt,
		CancelledAt:       r.CancelledAt,
		Lines:             lines,
		CreatedBy:         r.CreatedBy,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func newReservationListResponse(reservations []reservation.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(reservations))
	for i := range reservations {
		out = append(out, newReservationResponse(&reservations[i]))
	}
	return out
}

// TransferResponse is the wire shape of a cross-warehouse transfer
type TransferResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Number             string           `json:"number"`
	SourceWarehouseID  uuid.UUID        `json:"source_warehouse_id"`
	TargetWarehouseID  uuid.UUID        `json:"target_warehouse_id"`
	SourceBinID        uuid.UUID        `json:"source_bin_id"`
	TargetBinID        *uuid.UUID       `json:"target_bin_id,omitempty"`
	ProductID          uuid.UUID        `json:"product_id"`
	BatchNumber        string           `json:"batch_number"`
	QuantitySent       decimal.Decimal  `json:"quantity_sent"`
	QuantityReceived   *decimal.Decimal `json:"quantity_received,omitempty"`
	UseByDate          time.Time        `json:"use_by_date"`
	Status             transfer.Status  `json:"status"`
	ConditionOnReceipt string           `json:"condition_on_receipt,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	DispatchedAt       *time.Time       `json:"dispatched_at,omitempty"`
	ReceivedAt         *time.Time       `json:"received_at,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	ReceivedBy         *uuid.UUID       `json:"received_by,omitempty"`
	CreatedBy          *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func newTransferResponse(t *transfer.Transfer) TransferResponse {
	return TransferResponse{
		ID:                 t.ID,
		Number:             t.Number,
		SourceWarehouseID:  t.SourceWarehouseID,
		TargetWarehouseID:  t.TargetWarehouseID,
		SourceBinID:        t.SourceBinID,
		TargetBinID:        t.TargetBinID,
		ProductID:          t.ProductID,
		BatchNumber:        t.BatchNumber,
		QuantitySent:       t.QuantitySent,
		QuantityReceived:   t.QuantityReceived,
		UseByDate:          t.UseByDate,
		Status:             t.Status,
		ConditionOnReceipt: t.ConditionOnReceipt,
		Notes:              t.Notes,
		DispatchedAt:       t.DispatchedAt,
		ReceivedAt:         t.ReceivedAt,
		CancelledAt:        t.CancelledAt,
		ReceivedBy:         t.ReceivedBy,
		CreatedBy:          t.CreatedBy,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func newTransferListResponse(transfers []transfer.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, newTransferResponse(&transfers[i]))
	}
	return out
}

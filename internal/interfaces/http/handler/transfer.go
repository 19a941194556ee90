package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	transferapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/transfer"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/dto"
)

// TransferHandler handles bin-to-bin moves and cross-warehouse transfers
type TransferHandler struct {
	BaseHandler
	service *transferapp.Service
	repo    transfer.Repository
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(service *transferapp.Service, repo transfer.Repository) *TransferHandler {
	return &TransferHandler{
		service: service,
		repo:    repo,
	}
}

// MoveRequest is the request body for a same-warehouse bin move
type MoveRequest struct {
	BinContentID uuid.UUID       `json:"bin_content_id" binding:"required"`
	TargetBinID  uuid.UUID       `json:"target_bin_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
}

// MoveResponse carries both sides of a same-warehouse move
type MoveResponse struct {
	Source BinContentResponse `json:"source"`
	Target BinContentResponse `json:"target"`
}

// CreateTransferRequest is the request body for opening a cross-warehouse
// transfer
type CreateTransferRequest struct {
	BinContentID      uuid.UUID       `json:"bin_content_id" binding:"required"`
	TargetWarehouseID uuid.UUID       `json:"target_warehouse_id" binding:"required"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	Notes             string          `json:"notes" binding:"max=256"`
}

// ConfirmTransferRequest is the request body for receiving an in-transit
// transfer at the target warehouse
type ConfirmTransferRequest struct {
	TargetBinID        uuid.UUID       `json:"target_bin_id" binding:"required"`
	QuantityReceived   decimal.Decimal `json:"quantity_received" binding:"required"`
	ConditionOnReceipt string          `json:"condition_on_receipt" binding:"max=256"`
}

// Move transfers stock between two bins of the same warehouse atomically
func (h *TransferHandler) Move(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	result, err := h.service.TransferWithinWarehouse(c.Request.Context(), transferapp.WithinWarehouseCommand{
		BinContentID: req.BinContentID,
		TargetBinID:  req.TargetBinID,
		Quantity:     req.Quantity,
		OperatorID:   operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MoveResponse{
		Source: newBinContentResponse(result.Source),
		Target: newBinContentResponse(result.Target),
	})
}

// Create opens a cross-warehouse transfer and removes the stock from the
// source bin
func (h *TransferHandler) Create(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	t, err := h.service.CreateCrossWarehouse(c.Request.Context(), transferapp.CreateCrossWarehouseCommand{
		BinContentID:      req.BinContentID,
		TargetWarehouseID: req.TargetWarehouseID,
		Quantity:          req.Quantity,
		Notes:             req.Notes,
		OperatorID:        operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newTransferResponse(t))
}

// Get returns one transfer by ID
func (h *TransferHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	t, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newTransferResponse(t))
}

// List returns a paginated transfer list
func (h *TransferHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.ApplyDefaults()

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if raw := c.Query("source_warehouse_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid source warehouse ID format")
			return
		}
		filter.Filters["source_warehouse_id"] = id
	}
	if raw := c.Query("target_warehouse_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid target warehouse ID format")
			return
		}
		filter.Filters["target_warehouse_id"] = id
	}

	transfers, err := h.repo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.repo.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, newTransferListResponse(transfers), total, filter.Page, filter.PageSize)
}

// Dispatch marks a pending transfer as in transit
func (h *TransferHandler) Dispatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	t, err := h.service.Dispatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newTransferResponse(t))
}

// Confirm receives an in-transit transfer into a bin of the target warehouse
func (h *TransferHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	var req ConfirmTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	t, err := h.service.Confirm(c.Request.Context(), transferapp.ConfirmCommand{
		TransferID:         id,
		TargetBinID:        req.TargetBinID,
		QuantityReceived:   req.QuantityReceived,
		ConditionOnReceipt: req.ConditionOnReceipt,
		OperatorID:         operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newTransferResponse(t))
}

// Cancel aborts a transfer that has not been confirmed and returns the
// stock to the source bin
func (h *TransferHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID format")
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	t, err := h.service.Cancel(c.Request.Context(), id, operatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newTransferResponse(t))
}

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	stockapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// StockHandler handles quantity ledger endpoints: receive, issue, adjust,
// scrap and bin content queries
type StockHandler struct {
	BaseHandler
	ledger      *stockapp.LedgerService
	contentRepo stock.BinContentRepository
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledger *stockapp.LedgerService, contentRepo stock.BinContentRepository) *StockHandler {
	return &StockHandler{
		ledger:      ledger,
		contentRepo: contentRepo,
	}
}

// ReceiveRequest is the request body for booking stock into a bin
type ReceiveRequest struct {
	BinID       uuid.UUID       `json:"bin_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber string          `json:"batch_number" binding:"required,min=1,max=64"`
	Unit        string          `json:"unit" binding:"max=16"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UseByDate   time.Time       `json:"use_by_date" binding:"required"`
	Reference   string          `json:"reference" binding:"max=64"`
	Notes       string          `json:"notes"`
}

// IssueRequest is the request body for issuing stock from a bin content
type IssueRequest struct {
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Reason         string          `json:"reason" binding:"max=128"`
	Reference      string          `json:"reference" binding:"max=64"`
	ForceNonFefo   bool            `json:"force_non_fefo"`
	OverrideReason string          `json:"override_reason" binding:"max=256"`
}

// AdjustRequest is the request body for correcting a balance after a count
type AdjustRequest struct {
	NewQuantity decimal.Decimal `json:"new_quantity" binding:"required"`
	Reason      string          `json:"reason" binding:"required,min=1,max=128"`
}

// ScrapRequest is the request body for writing off a bin content
type ScrapRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=128"`
}

// Receive books stock into a bin
func (h *StockHandler) Receive(c *gin.Context) {
	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	result, err := h.ledger.ReceiveGoods(c.Request.Context(), stockapp.ReceiveGoodsCommand{
		BinID:       req.BinID,
		ProductID:   req.ProductID,
		BatchNumber: req.BatchNumber,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		UseByDate:   req.UseByDate,
		Reference:   req.Reference,
		Notes:       req.Notes,
		OperatorID:  operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newLedgerResultResponse(result.Content, result.Movement))
}

// Issue removes stock from a bin content
func (h *StockHandler) Issue(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin content ID format")
		return
	}

	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	result, err := h.ledger.IssueGoods(c.Request.Context(), stockapp.IssueGoodsCommand{
		BinContentID:   contentID,
		Quantity:       req.Quantity,
		Reason:         req.Reason,
		Reference:      req.Reference,
		ForceNonFefo:   req.ForceNonFefo,
		OverrideReason: req.OverrideReason,
		OperatorID:     operatorID,
		OperatorRole:   getOperatorRole(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newLedgerResultResponse(result.Content, result.Movement))
}

// Adjust sets the absolute quantity of a bin content after a physical count
func (h *StockHandler) Adjust(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin content ID format")
		return
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	result, err := h.ledger.AdjustStock(c.Request.Context(), stockapp.AdjustStockCommand{
		BinContentID: contentID,
		NewQuantity:  req.NewQuantity,
		Reason:       req.Reason,
		OperatorID:   operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newLedgerResultResponse(result.Content, result.Movement))
}

// Scrap writes off an entire bin content
func (h *StockHandler) Scrap(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin content ID format")
		return
	}

	var req ScrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	result, err := h.ledger.ScrapStock(c.Request.Context(), stockapp.ScrapStockCommand{
		BinContentID: contentID,
		Reason:       req.Reason,
		OperatorID:   operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newLedgerResultResponse(result.Content, result.Movement))
}

// GetContent returns one bin content by ID
func (h *StockHandler) GetContent(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin content ID format")
		return
	}

	content, err := h.contentRepo.FindByID(c.Request.Context(), contentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newBinContentResponse(content))
}

// ListBinContents returns the batch records stored in one bin
func (h *StockHandler) ListBinContents(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("binId"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}

	contents, err := h.contentRepo.FindByBin(c.Request.Context(), binID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newBinContentListResponse(contents))
}

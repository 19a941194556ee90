package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// MovementHandler answers queries against the append-only movement log
type MovementHandler struct {
	BaseHandler
	service *stockapp.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(service *stockapp.MovementService) *MovementHandler {
	return &MovementHandler{service: service}
}

// ListMovementsRequest carries movement query filters
type ListMovementsRequest struct {
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	BinID       string `form:"bin_id" binding:"omitempty,uuid"`
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
	Type        string `form:"type"`
	CreatedBy   string `form:"created_by" binding:"omitempty,uuid"`
	From        string `form:"from"`
	To          string `form:"to"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// List returns movements newest first
func (h *MovementHandler) List(c *gin.Context) {
	var req ListMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := stock.MovementFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.WarehouseID != "" {
		id := uuid.MustParse(req.WarehouseID)
		filter.WarehouseID = &id
	}
	if req.BinID != "" {
		id := uuid.MustParse(req.BinID)
		filter.BinID = &id
	}
	if req.ProductID != "" {
		id := uuid.MustParse(req.ProductID)
		filter.ProductID = &id
	}
	if req.CreatedBy != "" {
		id := uuid.MustParse(req.CreatedBy)
		filter.CreatedBy = &id
	}
	if req.Type != "" {
		mt := stock.MovementType(req.Type)
		filter.Type = &mt
	}
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			h.BadRequest(c, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			h.BadRequest(c, "Invalid 'to' timestamp, expected RFC3339")
			return
		}
		filter.To = &to
	}

	movements, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	h.SuccessWithMeta(c, newMovementListResponse(movements), total, page, pageSize)
}

// Replay recomputes a bin content's balance from its movement history and
// reports whether the ledger agrees
func (h *MovementHandler) Replay(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bin content ID format")
		return
	}

	result, err := h.service.Replay(c.Request.Context(), contentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

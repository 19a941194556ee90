package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	warehouseapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/warehouse"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/dto"
)

// WarehouseHandler handles warehouse and bin topology endpoints
type WarehouseHandler struct {
	BaseHandler
	service *warehouseapp.Service
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(service *warehouseapp.Service) *WarehouseHandler {
	return &WarehouseHandler{service: service}
}

// CreateWarehouseRequest is the request body for creating a warehouse
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=32"`
	Name    string `json:"name" binding:"required,min=1,max=128"`
	Address string `json:"address" binding:"max=256"`
}

// UpdateWarehouseRequest carries optional warehouse field updates
type UpdateWarehouseRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=128"`
	Address *string `json:"address" binding:"omitempty,max=256"`
}

// CreateBinRequest is the request body for adding a bin to a warehouse
type CreateBinRequest struct {
	Code string `json:"code" binding:"required,min=1,max=32"`
	Zone string `json:"zone" binding:"max=32"`
}

// CreateWarehouse registers a new storage site
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	w, err := h.service.CreateWarehouse(c.Request.Context(), warehouseapp.CreateWarehouseCommand{
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newWarehouseResponse(w))
}

// GetWarehouse returns one warehouse by ID
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	w, err := h.service.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newWarehouseResponse(w))
}

// ListWarehouses returns a paginated warehouse list
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
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
		Search:   listReq.Search,
		Filters:  make(map[string]interface{}),
	}
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active == "true"
	}

	warehouses, total, err := h.service.ListWarehouses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, newWarehouseListResponse(warehouses), total, filter.Page, filter.PageSize)
}

// UpdateWarehouse applies partial updates to a warehouse
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	var req UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	w, err := h.service.UpdateWarehouse(c.Request.Context(), id, warehouseapp.UpdateWarehouseCommand{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newWarehouseResponse(w))
}

// ActivateWarehouse re-enables a warehouse for receipts and transfers
func (h *WarehouseHandler) ActivateWarehouse(c *gin.Context) {
	h.setWarehouseActive(c, true)
}

// DeactivateWarehouse blocks new receipts and transfers into the warehouse
func (h *WarehouseHandler) DeactivateWarehouse(c *gin.Context) {
	h.setWarehouseActive(c, false)
}

func (h *WarehouseHandler) setWarehouseActive(c *gin.Context, active bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	w, err := h.service.SetWarehouseActive(c.Request.Context(), id, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newWarehouseResponse(w))
}

// CreateBin adds a bin to a warehouse
func (h *WarehouseHandler) CreateBin(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	var req CreateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	b, err := h.service.CreateBin(c.Request.Context(), warehouseapp.CreateBinCommand{
		WarehouseID: warehouseID,
		Code:        req.Code,
		Zone:        req.Zone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newBinResponse(b))
}

// ListBins returns the bins of one warehouse
func (h *WarehouseHandler) ListBins(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

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
		Search:   listReq.Search,
		Filters:  make(map[string]interface{}),
	}
	if zone := c.Query("zone"); zone != "" {
		filter.Filters["zone"] = zone
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	bins, total, err := h.service.ListBins(c.Request.Context(), warehouseID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, newBinListResponse(bins), total, filter.Page, filter.PageSize)
}

// GetBin returns one bin by ID
func (h *WarehouseHandler) GetBin(c *gin.Context) {
	id, err := uuid.Parse(c.Param("binId"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}

	b, err := h.service.GetBin(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newBinResponse(b))
}

// ActivateBin re-enables a bin for receipts
func (h *WarehouseHandler) ActivateBin(c *gin.Context) {
	h.setBinActive(c, true)
}

// DeactivateBin blocks new receipts into a bin. Stock already in the bin
// stays issueable.
func (h *WarehouseHandler) DeactivateBin(c *gin.Context) {
	h.setBinActive(c, false)
}

func (h *WarehouseHandler) setBinActive(c *gin.Context, active bool) {
	id, err := uuid.Parse(c.Param("binId"))
	if err != nil {
		h.BadRequest(c, "Invalid bin ID format")
		return
	}

	b, err := h.service.SetBinActive(c.Request.Context(), id, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newBinResponse(b))
}

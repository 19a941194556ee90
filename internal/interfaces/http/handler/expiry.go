package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/stock"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

// ExpiryHandler serves use-by-date warning reports
type ExpiryHandler struct {
	BaseHandler
	service *stockapp.ExpiryService
}

// NewExpiryHandler creates a new ExpiryHandler
func NewExpiryHandler(service *stockapp.ExpiryService) *ExpiryHandler {
	return &ExpiryHandler{service: service}
}

// Warnings returns batches ordered by how soon they expire, optionally
// scoped to one warehouse or a minimum urgency level
func (h *ExpiryHandler) Warnings(c *gin.Context) {
	var query stockapp.WarningQuery

	if raw := c.Query("warehouse_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid warehouse ID format")
			return
		}
		query.WarehouseID = &id
	}

	if raw := c.Query("min_level"); raw != "" {
		level := stock.UrgencyLevel(raw)
		switch level {
		case stock.UrgencyExpired, stock.UrgencyCritical, stock.UrgencyHigh,
			stock.UrgencyMedium, stock.UrgencyLow:
			query.MinLevel = &level
		default:
			h.BadRequest(c, "Invalid urgency level: "+raw)
			return
		}
	}

	report, err := h.service.Warnings(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

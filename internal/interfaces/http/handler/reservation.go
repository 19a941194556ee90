package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	reservationapp "github.com/w7-mgfcode/warehouse-management-system/internal/application/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/reservation"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/dto"
)

// ReservationHandler handles reservation endpoints
type ReservationHandler struct {
	BaseHandler
	service *reservationapp.Service
	repo    reservation.Repository
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(service *reservationapp.Service, repo reservation.Repository) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		repo:    repo,
	}
}

// CreateReservationRequest is the request body for earmarking stock
type CreateReservationRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference" binding:"max=64"`
	ExpiresAt   *time.Time      `json:"expires_at"`
}

// Create earmarks stock for a product in FEFO order
func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	r, err := h.service.Create(c.Request.Context(), reservationapp.CreateCommand{
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Reference:   req.Reference,
		ExpiresAt:   req.ExpiresAt,
		OperatorID:  operatorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newReservationResponse(r))
}

// Get returns one reservation with its lines
func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	r, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newReservationResponse(r))
}

// List returns a paginated reservation list
func (h *ReservationHandler) List(c *gin.Context) {
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
	if raw := c.Query("warehouse_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid warehouse ID format")
			return
		}
		filter.Filters["warehouse_id"] = id
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		filter.Filters["product_id"] = id
	}

	reservations, err := h.repo.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.repo.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, newReservationListResponse(reservations), total, filter.Page, filter.PageSize)
}

// Fulfill issues all reserved stock of a reservation and closes it
func (h *ReservationHandler) Fulfill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	operatorID, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator identity required")
		return
	}

	r, err := h.service.Fulfill(c.Request.Context(), id, operatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newReservationResponse(r))
}

// Cancel releases the reserved stock of an active reservation
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID format")
		return
	}

	r, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newReservationResponse(r))
}

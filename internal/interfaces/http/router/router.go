package router

import (
	"github.com/gin-gonic/gin"

	"github.com/w7-mgfcode/warehouse-management-system/internal/infrastructure/auth"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/handler"
	"github.com/w7-mgfcode/warehouse-management-system/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Warehouse   *handler.WarehouseHandler
	Stock       *handler.StockHandler
	Movement    *handler.MovementHandler
	Reservation *handler.ReservationHandler
	Transfer    *handler.TransferHandler
	Expiry      *handler.ExpiryHandler
	System      *handler.SystemHandler
}

// Register wires the full API route table onto the engine. Health probes
// stay outside the versioned group and outside authentication; everything
// under /api/v1 requires a valid token. Warehouse topology changes, stock
// corrections and cross-warehouse transfer lifecycle operations are
// restricted to managers and admins; day-to-day stock handling is open to
// pickers as well.
func Register(engine *gin.Engine, h Handlers, authMiddleware gin.HandlerFunc) {
	engine.GET("/health", h.System.Health)
	engine.GET("/healthz", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	api.Use(authMiddleware)

	api.GET("/health", h.System.Health)
	api.GET("/system/info", h.System.GetSystemInfo)

	manage := middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)
	operate := middleware.RequireRole(auth.RoleAdmin, auth.RoleManager, auth.RolePicker)

	warehouses := api.Group("/warehouses")
	{
		warehouses.POST("", manage, h.Warehouse.CreateWarehouse)
		warehouses.GET("", h.Warehouse.ListWarehouses)
		warehouses.GET("/:id", h.Warehouse.GetWarehouse)
		warehouses.PUT("/:id", manage, h.Warehouse.UpdateWarehouse)
		warehouses.POST("/:id/activate", manage, h.Warehouse.ActivateWarehouse)
		warehouses.POST("/:id/deactivate", manage, h.Warehouse.DeactivateWarehouse)

		warehouses.POST("/:id/bins", manage, h.Warehouse.CreateBin)
		warehouses.GET("/:id/bins", h.Warehouse.ListBins)
		warehouses.GET("/:id/bins/:binId", h.Warehouse.GetBin)
		warehouses.POST("/:id/bins/:binId/activate", manage, h.Warehouse.ActivateBin)
		warehouses.POST("/:id/bins/:binId/deactivate", manage, h.Warehouse.DeactivateBin)
	}

	bins := api.Group("/bins")
	{
		bins.GET("/:binId/contents", h.Stock.ListBinContents)
	}

	stock := api.Group("/stock")
	{
		stock.POST("/receive", operate, h.Stock.Receive)
		stock.GET("/:id", h.Stock.GetContent)
		stock.POST("/:id/issue", operate, h.Stock.Issue)
		stock.POST("/:id/adjust", manage, h.Stock.Adjust)
		stock.POST("/:id/scrap", manage, h.Stock.Scrap)
		stock.GET("/:id/replay", h.Movement.Replay)
	}

	api.GET("/movements", h.Movement.List)
	api.GET("/expiry/warnings", h.Expiry.Warnings)

	reservations := api.Group("/reservations")
	{
		reservations.POST("", operate, h.Reservation.Create)
		reservations.GET("", h.Reservation.List)
		reservations.GET("/:id", h.Reservation.Get)
		reservations.POST("/:id/fulfill", operate, h.Reservation.Fulfill)
		reservations.POST("/:id/cancel", operate, h.Reservation.Cancel)
	}

	transfers := api.Group("/transfers")
	{
		transfers.POST("/move", operate, h.Transfer.Move)
		transfers.POST("", manage, h.Transfer.Create)
		transfers.GET("", h.Transfer.List)
		transfers.GET("/:id", h.Transfer.Get)
		transfers.POST("/:id/dispatch", manage, h.Transfer.Dispatch)
		transfers.POST("/:id/confirm", operate, h.Transfer.Confirm)
		transfers.POST("/:id/cancel", manage, h.Transfer.Cancel)
	}
}

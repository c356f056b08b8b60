package handler

import (
	"github.com/gin-gonic/gin"
	stockapp "github.com/pos/backend/internal/application/stock"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// StockHandler handles stock queries, manual adjustments, and the movement ledger
type StockHandler struct {
	BaseHandler
	stock   *stockapp.StockService
	metrics *telemetry.BusinessMetrics
}

// NewStockHandler creates a new StockHandler. metrics may be nil.
func NewStockHandler(stock *stockapp.StockService, metrics *telemetry.BusinessMetrics) *StockHandler {
	return &StockHandler{
		stock:   stock,
		metrics: metrics,
	}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("", h.List)
		stock.GET("/availability", h.GetAvailability)
		stock.GET("/reconcile", h.Reconcile)
		stock.GET("/movements", h.ListMovements)
		stock.POST("/:id/adjust", h.Adjust)
	}
	locations := rg.Group("/locations")
	{
		locations.GET("", h.Locations)
		locations.GET("/:id/stock", h.ListByLocation)
	}
}

// List lists all stock records
func (h *StockHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	records, total, err := h.stock.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// GetAvailability returns the available quantity for a product at a location
func (h *StockHandler) GetAvailability(c *gin.Context) {
	productID, ok := h.parseUUIDQuery(c, "product_id")
	if !ok {
		return
	}
	locationID, ok := h.parseUUIDQuery(c, "location_id")
	if !ok {
		return
	}

	record, err := h.stock.GetAvailability(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Adjust applies a signed manual change to a stock record
func (h *StockHandler) Adjust(c *gin.Context) {
	recordID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req stockapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.stock.Adjust(c.Request.Context(), recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordStockAdjustment(c.Request.Context(), req.Reason)
	}
	h.Success(c, record)
}

// ListMovements lists movements, newest first. With product_id and location_id
// query parameters it narrows to one product's history at one location.
func (h *StockHandler) ListMovements(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	if c.Query("product_id") != "" || c.Query("location_id") != "" {
		productID, ok := h.parseUUIDQuery(c, "product_id")
		if !ok {
			return
		}
		locationID, ok := h.parseUUIDQuery(c, "location_id")
		if !ok {
			return
		}
		movements, err := h.stock.Movements(c.Request.Context(), productID, locationID, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, movements)
		return
	}

	movements, err := h.stock.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// Reconcile verifies a stock record's quantity against its movement history
func (h *StockHandler) Reconcile(c *gin.Context) {
	productID, ok := h.parseUUIDQuery(c, "product_id")
	if !ok {
		return
	}
	locationID, ok := h.parseUUIDQuery(c, "location_id")
	if !ok {
		return
	}

	balanced, err := h.stock.Reconcile(c.Request.Context(), productID, locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"balanced": balanced})
}

// Locations lists all stock locations
func (h *StockHandler) Locations(c *gin.Context) {
	locations, err := h.stock.Locations(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}

// ListByLocation lists stock records at one location
func (h *StockHandler) ListByLocation(c *gin.Context) {
	locationID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	records, err := h.stock.ListByLocation(c.Request.Context(), locationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

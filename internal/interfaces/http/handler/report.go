package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/pos/backend/internal/application/report"
)

// ReportHandler handles read-only reporting endpoints
type ReportHandler struct {
	BaseHandler
	reports *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/stock-on-hand", h.StockOnHand)
		reports.GET("/dead-stock", h.DeadStock)
		reports.GET("/sales-summary", h.SalesSummary)
	}
}

// parseDateQuery parses an optional date query parameter. Accepts RFC3339
// timestamps and plain dates.
func (h *ReportHandler) parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	h.BadRequest(c, name+" must be a date (2006-01-02) or RFC3339 timestamp")
	return time.Time{}, false
}

// StockOnHand reports quantities and stock value, optionally for one location
func (h *ReportHandler) StockOnHand(c *gin.Context) {
	var locationID *uuid.UUID
	if c.Query("location_id") != "" {
		id, ok := h.parseUUIDQuery(c, "location_id")
		if !ok {
			return
		}
		locationID = &id
	}

	rows, err := h.reports.StockOnHand(c.Request.Context(), locationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// DeadStock reports stocked products without recent movement
func (h *ReportHandler) DeadStock(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "days must be an integer")
			return
		}
		days = parsed
	}

	rows, err := h.reports.DeadStock(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// SalesSummary aggregates issued invoices over a period, defaulting to today
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	start, ok := h.parseDateQuery(c, "from")
	if !ok {
		return
	}
	end, ok := h.parseDateQuery(c, "to")
	if !ok {
		return
	}

	summary, err := h.reports.SalesSummary(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

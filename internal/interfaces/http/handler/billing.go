package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	billingapp "github.com/pos/backend/internal/application/billing"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/telemetry"
)

// BillingHandler handles invoice finalization and retrieval
type BillingHandler struct {
	BaseHandler
	checkout *billingapp.CheckoutService
	metrics  *telemetry.BusinessMetrics
}

// NewBillingHandler creates a new BillingHandler. metrics may be nil.
func NewBillingHandler(checkout *billingapp.CheckoutService, metrics *telemetry.BusinessMetrics) *BillingHandler {
	return &BillingHandler{
		checkout: checkout,
		metrics:  metrics,
	}
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Finalize)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.GetByID)
		invoices.GET("/number/:number", h.GetByNumber)
	}
}

// Finalize turns a cart into an issued invoice
func (h *BillingHandler) Finalize(c *gin.Context) {
	var req billingapp.FinalizeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.checkout.Finalize(c.Request.Context(), req)
	if err != nil {
		if h.metrics != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.ErrInsufficientStock.Code {
				h.metrics.RecordOversellRejected(c.Request.Context(), req.LocationID.String())
			}
		}
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		var items int64
		for _, line := range req.Items {
			items += line.Qty
		}
		h.metrics.RecordInvoiceFinalized(c.Request.Context(), req.LocationID.String(), result.Total, items)
	}
	h.Created(c, result)
}

// GetByID retrieves an invoice with its items
func (h *BillingHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.checkout.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetByNumber retrieves an invoice by its invoice number
func (h *BillingHandler) GetByNumber(c *gin.Context) {
	invoice, err := h.checkout.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List retrieves invoices, newest first, optionally bounded by date
func (h *BillingHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	invoices, total, err := h.checkout.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

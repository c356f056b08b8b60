package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CartLine is one requested invoice line. UnitPrice is the price the terminal
// displayed to the cashier; finalization verifies it against the catalog and
// rejects the sale when they differ.
type CartLine struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	Qty            int64           `json:"qty" binding:"required,gt=0"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// FinalizeInvoiceRequest is the input for invoice finalization
type FinalizeInvoiceRequest struct {
	LocationID      uuid.UUID       `json:"location_id" binding:"required"`
	Items           []CartLine      `json:"items" binding:"required"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Notes           string          `json:"notes"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
}

// FinalizeInvoiceResponse is the result of a successful finalization
type FinalizeInvoiceResponse struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
}

// InvoiceItemResponse is the API representation of an invoice line
type InvoiceItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductSKU     string          `json:"product_sku"`
	ProductName    string          `json:"product_name"`
	Qty            int64           `json:"qty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// InvoiceResponse is the API representation of an invoice
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	LocationID      uuid.UUID             `json:"location_id"`
	CustomerName    string                `json:"customer_name,omitempty"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	DiscountPercent decimal.Decimal       `json:"discount_percent"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	RoundingAdjust  decimal.Decimal       `json:"rounding_adjust"`
	Total           decimal.Decimal       `json:"total"`
	Status          billing.InvoiceStatus `json:"status"`
	Notes           string                `json:"notes,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
}

// ToInvoiceResponse converts an invoice to its API representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items = append(items, InvoiceItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductSKU:     item.ProductSKU,
			ProductName:    item.ProductName,
			Qty:            item.Qty,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			TaxAmount:      item.TaxAmount,
			LineTotal:      item.LineTotal,
		})
	}

	return InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		LocationID:      inv.LocationID,
		CustomerName:    inv.CustomerName,
		CustomerPhone:   inv.CustomerPhone,
		Subtotal:        inv.Subtotal,
		DiscountAmount:  inv.DiscountAmount,
		DiscountPercent: inv.DiscountPercent,
		TaxAmount:       inv.TaxAmount,
		RoundingAdjust:  inv.RoundingAdjust,
		Total:           inv.Total,
		Status:          inv.Status,
		Notes:           inv.Notes,
		CreatedAt:       inv.CreatedAt,
		Items:           items,
	}
}

// InvoiceListFilter narrows invoice listings
type InvoiceListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	// InvoiceStatusIssued is the state of a freshly finalized invoice
	InvoiceStatusIssued InvoiceStatus = "issued"
	// InvoiceStatusVoid marks a cancelled invoice; its number is never reused
	InvoiceStatusVoid InvoiceStatus = "void"
)

var oneHundred = decimal.NewFromInt(100)

// Invoice is the durable result of finalizing a cart. Monetary fields obey
// total == subtotal - discount_amount + tax_amount + rounding_adjust, and
// subtotal == sum of item line totals. After creation only Status may change.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber  string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	LocationID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName   string          `gorm:"type:varchar(200)"`
	CustomerPhone  string          `gorm:"type:varchar(30)"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RoundingAdjust decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status         InvoiceStatus   `gorm:"type:varchar(20);not null;default:'issued'"`
	Notes          string          `gorm:"type:text"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one line of an invoice. UnitPrice is a snapshot of the
// product's price at sale time and is immutable thereafter.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductSKU     string          `gorm:"type:varchar(50);not null"`
	ProductName    string          `gorm:"type:varchar(200);not null"`
	Qty            int64           `gorm:"not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoice creates a draft invoice for a location. The identity is
// allocated here, before any ledger write, so stock movements can reference
// the invoice inside the same transaction that creates it.
func NewInvoice(locationID uuid.UUID, customerName, customerPhone, notes string) (*Invoice, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location is required")
	}
	return &Invoice{
		BaseEntity:      shared.NewBaseEntity(),
		LocationID:      locationID,
		CustomerName:    strings.TrimSpace(customerName),
		CustomerPhone:   strings.TrimSpace(customerPhone),
		Subtotal:        decimal.Zero,
		DiscountAmount:  decimal.Zero,
		DiscountPercent: decimal.Zero,
		TaxAmount:       decimal.Zero,
		RoundingAdjust:  decimal.Zero,
		Total:           decimal.Zero,
		Status:          InvoiceStatusIssued,
		Notes:           notes,
		Items:           make([]InvoiceItem, 0),
	}, nil
}

// AddLine appends an invoice line. line_total = unit_price * qty - discount;
// line tax is computed at taxPercent on the line total and tracked separately.
func (inv *Invoice) AddLine(productID uuid.UUID, sku, name string, qty int64, unitPrice, discountAmount, taxPercent decimal.Decimal) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot be negative")
	}

	gross := unitPrice.Mul(decimal.NewFromInt(qty))
	if discountAmount.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot exceed line amount")
	}

	lineTotal := gross.Sub(discountAmount)
	taxAmount := lineTotal.Mul(taxPercent).Div(oneHundred).Round(2)

	item := InvoiceItem{
		BaseEntity:     shared.NewBaseEntity(),
		InvoiceID:      inv.ID,
		ProductID:      productID,
		ProductSKU:     sku,
		ProductName:    name,
		Qty:            qty,
		UnitPrice:      unitPrice,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		LineTotal:      lineTotal,
	}
	inv.Items = append(inv.Items, item)

	return &inv.Items[len(inv.Items)-1], nil
}

// ApplyDiscount sets the header-level discount. When percent is positive it
// takes precedence and the amount is derived from the subtotal during
// FinalizeTotals.
func (inv *Invoice) ApplyDiscount(amount, percent decimal.Decimal) error {
	if amount.IsNegative() || percent.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if percent.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent cannot exceed 100")
	}
	inv.DiscountAmount = amount
	inv.DiscountPercent = percent
	return nil
}

// FinalizeTotals computes subtotal, tax, discount, cash rounding, and total
// from the current lines. Must be called exactly once, after all lines are
// added and the header discount is set.
func (inv *Invoice) FinalizeTotals() error {
	if len(inv.Items) == 0 {
		return shared.NewDomainError("EMPTY_CART", "Invoice must have at least one line")
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range inv.Items {
		subtotal = subtotal.Add(inv.Items[i].LineTotal)
		tax = tax.Add(inv.Items[i].TaxAmount)
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = tax

	if inv.DiscountPercent.IsPositive() {
		inv.DiscountAmount = subtotal.Mul(inv.DiscountPercent).Div(oneHundred).Round(2)
	}
	if inv.DiscountAmount.GreaterThan(subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	// Cash rounding to the nearest whole currency unit; the adjustment is
	// kept explicit so the total formula stays reconcilable.
	raw := subtotal.Sub(inv.DiscountAmount).Add(tax)
	total := raw.Round(0)
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_TOTAL", "Invoice total cannot be negative")
	}
	inv.RoundingAdjust = total.Sub(raw)
	inv.Total = total

	return nil
}

// SetInvoiceNumber assigns the generated invoice number
func (inv *Invoice) SetInvoiceNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	inv.InvoiceNumber = number
	return nil
}

// SetCreatedBy records the acting user
func (inv *Invoice) SetCreatedBy(userID uuid.UUID) {
	inv.CreatedBy = &userID
}

// Void marks the invoice void. The invoice number stays consumed.
func (inv *Invoice) Void() error {
	if inv.Status == InvoiceStatusVoid {
		return shared.ErrInvalidState
	}
	inv.Status = InvoiceStatusVoid
	inv.UpdatedAt = time.Now()
	return nil
}

// ItemCount returns the number of lines
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}

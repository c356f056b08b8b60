package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
// Price and tax fields are read at the moment of sale; the finalization
// transaction treats them as the authoritative values for a cart line.
type Product struct {
	shared.BaseEntity
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MRP         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Maximum retail price, the selling price
	TaxPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

var oneHundred = decimal.NewFromInt(100)

// NewProduct creates a new product
func NewProduct(sku, name string, costPrice, mrp, taxPercent decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if costPrice.IsNegative() || mrp.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if taxPercent.IsNegative() || taxPercent.GreaterThan(oneHundred) {
		return nil, shared.NewDomainError("INVALID_TAX_PERCENT", "Tax percent must be between 0 and 100")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        strings.ToUpper(sku),
		Name:       name,
		CostPrice:  costPrice,
		MRP:        mrp,
		TaxPercent: taxPercent,
		Active:     true,
	}, nil
}

// IsSellable returns true if the product may appear on a new invoice line
func (p *Product) IsSellable() bool {
	return p.Active
}

// Deactivate disables the product for sale
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Activate enables the product for sale
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}

// SetPrices updates cost price and MRP
func (p *Product) SetPrices(costPrice, mrp decimal.Decimal) error {
	if costPrice.IsNegative() || mrp.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	p.CostPrice = costPrice
	p.MRP = mrp
	p.UpdatedAt = time.Now()
	return nil
}

// LineTax computes the tax amount for a line total at this product's rate.
func (p *Product) LineTax(lineTotal decimal.Decimal) decimal.Decimal {
	return lineTotal.Mul(p.TaxPercent).Div(oneHundred).Round(2)
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input for registering a product
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	MRP         decimal.Decimal `json:"mrp"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

// UpdatePricesRequest is the input for repricing a product
type UpdatePricesRequest struct {
	CostPrice decimal.Decimal `json:"cost_price"`
	MRP       decimal.Decimal `json:"mrp"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	MRP         decimal.Decimal `json:"mrp"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		CostPrice:   p.CostPrice,
		MRP:         p.MRP,
		TaxPercent:  p.TaxPercent,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToCategoryResponse converts a category to its API representation
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockOnHandRow is one line of the stock-on-hand report
type StockOnHandRow struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductSKU   string          `json:"product_sku"`
	ProductName  string          `json:"product_name"`
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	Quantity     int64           `json:"quantity"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// DeadStockRow is one line of the dead-stock report: stocked products with no
// movement since the cutoff
type DeadStockRow struct {
	ProductID      uuid.UUID  `json:"product_id"`
	ProductSKU     string     `json:"product_sku"`
	ProductName    string     `json:"product_name"`
	LocationID     uuid.UUID  `json:"location_id"`
	Quantity       int64      `json:"quantity"`
	LastMovementAt *time.Time `json:"last_movement_at,omitempty"`
}

// SalesSummaryRow aggregates issued invoices over a period
type SalesSummaryRow struct {
	InvoiceCount   int64           `json:"invoice_count"`
	ItemsSold      int64           `json:"items_sold"`
	GrossSales     decimal.Decimal `json:"gross_sales"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	NetSales       decimal.Decimal `json:"net_sales"`
}

// StockReportRepository serves read-only stock reports
type StockReportRepository interface {
	// StockOnHand reports current quantities and stock value, optionally
	// narrowed to one location
	StockOnHand(ctx context.Context, locationID *uuid.UUID) ([]StockOnHandRow, error)

	// DeadStock reports stocked products whose last movement is older than
	// the cutoff, or that never moved
	DeadStock(ctx context.Context, cutoff time.Time) ([]DeadStockRow, error)
}

// SalesReportRepository serves read-only sales reports
type SalesReportRepository interface {
	// SalesSummary aggregates issued invoices created within [start, end)
	SalesSummary(ctx context.Context, start, end time.Time) (*SalesSummaryRow, error)
}

package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormStockReportRepository implements report.StockReportRepository with raw
// aggregate queries over the ledger tables
type GormStockReportRepository struct {
	db *gorm.DB
}

// NewGormStockReportRepository creates a new GormStockReportRepository
func NewGormStockReportRepository(db *gorm.DB) *GormStockReportRepository {
	return &GormStockReportRepository{db: db}
}

// StockOnHand reports current quantities and stock value, optionally narrowed
// to one location. Stock value is quantity times product cost price.
func (r *GormStockReportRepository) StockOnHand(ctx context.Context, locationID *uuid.UUID) ([]report.StockOnHandRow, error) {
	query := `
		SELECT
			ps.product_id,
			p.sku AS product_sku,
			p.name AS product_name,
			ps.location_id,
			l.name AS location_name,
			ps.quantity,
			ps.quantity * p.cost_price AS stock_value
		FROM product_stock ps
		JOIN products p ON p.id = ps.product_id
		JOIN stock_locations l ON l.id = ps.location_id`
	args := []any{}
	if locationID != nil {
		query += ` WHERE ps.location_id = ?`
		args = append(args, *locationID)
	}
	query += ` ORDER BY p.sku, l.name`

	var rows []report.StockOnHandRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeadStock reports stocked products whose last movement is older than the
// cutoff, or that never moved at all
func (r *GormStockReportRepository) DeadStock(ctx context.Context, cutoff time.Time) ([]report.DeadStockRow, error) {
	var rows []report.DeadStockRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ps.product_id,
			p.sku AS product_sku,
			p.name AS product_name,
			ps.location_id,
			ps.quantity,
			ps.last_movement_at
		FROM product_stock ps
		JOIN products p ON p.id = ps.product_id
		WHERE ps.quantity > 0
		  AND (ps.last_movement_at IS NULL OR ps.last_movement_at < ?)
		ORDER BY ps.last_movement_at ASC NULLS FIRST`, cutoff).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var _ report.StockReportRepository = (*GormStockReportRepository)(nil)

// GormSalesReportRepository implements report.SalesReportRepository
type GormSalesReportRepository struct {
	db *gorm.DB
}

// NewGormSalesReportRepository creates a new GormSalesReportRepository
func NewGormSalesReportRepository(db *gorm.DB) *GormSalesReportRepository {
	return &GormSalesReportRepository{db: db}
}

// SalesSummary aggregates issued invoices created within [start, end). Void
// invoices are excluded.
func (r *GormSalesReportRepository) SalesSummary(ctx context.Context, start, end time.Time) (*report.SalesSummaryRow, error) {
	var row report.SalesSummaryRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(i.id) AS invoice_count,
			COALESCE((
				SELECT SUM(ii.qty)
				FROM invoice_items ii
				JOIN invoices iv ON iv.id = ii.invoice_id
				WHERE iv.status = 'issued'
				  AND iv.created_at >= ? AND iv.created_at < ?
			), 0) AS items_sold,
			COALESCE(SUM(i.subtotal), 0) AS gross_sales,
			COALESCE(SUM(i.discount_amount), 0) AS total_discount,
			COALESCE(SUM(i.tax_amount), 0) AS total_tax,
			COALESCE(SUM(i.total), 0) AS net_sales
		FROM invoices i
		WHERE i.status = 'issued'
		  AND i.created_at >= ? AND i.created_at < ?`,
		start, end, start, end).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

var _ report.SalesReportRepository = (*GormSalesReportRepository)(nil)

package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/shared"
)

// defaultDeadStockDays is the cutoff used when the caller does not specify one.
const defaultDeadStockDays = 30

// ReportService provides read-only reporting over the stock ledger and
// finalized invoices. Reports aggregate committed state and take no part in
// finalization.
type ReportService struct {
	stockRepo report.StockReportRepository
	salesRepo report.SalesReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(stockRepo report.StockReportRepository, salesRepo report.SalesReportRepository) *ReportService {
	return &ReportService{
		stockRepo: stockRepo,
		salesRepo: salesRepo,
	}
}

// StockOnHand reports current quantities and stock value per product and
// location
func (s *ReportService) StockOnHand(ctx context.Context, locationID *uuid.UUID) ([]report.StockOnHandRow, error) {
	return s.stockRepo.StockOnHand(ctx, locationID)
}

// DeadStock reports stocked products without movement for the given number of
// days. days <= 0 falls back to the default window.
func (s *ReportService) DeadStock(ctx context.Context, days int) ([]report.DeadStockRow, error) {
	if days < 0 {
		return nil, shared.NewDomainError("INVALID_RANGE", "Dead stock window cannot be negative")
	}
	if days == 0 {
		days = defaultDeadStockDays
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return s.stockRepo.DeadStock(ctx, cutoff)
}

// SalesSummary aggregates issued invoices for [start, end). A zero end time
// means now; a zero start time means the start of end's day.
func (s *ReportService) SalesSummary(ctx context.Context, start, end time.Time) (*report.SalesSummaryRow, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		y, m, d := end.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, end.Location())
	}
	if !start.Before(end) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Report period start must precede its end")
	}
	return s.salesRepo.SalesSummary(ctx, start, end)
}

package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics tracks checkout and stock ledger activity
type BusinessMetrics struct {
	invoicesFinalized metric.Int64Counter
	invoiceAmount     metric.Float64Counter
	itemsSold         metric.Int64Counter
	stockAdjustments  metric.Int64Counter
	oversellRejected  metric.Int64Counter
}

// NewBusinessMetrics registers the business instruments on the global meter
func NewBusinessMetrics() (*BusinessMetrics, error) {
	meter := otel.GetMeterProvider().Meter(TracerName)

	invoicesFinalized, err := meter.Int64Counter("pos.invoices.finalized.total",
		metric.WithDescription("Number of invoices finalized"))
	if err != nil {
		return nil, err
	}
	invoiceAmount, err := meter.Float64Counter("pos.invoices.amount.total",
		metric.WithDescription("Total invoiced amount"))
	if err != nil {
		return nil, err
	}
	itemsSold, err := meter.Int64Counter("pos.items.sold.total",
		metric.WithDescription("Number of units sold"))
	if err != nil {
		return nil, err
	}
	stockAdjustments, err := meter.Int64Counter("pos.stock.adjustments.total",
		metric.WithDescription("Number of manual stock adjustments"))
	if err != nil {
		return nil, err
	}
	oversellRejected, err := meter.Int64Counter("pos.stock.oversell_rejected.total",
		metric.WithDescription("Number of sales rejected for insufficient stock"))
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		invoicesFinalized: invoicesFinalized,
		invoiceAmount:     invoiceAmount,
		itemsSold:         itemsSold,
		stockAdjustments:  stockAdjustments,
		oversellRejected:  oversellRejected,
	}, nil
}

// RecordInvoiceFinalized records a successful finalization
func (m *BusinessMetrics) RecordInvoiceFinalized(ctx context.Context, locationID string, total decimal.Decimal, items int64) {
	attrs := metric.WithAttributes(attribute.String("location_id", locationID))
	m.invoicesFinalized.Add(ctx, 1, attrs)
	m.itemsSold.Add(ctx, items, attrs)
	amount, _ := total.Float64()
	m.invoiceAmount.Add(ctx, amount, attrs)
}

// RecordStockAdjustment records a manual adjustment
func (m *BusinessMetrics) RecordStockAdjustment(ctx context.Context, reason string) {
	m.stockAdjustments.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordOversellRejected records a finalization rejected for insufficient stock
func (m *BusinessMetrics) RecordOversellRejected(ctx context.Context, locationID string) {
	m.oversellRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("location_id", locationID)))
}

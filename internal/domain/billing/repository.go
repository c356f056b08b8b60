package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// Create inserts an invoice and all of its items. Returns
	// shared.ErrAlreadyExists when the invoice number collides, which the
	// caller treats as a retryable numbering conflict.
	Create(ctx context.Context, invoice *Invoice) error

	// FindByID finds an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its invoice number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// FindAll lists invoices, newest first, without items
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByDateRange lists invoices created within [start, end)
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save persists status changes on an existing invoice
	Save(ctx context.Context, invoice *Invoice) error
}

// NumberSequenceRepository issues invoice numbers. Next must be safe under
// concurrent callers: no two callers ever receive the same value, and values
// are strictly increasing within a year. Gaps are acceptable, duplicates are
// not, and a number is never reused even if its invoice is later voided.
type NumberSequenceRepository interface {
	// Next returns the next invoice number, e.g. "INV-2026-00042"
	Next(ctx context.Context) (string, error)
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts an invoice and its items. A unique violation on the invoice
// number surfaces as shared.ErrAlreadyExists so the caller can retry with a
// fresh number.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", number).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll lists invoices, newest first, without items
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByDateRange lists invoices created within [start, end)
func (r *GormInvoiceRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices
func (r *GormInvoiceRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Invoice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists status changes on an existing invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items").Save(invoice).Error
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// invoiceSequence is the per-year counter backing invoice numbers
type invoiceSequence struct {
	Year      int   `gorm:"primaryKey"`
	LastValue int64 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (invoiceSequence) TableName() string {
	return "invoice_sequences"
}

// GormNumberSequenceRepository implements billing.NumberSequenceRepository.
//
// It runs on the base connection, not the finalization transaction, so an
// issued number is consumed even when the finalization rolls back. Like a
// native database sequence: gaps are possible, duplicates are not, and a
// retry after a collision always draws a fresh number.
type GormNumberSequenceRepository struct {
	db *gorm.DB
}

// NewGormNumberSequenceRepository creates a new GormNumberSequenceRepository
func NewGormNumberSequenceRepository(db *gorm.DB) *GormNumberSequenceRepository {
	return &GormNumberSequenceRepository{db: db}
}

// Next returns the next invoice number, e.g. "INV-2026-00042". The upsert
// increments and reads the counter in one statement; the row lock serializes
// concurrent callers.
func (r *GormNumberSequenceRepository) Next(ctx context.Context) (string, error) {
	year := time.Now().Year()

	var lastValue int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO invoice_sequences (year, last_value)
		VALUES (?, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`, year).Scan(&lastValue).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("INV-%d-%05d", year, lastValue), nil
}

var _ billing.NumberSequenceRepository = (*GormNumberSequenceRepository)(nil)

package persistence

import (
	"context"

	appbilling "github.com/pos/backend/internal/application/billing"
	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormCheckoutScope implements the finalization TransactionScope using GORM
// transactions.
type GormCheckoutScope struct {
	db *gorm.DB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *gorm.DB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormCheckoutRepositories{tx: tx, base: s.db})
	})
}

// gormCheckoutRepositories provides transaction-scoped repositories. The
// number sequence deliberately uses the base connection: see
// GormNumberSequenceRepository.
type gormCheckoutRepositories struct {
	tx   *gorm.DB
	base *gorm.DB
}

// Products returns the product repository scoped to the transaction
func (r *gormCheckoutRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Locations returns the location repository scoped to the transaction
func (r *gormCheckoutRepositories) Locations() stock.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// Stock returns the stock record repository scoped to the transaction
func (r *gormCheckoutRepositories) Stock() stock.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// Movements returns the movement repository scoped to the transaction
func (r *gormCheckoutRepositories) Movements() stock.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Invoices returns the invoice repository scoped to the transaction
func (r *gormCheckoutRepositories) Invoices() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Numbers returns the invoice number sequence on the base connection
func (r *gormCheckoutRepositories) Numbers() billing.NumberSequenceRepository {
	return NewGormNumberSequenceRepository(r.base)
}

var _ appbilling.TransactionScope = (*GormCheckoutScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormCheckoutRepositories)(nil)

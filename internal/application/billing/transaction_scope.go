package billing

import (
	"context"

	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories touched
// by invoice finalization. Everything done inside Execute commits or rolls
// back as one unit: the invoice insert, the stock decrements, and the
// movement appends are never visible partially.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories participating
// in a finalization transaction. All of them share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the transaction
	Products() catalog.ProductRepository
	// Locations returns the location repository scoped to the transaction
	Locations() stock.LocationRepository
	// Stock returns the stock record repository scoped to the transaction
	Stock() stock.StockRecordRepository
	// Movements returns the movement repository scoped to the transaction
	Movements() stock.StockMovementRepository
	// Invoices returns the invoice repository scoped to the transaction
	Invoices() billing.InvoiceRepository
	// Numbers returns the invoice number sequence scoped to the transaction
	Numbers() billing.NumberSequenceRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests with in-memory repositories.
type NoOpTransactionScope struct {
	products  catalog.ProductRepository
	locations stock.LocationRepository
	stock     stock.StockRecordRepository
	movements stock.StockMovementRepository
	invoices  billing.InvoiceRepository
	numbers   billing.NumberSequenceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	products catalog.ProductRepository,
	locations stock.LocationRepository,
	stockRepo stock.StockRecordRepository,
	movements stock.StockMovementRepository,
	invoices billing.InvoiceRepository,
	numbers billing.NumberSequenceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		products:  products,
		locations: locations,
		stock:     stockRepo,
		movements: movements,
		invoices:  invoices,
		numbers:   numbers,
	}
}

// Execute runs the function without transaction boundaries.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository.
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }

// Locations returns the location repository.
func (s *NoOpTransactionScope) Locations() stock.LocationRepository { return s.locations }

// Stock returns the stock record repository.
func (s *NoOpTransactionScope) Stock() stock.StockRecordRepository { return s.stock }

// Movements returns the movement repository.
func (s *NoOpTransactionScope) Movements() stock.StockMovementRepository { return s.movements }

// Invoices returns the invoice repository.
func (s *NoOpTransactionScope) Invoices() billing.InvoiceRepository { return s.invoices }

// Numbers returns the number sequence repository.
func (s *NoOpTransactionScope) Numbers() billing.NumberSequenceRepository { return s.numbers }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

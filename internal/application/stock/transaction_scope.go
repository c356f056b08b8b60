package stock

import (
	"context"

	"github.com/pos/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the ledger repositories.
// A manual adjustment writes the stock record and the movement in the same
// transaction, keeping quantity reconcilable with the movement history.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories within
// a transaction.
type TransactionalRepositories interface {
	// Stock returns the stock record repository scoped to the transaction
	Stock() stock.StockRecordRepository
	// Movements returns the movement repository scoped to the transaction
	Movements() stock.StockMovementRepository
}

// NoOpTransactionScope runs the function without a real transaction.
type NoOpTransactionScope struct {
	stock     stock.StockRecordRepository
	movements stock.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(stockRepo stock.StockRecordRepository, movements stock.StockMovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{stock: stockRepo, movements: movements}
}

// Execute runs the function without transaction boundaries.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Stock returns the stock record repository.
func (s *NoOpTransactionScope) Stock() stock.StockRecordRepository { return s.stock }

// Movements returns the movement repository.
func (s *NoOpTransactionScope) Movements() stock.StockMovementRepository { return s.movements }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

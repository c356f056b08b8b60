package persistence

import (
	"context"

	appstock "github.com/pos/backend/internal/application/stock"
	"github.com/pos/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockScope implements the stock adjustment TransactionScope using GORM
// transactions.
type GormStockScope struct {
	db *gorm.DB
}

// NewGormStockScope creates a new GormStockScope
func NewGormStockScope(db *gorm.DB) *GormStockScope {
	return &GormStockScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormStockScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStockRepositories{tx: tx})
	})
}

type gormStockRepositories struct {
	tx *gorm.DB
}

// Stock returns the stock record repository scoped to the transaction
func (r *gormStockRepositories) Stock() stock.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// Movements returns the movement repository scoped to the transaction
func (r *gormStockRepositories) Movements() stock.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormStockScope)(nil)
var _ appstock.TransactionalRepositories = (*gormStockRepositories)(nil)

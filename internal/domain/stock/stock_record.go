package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// StockRecord tracks on-hand and reserved quantities for one product at one
// location. Quantity is mutated only by applying movements; the two writes
// happen in the same database transaction so the ledger reconciliation
// invariant (quantity == sum of movement changes) always holds.
type StockRecord struct {
	shared.BaseEntity
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location,priority:1"`
	LocationID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location,priority:2"`
	Quantity       int64      `gorm:"not null;default:0"`
	Reserved       int64      `gorm:"not null;default:0"`
	LastMovementAt *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "product_stock"
}

// NewStockRecord creates an empty stock record for a product-location pair
func NewStockRecord(productID, locationID uuid.UUID) (*StockRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	return &StockRecord{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		LocationID: locationID,
	}, nil
}

// Available returns the quantity not held by reservations. It is derived,
// never stored.
func (r *StockRecord) Available() int64 {
	return r.Quantity - r.Reserved
}

// CanFulfill returns true if applying an outbound movement of qty units
// would not drive the on-hand quantity negative.
func (r *StockRecord) CanFulfill(qty int64) bool {
	return r.Quantity >= qty
}

// InsufficientStockError builds the rejection for an outbound movement that
// would oversell this record.
func (r *StockRecord) InsufficientStockError(requested int64) *shared.DomainError {
	return NewInsufficientStockError(r.ProductID, requested, r.Quantity)
}

// NewInsufficientStockError reports an oversell attempt, naming the offending
// product and the requested vs. available quantities.
func NewInsufficientStockError(productID uuid.UUID, requested, available int64) *shared.DomainError {
	return shared.ErrInsufficientStock.WithDetails(map[string]any{
		"product_id": productID.String(),
		"requested":  requested,
		"available":  available,
	})
}

package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// StockRecordRepository defines the interface for stock record persistence.
//
// ApplyChange is the single mutation path for on-hand quantity: the
// quantity check and the write must be one atomic operation at the store
// level (a conditional UPDATE), never a read-compute-write sequence, or two
// concurrent sales could both observe sufficient stock and oversell.
type StockRecordRepository interface {
	// FindByID finds a stock record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByProductAndLocation finds the record for a product-location pair
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*StockRecord, error)

	// FindByLocation lists stock records at a location
	FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindAll lists stock records
	FindAll(ctx context.Context, filter shared.Filter) ([]StockRecord, error)

	// Count counts stock records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, record *StockRecord) error

	// ApplyChange atomically adds change to the record's quantity and stamps
	// last_movement_at, refusing the update when the result would be
	// negative. Returns the new quantity, shared.ErrNotFound when the record
	// does not exist, or shared.ErrInsufficientStock when the guard fails.
	ApplyChange(ctx context.Context, recordID uuid.UUID, change int64, at time.Time) (int64, error)
}

// StockMovementRepository defines the interface for movement persistence.
// Movements are append-only; there is no update or delete.
type StockMovementRepository interface {
	// Create appends a movement record
	Create(ctx context.Context, movement *StockMovement) error

	// FindByProductAndLocation lists movements for a product-location pair,
	// newest first
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByReference lists movements caused by a document
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]StockMovement, error)

	// FindAll lists movements, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// SumChanges sums all movement changes for a product-location pair.
	// Used by reconciliation checks against StockRecord.Quantity.
	SumChanges(ctx context.Context, productID, locationID uuid.UUID) (int64, error)
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindAll returns all locations
	FindAll(ctx context.Context) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error
}

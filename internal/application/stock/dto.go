package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/stock"
)

// AdjustStockRequest is the input for a manual stock adjustment. Change is
// signed: positive receives stock, negative removes it.
type AdjustStockRequest struct {
	Change    int64      `json:"change" binding:"required"`
	Reason    string     `json:"reason" binding:"required"`
	CreatedBy *uuid.UUID `json:"created_by"`
}

// StockRecordResponse is the API representation of a stock record
type StockRecordResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	LocationID     uuid.UUID  `json:"location_id"`
	Quantity       int64      `json:"quantity"`
	Reserved       int64      `json:"reserved"`
	Available      int64      `json:"available"`
	LastMovementAt *time.Time `json:"last_movement_at,omitempty"`
}

// ToStockRecordResponse converts a stock record to its API representation
func ToStockRecordResponse(record *stock.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ID:             record.ID,
		ProductID:      record.ProductID,
		LocationID:     record.LocationID,
		Quantity:       record.Quantity,
		Reserved:       record.Reserved,
		Available:      record.Available(),
		LastMovementAt: record.LastMovementAt,
	}
}

// StockMovementResponse is the API representation of a movement
type StockMovementResponse struct {
	ID            uuid.UUID           `json:"id"`
	ProductID     uuid.UUID           `json:"product_id"`
	LocationID    uuid.UUID           `json:"location_id"`
	Change        int64               `json:"change"`
	Reason        string              `json:"reason"`
	ReferenceType stock.ReferenceType `json:"reference_type"`
	ReferenceID   *uuid.UUID          `json:"reference_id,omitempty"`
	CreatedBy     *uuid.UUID          `json:"created_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ToStockMovementResponse converts a movement to its API representation
func ToStockMovementResponse(m *stock.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		Change:        m.Change,
		Reason:        m.Reason,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// LocationResponse is the API representation of a location
type LocationResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToLocationResponse converts a location to its API representation
func ToLocationResponse(l *stock.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name}
}

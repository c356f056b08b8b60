package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// ReferenceType identifies the kind of document that caused a movement
type ReferenceType string

const (
	// ReferenceInvoice links a movement to a sales invoice
	ReferenceInvoice ReferenceType = "INVOICE"
	// ReferencePurchaseOrder links a movement to a purchase order receipt
	ReferencePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	// ReferenceManual marks a manual restock or correction with no document
	ReferenceManual ReferenceType = "MANUAL"
)

// IsValid returns true if the reference type is known
func (t ReferenceType) IsValid() bool {
	switch t {
	case ReferenceInvoice, ReferencePurchaseOrder, ReferenceManual:
		return true
	}
	return false
}

// ReasonSale is the movement reason recorded by invoice finalization.
const ReasonSale = "sale"

// StockMovement is an immutable, append-only record of one signed change to
// on-hand quantity. Corrections are made with new movements, never edits.
type StockMovement struct {
	shared.BaseEntity
	ProductID     uuid.UUID     `gorm:"type:uuid;not null;index:idx_movement_product_location,priority:1"`
	LocationID    uuid.UUID     `gorm:"type:uuid;not null;index:idx_movement_product_location,priority:2"`
	Change        int64         `gorm:"not null"` // positive = inbound, negative = outbound
	Reason        string        `gorm:"type:varchar(255);not null"`
	ReferenceType ReferenceType `gorm:"type:varchar(30);not null;default:'MANUAL'"`
	ReferenceID   *uuid.UUID    `gorm:"type:uuid;index"`
	CreatedBy     *uuid.UUID    `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new movement record
func NewStockMovement(productID, locationID uuid.UUID, change int64, reason string, refType ReferenceType, refID *uuid.UUID) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if change == 0 {
		return nil, shared.NewDomainError("INVALID_CHANGE", "Movement change cannot be zero")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Movement reason is required")
	}
	if !refType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid movement reference type")
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		LocationID:    locationID,
		Change:        change,
		Reason:        reason,
		ReferenceType: refType,
		ReferenceID:   refID,
	}, nil
}

// WithActor records who performed the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.CreatedBy = &actorID
	return m
}

// IsInbound returns true for positive changes
func (m *StockMovement) IsInbound() bool {
	return m.Change > 0
}

// IsOutbound returns true for negative changes
func (m *StockMovement) IsOutbound() bool {
	return m.Change < 0
}

// OccurredAt returns when the movement was recorded
func (m *StockMovement) OccurredAt() time.Time {
	return m.CreatedAt
}

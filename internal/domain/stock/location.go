package stock

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

// Location is the unit at which stock is tracked (a store, a backroom, a warehouse).
type Location struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "stock_locations"
}

// NewLocation creates a new location
func NewLocation(name, description string) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	return &Location{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
	}, nil
}

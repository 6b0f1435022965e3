package stock

import (
	"github.com/restopos/backend/internal/domain/shared"
)

// LocationUsage classifies a stock location
type LocationUsage string

const (
	// LocationUsageInternal marks locations holding sellable stock; only
	// internal locations are valid fallback targets for consumption
	LocationUsageInternal LocationUsage = "internal"
	// LocationUsageView marks aggregation-only locations
	LocationUsageView LocationUsage = "view"
	// LocationUsageInventoryLoss marks counterpart locations for adjustments
	LocationUsageInventoryLoss LocationUsage = "inventory_loss"
)

// Location is a place where stock quantities are kept
type Location struct {
	shared.BaseEntity
	Name  string        `gorm:"size:255;not null"`
	Usage LocationUsage `gorm:"size:32;not null;default:'internal'"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "stock_locations"
}

// NewLocation creates a location
func NewLocation(name string, usage LocationUsage) (*Location, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	return &Location{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Usage:      usage,
	}, nil
}

// IsInternal reports whether the location holds real stock
func (l *Location) IsInternal() bool {
	return l.Usage == LocationUsageInternal
}

package stock

import (
	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Quant is the atomic inventory fact: the quantity of one product at one
// location. Session close creates quants lazily with zero quantity and
// decrements them in place; a quant is never deleted and may go negative.
type Quant struct {
	shared.BaseEntity
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_quant_product_location,priority:1"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_quant_product_location,priority:2"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Quant) TableName() string {
	return "stock_quants"
}

// NewQuant creates a zero-quantity quant for a product at a location
func NewQuant(productID, locationID uuid.UUID) (*Quant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	return &Quant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   decimal.Zero,
	}, nil
}

// Available returns the quantity counted as available for consumption.
// Negative stock is carried on the quant but never counts as availability.
func (q *Quant) Available() decimal.Decimal {
	if q.Quantity.IsNegative() {
		return decimal.Zero
	}
	return q.Quantity
}

// Deduct removes the given quantity, allowing the balance to go negative
func (q *Quant) Deduct(quantity decimal.Decimal) {
	q.Quantity = q.Quantity.Sub(quantity)
}

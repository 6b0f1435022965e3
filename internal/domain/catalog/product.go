package catalog

import (
	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/shared"
)

// Product is a sellable or consumable item known to the point of sale.
// Several product variants can share one template; BOMs attach to the
// template, stock attaches to the product.
type Product struct {
	shared.BaseEntity
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"size:255;not null"`
	// Storable products have stock tracked per location. Non-storable
	// products (services, delivery fees) never touch a quant.
	Storable bool `gorm:"not null;default:false"`
	// PreferredLocationID, when set on a sold product, forces every
	// component reached while exploding that product to consume from this
	// location.
	PreferredLocationID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a storable product with a fresh template
func NewProduct(name string, storable bool) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		TemplateID: uuid.New(),
		Name:       name,
		Storable:   storable,
	}, nil
}

// SetPreferredLocation sets the location override used at session close
func (p *Product) SetPreferredLocation(locationID uuid.UUID) error {
	if locationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	p.PreferredLocationID = &locationID
	return nil
}

// ClearPreferredLocation removes the location override
func (p *Product) ClearPreferredLocation() {
	p.PreferredLocationID = nil
}

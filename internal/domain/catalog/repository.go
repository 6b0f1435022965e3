package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs in one read.
	// IDs with no matching product are silently absent from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// BomRepository defines the interface for BOM persistence
type BomRepository interface {
	// FindActiveByTemplateIDs finds all active BOMs for the given templates
	// in one read, with lines preloaded in declared order.
	FindActiveByTemplateIDs(ctx context.Context, templateIDs []uuid.UUID) ([]Bom, error)

	// Save creates or updates a BOM together with its lines
	Save(ctx context.Context, bom *Bom) error
}

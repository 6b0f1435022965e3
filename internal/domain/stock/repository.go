package stock

import (
	"context"

	"github.com/google/uuid"
)

// QuantRepository defines the interface for quant persistence
type QuantRepository interface {
	// FindByProductAndLocation finds the quant for a product at an exact
	// location. When several rows exist for the pair, the one with the
	// lowest ID is returned so repeated runs read the same row.
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*Quant, error)

	// FindFirstInternal finds the product's quant at the internal location
	// with the lowest ID. Returns shared.ErrNotFound when the product has no
	// quant at any internal location.
	FindFirstInternal(ctx context.Context, productID uuid.UUID) (*Quant, error)

	// Create inserts a new quant
	Create(ctx context.Context, quant *Quant) error

	// Save persists quantity changes
	Save(ctx context.Context, quant *Quant) error
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindByIDs finds multiple locations in one read
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Location, error)

	// FirstInternal returns the internal location with the lowest ID.
	// Returns shared.ErrNotFound when no internal location exists.
	FirstInternal(ctx context.Context) (*Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error
}

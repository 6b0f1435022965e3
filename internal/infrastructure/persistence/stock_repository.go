package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/restopos/backend/internal/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLocationRepository implements stock.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Location, error) {
	var location stock.Location
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// FindByIDs finds multiple locations in one read
func (r *GormLocationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]stock.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var locations []stock.Location
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FirstInternal returns the internal location with the lowest ID
func (r *GormLocationRepository) FirstInternal(ctx context.Context) (*stock.Location, error) {
	var location stock.Location
	if err := r.db.WithContext(ctx).
		Where("usage = ?", stock.LocationUsageInternal).
		Order("id ASC").
		First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &location, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *stock.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

// GormQuantRepository implements stock.QuantRepository using GORM. With
// forUpdate set, reads take a row lock so concurrent session closes queue
// on the same quant instead of both reading the stale quantity.
type GormQuantRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormQuantRepository creates a repository with plain reads
func NewGormQuantRepository(db *gorm.DB) *GormQuantRepository {
	return &GormQuantRepository{db: db}
}

// NewGormQuantRepositoryForUpdate creates a repository whose reads lock the
// selected rows. Use inside a transaction.
func NewGormQuantRepositoryForUpdate(db *gorm.DB) *GormQuantRepository {
	return &GormQuantRepository{db: db, forUpdate: true}
}

func (r *GormQuantRepository) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if r.forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// FindByProductAndLocation finds the quant for a product at an exact
// location. The lowest-ID row wins when duplicates exist.
func (r *GormQuantRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*stock.Quant, error) {
	var quant stock.Quant
	if err := r.query(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Order("id ASC").
		First(&quant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quant, nil
}

// FindFirstInternal finds the product's quant at the internal location with
// the lowest ID
func (r *GormQuantRepository) FindFirstInternal(ctx context.Context, productID uuid.UUID) (*stock.Quant, error) {
	var quant stock.Quant
	if err := r.query(ctx).
		Joins("JOIN stock_locations ON stock_locations.id = stock_quants.location_id").
		Where("stock_quants.product_id = ? AND stock_locations.usage = ?", productID, stock.LocationUsageInternal).
		Order("stock_locations.id ASC, stock_quants.id ASC").
		First(&quant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quant, nil
}

// Create inserts a new quant
func (r *GormQuantRepository) Create(ctx context.Context, quant *stock.Quant) error {
	return r.db.WithContext(ctx).Create(quant).Error
}

// Save persists quantity changes
func (r *GormQuantRepository) Save(ctx context.Context, quant *stock.Quant) error {
	return r.db.WithContext(ctx).Save(quant).Error
}

var _ stock.LocationRepository = (*GormLocationRepository)(nil)
var _ stock.QuantRepository = (*GormQuantRepository)(nil)

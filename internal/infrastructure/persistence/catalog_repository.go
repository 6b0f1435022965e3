package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/catalog"
	"github.com/restopos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs in one read. IDs with no
// matching row are absent from the result.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// GormBomRepository implements catalog.BomRepository using GORM
type GormBomRepository struct {
	db *gorm.DB
}

// NewGormBomRepository creates a new GormBomRepository
func NewGormBomRepository(db *gorm.DB) *GormBomRepository {
	return &GormBomRepository{db: db}
}

// FindActiveByTemplateIDs finds all active BOMs for the given templates in
// one read. Lines are preloaded in declared order, and BOMs are ordered by
// ID so duplicate-BOM resolution is stable across runs.
func (r *GormBomRepository) FindActiveByTemplateIDs(ctx context.Context, templateIDs []uuid.UUID) ([]catalog.Bom, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}
	var boms []catalog.Bom
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("bom_lines.position ASC")
		}).
		Where("template_id IN ? AND active = ?", templateIDs, true).
		Order("id ASC").
		Find(&boms).Error; err != nil {
		return nil, err
	}
	return boms, nil
}

// Save creates or updates a BOM together with its lines
func (r *GormBomRepository) Save(ctx context.Context, bom *catalog.Bom) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(bom).Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
var _ catalog.BomRepository = (*GormBomRepository)(nil)

package persistence

import (
	"context"

	"github.com/restopos/backend/internal/application/pos"
	"github.com/restopos/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements pos.TransactionScope using GORM
// transactions. Quant reads inside the scope lock their rows, so two
// sessions closing against the same quant are applied one after the other.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos pos.StockRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStockRepositories{tx: tx})
	})
}

// gormStockRepositories provides repository access within one transaction
type gormStockRepositories struct {
	tx *gorm.DB
}

// Quants returns the quant repository scoped to the current transaction
func (r *gormStockRepositories) Quants() stock.QuantRepository {
	return NewGormQuantRepositoryForUpdate(r.tx)
}

// Locations returns the location repository scoped to the current transaction
func (r *gormStockRepositories) Locations() stock.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

var _ pos.TransactionScope = (*GormTransactionScope)(nil)
var _ pos.StockRepositories = (*gormStockRepositories)(nil)

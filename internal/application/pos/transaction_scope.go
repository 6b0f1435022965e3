package pos

import (
	"context"

	"github.com/restopos/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the stock repositories.
// The commit phase of a session close runs inside one scope execution, so
// every quant write of the run is committed or rolled back atomically and
// concurrent closes against the same quants are serialized by the database,
// not by this process.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos StockRepositories) error) error
}

// StockRepositories exposes the repositories scoped to one transaction
type StockRepositories interface {
	// Quants returns the quant repository scoped to the current transaction
	Quants() stock.QuantRepository
	// Locations returns the location repository scoped to the current transaction
	Locations() stock.LocationRepository
}

// NoOpTransactionScope runs the function against fixed repositories without
// a transaction. Used in tests and in setups without transaction support.
type NoOpTransactionScope struct {
	quants    stock.QuantRepository
	locations stock.LocationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(quants stock.QuantRepository, locations stock.LocationRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{quants: quants, locations: locations}
}

// Execute runs the function directly, outside any transaction
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos StockRepositories) error) error {
	return fn(s)
}

// Quants returns the wrapped quant repository
func (s *NoOpTransactionScope) Quants() stock.QuantRepository {
	return s.quants
}

// Locations returns the wrapped location repository
func (s *NoOpTransactionScope) Locations() stock.LocationRepository {
	return s.locations
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ StockRepositories = (*NoOpTransactionScope)(nil)

package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckResult is the outcome of a dry-run availability check
type CheckResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// Checker answers whether the aggregated requirements could be committed
// without any quant going negative. It resolves quants exactly like the
// ledger does but never writes, so a passing check and the following commit
// always agree on what is required and where.
type Checker struct {
	quants    QuantRepository
	locations LocationRepository
	logger    *zap.Logger
}

// NewChecker creates a new Checker
func NewChecker(quants QuantRepository, locations LocationRepository, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		quants:    quants,
		locations: locations,
		logger:    logger,
	}
}

// Check compares required against available quantity per requirement entry
// and collects one error string per shortfall. Like the commit path it
// fails hard only when no internal fallback location exists.
func (c *Checker) Check(ctx context.Context, requirements RequirementSet) (*CheckResult, error) {
	result := &CheckResult{OK: true, Errors: make([]string, 0)}
	locationNames := make(map[uuid.UUID]string)

	for _, key := range requirements.SortedKeys() {
		entry := requirements[key]
		if !entry.Quantity.IsPositive() {
			// zero demand and refund restocks can always be committed
			continue
		}

		available, locationID, err := c.availability(ctx, entry)
		if err != nil {
			return nil, err
		}

		if available.LessThan(entry.Quantity) {
			name := locationID.String()
			if locationID != uuid.Nil {
				if n, nameErr := c.lookupName(ctx, locationID, locationNames); nameErr == nil {
					name = n
				}
			}
			result.OK = false
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Insufficient stock for %s at location %s! Available: %s, Required: %s",
				entry.Product.Name, name, available.String(), entry.Quantity.String(),
			))
		}
	}

	return result, nil
}

// availability resolves the same quant the ledger would write and returns
// its quantity, counting negative balances as zero.
func (c *Checker) availability(ctx context.Context, entry *RequirementEntry) (decimal.Decimal, uuid.UUID, error) {
	if entry.LocationID != nil {
		quant, err := c.quants.FindByProductAndLocation(ctx, entry.Product.ID, *entry.LocationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return decimal.Zero, *entry.LocationID, nil
			}
			return decimal.Zero, uuid.Nil, err
		}
		return quant.Available(), quant.LocationID, nil
	}

	quant, err := c.quants.FindFirstInternal(ctx, entry.Product.ID)
	if err == nil {
		return quant.Available(), quant.LocationID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return decimal.Zero, uuid.Nil, err
	}

	fallback, err := c.locations.FirstInternal(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, uuid.Nil, shared.ErrNoInternalLocation
		}
		return decimal.Zero, uuid.Nil, err
	}
	return decimal.Zero, fallback.ID, nil
}

func (c *Checker) lookupName(ctx context.Context, id uuid.UUID, cache map[uuid.UUID]string) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	location, err := c.locations.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	cache[id] = location.Name
	return location.Name, nil
}

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

// Warning reports a shortfall detected while committing a requirement.
// It is an operational signal, not an error: the decrement has already
// happened and the quant has gone negative.
type Warning struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	LocationID   uuid.UUID       `json:"location_id"`
	LocationName string          `json:"location_name"`
	Available    decimal.Decimal `json:"available"`
	Required     decimal.Decimal `json:"required"`
}

// String renders the operator-facing message
func (w Warning) String() string {
	return fmt.Sprintf(
		"Warning: insufficient stock for %s at location %s. Available: %s, Required: %s. Stock will go negative.",
		w.ProductName, w.LocationName, w.Available.String(), w.Required.String(),
	)
}

// Ledger commits aggregated requirements against the quant store. It is the
// only component that writes inventory: one quant write per requirement
// entry, shortfalls tolerated.
type Ledger struct {
	quants    QuantRepository
	locations LocationRepository
	logger    *zap.Logger
}

// NewLedger creates a new Ledger
func NewLedger(quants QuantRepository, locations LocationRepository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		quants:    quants,
		locations: locations,
		logger:    logger,
	}
}

// Commit decrements one quant per requirement entry and returns the
// shortfall warnings. A negative entry is a netted refund and increments
// the quant instead. Entries without a resolved location fall back to the
// product's quant at the lowest-ID internal location, creating a zero
// quant there when the product has none. The absence of any internal
// location is the one fatal condition: without it there is no valid commit
// target, so the whole close aborts.
func (l *Ledger) Commit(ctx context.Context, requirements RequirementSet) ([]Warning, error) {
	warnings := make([]Warning, 0)
	locationNames := make(map[uuid.UUID]string)

	for _, key := range requirements.SortedKeys() {
		entry := requirements[key]
		if entry.Quantity.IsZero() {
			continue
		}

		quant, err := l.resolveQuant(ctx, entry)
		if err != nil {
			return warnings, err
		}

		if entry.Quantity.IsPositive() && quant.Quantity.LessThan(entry.Quantity) {
			name, err := l.locationName(ctx, quant.LocationID, locationNames)
			if err != nil {
				return warnings, err
			}
			w := Warning{
				ProductID:    entry.Product.ID,
				ProductName:  entry.Product.Name,
				LocationID:   quant.LocationID,
				LocationName: name,
				Available:    quant.Quantity,
				Required:     entry.Quantity,
			}
			l.logger.Warn("Insufficient stock, quant will go negative",
				zap.String("product", entry.Product.Name),
				zap.String("location", name),
				zap.String("available", quant.Quantity.String()),
				zap.String("required", entry.Quantity.String()),
			)
			warnings = append(warnings, w)
		}

		quant.Deduct(entry.Quantity)
		if err := l.quants.Save(ctx, quant); err != nil {
			return warnings, fmt.Errorf("failed to save quant for product %s: %w", entry.Product.ID, err)
		}
		l.logger.Info("Deducted stock",
			zap.String("product", entry.Product.Name),
			zap.String("location_id", quant.LocationID.String()),
			zap.String("deducted", entry.Quantity.String()),
			zap.String("new_quantity", quant.Quantity.String()),
		)
	}

	return warnings, nil
}

// resolveQuant returns the single quant a requirement entry writes to,
// creating it with zero quantity when it does not exist yet.
func (l *Ledger) resolveQuant(ctx context.Context, entry *RequirementEntry) (*Quant, error) {
	if entry.LocationID != nil {
		quant, err := l.quants.FindByProductAndLocation(ctx, entry.Product.ID, *entry.LocationID)
		if err == nil {
			return quant, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return l.createQuant(ctx, entry.Product.ID, *entry.LocationID)
	}

	quant, err := l.quants.FindFirstInternal(ctx, entry.Product.ID)
	if err == nil {
		return quant, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fallback, err := l.locations.FirstInternal(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNoInternalLocation
		}
		return nil, err
	}
	return l.createQuant(ctx, entry.Product.ID, fallback.ID)
}

func (l *Ledger) createQuant(ctx context.Context, productID, locationID uuid.UUID) (*Quant, error) {
	quant, err := NewQuant(productID, locationID)
	if err != nil {
		return nil, err
	}
	if err := l.quants.Create(ctx, quant); err != nil {
		return nil, fmt.Errorf("failed to create quant: %w", err)
	}
	l.logger.Info("Created zero quant",
		zap.String("product_id", productID.String()),
		zap.String("location_id", locationID.String()),
	)
	return quant, nil
}

func (l *Ledger) locationName(ctx context.Context, id uuid.UUID, cache map[uuid.UUID]string) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	location, err := l.locations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			cache[id] = id.String()
			return cache[id], nil
		}
		return "", err
	}
	cache[id] = location.Name
	return location.Name, nil
}

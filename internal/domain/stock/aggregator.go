package stock

import (
	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SoldItem is one already-grouped (product, quantity) pair from the session
type SoldItem struct {
	Product  *catalog.Product
	Quantity decimal.Decimal
}

// Aggregator explodes sold products through their BOM trees and sums the
// component demand per (product, location) pair. It only reads the catalog
// snapshot; all writes happen later in the ledger.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates a new Aggregator
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// Aggregate walks the BOM tree of every sold item and returns the merged
// requirement set. The explosion of each item carries its own cycle guard,
// reset per top-level product, so a malformed recursive BOM terminates
// instead of looping. Quantities are signed: a negative item is a netted
// refund and contributes negative component demand, which the ledger turns
// into a restock.
func (a *Aggregator) Aggregate(index *catalog.Index, sold []SoldItem) RequirementSet {
	requirements := make(RequirementSet)
	for _, item := range sold {
		if item.Product == nil || item.Quantity.IsZero() {
			continue
		}
		a.explode(index, item.Product, item.Quantity, nil, map[uuid.UUID]struct{}{}, "", requirements)
	}
	return requirements
}

// explode handles one node of the tree. The override location, once picked
// up from a product that defines a preference, is passed unchanged into
// every deeper call, so the top-most preference wins over anything a
// component declares for itself.
func (a *Aggregator) explode(
	index *catalog.Index,
	product *catalog.Product,
	quantity decimal.Decimal,
	override *uuid.UUID,
	processed map[uuid.UUID]struct{},
	path string,
	requirements RequirementSet,
) {
	if !product.Storable {
		a.logger.Debug("Product is not storable, skipping",
			zap.String("product", product.Name),
		)
		return
	}
	if _, seen := processed[product.ID]; seen {
		// cycle in the BOM graph; truncate this branch
		a.logger.Warn("BOM cycle detected, truncating branch",
			zap.String("product", product.Name),
			zap.String("path", path),
		)
		return
	}

	if override == nil && product.PreferredLocationID != nil {
		override = product.PreferredLocationID
	}
	if path == "" {
		path = product.Name
	}

	bom, hasBom := index.BomForTemplate(product.TemplateID)
	if !hasBom {
		requirements.Add(product, override, quantity, path)
		return
	}

	switch bom.Kind {
	case catalog.BomKindPassThrough:
		// manufactured product whose own stock is tracked: the product
		// itself is the consumption leaf, its lines belong to production
		requirements.Add(product, override, quantity, path)

	case catalog.BomKindAssembly:
		branch := cloneProcessed(processed)
		branch[product.ID] = struct{}{}

		for _, line := range bom.Lines {
			component, ok := index.Product(line.ComponentID)
			if !ok {
				a.logger.Error("BOM line references unknown component, line contributes nothing",
					zap.String("bom_id", bom.ID.String()),
					zap.String("component_id", line.ComponentID.String()),
				)
				continue
			}
			required := line.Multiplier.Mul(quantity)
			a.explode(index, component, required, override, branch, path+" > "+component.Name, requirements)
		}

	default:
		a.logger.Error("Unknown BOM kind, treating product as a leaf",
			zap.String("bom_id", bom.ID.String()),
			zap.String("kind", string(bom.Kind)),
		)
		requirements.Add(product, override, quantity, path)
	}
}

func cloneProcessed(processed map[uuid.UUID]struct{}) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(processed)+1)
	for id := range processed {
		out[id] = struct{}{}
	}
	return out
}

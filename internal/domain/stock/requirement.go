package stock

import (
	"sort"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// RequirementKey identifies one consumption target. LocationID is uuid.Nil
// when no location was resolved during the explosion; the ledger then falls
// back to the first internal location at commit time.
type RequirementKey struct {
	ProductID  uuid.UUID
	LocationID uuid.UUID
}

// RequirementEntry is the summed demand for one (product, location) pair
// within a single run, together with the BOM paths that produced it.
type RequirementEntry struct {
	Product    *catalog.Product
	LocationID *uuid.UUID
	Quantity   decimal.Decimal
	Paths      map[string]struct{}
}

// RequirementSet accumulates entries across sold lines and explosion paths.
// Addition is commutative, so the final quantities do not depend on the
// order lines or BOM edges were visited.
type RequirementSet map[RequirementKey]*RequirementEntry

// Add merges a demand into the set
func (s RequirementSet) Add(product *catalog.Product, locationID *uuid.UUID, quantity decimal.Decimal, path string) {
	key := RequirementKey{ProductID: product.ID}
	if locationID != nil {
		key.LocationID = *locationID
	}

	entry, ok := s[key]
	if !ok {
		entry = &RequirementEntry{
			Product:    product,
			LocationID: locationID,
			Quantity:   decimal.Zero,
			Paths:      make(map[string]struct{}),
		}
		s[key] = entry
	}
	entry.Quantity = entry.Quantity.Add(quantity)
	if path != "" {
		entry.Paths[path] = struct{}{}
	}
}

// SortedKeys returns the keys in a stable order, so commits and checks walk
// the requirements deterministically and produce stable message ordering.
func (s RequirementSet) SortedKeys() []RequirementKey {
	keys := make([]RequirementKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductID != keys[j].ProductID {
			return keys[i].ProductID.String() < keys[j].ProductID.String()
		}
		return keys[i].LocationID.String() < keys[j].LocationID.String()
	})
	return keys
}

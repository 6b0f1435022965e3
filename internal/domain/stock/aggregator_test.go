package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sold(product *catalog.Product, quantity float64) SoldItem {
	return SoldItem{Product: product, Quantity: decimal.NewFromFloat(quantity)}
}

func requireQuantity(t *testing.T, requirements RequirementSet, productID, locationID uuid.UUID, want string) {
	t.Helper()
	entry, ok := requirements[RequirementKey{ProductID: productID, LocationID: locationID}]
	require.True(t, ok, "expected requirement for product %s at location %s", productID, locationID)
	assert.True(t, entry.Quantity.Equal(decimal.RequireFromString(want)),
		"want %s, got %s", want, entry.Quantity.String())
}

func TestAggregator_BurgerExplosion(t *testing.T) {
	f := newCatalogFixture(t)
	burger := f.product("Burger", true)
	bun := f.product("Bun", true)
	patty := f.product("Patty", true)
	beef := f.product("Beef", true)

	f.bom(burger, catalog.BomKindAssembly, line(bun, 2), line(patty, 1))
	f.bom(patty, catalog.BomKindAssembly, line(beef, 0.15))

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(burger), []SoldItem{sold(burger, 2)})

	// Patty is an assembly, so it is expanded rather than consumed itself
	require.Len(t, requirements, 2)
	requireQuantity(t, requirements, bun.ID, uuid.Nil, "4")
	requireQuantity(t, requirements, beef.ID, uuid.Nil, "0.3")
}

func TestAggregator_SummationInvariance(t *testing.T) {
	f := newCatalogFixture(t)
	combo := f.product("Combo", true)
	burger := f.product("Burger", true)
	fries := f.product("Fries", true)
	potato := f.product("Potato", true)
	bun := f.product("Bun", true)

	f.bom(combo, catalog.BomKindAssembly, line(burger, 1), line(fries, 1))
	f.bom(burger, catalog.BomKindAssembly, line(bun, 2))
	f.bom(fries, catalog.BomKindAssembly, line(potato, 0.2))

	index := f.index(combo, burger, fries)
	aggregator := NewAggregator(zap.NewNop())

	forward := aggregator.Aggregate(index, []SoldItem{sold(combo, 1), sold(burger, 2), sold(fries, 3)})
	reversed := aggregator.Aggregate(index, []SoldItem{sold(fries, 3), sold(burger, 2), sold(combo, 1)})

	require.Equal(t, len(forward), len(reversed))
	for key, entry := range forward {
		other, ok := reversed[key]
		require.True(t, ok)
		assert.True(t, entry.Quantity.Equal(other.Quantity))
	}

	requireQuantity(t, forward, bun.ID, uuid.Nil, "6")      // 1 combo + 2 burgers, 2 buns each
	requireQuantity(t, forward, potato.ID, uuid.Nil, "0.8") // 1 combo + 3 fries, 0.2 each
}

func TestAggregator_NonStorableExcluded(t *testing.T) {
	f := newCatalogFixture(t)
	aggregator := NewAggregator(zap.NewNop())

	t.Run("as sold product", func(t *testing.T) {
		service := f.product("Delivery Fee", false)
		requirements := aggregator.Aggregate(f.index(service), []SoldItem{sold(service, 3)})
		assert.Empty(t, requirements)
	})

	t.Run("as component", func(t *testing.T) {
		menu := f.product("Menu", true)
		drink := f.product("Drink", true)
		napkin := f.product("Napkin", false)
		f.bom(menu, catalog.BomKindAssembly, line(drink, 1), line(napkin, 2))

		requirements := aggregator.Aggregate(f.index(menu), []SoldItem{sold(menu, 1)})
		require.Len(t, requirements, 1)
		requireQuantity(t, requirements, drink.ID, uuid.Nil, "1")
	})
}

func TestAggregator_OverridePropagation(t *testing.T) {
	f := newCatalogFixture(t)
	bar := uuid.New()
	kitchen := uuid.New()

	cocktail := f.product("Cocktail", true)
	require.NoError(t, cocktail.SetPreferredLocation(bar))
	juice := f.product("Juice", true)
	fruit := f.product("Fruit", true)
	// the component's own preference must lose against the sold product's
	require.NoError(t, fruit.SetPreferredLocation(kitchen))

	f.bom(cocktail, catalog.BomKindAssembly, line(juice, 1))
	f.bom(juice, catalog.BomKindAssembly, line(fruit, 0.5))

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(cocktail), []SoldItem{sold(cocktail, 2)})

	require.Len(t, requirements, 1)
	requireQuantity(t, requirements, fruit.ID, bar, "1")
}

func TestAggregator_ComponentPreferenceUsedWithoutTopOverride(t *testing.T) {
	f := newCatalogFixture(t)
	cellar := uuid.New()

	dish := f.product("Dish", true)
	wine := f.product("Wine", true)
	require.NoError(t, wine.SetPreferredLocation(cellar))
	f.bom(dish, catalog.BomKindAssembly, line(wine, 0.1))

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(dish), []SoldItem{sold(dish, 1)})

	require.Len(t, requirements, 1)
	requireQuantity(t, requirements, wine.ID, cellar, "0.1")
}

func TestAggregator_PassThroughLeaf(t *testing.T) {
	f := newCatalogFixture(t)
	lasagna := f.product("Lasagna Batch", true)
	pasta := f.product("Pasta", true)
	sauce := f.product("Sauce", true)
	f.bom(lasagna, catalog.BomKindPassThrough, line(pasta, 0.3), line(sauce, 0.2))

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(lasagna), []SoldItem{sold(lasagna, 4)})

	// only the finished product itself, never its declared lines
	require.Len(t, requirements, 1)
	requireQuantity(t, requirements, lasagna.ID, uuid.Nil, "4")
}

func TestAggregator_CycleSafety(t *testing.T) {
	f := newCatalogFixture(t)
	a := f.product("A", true)
	b := f.product("B", true)
	f.bom(a, catalog.BomKindAssembly, line(b, 1))
	f.bom(b, catalog.BomKindAssembly, line(a, 1))

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(a), []SoldItem{sold(a, 1)})

	// A expands to B; B's line back to A is truncated by the path guard
	assert.LessOrEqual(t, len(requirements), 1)
}

func TestAggregator_MergesSharedComponents(t *testing.T) {
	f := newCatalogFixture(t)
	platter := f.product("Platter", true)
	sandwich := f.product("Sandwich", true)
	toast := f.product("Toast", true)
	bread := f.product("Bread", true)

	// bread is reachable under two different parent assemblies
	f.bom(platter, catalog.BomKindAssembly, line(sandwich, 1), line(toast, 2))
	f.bom(sandwich, catalog.BomKindAssembly, line(bread, 2))
	f.bom(toast, catalog.BomKindAssembly, line(bread, 1))

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(platter), []SoldItem{sold(platter, 1)})

	require.Len(t, requirements, 1)
	requireQuantity(t, requirements, bread.ID, uuid.Nil, "4")

	entry := requirements[RequirementKey{ProductID: bread.ID}]
	assert.Len(t, entry.Paths, 2)
}

func TestAggregator_SkipsZeroAndNilItems(t *testing.T) {
	f := newCatalogFixture(t)
	bun := f.product("Bun", true)

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(bun), []SoldItem{
		{Product: bun, Quantity: decimal.Zero},
		{Product: nil, Quantity: decimal.NewFromInt(1)},
	})
	assert.Empty(t, requirements)
}

func TestAggregator_NegativeQuantityExplodesAsRestock(t *testing.T) {
	f := newCatalogFixture(t)
	burger := f.product("Burger", true)
	bun := f.product("Bun", true)
	f.bom(burger, catalog.BomKindAssembly, line(bun, 2))

	aggregator := NewAggregator(zap.NewNop())
	requirements := aggregator.Aggregate(f.index(burger), []SoldItem{sold(burger, -3)})

	// a netted refund explodes through the BOM with its sign intact
	requireQuantity(t, requirements, bun.ID, uuid.Nil, "-6")
}

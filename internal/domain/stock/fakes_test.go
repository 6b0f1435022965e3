package stock

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/catalog"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memLocationRepo keeps locations in memory for ledger/checker tests
type memLocationRepo struct {
	locations map[uuid.UUID]*Location
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{locations: make(map[uuid.UUID]*Location)}
}

func (r *memLocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	if l, ok := r.locations[id]; ok {
		return l, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Location, error) {
	out := make([]Location, 0, len(ids))
	for _, id := range ids {
		if l, ok := r.locations[id]; ok {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *memLocationRepo) FirstInternal(ctx context.Context) (*Location, error) {
	var candidates []*Location
	for _, l := range r.locations {
		if l.IsInternal() {
			candidates = append(candidates, l)
		}
	}
	if len(candidates) == 0 {
		return nil, shared.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID.String() < candidates[j].ID.String()
	})
	return candidates[0], nil
}

func (r *memLocationRepo) Save(ctx context.Context, location *Location) error {
	r.locations[location.ID] = location
	return nil
}

// memQuantRepo keeps quants in memory and records write counts per quant
type memQuantRepo struct {
	quants    map[uuid.UUID]*Quant
	locations *memLocationRepo
	creates   int
	saves     map[uuid.UUID]int
}

func newMemQuantRepo(locations *memLocationRepo) *memQuantRepo {
	return &memQuantRepo{
		quants:    make(map[uuid.UUID]*Quant),
		locations: locations,
		saves:     make(map[uuid.UUID]int),
	}
}

func (r *memQuantRepo) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*Quant, error) {
	var matches []*Quant
	for _, q := range r.quants {
		if q.ProductID == productID && q.LocationID == locationID {
			matches = append(matches, q)
		}
	}
	if len(matches) == 0 {
		return nil, shared.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID.String() < matches[j].ID.String()
	})
	return matches[0], nil
}

func (r *memQuantRepo) FindFirstInternal(ctx context.Context, productID uuid.UUID) (*Quant, error) {
	var matches []*Quant
	for _, q := range r.quants {
		if q.ProductID != productID {
			continue
		}
		if l, ok := r.locations.locations[q.LocationID]; ok && l.IsInternal() {
			matches = append(matches, q)
		}
	}
	if len(matches) == 0 {
		return nil, shared.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].LocationID.String() < matches[j].LocationID.String()
	})
	return matches[0], nil
}

func (r *memQuantRepo) Create(ctx context.Context, quant *Quant) error {
	r.creates++
	r.quants[quant.ID] = quant
	return nil
}

func (r *memQuantRepo) Save(ctx context.Context, quant *Quant) error {
	r.saves[quant.ID]++
	r.quants[quant.ID] = quant
	return nil
}

func (r *memQuantRepo) quantity(productID, locationID uuid.UUID) decimal.Decimal {
	for _, q := range r.quants {
		if q.ProductID == productID && q.LocationID == locationID {
			return q.Quantity
		}
	}
	return decimal.Zero
}

// catalogFixture builds in-memory catalog snapshots for engine tests
type catalogFixture struct {
	t        *testing.T
	products map[uuid.UUID]*catalog.Product
	boms     map[uuid.UUID]*catalog.Bom
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	return &catalogFixture{
		t:        t,
		products: make(map[uuid.UUID]*catalog.Product),
		boms:     make(map[uuid.UUID]*catalog.Bom),
	}
}

func (f *catalogFixture) product(name string, storable bool) *catalog.Product {
	p, err := catalog.NewProduct(name, storable)
	require.NoError(f.t, err)
	f.products[p.ID] = p
	return p
}

type bomLine struct {
	component  *catalog.Product
	multiplier decimal.Decimal
}

func line(component *catalog.Product, multiplier float64) bomLine {
	return bomLine{component: component, multiplier: decimal.NewFromFloat(multiplier)}
}

func (f *catalogFixture) bom(owner *catalog.Product, kind catalog.BomKind, lines ...bomLine) *catalog.Bom {
	b, err := catalog.NewBom(owner.TemplateID, kind)
	require.NoError(f.t, err)
	for _, ln := range lines {
		require.NoError(f.t, b.AddLine(ln.component.ID, ln.multiplier))
	}
	f.boms[owner.TemplateID] = b
	return b
}

// index materializes the fixture into a catalog.Index via the loader
func (f *catalogFixture) index(sold ...*catalog.Product) *catalog.Index {
	ids := make([]uuid.UUID, 0, len(sold))
	for _, p := range sold {
		ids = append(ids, p.ID)
	}
	loader := catalog.NewIndexLoader(&fixtureProductRepo{f}, &fixtureBomRepo{f}, nil)
	index, err := loader.Load(context.Background(), ids)
	require.NoError(f.t, err)
	return index
}

type fixtureProductRepo struct{ f *catalogFixture }

func (r *fixtureProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.f.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fixtureProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fixtureProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	r.f.products[product.ID] = product
	return nil
}

type fixtureBomRepo struct{ f *catalogFixture }

func (r *fixtureBomRepo) FindActiveByTemplateIDs(ctx context.Context, templateIDs []uuid.UUID) ([]catalog.Bom, error) {
	out := make([]catalog.Bom, 0)
	for _, id := range templateIDs {
		if b, ok := r.f.boms[id]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fixtureBomRepo) Save(ctx context.Context, bom *catalog.Bom) error {
	r.f.boms[bom.TemplateID] = bom
	return nil
}

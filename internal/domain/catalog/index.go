package catalog

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxIndexDepth bounds how many BOM levels the loader follows. A well-formed
// menu is a handful of levels deep; the bound keeps a cyclic BOM graph from
// turning the load into an endless walk.
const maxIndexDepth = 16

// Index is a read-only catalog snapshot covering every product and BOM a
// single session close can reach. It is built once per run and discarded
// afterwards, so the explosion itself never goes back to the database.
type Index struct {
	products       map[uuid.UUID]*Product
	bomsByTemplate map[uuid.UUID]*Bom
	// templates that carried more than one active BOM; the lowest BOM ID was
	// kept, the rest are a data error the caller may want to surface
	ambiguousTemplates []uuid.UUID
}

// Product returns the product with the given ID, if present in the snapshot
func (ix *Index) Product(id uuid.UUID) (*Product, bool) {
	p, ok := ix.products[id]
	return p, ok
}

// BomForTemplate returns the active BOM of a template, if any
func (ix *Index) BomForTemplate(templateID uuid.UUID) (*Bom, bool) {
	b, ok := ix.bomsByTemplate[templateID]
	return b, ok
}

// AmbiguousTemplates lists templates that had multiple active BOMs
func (ix *Index) AmbiguousTemplates() []uuid.UUID {
	return ix.ambiguousTemplates
}

// Size returns the number of products in the snapshot
func (ix *Index) Size() int {
	return len(ix.products)
}

// IndexLoader builds catalog snapshots with bulk reads
type IndexLoader struct {
	products ProductRepository
	boms     BomRepository
	logger   *zap.Logger
}

// NewIndexLoader creates a new IndexLoader
func NewIndexLoader(products ProductRepository, boms BomRepository, logger *zap.Logger) *IndexLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexLoader{
		products: products,
		boms:     boms,
		logger:   logger,
	}
}

// Load builds the snapshot for the given sold products. It fetches the
// products, the active BOMs of their templates, then the component products
// and BOMs of each freshly discovered level, one pair of bulk reads per
// level, until the component closure is covered. Product IDs that do not
// exist are logged and left out; the corresponding sold lines simply do not
// contribute to the run.
func (l *IndexLoader) Load(ctx context.Context, productIDs []uuid.UUID) (*Index, error) {
	ix := &Index{
		products:       make(map[uuid.UUID]*Product),
		bomsByTemplate: make(map[uuid.UUID]*Bom),
	}

	pending := dedupeIDs(productIDs)
	requested := len(pending)

	for depth := 0; len(pending) > 0 && depth < maxIndexDepth; depth++ {
		found, err := l.products.FindByIDs(ctx, pending)
		if err != nil {
			return nil, err
		}
		if depth == 0 && len(found) < requested {
			l.logger.Warn("Sold lines reference unknown products, skipping them",
				zap.Int("requested", requested),
				zap.Int("found", len(found)),
			)
		}

		templateIDs := make([]uuid.UUID, 0, len(found))
		for i := range found {
			p := found[i]
			if _, seen := ix.products[p.ID]; seen {
				continue
			}
			ix.products[p.ID] = &p
			if _, seen := ix.bomsByTemplate[p.TemplateID]; !seen {
				templateIDs = append(templateIDs, p.TemplateID)
			}
		}
		if len(templateIDs) == 0 {
			break
		}

		boms, err := l.boms.FindActiveByTemplateIDs(ctx, templateIDs)
		if err != nil {
			return nil, err
		}
		pending = l.indexBoms(ix, boms)
	}

	sort.Slice(ix.ambiguousTemplates, func(i, j int) bool {
		return ix.ambiguousTemplates[i].String() < ix.ambiguousTemplates[j].String()
	})
	return ix, nil
}

// indexBoms records the loaded BOMs and returns the component product IDs
// not yet present in the snapshot. When a template carries several active
// BOMs the one with the lowest ID wins, so repeated runs against the same
// data always resolve the same recipe.
func (l *IndexLoader) indexBoms(ix *Index, boms []Bom) []uuid.UUID {
	var next []uuid.UUID
	for i := range boms {
		b := boms[i]
		if existing, ok := ix.bomsByTemplate[b.TemplateID]; ok {
			if !containsID(ix.ambiguousTemplates, b.TemplateID) {
				ix.ambiguousTemplates = append(ix.ambiguousTemplates, b.TemplateID)
				l.logger.Error("Template has multiple active BOMs",
					zap.String("template_id", b.TemplateID.String()),
					zap.String("kept_bom_id", existing.ID.String()),
				)
			}
			if b.ID.String() < existing.ID.String() {
				ix.bomsByTemplate[b.TemplateID] = &b
			}
		} else {
			ix.bomsByTemplate[b.TemplateID] = &b
		}

		for _, line := range b.Lines {
			if _, ok := ix.products[line.ComponentID]; !ok {
				next = append(next, line.ComponentID)
			}
		}
	}
	return dedupeIDs(next)
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BomKind is the closed set of bill-of-materials kinds.
// The kind decides what session close consumes: an assembly BOM is exploded
// into its components, a pass-through BOM decrements the finished product's
// own stock and leaves the component lines to the production flow.
type BomKind string

const (
	BomKindAssembly    BomKind = "assembly"
	BomKindPassThrough BomKind = "pass_through"
)

// Valid reports whether the kind is one of the known variants
func (k BomKind) Valid() bool {
	switch k {
	case BomKindAssembly, BomKindPassThrough:
		return true
	}
	return false
}

// Bom is the recipe attached to a product template
type Bom struct {
	shared.BaseEntity
	TemplateID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind       BomKind   `gorm:"size:32;not null"`
	// Only active BOMs are consulted at session close. A template must have
	// at most one active BOM; more than one is a data error.
	Active bool      `gorm:"not null;default:true"`
	Lines  []BomLine `gorm:"foreignKey:BomID;references:ID"`
}

// TableName returns the table name for GORM
func (Bom) TableName() string {
	return "boms"
}

// BomLine is one (component, multiplier) edge of a BOM
type BomLine struct {
	shared.BaseEntity
	BomID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID uuid.UUID       `gorm:"type:uuid;not null"`
	Multiplier  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	// Position keeps the declared line order stable across loads
	Position int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BomLine) TableName() string {
	return "bom_lines"
}

// NewBom creates an active BOM for a template
func NewBom(templateID uuid.UUID, kind BomKind) (*Bom, error) {
	if templateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEMPLATE", "Template ID cannot be empty")
	}
	if !kind.Valid() {
		return nil, shared.NewDomainError("INVALID_BOM_KIND", fmt.Sprintf("Unknown BOM kind %q", kind))
	}
	return &Bom{
		BaseEntity: shared.NewBaseEntity(),
		TemplateID: templateID,
		Kind:       kind,
		Active:     true,
		Lines:      make([]BomLine, 0),
	}, nil
}

// AddLine appends a component line to the BOM
func (b *Bom) AddLine(componentID uuid.UUID, multiplier decimal.Decimal) error {
	if componentID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
	}
	if multiplier.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_MULTIPLIER", "Line multiplier must be positive")
	}
	b.Lines = append(b.Lines, BomLine{
		BaseEntity:  shared.NewBaseEntity(),
		BomID:       b.ID,
		ComponentID: componentID,
		Multiplier:  multiplier,
		Position:    len(b.Lines),
	})
	return nil
}

package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates storable product", func(t *testing.T) {
		p, err := NewProduct("Burger", true)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.NotEqual(t, uuid.Nil, p.TemplateID)
		assert.Equal(t, "Burger", p.Name)
		assert.True(t, p.Storable)
		assert.Nil(t, p.PreferredLocationID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("", true)
		assert.Error(t, err)
	})
}

func TestProduct_SetPreferredLocation(t *testing.T) {
	p, err := NewProduct("Burger", true)
	require.NoError(t, err)

	locationID := uuid.New()
	require.NoError(t, p.SetPreferredLocation(locationID))
	require.NotNil(t, p.PreferredLocationID)
	assert.Equal(t, locationID, *p.PreferredLocationID)

	assert.Error(t, p.SetPreferredLocation(uuid.Nil))

	p.ClearPreferredLocation()
	assert.Nil(t, p.PreferredLocationID)
}

func TestBomKind_Valid(t *testing.T) {
	assert.True(t, BomKindAssembly.Valid())
	assert.True(t, BomKindPassThrough.Valid())
	assert.False(t, BomKind("normal").Valid())
	assert.False(t, BomKind("").Valid())
}

func TestNewBom(t *testing.T) {
	t.Run("creates active assembly BOM", func(t *testing.T) {
		templateID := uuid.New()
		bom, err := NewBom(templateID, BomKindAssembly)
		require.NoError(t, err)

		assert.Equal(t, templateID, bom.TemplateID)
		assert.Equal(t, BomKindAssembly, bom.Kind)
		assert.True(t, bom.Active)
		assert.Empty(t, bom.Lines)
	})

	t.Run("rejects nil template", func(t *testing.T) {
		_, err := NewBom(uuid.Nil, BomKindAssembly)
		assert.Error(t, err)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewBom(uuid.New(), BomKind("phantom"))
		assert.Error(t, err)
	})
}

func TestBom_AddLine(t *testing.T) {
	bom, err := NewBom(uuid.New(), BomKindAssembly)
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, bom.AddLine(first, decimal.NewFromInt(2)))
	require.NoError(t, bom.AddLine(second, decimal.NewFromFloat(0.15)))

	require.Len(t, bom.Lines, 2)
	assert.Equal(t, first, bom.Lines[0].ComponentID)
	assert.Equal(t, 0, bom.Lines[0].Position)
	assert.Equal(t, second, bom.Lines[1].ComponentID)
	assert.Equal(t, 1, bom.Lines[1].Position)

	t.Run("rejects nil component", func(t *testing.T) {
		assert.Error(t, bom.AddLine(uuid.Nil, decimal.NewFromInt(1)))
	})

	t.Run("rejects non-positive multiplier", func(t *testing.T) {
		assert.Error(t, bom.AddLine(uuid.New(), decimal.Zero))
		assert.Error(t, bom.AddLine(uuid.New(), decimal.NewFromInt(-1)))
	})
}

package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/trellis/pkg/models"
)

func baseInputs() Inputs {
	return Inputs{
		LengthFeet:        100,
		Lines:             4,
		StyleFamily:       models.StyleFamilyStandard,
		PostMaterial:      models.PostMaterialWood,
		RailCount:         3,
		PostSpacingFeet:   8,
		PicketWidthInches: 5.5,
	}
}

func quantities(components []models.ComputedComponent) map[string]float64 {
	m := make(map[string]float64, len(components))
	for _, c := range components {
		m[c.ComponentCode] = c.Quantity
	}
	return m
}

func TestPosts(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		assert.Equal(t, 14.0, Posts(100, 8, 1))
	})

	t.Run("extra post per two lines beyond the second", func(t *testing.T) {
		assert.Equal(t, 14.0, Posts(100, 8, 2))
		assert.Equal(t, 15.0, Posts(100, 8, 3))
		assert.Equal(t, 15.0, Posts(100, 8, 4))
		assert.Equal(t, 16.0, Posts(100, 8, 6))
	})

	t.Run("partial section needs a full post", func(t *testing.T) {
		assert.Equal(t, 15.0, Posts(105, 8, 1))
	})
}

func TestRails(t *testing.T) {
	assert.Equal(t, 39.0, Rails(100, 8, 3))
	assert.Equal(t, 26.0, Rails(100, 8, 2))
	assert.Equal(t, 42.0, Rails(110, 8, 3))
}

func TestPickets(t *testing.T) {
	// 100ft * 12 / 5.5in = 218.18 pickets before waste.
	t.Run("standard multiplier", func(t *testing.T) {
		assert.Equal(t, 223.0, Pickets(100, 5.5, models.StyleFamilyStandard))
	})

	t.Run("good neighbor multiplier", func(t *testing.T) {
		assert.Equal(t, 230.0, Pickets(100, 5.5, models.StyleFamilyGoodNeighbor))
	})

	t.Run("board on board multiplier", func(t *testing.T) {
		assert.Equal(t, 278.0, Pickets(100, 5.5, models.StyleFamilyBoardOnBoard))
	})
}

func TestCalculate_WoodPosts(t *testing.T) {
	components := Calculate(baseInputs())
	q := quantities(components)

	t.Run("no steel hardware for wood posts", func(t *testing.T) {
		_, hasBracket := q[models.ComponentBracket]
		_, hasCap := q[models.ComponentSteelPostCap]
		assert.False(t, hasBracket)
		assert.False(t, hasCap)
	})

	t.Run("core components", func(t *testing.T) {
		assert.Equal(t, 15.0, q[models.ComponentPost])
		assert.Equal(t, 223.0, q[models.ComponentPicket])
		assert.Equal(t, 39.0, q[models.ComponentRail])
	})

	t.Run("fasteners are fractional boxes", func(t *testing.T) {
		assert.InDelta(t, 223*6/2000.0, q[models.ComponentNailsPicket], 1e-9)
		assert.InDelta(t, 39*4/2000.0, q[models.ComponentNailsFraming], 1e-9)
	})

	t.Run("concrete per post", func(t *testing.T) {
		assert.Equal(t, 7.5, q[models.ComponentConcreteSand])
		assert.Equal(t, 3.75, q[models.ComponentConcretePortland])
		assert.Equal(t, 22.5, q[models.ComponentConcreteQuickrock])
	})
}

func TestCalculate_SteelPosts(t *testing.T) {
	in := baseInputs()
	in.PostMaterial = models.PostMaterialSteel

	q := quantities(Calculate(in))

	assert.Equal(t, 45.0, q[models.ComponentBracket], "one bracket per post per rail")
	assert.Equal(t, 15.0, q[models.ComponentSteelPostCap], "one cap per post")
}

func TestCalculate_OptionalMaterials(t *testing.T) {
	t.Run("omitted when length is zero", func(t *testing.T) {
		q := quantities(Calculate(baseInputs()))
		_, hasCap := q[models.ComponentCap]
		_, hasTrim := q[models.ComponentTrim]
		_, hasRotBoard := q[models.ComponentRotBoard]
		assert.False(t, hasCap)
		assert.False(t, hasTrim)
		assert.False(t, hasRotBoard)
	})

	t.Run("included when configured", func(t *testing.T) {
		in := baseInputs()
		in.CapLengthFeet = 8
		in.TrimLengthFeet = 8
		in.RotBoardLengthFeet = 8

		q := quantities(Calculate(in))
		assert.Equal(t, 13.0, q[models.ComponentCap])
		assert.Equal(t, 13.0, q[models.ComponentTrim])
		assert.Equal(t, 13.0, q[models.ComponentRotBoard])
	})

	t.Run("trim is a single run even on board-on-board", func(t *testing.T) {
		in := baseInputs()
		in.StyleFamily = models.StyleFamilyBoardOnBoard
		in.TrimLengthFeet = 8

		q := quantities(Calculate(in))
		assert.Equal(t, 13.0, q[models.ComponentTrim])
	})
}

func TestCalculate_DependencyOrder(t *testing.T) {
	in := baseInputs()
	in.PostMaterial = models.PostMaterialSteel
	in.CapLengthFeet = 8

	components := Calculate(in)
	codes := make([]string, len(components))
	for i, c := range components {
		codes[i] = c.ComponentCode
	}
	assert.Equal(t, []string{
		models.ComponentPost,
		models.ComponentPicket,
		models.ComponentRail,
		models.ComponentBracket,
		models.ComponentCap,
		models.ComponentSteelPostCap,
		models.ComponentNailsPicket,
		models.ComponentNailsFraming,
		models.ComponentConcreteSand,
		models.ComponentConcretePortland,
		models.ComponentConcreteQuickrock,
	}, codes)
}

func TestCalculate_Deterministic(t *testing.T) {
	in := baseInputs()
	first := Calculate(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Calculate(in))
	}
}

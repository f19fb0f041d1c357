package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/trellis/pkg/models"
)

var seedInputs = []string{"length", "lines", "gates", "post_spacing", "rail_count"}

func componentOrder() []models.ComponentType {
	codes := []string{"post", "picket", "rail", "bracket", "concrete_sand"}
	componentTypes := make([]models.ComponentType, len(codes))
	for i, code := range codes {
		componentTypes[i] = models.ComponentType{
			ID:        "ct-" + code,
			Code:      code,
			SortOrder: i + 1,
			IsActive:  true,
		}
	}
	return componentTypes
}

func catalogTemplate(id, component, expr string) models.FormulaTemplate {
	return models.FormulaTemplate{
		ID:            id,
		ComponentCode: component,
		Formula:       expr,
		RoundingLevel: models.RoundingLevelSKU,
		IsActive:      true,
	}
}

func TestValidateCatalog(t *testing.T) {
	t.Run("clean catalog is valid", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-post", "post", "ROUNDUP([length] / [post_spacing]) + 1"),
			catalogTemplate("t-rail", "rail", "ROUNDUP([length] / [post_spacing]) * [rail_count]"),
			catalogTemplate("t-bracket", "bracket", "[post_qty] * [rail_count]"),
			catalogTemplate("t-sand", "concrete_sand", "[post_qty] * 0.5"),
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Findings)
	})

	t.Run("forward reference is out of order", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-post", "post", "[bracket_qty] * 2"),
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.False(t, result.Valid)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, models.DiagnosticOutOfOrderReference, result.Findings[0].Code)
		assert.Equal(t, "post", result.Findings[0].ComponentCode)
	})

	t.Run("self reference is out of order", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-post", "post", "[post_qty] + 1"),
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.False(t, result.Valid)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, models.DiagnosticOutOfOrderReference, result.Findings[0].Code)
	})

	t.Run("unknown variable is reported", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-post", "post", "[length] * [wibble]"),
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.False(t, result.Valid)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, models.DiagnosticUnknownVariable, result.Findings[0].Code)
	})

	t.Run("malformed formula is reported", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-post", "post", "[length] +"),
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.False(t, result.Valid)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, models.DiagnosticMalformedFormula, result.Findings[0].Code)
		assert.Equal(t, "t-post", result.Findings[0].TemplateID)
	})

	t.Run("component outside the dependency order", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-gate", "gate_hardware", "[gates] * 1"),
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.False(t, result.Valid)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, models.DiagnosticOutOfOrderReference, result.Findings[0].Code)
	})

	t.Run("selection ties are hard findings", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-a", "post", "[length] / 8"),
			catalogTemplate("t-b", "post", "[length] / 10"),
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.False(t, result.Valid)
		require.Len(t, result.Findings, 1)
		assert.Equal(t, models.DiagnosticAmbiguousSelection, result.Findings[0].Code)
	})

	t.Run("tie findings come in component order", func(t *testing.T) {
		templates := []models.FormulaTemplate{
			catalogTemplate("t-r1", "rail", "[length] / 8 * [rail_count]"),
			catalogTemplate("t-r2", "rail", "[length] / 10 * [rail_count]"),
			catalogTemplate("t-p1", "post", "[length] / 8"),
			catalogTemplate("t-p2", "post", "[length] / 10"),
		}

		for i := 0; i < 20; i++ {
			result := ValidateCatalog(componentOrder(), templates, seedInputs)
			require.Len(t, result.Findings, 2)
			assert.Equal(t, "post", result.Findings[0].ComponentCode)
			assert.Equal(t, "rail", result.Findings[1].ComponentCode)
			assert.Contains(t, result.Findings[0].Message, "t-p1, t-p2")
		}
	})

	t.Run("same priority under different style scopes is not a tie", func(t *testing.T) {
		styleID := "style-gn"
		scoped := catalogTemplate("t-scoped", "picket", "[length] * 12 / 5.5 * 1.05")
		scoped.ProductStyleID = &styleID
		templates := []models.FormulaTemplate{
			catalogTemplate("t-generic", "picket", "[length] * 12 / 5.5 * 1.02"),
			scoped,
		}

		result := ValidateCatalog(componentOrder(), templates, seedInputs)
		assert.True(t, result.Valid)
	})

	t.Run("inactive templates are skipped", func(t *testing.T) {
		broken := catalogTemplate("t-broken", "post", "[length] +")
		broken.IsActive = false

		result := ValidateCatalog(componentOrder(), []models.FormulaTemplate{broken}, seedInputs)
		assert.True(t, result.Valid)
	})
}

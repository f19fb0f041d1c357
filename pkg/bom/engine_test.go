package bom

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/trellis/pkg/models"
)

type staticTemplates []models.FormulaTemplate

func (s staticTemplates) ListActiveByProductType(_ context.Context, _, _ string) ([]models.FormulaTemplate, error) {
	return s, nil
}

type staticComponents []models.ComponentType

func (s staticComponents) ListActiveByProductType(_ context.Context, _, _ string) ([]models.ComponentType, error) {
	return s, nil
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func componentType(code string, sortOrder int) models.ComponentType {
	return models.ComponentType{
		ID:            "ct-" + code,
		TenantID:      "default",
		ProductTypeID: "pt-1",
		Code:          code,
		DisplayName:   code,
		SortOrder:     sortOrder,
		IsActive:      true,
	}
}

func activeTemplate(id, component, expr string, level models.RoundingLevel) models.FormulaTemplate {
	return models.FormulaTemplate{
		ID:            id,
		TenantID:      "default",
		ProductTypeID: "pt-1",
		ComponentCode: component,
		Formula:       expr,
		RoundingLevel: level,
		IsActive:      true,
	}
}

func TestEngine_Calculate(t *testing.T) {
	components := staticComponents{
		componentType("post", 1),
		componentType("rail", 2),
		componentType("bracket", 3),
		componentType("concrete_sand", 4),
	}
	templates := staticTemplates{
		activeTemplate("t-post", "post", "ROUNDUP([length] / [post_spacing]) + 1 + ROUNDUP(MAX([lines] - 2, 0) / 2)", models.RoundingLevelSKU),
		activeTemplate("t-rail", "rail", "ROUNDUP([length] / [post_spacing]) * [rail_count]", models.RoundingLevelSKU),
		activeTemplate("t-bracket", "bracket", "[post_qty] * [rail_count]", models.RoundingLevelSKU),
		activeTemplate("t-sand", "concrete_sand", "[post_qty] * 0.5", models.RoundingLevelProject),
	}

	engine := NewEngine(testLogger(), templates, components)

	req := models.CalculationRequest{
		ProductTypeID: "pt-1",
		LengthFeet:    100,
		Lines:         4,
		Attributes: map[string]float64{
			"post_spacing": 8,
			"rail_count":   3,
		},
	}

	result, err := engine.Calculate(context.Background(), "default", req)
	require.NoError(t, err)
	require.Len(t, result.Components, 4)
	assert.Empty(t, result.Diagnostics)

	t.Run("components come back in dependency order", func(t *testing.T) {
		codes := make([]string, len(result.Components))
		for i, c := range result.Components {
			codes[i] = c.ComponentCode
		}
		assert.Equal(t, []string{"post", "rail", "bracket", "concrete_sand"}, codes)
	})

	t.Run("later formulas see earlier rounded quantities", func(t *testing.T) {
		// posts = ceil(100/8)+1+ceil(2/2) = 15; brackets = 15 * 3
		assert.Equal(t, 15.0, result.Components[0].Quantity)
		assert.Equal(t, 45.0, result.Components[2].Quantity)
	})

	t.Run("project rounding stays fractional", func(t *testing.T) {
		sand := result.Components[3]
		assert.Equal(t, models.RoundingLevelProject, sand.RoundingLevel)
		assert.Equal(t, 7.5, sand.Quantity)
	})

	t.Run("trace captures formula and values", func(t *testing.T) {
		assert.Contains(t, result.Components[0].Trace, "post")
		assert.Contains(t, result.Components[0].Trace, "ROUNDUP")
	})
}

func TestEngine_Calculate_Degradation(t *testing.T) {
	components := staticComponents{
		componentType("post", 1),
		componentType("picket", 2),
		componentType("rail", 3),
	}

	t.Run("malformed template yields error diagnostic and zero quantity", func(t *testing.T) {
		templates := staticTemplates{
			activeTemplate("t-post", "post", "ROUNDUP([length] / 8) + 1", models.RoundingLevelSKU),
			activeTemplate("t-picket", "picket", "[length] / 0", models.RoundingLevelSKU),
			activeTemplate("t-rail", "rail", "ROUNDUP([length] / 8) * 3", models.RoundingLevelSKU),
		}
		engine := NewEngine(testLogger(), templates, components)

		result, err := engine.Calculate(context.Background(), "default", models.CalculationRequest{
			ProductTypeID: "pt-1",
			LengthFeet:    100,
		})
		require.NoError(t, err)

		// All three components present; the broken one is zero.
		require.Len(t, result.Components, 3)
		assert.Equal(t, 0.0, result.Components[1].Quantity)

		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, models.DiagnosticMalformedFormula, result.Diagnostics[0].Code)
		assert.Equal(t, models.DiagnosticSeverityError, result.Diagnostics[0].Severity)
		assert.Equal(t, "picket", result.Diagnostics[0].ComponentCode)

		// The failure does not leak into unrelated components.
		assert.Equal(t, 14.0, result.Components[0].Quantity)
		assert.Equal(t, 39.0, result.Components[2].Quantity)
	})

	t.Run("missing variable substitutes zero with one warning", func(t *testing.T) {
		templates := staticTemplates{
			activeTemplate("t-post", "post", "[length] + [post_spacing] * 2 + [post_spacing]", models.RoundingLevelSKU),
		}
		engine := NewEngine(testLogger(), templates, components)

		result, err := engine.Calculate(context.Background(), "default", models.CalculationRequest{
			ProductTypeID: "pt-1",
			LengthFeet:    100,
		})
		require.NoError(t, err)

		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, models.DiagnosticMissingVariable, result.Diagnostics[0].Code)
		assert.Equal(t, models.DiagnosticSeverityWarning, result.Diagnostics[0].Severity)
	})

	t.Run("components without templates are skipped silently", func(t *testing.T) {
		templates := staticTemplates{
			activeTemplate("t-post", "post", "ROUNDUP([length] / 8) + 1", models.RoundingLevelSKU),
		}
		engine := NewEngine(testLogger(), templates, components)

		result, err := engine.Calculate(context.Background(), "default", models.CalculationRequest{
			ProductTypeID: "pt-1",
			LengthFeet:    100,
		})
		require.NoError(t, err)
		require.Len(t, result.Components, 1)
		assert.Equal(t, "post", result.Components[0].ComponentCode)
		assert.Empty(t, result.Diagnostics)
	})
}

func TestEngine_Calculate_StyleSelection(t *testing.T) {
	components := staticComponents{componentType("picket", 1)}
	goodNeighbor := "style-gn"
	templates := staticTemplates{
		activeTemplate("t-generic", "picket", "ROUNDUP([length] * 12 / 5.5 * 1.02)", models.RoundingLevelSKU),
		{
			ID:             "t-gn",
			TenantID:       "default",
			ProductTypeID:  "pt-1",
			ProductStyleID: &goodNeighbor,
			ComponentCode:  "picket",
			Formula:        "ROUNDUP([length] * 12 / 5.5 * 1.05)",
			RoundingLevel:  models.RoundingLevelSKU,
			IsActive:       true,
		},
	}
	engine := NewEngine(testLogger(), templates, components)

	t.Run("style request uses the override", func(t *testing.T) {
		result, err := engine.Calculate(context.Background(), "default", models.CalculationRequest{
			ProductTypeID:  "pt-1",
			ProductStyleID: &goodNeighbor,
			LengthFeet:     100,
		})
		require.NoError(t, err)
		require.Len(t, result.Components, 1)
		// ceil(100*12/5.5*1.05) = ceil(229.09) = 230
		assert.Equal(t, 230.0, result.Components[0].Quantity)
	})

	t.Run("style-less request uses the generic template", func(t *testing.T) {
		result, err := engine.Calculate(context.Background(), "default", models.CalculationRequest{
			ProductTypeID: "pt-1",
			LengthFeet:    100,
		})
		require.NoError(t, err)
		require.Len(t, result.Components, 1)
		// ceil(100*12/5.5*1.02) = ceil(222.54) = 223
		assert.Equal(t, 223.0, result.Components[0].Quantity)
	})
}

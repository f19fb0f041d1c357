package comparison

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/trellis/pkg/bom"
	"github.com/Ramsey-B/trellis/pkg/compare"
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

func activeTemplate(component, expr string, level models.RoundingLevel) models.FormulaTemplate {
	return models.FormulaTemplate{
		ID:            "t-" + component,
		TenantID:      "default",
		ProductTypeID: "pt-1",
		ComponentCode: component,
		Formula:       expr,
		RoundingLevel: level,
		IsActive:      true,
	}
}

// Catalog mirroring the closed-form wood-vertical math, so a wood SKU diff
// comes back all MATCH.
func woodVerticalCatalog() (staticComponents, staticTemplates) {
	components := staticComponents{
		componentType(models.ComponentPost, 1),
		componentType(models.ComponentPicket, 2),
		componentType(models.ComponentRail, 3),
		componentType(models.ComponentBracket, 4),
		componentType(models.ComponentSteelPostCap, 5),
		componentType(models.ComponentNailsPicket, 6),
		componentType(models.ComponentNailsFraming, 7),
		componentType(models.ComponentConcreteSand, 8),
		componentType(models.ComponentConcretePortland, 9),
		componentType(models.ComponentConcreteQuickrock, 10),
	}
	templates := staticTemplates{
		activeTemplate(models.ComponentPost, "ROUNDUP([length] / [post_spacing]) + 1 + ROUNDUP(MAX([lines] - 2, 0) / 2)", models.RoundingLevelSKU),
		activeTemplate(models.ComponentPicket, "[length] * 12 / [picket_width_inches] * 1.02", models.RoundingLevelSKU),
		activeTemplate(models.ComponentRail, "ROUNDUP([length] / [post_spacing]) * [rail_count]", models.RoundingLevelSKU),
		activeTemplate(models.ComponentBracket, "[post_qty] * [rail_count] * [steel_posts]", models.RoundingLevelSKU),
		activeTemplate(models.ComponentSteelPostCap, "[post_qty] * [steel_posts]", models.RoundingLevelSKU),
		activeTemplate(models.ComponentNailsPicket, "[picket_qty] * 6 / 2000", models.RoundingLevelProject),
		activeTemplate(models.ComponentNailsFraming, "[rail_qty] * 4 / 2000", models.RoundingLevelProject),
		activeTemplate(models.ComponentConcreteSand, "[post_qty] * 0.5", models.RoundingLevelProject),
		activeTemplate(models.ComponentConcretePortland, "[post_qty] * 0.25", models.RoundingLevelProject),
		activeTemplate(models.ComponentConcreteQuickrock, "[post_qty] * 1.5", models.RoundingLevelProject),
	}
	return components, templates
}

func postComparison(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	components, templates := woodVerticalCatalog()
	engine := bom.NewEngine(logger, templates, components)

	container, err := ectoinject.NewDIContainer(ectocontainer.DIContainerConfig{ID: uuid.NewString()})
	require.NoError(t, err)
	require.NoError(t, ectoinject.RegisterInstance[*bom.Engine](container, engine))
	require.NoError(t, ectoinject.RegisterInstance[compare.Thresholds](container, compare.DefaultThresholds()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/wood-vertical", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx, err := ectoinject.SetActiveContainer(req.Context(), container.GetContainerID())
	require.NoError(t, err)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	require.NoError(t, CompareWoodVertical(e.NewContext(req, rec)))
	return rec
}

func TestCompareWoodVertical(t *testing.T) {
	t.Run("wood SKU returns a passing report", func(t *testing.T) {
		rec := postComparison(t, `{
			"product_type_id": "pt-1",
			"length_feet": 100,
			"lines": 4,
			"style_family": "standard",
			"post_material": "wood",
			"attributes": {
				"post_spacing": 8,
				"rail_count": 3,
				"picket_width_inches": 5.5
			}
		}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var report models.ComparisonReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.True(t, report.Passed)
		require.NotEmpty(t, report.Entries)
		for _, entry := range report.Entries {
			assert.Equal(t, models.ComparisonStatusMatch, entry.Status, entry.ComponentCode)
		}
	})

	t.Run("steel SKU includes matching bracket hardware", func(t *testing.T) {
		rec := postComparison(t, `{
			"product_type_id": "pt-1",
			"length_feet": 100,
			"lines": 4,
			"style_family": "standard",
			"post_material": "steel",
			"attributes": {
				"post_spacing": 8,
				"rail_count": 3,
				"picket_width_inches": 5.5
			}
		}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var report models.ComparisonReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.True(t, report.Passed)

		byCode := make(map[string]models.ComponentComparison, len(report.Entries))
		for _, entry := range report.Entries {
			byCode[entry.ComponentCode] = entry
		}
		require.Contains(t, byCode, models.ComponentBracket)
		assert.Equal(t, models.ComparisonStatusMatch, byCode[models.ComponentBracket].Status)
		assert.Equal(t, float64(45), byCode[models.ComponentBracket].V1Quantity)
	})
}

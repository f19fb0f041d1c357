package comparison

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/trellis/pkg/bom"
	"github.com/Ramsey-B/trellis/pkg/compare"
	"github.com/Ramsey-B/trellis/pkg/context"
	"github.com/Ramsey-B/trellis/pkg/legacy"
	"github.com/Ramsey-B/trellis/pkg/metrics"
	"github.com/Ramsey-B/trellis/pkg/models"
)

var validate = validator.New()

// Register registers comparison routes
func Register(g *echo.Group) {
	g.POST("/wood-vertical", CompareWoodVertical)
}

// CompareWoodVertical runs the legacy closed-form calculator and the formula
// engine against identical inputs and diffs the results component by
// component. Used as the regression gate while templates are migrated.
func CompareWoodVertical(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	var req models.ComparisonRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	v1 := legacy.Calculate(legacyInputs(req))

	// The engine has no notion of post material; it sees it as the 0/1
	// steel_posts attribute that steel-only hardware formulas multiply by.
	if req.Attributes == nil {
		req.Attributes = make(map[string]float64)
	}
	if _, ok := req.Attributes[models.VarSteelPosts]; !ok {
		if req.PostMaterial == models.PostMaterialSteel {
			req.Attributes[models.VarSteelPosts] = 1
		} else {
			req.Attributes[models.VarSteelPosts] = 0
		}
	}

	ctx, engine, err := ectoinject.GetContext[*bom.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	v2, err := engine.Calculate(ctx, tenantID, req.CalculationRequest)
	if err != nil {
		return err
	}

	ctx, thresholds, err := ectoinject.GetContext[compare.Thresholds](ctx)
	if err != nil {
		thresholds = compare.DefaultThresholds()
	}

	report := compare.Components(v1, v2.Components, thresholds)
	report.Diagnostics = v2.Diagnostics

	status := "passed"
	if !report.Passed {
		status = "failed"
	}
	metrics.ComparisonsTotal.WithLabelValues(tenantID, req.ProductTypeID, status).Inc()

	return c.JSON(http.StatusOK, report)
}

// legacyInputs maps the request's attribute bag onto the closed-form
// calculator's configuration. Missing attributes stay zero, which the legacy
// calculator treats as "material not configured".
func legacyInputs(req models.ComparisonRequest) legacy.Inputs {
	return legacy.Inputs{
		LengthFeet:         req.LengthFeet,
		Lines:              req.Lines,
		StyleFamily:        req.StyleFamily,
		PostMaterial:       req.PostMaterial,
		RailCount:          int(req.Attributes[models.VarRailCount]),
		PostSpacingFeet:    req.Attributes[models.VarPostSpacing],
		PicketWidthInches:  req.Attributes[models.VarPicketWidthInches],
		CapLengthFeet:      req.Attributes[models.VarCapLength],
		TrimLengthFeet:     req.Attributes[models.VarTrimLength],
		RotBoardLengthFeet: req.Attributes[models.VarRotBoardLength],
	}
}

package validation

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/trellis/internal/repositories/componenttype"
	"github.com/Ramsey-B/trellis/internal/repositories/formulatemplate"
	"github.com/Ramsey-B/trellis/pkg/context"
	"github.com/Ramsey-B/trellis/pkg/models"
	"github.com/Ramsey-B/trellis/pkg/validation"
)

// seedInputs are the variables every calculation request provides, either
// directly or through the attribute bag.
var seedInputs = []string{
	models.VarLength,
	models.VarLines,
	models.VarGates,
	models.VarPostSpacing,
	models.VarRailCount,
	models.VarPicketWidthInches,
	models.VarCapLength,
	models.VarTrimLength,
	models.VarRotBoardLength,
	models.VarSteelPosts,
}

// Register registers catalog validation routes
func Register(g *echo.Group) {
	g.POST("/catalog/:productTypeID", ValidateCatalog)
}

// ValidateCatalog checks every active formula template for a product type
// against the component dependency order and the seed input variables
func ValidateCatalog(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	productTypeID := c.Param("productTypeID")

	ctx, componentRepo, err := ectoinject.GetContext[*componenttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	componentTypes, err := componentRepo.ListActiveByProductType(ctx, tenantID, productTypeID)
	if err != nil {
		return err
	}

	ctx, templateRepo, err := ectoinject.GetContext[*formulatemplate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	templates, err := templateRepo.ListActiveByProductType(ctx, tenantID, productTypeID)
	if err != nil {
		return err
	}

	result := validation.ValidateCatalog(componentTypes, templates, seedInputs)

	return c.JSON(http.StatusOK, result)
}

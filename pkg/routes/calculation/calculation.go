package calculation

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/trellis/internal/repositories/productstyle"
	"github.com/Ramsey-B/trellis/internal/repositories/producttype"
	"github.com/Ramsey-B/trellis/pkg/bom"
	"github.com/Ramsey-B/trellis/pkg/context"
	"github.com/Ramsey-B/trellis/pkg/models"
)

var validate = validator.New()

// Register registers calculation routes
func Register(g *echo.Group) {
	g.POST("", Calculate)
}

// Calculate runs a BOM calculation for a single fence line item
func Calculate(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	var req models.CalculationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Catalog references must resolve before any formula runs; a dangling
	// product type or style fails the whole request.
	ctx, typeRepo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if _, err := typeRepo.Get(ctx, tenantID, req.ProductTypeID); err != nil {
		return err
	}

	if req.ProductStyleID != nil {
		ctx2, styleRepo, err := ectoinject.GetContext[*productstyle.Repository](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
		ctx = ctx2
		if _, err := styleRepo.Get(ctx, tenantID, *req.ProductStyleID); err != nil {
			return err
		}
	}

	ctx, engine, err := ectoinject.GetContext[*bom.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := engine.Calculate(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

package formulatemplate

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/trellis/internal/repositories/formulatemplate"
	"github.com/Ramsey-B/trellis/pkg/context"
	"github.com/Ramsey-B/trellis/pkg/formula"
	"github.com/Ramsey-B/trellis/pkg/models"
)

var validate = validator.New()

// Register registers formula template routes
func Register(g *echo.Group) {
	g.GET("", ListFormulaTemplates)
	g.GET("/:id", GetFormulaTemplate)
	g.POST("", CreateFormulaTemplate)
	g.PUT("/:id", UpdateFormulaTemplate)
	g.DELETE("/:id", DeleteFormulaTemplate)
}

// ListFormulaTemplates lists formula templates, optionally filtered by product type
func ListFormulaTemplates(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	var productTypeID *string
	if v := c.QueryParam("product_type_id"); v != "" {
		productTypeID = &v
	}
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*formulatemplate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	templates, totalCount, err := repo.List(ctx, tenantID, productTypeID, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.FormulaTemplateListResponse{
		Items:      templates,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetFormulaTemplate gets a formula template by ID
func GetFormulaTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*formulatemplate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	template, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, template)
}

// CreateFormulaTemplate creates a new formula template. The formula text must
// parse; a template that cannot parse is rejected here rather than surfacing
// as a calculation-time diagnostic.
func CreateFormulaTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	var req models.CreateFormulaTemplateRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, evaluator, err := ectoinject.GetContext[*formula.Evaluator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := evaluator.Validate(req.Formula); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid formula: %s", err.Error()))
	}

	ctx, repo, err := ectoinject.GetContext[*formulatemplate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateFormulaTemplate updates a formula template
func UpdateFormulaTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")

	var req models.UpdateFormulaTemplateRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Formula != nil {
		ctx2, evaluator, err := ectoinject.GetContext[*formula.Evaluator](ctx)
		if err != nil {
			return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
		}
		ctx = ctx2

		if err := evaluator.Validate(*req.Formula); err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid formula: %s", err.Error()))
		}
	}

	ctx, repo, err := ectoinject.GetContext[*formulatemplate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, tenantID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteFormulaTemplate deletes a formula template
func DeleteFormulaTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*formulatemplate.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

package producttype

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/trellis/internal/repositories/componenttype"
	"github.com/Ramsey-B/trellis/internal/repositories/productstyle"
	"github.com/Ramsey-B/trellis/internal/repositories/producttype"
	"github.com/Ramsey-B/trellis/pkg/context"
	"github.com/Ramsey-B/trellis/pkg/models"
)

var validate = validator.New()

// Register registers product type routes, including the nested style and
// component type collections
func Register(g *echo.Group) {
	g.GET("", ListProductTypes)
	g.GET("/:id", GetProductType)
	g.POST("", CreateProductType)
	g.PUT("/:id", UpdateProductType)
	g.DELETE("/:id", DeleteProductType)

	g.GET("/:id/styles", ListProductStyles)
	g.POST("/:id/styles", CreateProductStyle)
	g.DELETE("/:id/styles/:styleID", DeleteProductStyle)

	g.GET("/:id/components", ListComponentTypes)
	g.POST("/:id/components", CreateComponentType)
	g.PUT("/:id/components/:componentID", UpdateComponentType)
	g.DELETE("/:id/components/:componentID", DeleteComponentType)
}

// ListProductTypes lists product types for the tenant
func ListProductTypes(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	productTypes, totalCount, err := repo.List(ctx, tenantID, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ProductTypeListResponse{
		Items:      productTypes,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// GetProductType gets a product type by ID
func GetProductType(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	productType, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, productType)
}

// CreateProductType creates a new product type
func CreateProductType(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	var req models.CreateProductTypeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateProductType updates a product type
func UpdateProductType(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")

	var req models.UpdateProductTypeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, repo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, tenantID, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteProductType deletes a product type
func DeleteProductType(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListProductStyles lists the styles under a product type
func ListProductStyles(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	productTypeID := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*productstyle.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	styles, err := repo.ListByProductType(ctx, tenantID, productTypeID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, styles)
}

// CreateProductStyle creates a style under a product type
func CreateProductStyle(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	productTypeID := c.Param("id")

	var req models.CreateProductStyleRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The product type must exist before styles can hang off it
	ctx, typeRepo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if _, err := typeRepo.Get(ctx, tenantID, productTypeID); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*productstyle.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, tenantID, productTypeID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// DeleteProductStyle deletes a product style
func DeleteProductStyle(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	styleID := c.Param("styleID")

	ctx, repo, err := ectoinject.GetContext[*productstyle.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, tenantID, styleID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListComponentTypes lists the component types under a product type in
// execution order
func ListComponentTypes(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	productTypeID := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*componenttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	componentTypes, err := repo.ListActiveByProductType(ctx, tenantID, productTypeID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, componentTypes)
}

// CreateComponentType creates a component type under a product type
func CreateComponentType(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	productTypeID := c.Param("id")

	var req models.CreateComponentTypeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, typeRepo, err := ectoinject.GetContext[*producttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	if _, err := typeRepo.Get(ctx, tenantID, productTypeID); err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*componenttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, tenantID, productTypeID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateComponentType updates a component type
func UpdateComponentType(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	componentID := c.Param("componentID")

	var req models.UpdateComponentTypeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, repo, err := ectoinject.GetContext[*componenttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, tenantID, componentID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteComponentType deletes a component type
func DeleteComponentType(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := context.GetTenantID(ctx)

	componentID := c.Param("componentID")

	ctx, repo, err := ectoinject.GetContext[*componenttype.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, tenantID, componentID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

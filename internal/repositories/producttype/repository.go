package producttype

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/trellis/pkg/database"
	"github.com/Ramsey-B/trellis/pkg/models"
	"github.com/Ramsey-B/trellis/pkg/tracing"
)

var selectColumns = []string{"id", "tenant_id", "code", "display_name", "is_active", "created_at", "updated_at", "deleted_at"}

// Repository handles product type persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new product type repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new product type
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateProductTypeRequest) (*models.ProductType, error) {
	ctx, span := tracing.StartSpan(ctx, "producttype.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	productType := &models.ProductType{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Code:        req.Code,
		DisplayName: req.DisplayName,
		IsActive:    req.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("product_types")
	sb.Cols("id", "tenant_id", "code", "display_name", "is_active", "created_at", "updated_at")
	sb.Values(productType.ID, productType.TenantID, productType.Code, productType.DisplayName, productType.IsActive, productType.CreatedAt, productType.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create product type")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create product type")
	}

	return productType, nil
}

// Get retrieves a product type by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.ProductType, error) {
	ctx, span := tracing.StartSpan(ctx, "producttype.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("product_types")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var productType models.ProductType
	if err := r.db.GetContext(ctx, &productType, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product type %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get product type")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get product type")
	}

	return &productType, nil
}

// GetByCode retrieves a product type by its code
func (r *Repository) GetByCode(ctx context.Context, tenantID string, code string) (*models.ProductType, error) {
	ctx, span := tracing.StartSpan(ctx, "producttype.Repository.GetByCode")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("product_types")
	sb.Where(
		sb.Equal("code", code),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var productType models.ProductType
	if err := r.db.GetContext(ctx, &productType, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product type %s not found", code))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get product type by code")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get product type")
	}

	return &productType, nil
}

// List retrieves product types for a tenant with paging
func (r *Repository) List(ctx context.Context, tenantID string, page, pageSize int) ([]models.ProductType, int, error) {
	ctx, span := tracing.StartSpan(ctx, "producttype.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("product_types")
	countSb.Where(
		countSb.Equal("tenant_id", tenantID),
		countSb.IsNull("deleted_at"),
	)

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count product types")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count product types")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("product_types")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("code")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var productTypes []models.ProductType
	if err := r.db.SelectContext(ctx, &productTypes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list product types")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list product types")
	}

	return productTypes, totalCount, nil
}

// Update updates a product type
func (r *Repository) Update(ctx context.Context, tenantID string, id string, req models.UpdateProductTypeRequest) (*models.ProductType, error) {
	ctx, span := tracing.StartSpan(ctx, "producttype.Repository.Update")
	defer span.End()

	existing, err := r.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		existing.DisplayName = *req.DisplayName
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("product_types")
	sb.Set(
		sb.Assign("display_name", existing.DisplayName),
		sb.Assign("is_active", existing.IsActive),
		sb.Assign("updated_at", existing.UpdatedAt),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update product type")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update product type")
	}

	return existing, nil
}

// Delete soft deletes a product type
func (r *Repository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "producttype.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("product_types")
	sb.Set(sb.Assign("deleted_at", time.Now().UTC()))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete product type")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete product type")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product type %s not found", id))
	}

	return nil
}

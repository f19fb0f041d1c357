package productstyle

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

var selectColumns = []string{"id", "tenant_id", "product_type_id", "code", "display_name", "family", "is_active", "created_at", "updated_at", "deleted_at"}

// Repository handles product style persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new product style repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new product style under a product type
func (r *Repository) Create(ctx context.Context, tenantID, productTypeID string, req models.CreateProductStyleRequest) (*models.ProductStyle, error) {
	ctx, span := tracing.StartSpan(ctx, "productstyle.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	style := &models.ProductStyle{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ProductTypeID: productTypeID,
		Code:          req.Code,
		DisplayName:   req.DisplayName,
		Family:        req.Family,
		IsActive:      req.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("product_styles")
	sb.Cols("id", "tenant_id", "product_type_id", "code", "display_name", "family", "is_active", "created_at", "updated_at")
	sb.Values(style.ID, style.TenantID, style.ProductTypeID, style.Code, style.DisplayName, style.Family, style.IsActive, style.CreatedAt, style.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create product style")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create product style")
	}

	return style, nil
}

// Get retrieves a product style by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.ProductStyle, error) {
	ctx, span := tracing.StartSpan(ctx, "productstyle.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("product_styles")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var style models.ProductStyle
	if err := r.db.GetContext(ctx, &style, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product style %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get product style")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get product style")
	}

	return &style, nil
}

// ListByProductType retrieves all styles under a product type
func (r *Repository) ListByProductType(ctx context.Context, tenantID, productTypeID string) ([]models.ProductStyle, error) {
	ctx, span := tracing.StartSpan(ctx, "productstyle.Repository.ListByProductType")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("product_styles")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("product_type_id", productTypeID),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("code")

	query, args := sb.Build()
	var styles []models.ProductStyle
	if err := r.db.SelectContext(ctx, &styles, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list product styles")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list product styles")
	}

	return styles, nil
}

// Delete soft deletes a product style
func (r *Repository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "productstyle.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("product_styles")
	sb.Set(sb.Assign("deleted_at", time.Now().UTC()))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete product style")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete product style")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product style %s not found", id))
	}

	return nil
}

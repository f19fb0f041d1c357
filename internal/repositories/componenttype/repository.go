package componenttype

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

var selectColumns = []string{"id", "tenant_id", "product_type_id", "code", "display_name", "sort_order", "is_active", "created_at", "updated_at", "deleted_at"}

// Repository handles component type persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new component type repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new component type under a product type
func (r *Repository) Create(ctx context.Context, tenantID, productTypeID string, req models.CreateComponentTypeRequest) (*models.ComponentType, error) {
	ctx, span := tracing.StartSpan(ctx, "componenttype.Repository.Create")
	defer span.End()

	now := time.Now().UTC()
	componentType := &models.ComponentType{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		ProductTypeID: productTypeID,
		Code:          req.Code,
		DisplayName:   req.DisplayName,
		SortOrder:     req.SortOrder,
		IsActive:      req.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("component_types")
	sb.Cols("id", "tenant_id", "product_type_id", "code", "display_name", "sort_order", "is_active", "created_at", "updated_at")
	sb.Values(componentType.ID, componentType.TenantID, componentType.ProductTypeID, componentType.Code, componentType.DisplayName, componentType.SortOrder, componentType.IsActive, componentType.CreatedAt, componentType.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create component type")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create component type")
	}

	return componentType, nil
}

// ListActiveByProductType retrieves the active component types for a product
// type in execution order. sort_order decides which components may reference
// which earlier quantities, so it is the only ordering the engine accepts.
func (r *Repository) ListActiveByProductType(ctx context.Context, tenantID, productTypeID string) ([]models.ComponentType, error) {
	ctx, span := tracing.StartSpan(ctx, "componenttype.Repository.ListActiveByProductType")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("component_types")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("product_type_id", productTypeID),
		sb.Equal("is_active", true),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("sort_order", "code")

	query, args := sb.Build()
	var componentTypes []models.ComponentType
	if err := r.db.SelectContext(ctx, &componentTypes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list component types")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list component types")
	}

	return componentTypes, nil
}

// Update updates a component type
func (r *Repository) Update(ctx context.Context, tenantID string, id string, req models.UpdateComponentTypeRequest) (*models.ComponentType, error) {
	ctx, span := tracing.StartSpan(ctx, "componenttype.Repository.Update")
	defer span.End()

	existing, err := r.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		existing.DisplayName = *req.DisplayName
	}
	if req.SortOrder != nil {
		existing.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("component_types")
	sb.Set(
		sb.Assign("display_name", existing.DisplayName),
		sb.Assign("sort_order", existing.SortOrder),
		sb.Assign("is_active", existing.IsActive),
		sb.Assign("updated_at", existing.UpdatedAt),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update component type")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update component type")
	}

	return existing, nil
}

// Delete soft deletes a component type
func (r *Repository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "componenttype.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("component_types")
	sb.Set(sb.Assign("deleted_at", time.Now().UTC()))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete component type")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete component type")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("component type %s not found", id))
	}

	return nil
}

func (r *Repository) get(ctx context.Context, tenantID string, id string) (*models.ComponentType, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("component_types")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var componentType models.ComponentType
	if err := r.db.GetContext(ctx, &componentType, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("component type %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get component type")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get component type")
	}

	return &componentType, nil
}

package formulatemplate

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

var selectColumns = []string{"id", "tenant_id", "product_type_id", "product_style_id", "component_code", "formula", "rounding_level", "priority", "is_active", "created_at", "updated_at", "deleted_at"}

// Repository handles formula template persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new formula template repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new formula template
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateFormulaTemplateRequest) (*models.FormulaTemplate, error) {
	ctx, span := tracing.StartSpan(ctx, "formulatemplate.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":          "Create",
		"tenant_id":       tenantID,
		"product_type_id": req.ProductTypeID,
		"component_code":  req.ComponentCode,
	})

	// Reject exact ties up front: same component, style scope, and priority
	// would make selection ambiguous at calculation time.
	duplicate, err := r.hasSelectionTie(ctx, tenantID, req)
	if err != nil {
		log.WithError(err).Error("Failed to check for selection ties")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create formula template")
	}
	if duplicate {
		return nil, httperror.NewHTTPError(http.StatusConflict,
			fmt.Sprintf("an active template for component %q already exists with the same style scope and priority", req.ComponentCode))
	}

	now := time.Now().UTC()
	template := &models.FormulaTemplate{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		ProductTypeID:  req.ProductTypeID,
		ProductStyleID: req.ProductStyleID,
		ComponentCode:  req.ComponentCode,
		Formula:        req.Formula,
		RoundingLevel:  req.RoundingLevel,
		Priority:       req.Priority,
		IsActive:       req.IsActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("formula_templates")
	sb.Cols("id", "tenant_id", "product_type_id", "product_style_id", "component_code", "formula", "rounding_level", "priority", "is_active", "created_at", "updated_at")
	sb.Values(template.ID, template.TenantID, template.ProductTypeID, template.ProductStyleID, template.ComponentCode, template.Formula, template.RoundingLevel, template.Priority, template.IsActive, template.CreatedAt, template.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create formula template")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create formula template")
	}

	log.WithFields(map[string]any{"id": template.ID}).Info("Created formula template")
	return template, nil
}

// Get retrieves a formula template by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.FormulaTemplate, error) {
	ctx, span := tracing.StartSpan(ctx, "formulatemplate.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("formula_templates")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var template models.FormulaTemplate
	if err := r.db.GetContext(ctx, &template, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("formula template %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get formula template")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get formula template")
	}

	return &template, nil
}

// ListActiveByProductType retrieves all active formula templates for a product
// type. This is the engine's TemplateSource.
func (r *Repository) ListActiveByProductType(ctx context.Context, tenantID, productTypeID string) ([]models.FormulaTemplate, error) {
	ctx, span := tracing.StartSpan(ctx, "formulatemplate.Repository.ListActiveByProductType")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("formula_templates")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("product_type_id", productTypeID),
		sb.Equal("is_active", true),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("component_code", "priority DESC", "id")

	query, args := sb.Build()
	var templates []models.FormulaTemplate
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list formula templates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list formula templates")
	}

	return templates, nil
}

// List retrieves formula templates for a tenant, optionally filtered by
// product type, with paging
func (r *Repository) List(ctx context.Context, tenantID string, productTypeID *string, page, pageSize int) ([]models.FormulaTemplate, int, error) {
	ctx, span := tracing.StartSpan(ctx, "formulatemplate.Repository.List")
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
	countSb.From("formula_templates")
	countWhere := []string{
		countSb.Equal("tenant_id", tenantID),
		countSb.IsNull("deleted_at"),
	}
	if productTypeID != nil {
		countWhere = append(countWhere, countSb.Equal("product_type_id", *productTypeID))
	}
	countSb.Where(countWhere...)

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count formula templates")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count formula templates")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From("formula_templates")
	where := []string{
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	}
	if productTypeID != nil {
		where = append(where, sb.Equal("product_type_id", *productTypeID))
	}
	sb.Where(where...)
	sb.OrderBy("component_code", "priority DESC", "created_at DESC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var templates []models.FormulaTemplate
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list formula templates")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list formula templates")
	}

	return templates, totalCount, nil
}

// Update updates a formula template
func (r *Repository) Update(ctx context.Context, tenantID string, id string, req models.UpdateFormulaTemplateRequest) (*models.FormulaTemplate, error) {
	ctx, span := tracing.StartSpan(ctx, "formulatemplate.Repository.Update")
	defer span.End()

	existing, err := r.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.ProductStyleID != nil {
		existing.ProductStyleID = req.ProductStyleID
	}
	if req.Formula != nil {
		existing.Formula = *req.Formula
	}
	if req.RoundingLevel != nil {
		existing.RoundingLevel = *req.RoundingLevel
	}
	if req.Priority != nil {
		existing.Priority = *req.Priority
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	existing.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("formula_templates")
	sb.Set(
		sb.Assign("product_style_id", existing.ProductStyleID),
		sb.Assign("formula", existing.Formula),
		sb.Assign("rounding_level", existing.RoundingLevel),
		sb.Assign("priority", existing.Priority),
		sb.Assign("is_active", existing.IsActive),
		sb.Assign("updated_at", existing.UpdatedAt),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update formula template")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update formula template")
	}

	return existing, nil
}

// Delete soft deletes a formula template
func (r *Repository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "formulatemplate.Repository.Delete")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("formula_templates")
	sb.Set(sb.Assign("deleted_at", now))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete formula template")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete formula template")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("formula template %s not found", id))
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": id}).Info("Deleted formula template")
	return nil
}

func (r *Repository) hasSelectionTie(ctx context.Context, tenantID string, req models.CreateFormulaTemplateRequest) (bool, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From("formula_templates")
	where := []string{
		sb.Equal("tenant_id", tenantID),
		sb.Equal("product_type_id", req.ProductTypeID),
		sb.Equal("component_code", req.ComponentCode),
		sb.Equal("priority", req.Priority),
		sb.Equal("is_active", true),
		sb.IsNull("deleted_at"),
	}
	if req.ProductStyleID != nil {
		where = append(where, sb.Equal("product_style_id", *req.ProductStyleID))
	} else {
		where = append(where, sb.IsNull("product_style_id"))
	}
	sb.Where(where...)

	query, args := sb.Build()
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

package models

import "time"

// RoundingLevel determines how a raw formula result becomes an orderable quantity.
type RoundingLevel string

const (
	// RoundingLevelSKU rounds up to the next whole unit (a fence needs a whole
	// picket, not 0.6 of one).
	RoundingLevelSKU RoundingLevel = "sku"
	// RoundingLevelProject passes the raw fractional value through; aggregation
	// and rounding happen downstream at the project level (nails, concrete).
	RoundingLevelProject RoundingLevel = "project"
)

// FormulaTemplate is a stored expression plus the metadata that drives template
// selection. ProductStyleID of nil means the template applies to every style of
// the product type; a style-specific template always beats a generic one.
type FormulaTemplate struct {
	ID             string        `json:"id" db:"id"`
	TenantID       string        `json:"tenant_id" db:"tenant_id"`
	ProductTypeID  string        `json:"product_type_id" db:"product_type_id"`
	ProductStyleID *string       `json:"product_style_id,omitempty" db:"product_style_id"`
	ComponentCode  string        `json:"component_code" db:"component_code"`
	Formula        string        `json:"formula" db:"formula"`
	RoundingLevel  RoundingLevel `json:"rounding_level" db:"rounding_level"`
	Priority       int           `json:"priority" db:"priority"`
	IsActive       bool          `json:"is_active" db:"is_active"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreateFormulaTemplateRequest is the request to create a formula template
type CreateFormulaTemplateRequest struct {
	ProductTypeID  string        `json:"product_type_id" validate:"required"`
	ProductStyleID *string       `json:"product_style_id,omitempty"`
	ComponentCode  string        `json:"component_code" validate:"required"`
	Formula        string        `json:"formula" validate:"required"`
	RoundingLevel  RoundingLevel `json:"rounding_level" validate:"required,oneof=sku project"`
	Priority       int           `json:"priority"`
	IsActive       bool          `json:"is_active"`
}

// UpdateFormulaTemplateRequest is the request to update a formula template
type UpdateFormulaTemplateRequest struct {
	ProductStyleID *string        `json:"product_style_id,omitempty"`
	Formula        *string        `json:"formula,omitempty"`
	RoundingLevel  *RoundingLevel `json:"rounding_level,omitempty"`
	Priority       *int           `json:"priority,omitempty"`
	IsActive       *bool          `json:"is_active,omitempty"`
}

// FormulaTemplateListResponse is a paged list of formula templates
type FormulaTemplateListResponse struct {
	Items      []FormulaTemplate `json:"items"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
}

package models

import "time"

// StyleFamily is the explicit classification tag for a product style. Branch
// behavior (picket multipliers, waste factors) dispatches on this tag, never on
// substring matching of the display name.
type StyleFamily string

const (
	StyleFamilyStandard     StyleFamily = "standard"
	StyleFamilyGoodNeighbor StyleFamily = "good_neighbor"
	StyleFamilyBoardOnBoard StyleFamily = "board_on_board"
)

// PostMaterial identifies the post material configured for a SKU.
type PostMaterial string

const (
	PostMaterialWood  PostMaterial = "wood"
	PostMaterialSteel PostMaterial = "steel"
)

// ProductType identifies a fence family (e.g. wood-vertical)
type ProductType struct {
	ID          string     `json:"id" db:"id"`
	TenantID    string     `json:"tenant_id" db:"tenant_id"`
	Code        string     `json:"code" db:"code"`
	DisplayName string     `json:"display_name" db:"display_name"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ProductStyle is a variant of a ProductType (standard, good-neighbor, board-on-board)
type ProductStyle struct {
	ID            string      `json:"id" db:"id"`
	TenantID      string      `json:"tenant_id" db:"tenant_id"`
	ProductTypeID string      `json:"product_type_id" db:"product_type_id"`
	Code          string      `json:"code" db:"code"`
	DisplayName   string      `json:"display_name" db:"display_name"`
	Family        StyleFamily `json:"family" db:"family"`
	IsActive      bool        `json:"is_active" db:"is_active"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ComponentType is a kind of physical part or consumable. Its code doubles as
// the context variable name for the computed quantity (`<code>_qty`), and
// SortOrder defines the fixed dependency order the scheduler runs in.
type ComponentType struct {
	ID            string     `json:"id" db:"id"`
	TenantID      string     `json:"tenant_id" db:"tenant_id"`
	ProductTypeID string     `json:"product_type_id" db:"product_type_id"`
	Code          string     `json:"code" db:"code"`
	DisplayName   string     `json:"display_name" db:"display_name"`
	SortOrder     int        `json:"sort_order" db:"sort_order"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Well-known component codes for the wood-vertical family.
const (
	ComponentPost              = "post"
	ComponentPicket            = "picket"
	ComponentRail              = "rail"
	ComponentBracket           = "bracket"
	ComponentCap               = "cap"
	ComponentTrim              = "trim"
	ComponentRotBoard          = "rot_board"
	ComponentSteelPostCap      = "steel_post_cap"
	ComponentNailsPicket       = "nails_picket"
	ComponentNailsFraming      = "nails_framing"
	ComponentConcreteSand      = "concrete_sand"
	ComponentConcretePortland  = "concrete_portland"
	ComponentConcreteQuickrock = "concrete_quickrock"
)

// CreateProductTypeRequest is the request to create a product type
type CreateProductTypeRequest struct {
	Code        string `json:"code" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
	IsActive    bool   `json:"is_active"`
}

// UpdateProductTypeRequest is the request to update a product type
type UpdateProductTypeRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateProductStyleRequest is the request to create a product style
type CreateProductStyleRequest struct {
	Code        string      `json:"code" validate:"required"`
	DisplayName string      `json:"display_name" validate:"required"`
	Family      StyleFamily `json:"family" validate:"required,oneof=standard good_neighbor board_on_board"`
	IsActive    bool        `json:"is_active"`
}

// CreateComponentTypeRequest is the request to create a component type
type CreateComponentTypeRequest struct {
	Code        string `json:"code" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// UpdateComponentTypeRequest is the request to update a component type
type UpdateComponentTypeRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ProductTypeListResponse is a paged list of product types
type ProductTypeListResponse struct {
	Items      []ProductType `json:"items"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}

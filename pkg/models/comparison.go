package models

// ComparisonStatus classifies per-component agreement between the legacy (V1)
// and formula-driven (V2) calculators.
type ComparisonStatus string

const (
	ComparisonStatusMatch     ComparisonStatus = "MATCH"
	ComparisonStatusClose     ComparisonStatus = "CLOSE"
	ComparisonStatusDifferent ComparisonStatus = "DIFFERENT"
	ComparisonStatusMissingV2 ComparisonStatus = "MISSING_V2"
)

// ComponentComparison pairs a V1 and V2 result for one component code.
type ComponentComparison struct {
	ComponentCode      string           `json:"component_code"`
	V1Quantity         float64          `json:"v1_quantity"`
	V2Quantity         *float64         `json:"v2_quantity,omitempty"`
	AbsoluteDifference float64          `json:"absolute_difference"`
	RelativeDifference *float64         `json:"relative_difference,omitempty"`
	Status             ComparisonStatus `json:"status"`
}

// ComparisonRequest runs V1 and V2 against identical inputs for one SKU.
type ComparisonRequest struct {
	CalculationRequest
	StyleFamily  StyleFamily  `json:"style_family" validate:"required,oneof=standard good_neighbor board_on_board"`
	PostMaterial PostMaterial `json:"post_material" validate:"required,oneof=wood steel"`
}

// ComparisonReport is the migration regression gate: any DIFFERENT or
// MISSING_V2 entry fails the check.
type ComparisonReport struct {
	Entries     []ComponentComparison `json:"entries"`
	Passed      bool                  `json:"passed"`
	Diagnostics []Diagnostic          `json:"diagnostics,omitempty"`
}

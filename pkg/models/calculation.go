package models

// Seed variable names every calculation context starts with.
const (
	VarLength = "length"
	VarLines  = "lines"
	VarGates  = "gates"
)

// Well-known SKU attribute variable names for the wood-vertical family. These
// arrive in CalculationRequest.Attributes and are referenced by the seeded
// formulas; a zero or absent material length means the SKU omits that material.
const (
	VarPostSpacing       = "post_spacing"
	VarRailCount         = "rail_count"
	VarPicketWidthInches = "picket_width_inches"
	VarCapLength         = "cap_length"
	VarTrimLength        = "trim_length"
	VarRotBoardLength    = "rot_board_length"
	// VarSteelPosts is 1 for steel-post SKUs and 0 for wood. Steel-only
	// hardware formulas multiply by it so wood SKUs compute zero.
	VarSteelPosts = "steel_posts"
)

// CalculationRequest describes one fence run to estimate. Attribute keys must
// match the variable names the formulas reference (dot notation in formulas is
// flattened to underscores before lookup).
type CalculationRequest struct {
	ProductTypeID  string             `json:"product_type_id" validate:"required"`
	ProductStyleID *string            `json:"product_style_id,omitempty"`
	LengthFeet     float64            `json:"length_feet" validate:"required,gt=0"`
	Lines          int                `json:"lines" validate:"gte=0"`
	Gates          int                `json:"gates" validate:"gte=0"`
	Attributes     map[string]float64 `json:"attributes"`
}

// DiagnosticSeverity classifies calculation diagnostics.
type DiagnosticSeverity string

const (
	DiagnosticSeverityWarning DiagnosticSeverity = "warning"
	DiagnosticSeverityError   DiagnosticSeverity = "error"
)

// Diagnostic codes emitted by the engine and validation tooling.
const (
	DiagnosticMissingVariable     = "missing_variable"
	DiagnosticMalformedFormula    = "malformed_formula"
	DiagnosticAmbiguousSelection  = "ambiguous_selection"
	DiagnosticOutOfOrderReference = "out_of_order_reference"
	DiagnosticUnknownVariable     = "unknown_variable"
)

// Diagnostic is a recoverable problem surfaced alongside a best-effort result.
type Diagnostic struct {
	Severity      DiagnosticSeverity `json:"severity"`
	Code          string             `json:"code"`
	ComponentCode string             `json:"component_code,omitempty"`
	Message       string             `json:"message"`
}

// ComputedComponent is one line of the resulting bill of materials. Immutable
// once produced.
type ComputedComponent struct {
	ComponentCode string        `json:"component_code"`
	Quantity      float64       `json:"quantity"`
	RawValue      float64       `json:"raw_value"`
	RoundingLevel RoundingLevel `json:"rounding_level"`
	Trace         string        `json:"trace"`
}

// CalculationResult is the ordered component list plus any diagnostics. A
// broken template never fails the whole request; it shows up here instead.
type CalculationResult struct {
	ProductTypeID  string              `json:"product_type_id"`
	ProductStyleID *string             `json:"product_style_id,omitempty"`
	Components     []ComputedComponent `json:"components"`
	Diagnostics    []Diagnostic        `json:"diagnostics"`
}

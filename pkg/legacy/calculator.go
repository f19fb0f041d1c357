// Package legacy is the closed-form wood-vertical calculator kept as the
// regression oracle for the migration to the formula-driven engine. It is a
// pure function of its inputs and is not a production calculation path.
package legacy

import (
	"fmt"
	"math"

	"github.com/Ramsey-B/trellis/pkg/models"
)

// Empirically-derived picket waste multipliers per style family.
const (
	picketMultiplierStandard     = 1.02
	picketMultiplierGoodNeighbor = 1.05
	picketMultiplierBoardOnBoard = 1.27
)

// Fastener and concrete consumption rates. These stay fractional at the SKU
// level and are aggregated per project downstream.
const (
	picketNailsPerPicket = 6.0
	framingNailsPerRail  = 4.0
	nailsPerBox          = 2000.0
	sandBagsPerPost      = 0.5
	portlandBagsPerPost  = 0.25
	quickrockBagsPerPost = 1.5
)

// Inputs is the fully-resolved SKU and project configuration for one run.
// A material length of 0 means that material is not configured for the SKU.
type Inputs struct {
	LengthFeet         float64
	Lines              int
	StyleFamily        models.StyleFamily
	PostMaterial       models.PostMaterial
	RailCount          int
	PostSpacingFeet    float64
	PicketWidthInches  float64
	CapLengthFeet      float64
	TrimLengthFeet     float64
	RotBoardLengthFeet float64
}

// Calculate produces the component list for one wood-vertical fence run.
// Components are returned in the same dependency order the formula engine
// uses, so the two outputs diff cleanly.
func Calculate(in Inputs) []models.ComputedComponent {
	components := make([]models.ComputedComponent, 0, 13)

	posts := Posts(in.LengthFeet, in.PostSpacingFeet, in.Lines)
	components = append(components, skuComponent(models.ComponentPost, posts,
		fmt.Sprintf("ceil(%.2f/%.2f)+1+ceil(max(%d-2,0)/2)", in.LengthFeet, in.PostSpacingFeet, in.Lines)))

	pickets := Pickets(in.LengthFeet, in.PicketWidthInches, in.StyleFamily)
	components = append(components, skuComponent(models.ComponentPicket, pickets,
		fmt.Sprintf("ceil(%.2f*12/%.2f*%.2f)", in.LengthFeet, in.PicketWidthInches, picketMultiplier(in.StyleFamily))))

	rails := Rails(in.LengthFeet, in.PostSpacingFeet, in.RailCount)
	components = append(components, skuComponent(models.ComponentRail, rails,
		fmt.Sprintf("ceil(%.2f/%.2f)*%d", in.LengthFeet, in.PostSpacingFeet, in.RailCount)))

	if in.PostMaterial == models.PostMaterialSteel {
		brackets := posts * float64(in.RailCount)
		components = append(components, skuComponent(models.ComponentBracket, brackets,
			fmt.Sprintf("%g posts * %d rails (steel posts)", posts, in.RailCount)))
	}

	if in.CapLengthFeet > 0 {
		cap := math.Ceil(in.LengthFeet / in.CapLengthFeet)
		components = append(components, skuComponent(models.ComponentCap, cap,
			fmt.Sprintf("ceil(%.2f/%.2f)", in.LengthFeet, in.CapLengthFeet)))
	}

	if in.TrimLengthFeet > 0 {
		// Trim is a single run even on double-sided styles; it is never doubled.
		trim := math.Ceil(in.LengthFeet / in.TrimLengthFeet)
		components = append(components, skuComponent(models.ComponentTrim, trim,
			fmt.Sprintf("ceil(%.2f/%.2f)", in.LengthFeet, in.TrimLengthFeet)))
	}

	if in.RotBoardLengthFeet > 0 {
		rotBoard := math.Ceil(in.LengthFeet / in.RotBoardLengthFeet)
		components = append(components, skuComponent(models.ComponentRotBoard, rotBoard,
			fmt.Sprintf("ceil(%.2f/%.2f)", in.LengthFeet, in.RotBoardLengthFeet)))
	}

	if in.PostMaterial == models.PostMaterialSteel {
		components = append(components, skuComponent(models.ComponentSteelPostCap, posts,
			fmt.Sprintf("%g (one per steel post)", posts)))
	}

	components = append(components,
		projectComponent(models.ComponentNailsPicket, pickets*picketNailsPerPicket/nailsPerBox,
			fmt.Sprintf("%g pickets * %g nails / %g per box", pickets, picketNailsPerPicket, nailsPerBox)),
		projectComponent(models.ComponentNailsFraming, rails*framingNailsPerRail/nailsPerBox,
			fmt.Sprintf("%g rails * %g nails / %g per box", rails, framingNailsPerRail, nailsPerBox)),
		projectComponent(models.ComponentConcreteSand, posts*sandBagsPerPost,
			fmt.Sprintf("%g posts * %g bags", posts, sandBagsPerPost)),
		projectComponent(models.ComponentConcretePortland, posts*portlandBagsPerPost,
			fmt.Sprintf("%g posts * %g bags", posts, portlandBagsPerPost)),
		projectComponent(models.ComponentConcreteQuickrock, posts*quickrockBagsPerPost,
			fmt.Sprintf("%g posts * %g bags", posts, quickrockBagsPerPost)),
	)

	return components
}

// Posts is ceil(length/spacing)+1, plus one extra post per two lines beyond
// the first two corners.
func Posts(lengthFeet, postSpacingFeet float64, lines int) float64 {
	posts := math.Ceil(lengthFeet/postSpacingFeet) + 1
	posts += math.Ceil(math.Max(float64(lines)-2, 0) / 2)
	return posts
}

// Pickets converts the run to inches and divides by actual picket width, with
// a per-family waste multiplier, rounded up at the SKU level.
func Pickets(lengthFeet, picketWidthInches float64, family models.StyleFamily) float64 {
	lengthInches := lengthFeet * 12
	return math.Ceil(lengthInches / picketWidthInches * picketMultiplier(family))
}

// Rails is sections times rails per section.
func Rails(lengthFeet, postSpacingFeet float64, railCount int) float64 {
	return math.Ceil(lengthFeet/postSpacingFeet) * float64(railCount)
}

func picketMultiplier(family models.StyleFamily) float64 {
	switch family {
	case models.StyleFamilyGoodNeighbor:
		return picketMultiplierGoodNeighbor
	case models.StyleFamilyBoardOnBoard:
		return picketMultiplierBoardOnBoard
	default:
		return picketMultiplierStandard
	}
}

func skuComponent(code string, quantity float64, trace string) models.ComputedComponent {
	return models.ComputedComponent{
		ComponentCode: code,
		Quantity:      quantity,
		RawValue:      quantity,
		RoundingLevel: models.RoundingLevelSKU,
		Trace:         fmt.Sprintf("%s = %s (v1 closed-form)", code, trace),
	}
}

func projectComponent(code string, quantity float64, trace string) models.ComputedComponent {
	return models.ComputedComponent{
		ComponentCode: code,
		Quantity:      quantity,
		RawValue:      quantity,
		RoundingLevel: models.RoundingLevelProject,
		Trace:         fmt.Sprintf("%s = %s (v1 closed-form)", code, trace),
	}
}

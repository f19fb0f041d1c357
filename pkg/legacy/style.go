package legacy

import (
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/trellis/pkg/models"
)

// ClassifyStyleName maps a free-text style name onto an explicit StyleFamily
// tag. This substring heuristic exists only for one-time catalog imports from
// legacy systems that stored bare display names; steady-state dispatch always
// uses the family tag on the ProductStyle row.
func ClassifyStyleName(logger ectologger.Logger, name string) models.StyleFamily {
	normalized := strings.ToLower(name)

	var family models.StyleFamily
	switch {
	case strings.Contains(normalized, "good") && strings.Contains(normalized, "neighbor"):
		family = models.StyleFamilyGoodNeighbor
	case strings.Count(normalized, "board") >= 2:
		family = models.StyleFamilyBoardOnBoard
	default:
		family = models.StyleFamilyStandard
	}

	logger.WithFields(map[string]any{
		"style_name": name,
		"family":     family,
	}).Info("Classified legacy style name")

	return family
}

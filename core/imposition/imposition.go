// Package imposition lays finished pieces out on press sheets and converts an
// ordered quantity into the press sheets a job consumes, spoilage included.
package imposition

import (
	"math"

	"printquote/core/types"
	perrors "printquote/internal/errors"
)

// DefaultBleed is the allowance added to each finished edge, in inches
const DefaultBleed = 0.25

// floorEps absorbs float noise when a piece divides the sheet exactly
const floorEps = 1e-9

// CalculateImposition returns how many finished pieces fit on one sheet.
// Each piece occupies its finished size plus bleed on both axes; both
// orthogonal orientations of a uniform grid are tried and the better one wins.
func CalculateImposition(finishedWidth, finishedHeight, sheetWidth, sheetHeight, bleed float64) int {
	liveW := finishedWidth + bleed
	liveH := finishedHeight + bleed
	if liveW <= 0 || liveH <= 0 {
		return 0
	}

	portrait := fit(sheetWidth, liveW) * fit(sheetHeight, liveH)
	landscape := fit(sheetWidth, liveH) * fit(sheetHeight, liveW)
	if landscape > portrait {
		return landscape
	}
	return portrait
}

// PiecesPerSheet is CalculateImposition with the shop's standard bleed
func PiecesPerSheet(finishedWidth, finishedHeight, sheetWidth, sheetHeight float64) int {
	return CalculateImposition(finishedWidth, finishedHeight, sheetWidth, sheetHeight, DefaultBleed)
}

func fit(sheet, piece float64) int {
	return int(math.Floor(sheet/piece + floorEps))
}

// UpCount returns pieces per press sheet for a job.
// Flat products are imposed on the stock's parent sheet; booklets and
// envelopes consume one unit per sheet; letters use the external n-up factor.
func UpCount(spec types.Specification, stock types.PaperStock) (int, error) {
	switch spec.Product {
	case types.ProductPostcard, types.ProductFlyer, types.ProductBrochure:
		up := PiecesPerSheet(spec.FinishedWidth, spec.FinishedHeight, stock.SheetWidth, stock.SheetHeight)
		if up < 1 {
			return 0, perrors.Pricing("finished piece does not fit the press sheet").
				WithContext("finished", [2]float64{spec.FinishedWidth, spec.FinishedHeight}).
				WithContext("sheet", [2]float64{stock.SheetWidth, stock.SheetHeight}).
				WithContext("stock", stock.Key)
		}
		return up, nil
	case types.ProductLetter:
		if spec.LetterNUp > 1 {
			return spec.LetterNUp, nil
		}
		return 1, nil
	case types.ProductBooklet, types.ProductEnvelope:
		return 1, nil
	}
	return 0, perrors.InvalidSpec("unknown product type %q", spec.Product)
}

package imposition

import (
	"github.com/shopspring/decimal"

	"printquote/core/types"
	perrors "printquote/internal/errors"
)

// SpoilageBands is extra-sheet allowance by ordered quantity
var SpoilageBands = types.TierTable{
	{UpTo: 250, Value: decimal.RequireFromString("1.05")},
	{UpTo: 500, Value: decimal.RequireFromString("1.04")},
	{UpTo: 1000, Value: decimal.RequireFromString("1.03")},
	{UpTo: 2500, Value: decimal.RequireFromString("1.025")},
	{UpTo: 0, Value: decimal.RequireFromString("1.02")},
}

// SpoilageFactor returns the spoilage multiplier for a quantity
func SpoilageFactor(quantity int) decimal.Decimal {
	return SpoilageBands.Lookup(quantity)
}

// SpoilageLabel renders a factor as a percentage label, 1.025 -> "2.5%"
func SpoilageLabel(factor decimal.Decimal) string {
	return factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).String() + "%"
}

// RawSheets returns the exact sheets a job needs before spoilage.
// Booklet page counts must be a multiple of 4 and at least 4, the same rule
// Specification.Validate applies; anything else is an input error.
func RawSheets(product types.ProductType, quantity, upCount, totalPages int) (int64, error) {
	q := int64(quantity)
	switch product {
	case types.ProductPostcard, types.ProductFlyer, types.ProductBrochure:
		if upCount < 1 {
			return 0, perrors.Pricing("flat product has no up-count")
		}
		return ceilDiv(q, int64(upCount)), nil
	case types.ProductBooklet:
		if totalPages <= 0 {
			return 0, perrors.InvalidSpec("booklets require a total page count")
		}
		if totalPages < 4 || totalPages%4 != 0 {
			return 0, perrors.InvalidSpec("booklet page count must be a multiple of 4 and at least 4, got %d", totalPages)
		}
		// one sheet for the 4-page base plus one per additional 4 pages
		perBooklet := 1 + int64(totalPages-4)/4
		return q * perBooklet, nil
	case types.ProductLetter:
		if upCount > 1 {
			return ceilDiv(q, int64(upCount)), nil
		}
		return q, nil
	case types.ProductEnvelope:
		return q, nil
	}
	return 0, perrors.InvalidSpec("unknown product type %q", product)
}

// PressSheets applies spoilage exactly once: ceil(raw * factor)
func PressSheets(raw int64, factor decimal.Decimal) int64 {
	return decimal.NewFromInt(raw).Mul(factor).Ceil().IntPart()
}

// Plan computes the complete imposition result for a job on a stock
func Plan(spec types.Specification, stock types.PaperStock) (types.ImpositionResult, error) {
	up, err := UpCount(spec, stock)
	if err != nil {
		return types.ImpositionResult{}, err
	}

	raw, err := RawSheets(spec.Product, spec.Quantity, up, spec.TotalPages)
	if err != nil {
		return types.ImpositionResult{}, err
	}

	factor := SpoilageFactor(spec.Quantity)
	return types.ImpositionResult{
		UpCount:         up,
		RawSheets:       raw,
		PressSheets:     PressSheets(raw, factor),
		SpoilagePercent: SpoilageLabel(factor),
		SpoilageFactor:  factor,
	}, nil
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

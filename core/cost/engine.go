// Package cost turns press sheets into the shop's internal cost for a job.
// Paper and click cost scale with press sheets; finishing applies to booklets only.
package cost

import (
	"github.com/shopspring/decimal"

	"printquote/core/types"
)

// Booklet finishing constants
var (
	FinishingSetupFee = decimal.RequireFromString("50.00")
	FinishingRunRate  = decimal.RequireFromString("0.0625")
	FinishingOverhead = decimal.RequireFromString("100.00")
)

// VolumeDiscount takes Rate off finishing at or above MinQuantity
type VolumeDiscount struct {
	MinQuantity int
	Rate        decimal.Decimal
}

// FinishingDiscounts is ordered by MinQuantity, highest first
var FinishingDiscounts = []VolumeDiscount{
	{MinQuantity: 10000, Rate: decimal.RequireFromString("0.20")},
	{MinQuantity: 5000, Rate: decimal.RequireFromString("0.15")},
	{MinQuantity: 1000, Rate: decimal.RequireFromString("0.10")},
}

// Calculator prices the physical production of a job
type Calculator interface {
	// Calculate produces the cost breakdown for a planned job
	Calculate(spec types.Specification, equipment types.Equipment, stock types.PaperStock, plan types.ImpositionResult) types.CostBreakdown
}

// ShopCalculator is the Calculator for the shop's fixed rate tables
type ShopCalculator struct{}

// Calculate implements Calculator
func (ShopCalculator) Calculate(spec types.Specification, equipment types.Equipment, stock types.PaperStock, plan types.ImpositionResult) types.CostBreakdown {
	return types.NewCostBreakdown(
		PaperCost(plan.PressSheets, stock),
		ClickCost(plan.PressSheets, spec.Color, equipment),
		FinishingCost(spec.Product, spec.Quantity),
	)
}

// PaperCost is press sheets times the stock's per-sheet cost
func PaperCost(pressSheets int64, stock types.PaperStock) decimal.Decimal {
	return decimal.NewFromInt(pressSheets).Mul(stock.CostPerSheet)
}

// ClickCost is press sheets times sides printed times the device click rate
func ClickCost(pressSheets int64, color types.ColorMode, equipment types.Equipment) decimal.Decimal {
	impressions := pressSheets * int64(color.Sides())
	return decimal.NewFromInt(impressions).Mul(equipment.ClickRate)
}

// FinishingCost returns the discounted binding cost; zero for everything but booklets
func FinishingCost(product types.ProductType, quantity int) decimal.Decimal {
	switch product {
	case types.ProductBooklet:
		base := FinishingSetupFee.
			Add(decimal.NewFromInt(int64(quantity)).Mul(FinishingRunRate)).
			Add(FinishingOverhead)
		return base.Mul(decimal.NewFromInt(1).Sub(FinishingDiscount(quantity)))
	case types.ProductPostcard, types.ProductFlyer, types.ProductBrochure,
		types.ProductLetter, types.ProductEnvelope:
		return decimal.Zero
	}
	return decimal.Zero
}

// FinishingDiscount returns the volume discount rate for quantity
func FinishingDiscount(quantity int) decimal.Decimal {
	for _, d := range FinishingDiscounts {
		if quantity >= d.MinQuantity {
			return d.Rate
		}
	}
	return decimal.Zero
}

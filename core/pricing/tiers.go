// Package pricing turns internal cost into a customer price.
// Multipliers are quantity-banded per product family; the shop minimum is
// applied after markup, and margin is measured on the final price.
package pricing

import (
	"github.com/shopspring/decimal"

	"printquote/core/types"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ShopMinimum is the lowest printing price the shop invoices
var ShopMinimum = d("75.00")

// Multiplier tables. Bounds are inclusive; the last band is unbounded.
var (
	FlatMultipliers = types.TierTable{
		{UpTo: 250, Value: d("5.0")},
		{UpTo: 500, Value: d("4.5")},
		{UpTo: 1000, Value: d("3.8")},
		{UpTo: 2500, Value: d("3.2")},
		{UpTo: 5000, Value: d("2.8")},
		{UpTo: 10000, Value: d("2.4")},
		{UpTo: 0, Value: d("2.2")},
	}

	BookletMultipliers = types.TierTable{
		{UpTo: 250, Value: d("4.0")},
		{UpTo: 500, Value: d("3.5")},
		{UpTo: 1000, Value: d("3.0")},
		{UpTo: 2500, Value: d("2.6")},
		{UpTo: 5000, Value: d("2.3")},
		{UpTo: 0, Value: d("2.0")},
	}

	EnvelopeMultipliers = types.TierTable{
		{UpTo: 500, Value: d("4.0")},
		{UpTo: 1000, Value: d("3.5")},
		{UpTo: 2500, Value: d("3.0")},
		{UpTo: 5000, Value: d("2.8")},
		{UpTo: 0, Value: d("2.5")},
	}

	LetterMultipliers = types.TierTable{
		{UpTo: 500, Value: d("4.0")},
		{UpTo: 1000, Value: d("3.5")},
		{UpTo: 2500, Value: d("3.0")},
		{UpTo: 5000, Value: d("2.7")},
		{UpTo: 0, Value: d("2.4")},
	}

	DefaultMultipliers = types.TierTable{
		{UpTo: 0, Value: d("3.0")},
	}
)

// Margin floors, in percent
var (
	FlatMarginFloor    = d("30")
	BookletMarginFloor = d("35")
	DefaultMarginFloor = d("30")
)

var hundred = decimal.NewFromInt(100)

// MultiplierTable returns the band table for a product family
func MultiplierTable(product types.ProductType) types.TierTable {
	switch product {
	case types.ProductPostcard, types.ProductFlyer, types.ProductBrochure:
		return FlatMultipliers
	case types.ProductBooklet:
		return BookletMultipliers
	case types.ProductEnvelope:
		return EnvelopeMultipliers
	case types.ProductLetter:
		return LetterMultipliers
	}
	return DefaultMultipliers
}

// Multiplier returns the markup for a product at a quantity
func Multiplier(product types.ProductType, quantity int) decimal.Decimal {
	return MultiplierTable(product).Lookup(quantity)
}

// MarginFloor returns the minimum acceptable gross margin percent
func MarginFloor(product types.ProductType) decimal.Decimal {
	switch product {
	case types.ProductPostcard, types.ProductFlyer, types.ProductBrochure:
		return FlatMarginFloor
	case types.ProductBooklet:
		return BookletMarginFloor
	case types.ProductLetter, types.ProductEnvelope:
		return DefaultMarginFloor
	}
	return DefaultMarginFloor
}

// Quote marks up total cost, rounds to cents and applies the shop minimum
func Quote(totalCost, multiplier decimal.Decimal) decimal.Decimal {
	return decimal.Max(totalCost.Mul(multiplier).Round(2), ShopMinimum)
}

// MarginPercent is (quote - cost) / quote * 100
func MarginPercent(quote, totalCost decimal.Decimal) decimal.Decimal {
	if quote.IsZero() {
		return decimal.Zero
	}
	return quote.Sub(totalCost).Div(quote).Mul(hundred)
}

// Price is the customer-facing side of a quote
type Price struct {
	Multiplier    decimal.Decimal
	Quote         decimal.Decimal
	MarginPercent decimal.Decimal
	MarginFloor   decimal.Decimal
}

// Apply prices a job with the given internal cost
func Apply(product types.ProductType, quantity int, totalCost decimal.Decimal) Price {
	m := Multiplier(product, quantity)
	q := Quote(totalCost, m)
	return Price{
		Multiplier:    m,
		Quote:         q,
		MarginPercent: MarginPercent(q, totalCost),
		MarginFloor:   MarginFloor(product),
	}
}

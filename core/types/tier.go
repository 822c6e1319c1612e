// Package types - Quantity-banded tables
package types

import "github.com/shopspring/decimal"

// Tier is one quantity band. UpTo is an inclusive upper bound; 0 means unbounded.
type Tier struct {
	UpTo  int             `json:"up_to"`
	Value decimal.Decimal `json:"value"`
}

// TierTable is an ordered list of bands, ascending by UpTo, ending in an unbounded band
type TierTable []Tier

// Lookup returns the value of the first band whose bound covers quantity
func (t TierTable) Lookup(quantity int) decimal.Decimal {
	for _, tier := range t {
		if tier.UpTo == 0 || quantity <= tier.UpTo {
			return tier.Value
		}
	}
	if len(t) == 0 {
		return decimal.Zero
	}
	return t[len(t)-1].Value
}

// NonIncreasing reports whether values never grow as quantity grows
func (t TierTable) NonIncreasing() bool {
	for i := 1; i < len(t); i++ {
		if t[i].Value.GreaterThan(t[i-1].Value) {
			return false
		}
	}
	return true
}

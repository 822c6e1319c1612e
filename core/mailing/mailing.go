// Package mailing itemizes mail-house services for a print job.
// The breakdown is charged on top of the printing quote and never folded into it.
package mailing

import (
	"github.com/shopspring/decimal"

	"printquote/core/types"
)

// Section headings
const (
	SectionLettershop     = "LETTERSHOP"
	SectionDataProcessing = "DATA PROCESSING"
)

// Rate is a named per-piece price
type Rate struct {
	Description string
	UnitPrice   decimal.Decimal
}

func rate(desc, price string) Rate {
	return Rate{Description: desc, UnitPrice: decimal.RequireFromString(price)}
}

// Per-piece service rates
var (
	EDDMBundling    = rate("EDDM bundling & paperwork", "0.035")
	NCOACASS        = rate("NCOA/CASS address processing", "0.01")
	Addressing      = rate("Inkjet addressing", "0.035")
	BulkPrep        = rate("Bulk mail prep & presort", "0.025")
	DoubleTab       = rate("Double tabbing", "0.02")
	MachineInsert   = rate("Machine inserting", "0.03")
	PostageMetering = rate("Postage metering", "0.015")
)

// LettershopRates returns the addressed-mail services a product needs, in order
func LettershopRates(product types.ProductType) []Rate {
	switch product {
	case types.ProductPostcard:
		return []Rate{Addressing, BulkPrep}
	case types.ProductFlyer, types.ProductBrochure:
		return []Rate{Addressing, DoubleTab, BulkPrep}
	case types.ProductLetter:
		return []Rate{Addressing, MachineInsert, PostageMetering}
	case types.ProductBooklet, types.ProductEnvelope:
		return nil
	}
	return nil
}

// Calculate returns the mailing breakdown, or nil when mailing was not requested
func Calculate(spec types.Specification) *types.MailingBreakdown {
	if !spec.WantsMailing {
		return nil
	}
	if spec.IsEDDM {
		return EDDM(spec.Quantity)
	}
	return Addressed(spec.Product, spec.Quantity)
}

// EDDM prices Every Door Direct Mail: one bundling line, nothing else
func EDDM(quantity int) *types.MailingBreakdown {
	b := &types.MailingBreakdown{Mode: types.MailingEDDM}
	shop := types.MailingSection{Name: SectionLettershop}
	shop.Add(types.NewLineItem(EDDMBundling.Description, quantity, EDDMBundling.UnitPrice))
	b.AddSection(shop)
	return b
}

// Addressed prices individually addressed mail. The lettershop section is
// left out when the product needs no lettershop work.
func Addressed(product types.ProductType, quantity int) *types.MailingBreakdown {
	b := &types.MailingBreakdown{Mode: types.MailingAddressed}

	data := types.MailingSection{Name: SectionDataProcessing}
	data.Add(types.NewLineItem(NCOACASS.Description, quantity, NCOACASS.UnitPrice))
	b.AddSection(data)

	rates := LettershopRates(product)
	if len(rates) == 0 {
		return b
	}
	shop := types.MailingSection{Name: SectionLettershop}
	for _, r := range rates {
		shop.Add(types.NewLineItem(r.Description, quantity, r.UnitPrice))
	}
	b.AddSection(shop)
	return b
}

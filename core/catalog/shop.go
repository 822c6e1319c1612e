// Package catalog - Compiled-in shop tables
// Changing a price means editing these tables.
package catalog

import (
	"sync"

	"github.com/shopspring/decimal"

	"printquote/core/types"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ShopEquipment is the print engine fleet
var ShopEquipment = []types.Equipment{
	{Name: "Konica Minolta AccurioPress C4080", ClickRate: d("0.039"), Class: types.DeviceColor},
	{Name: "Konica Minolta AccurioPress 6136", ClickRate: d("0.0065"), Class: types.DeviceMonochrome},
	{Name: "Xante En/Press", ClickRate: d("0.045"), Class: types.DeviceEnvelopeColor},
	{Name: "Halm JetJet Mono", ClickRate: d("0.012"), Class: types.DeviceEnvelopeMono},
}

// ShopStocks is the paper stock list
var ShopStocks = []types.PaperStock{
	{Key: "14pt c2s cover", Name: "14pt C2S Cover", SKU: "CVR-14C2S-1913", SheetWidth: 19, SheetHeight: 13, CostPerSheet: d("0.165"), Category: types.StockCover},
	{Key: "100# gloss cover", Name: "100# Gloss Cover", SKU: "CVR-100G-1913", SheetWidth: 19, SheetHeight: 13, CostPerSheet: d("0.142"), Category: types.StockCover},
	{Key: "80# gloss cover", Name: "80# Gloss Cover", SKU: "CVR-80G-1913", SheetWidth: 19, SheetHeight: 13, CostPerSheet: d("0.115"), Category: types.StockCover},
	{Key: "100# gloss text", Name: "100# Gloss Text", SKU: "TXT-100G-1913", SheetWidth: 19, SheetHeight: 13, CostPerSheet: d("0.089"), Category: types.StockText},
	{Key: "80# gloss text", Name: "80# Gloss Text", SKU: "TXT-80G-1913", SheetWidth: 19, SheetHeight: 13, CostPerSheet: d("0.071"), Category: types.StockText},
	{Key: "70# uncoated text", Name: "70# Uncoated Text", SKU: "TXT-70U-1913", SheetWidth: 19, SheetHeight: 13, CostPerSheet: d("0.058"), Category: types.StockText},
	{Key: "24# white wove", Name: "24# White Wove", SKU: "LTR-24WW-0811", SheetWidth: 8.5, SheetHeight: 11, CostPerSheet: d("0.012"), Category: types.StockLetter},
	{Key: "60# white offset", Name: "60# White Offset", SKU: "LTR-60WO-0811", SheetWidth: 8.5, SheetHeight: 11, CostPerSheet: d("0.015"), Category: types.StockLetter},
	{Key: "#10 white wove envelope", Name: "#10 White Wove Envelope", SKU: "ENV-10WW", SheetWidth: 9.5, SheetHeight: 4.125, CostPerSheet: d("0.038"), Category: types.StockEnvelope},
	{Key: "6x9 white booklet envelope", Name: "6x9 White Booklet Envelope", SKU: "ENV-69WB", SheetWidth: 9, SheetHeight: 6, CostPerSheet: d("0.062"), Category: types.StockEnvelope},
}

// ShopDefaults maps each product to the stock used when none is requested
var ShopDefaults = map[types.ProductType]string{
	types.ProductPostcard: "14pt c2s cover",
	types.ProductFlyer:    "100# gloss text",
	types.ProductBrochure: "100# gloss text",
	types.ProductBooklet:  "80# gloss text",
	types.ProductLetter:   "24# white wove",
	types.ProductEnvelope: "#10 white wove envelope",
}

// ShopSubstitutions normalise the ways customers spell paper weights.
// Earlier entries win when two match at the same position.
var ShopSubstitutions = []Alias{
	{From: "lbs.", To: "#"},
	{From: "lbs", To: "#"},
	{From: "lb.", To: "#"},
	{From: "lb", To: "#"},
	{From: "pounds", To: "#"},
	{From: "pound", To: "#"},
	{From: "glossy", To: "gloss"},
	{From: "book", To: "text", Word: true},
	{From: "no. 10", To: "#10"},
	{From: "no.10", To: "#10"},
}

// ShopPhrases map whole names to catalog keys, checked before and after substitution
var ShopPhrases = map[string]string{
	"14pt":                 "14pt c2s cover",
	"14pt cover":           "14pt c2s cover",
	"14 pt cover":          "14pt c2s cover",
	"postcard stock":       "14pt c2s cover",
	"24# bond":             "24# white wove",
	"letterhead":           "24# white wove",
	"#10":                  "#10 white wove envelope",
	"#10 envelope":         "#10 white wove envelope",
	"6x9 envelope":         "6x9 white booklet envelope",
	"6x9 booklet envelope": "6x9 white booklet envelope",
	"booklet envelope":     "6x9 white booklet envelope",
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the shop's compiled-in catalog. It is built and validated once.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(ShopEquipment, ShopStocks, ShopDefaults, ShopSubstitutions, ShopPhrases)
		defaultCatalog.MustValidate()
	})
	return defaultCatalog
}

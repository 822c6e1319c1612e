// Package types - Equipment and paper stock catalog entries
package types

import "github.com/shopspring/decimal"

// DeviceClass identifies what a print engine is built for
type DeviceClass string

const (
	DeviceColor         DeviceClass = "color"
	DeviceMonochrome    DeviceClass = "monochrome"
	DeviceEnvelopeColor DeviceClass = "envelope-color"
	DeviceEnvelopeMono  DeviceClass = "envelope-mono"
)

// IsEnvelope reports whether the device is an envelope press
func (c DeviceClass) IsEnvelope() bool {
	return c == DeviceEnvelopeColor || c == DeviceEnvelopeMono
}

// Equipment is a print engine in the shop
type Equipment struct {
	// Name is the device model
	Name string `json:"name"`

	// ClickRate is the charge per printed side
	ClickRate decimal.Decimal `json:"click_rate"`

	// Class is the device class
	Class DeviceClass `json:"class"`
}

// StockCategory is the paper family
type StockCategory string

const (
	StockLetter   StockCategory = "letter"
	StockText     StockCategory = "text"
	StockCover    StockCategory = "cover"
	StockEnvelope StockCategory = "envelope"
)

// PaperStock is a purchasable sheet
type PaperStock struct {
	// Key is the canonical lookup key (lowercase)
	Key string `json:"key"`

	// Name is the display name
	Name string `json:"name"`

	// SKU is the distributor item number
	SKU string `json:"sku"`

	// SheetWidth is the parent sheet width in inches
	SheetWidth float64 `json:"sheet_width"`

	// SheetHeight is the parent sheet height in inches
	SheetHeight float64 `json:"sheet_height"`

	// CostPerSheet is the shop's cost for one sheet
	CostPerSheet decimal.Decimal `json:"cost_per_sheet"`

	// Category is the paper family
	Category StockCategory `json:"category"`
}

// ResolutionConfidence records how a requested stock was matched
type ResolutionConfidence string

const (
	// ResolutionExact matched a catalog key directly
	ResolutionExact ResolutionConfidence = "exact"
	// ResolutionAlias matched a catalog key after alias substitution
	ResolutionAlias ResolutionConfidence = "alias"
	// ResolutionDefault used the product default because no stock was requested
	ResolutionDefault ResolutionConfidence = "default"
	// ResolutionFallback used the product default because the request matched nothing
	ResolutionFallback ResolutionConfidence = "fallback"
)

// StockResolution is the outcome of resolving a requested stock
type StockResolution struct {
	// Requested is the free text from the specification
	Requested string `json:"requested,omitempty"`

	// Key is the catalog key that was used
	Key string `json:"key"`

	// Confidence records how the key was reached
	Confidence ResolutionConfidence `json:"confidence"`
}

// Substituted reports whether a requested stock was silently replaced
func (r StockResolution) Substituted() bool {
	return r.Confidence == ResolutionFallback
}

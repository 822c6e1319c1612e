// Package types - Cost, mailing and quote result types
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

// CurrencyUSD is the only currency the shop invoices in
const CurrencyUSD Currency = "USD"

// ImpositionResult describes how a job consumes press sheets
type ImpositionResult struct {
	// UpCount is finished pieces per press sheet
	UpCount int `json:"up_count"`

	// RawSheets is the exact sheet requirement before spoilage
	RawSheets int64 `json:"raw_sheets"`

	// PressSheets is the sheet requirement after spoilage
	PressSheets int64 `json:"press_sheets"`

	// SpoilagePercent is the human label for the spoilage band, e.g. "4%"
	SpoilagePercent string `json:"spoilage_percent"`

	// SpoilageFactor is the multiplier applied to raw sheets
	SpoilageFactor decimal.Decimal `json:"spoilage_factor"`
}

// CostBreakdown is the shop's internal cost for a job
type CostBreakdown struct {
	PaperCost     decimal.Decimal `json:"paper_cost"`
	ClickCost     decimal.Decimal `json:"click_cost"`
	FinishingCost decimal.Decimal `json:"finishing_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// NewCostBreakdown builds a breakdown whose total is the sum of its components
func NewCostBreakdown(paper, click, finishing decimal.Decimal) CostBreakdown {
	return CostBreakdown{
		PaperCost:     paper,
		ClickCost:     click,
		FinishingCost: finishing,
		TotalCost:     paper.Add(click).Add(finishing),
	}
}

// Balanced reports whether the total equals the sum of the components
func (c CostBreakdown) Balanced() bool {
	return c.TotalCost.Equal(c.PaperCost.Add(c.ClickCost).Add(c.FinishingCost))
}

// MailingMode selects the mailing program
type MailingMode string

const (
	MailingEDDM      MailingMode = "eddm"
	MailingAddressed MailingMode = "addressed"
)

// LineItem is a single priced mailing operation
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// NewLineItem prices quantity units at unitPrice
func NewLineItem(description string, quantity int, unitPrice decimal.Decimal) LineItem {
	return LineItem{
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// MailingSection groups line items under a heading such as "LETTERSHOP"
type MailingSection struct {
	Name     string          `json:"name"`
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Add appends a line item and keeps the subtotal current
func (s *MailingSection) Add(item LineItem) {
	s.Items = append(s.Items, item)
	s.Subtotal = s.Subtotal.Add(item.Total)
}

// MailingBreakdown is the itemized mailing-service charge
type MailingBreakdown struct {
	Mode       MailingMode      `json:"mode"`
	Sections   []MailingSection `json:"sections"`
	GrandTotal decimal.Decimal  `json:"grand_total"`
}

// AddSection appends a section and keeps the grand total current
func (b *MailingBreakdown) AddSection(section MailingSection) {
	b.Sections = append(b.Sections, section)
	b.GrandTotal = b.GrandTotal.Add(section.Subtotal)
}

// QuoteResult is the complete, immutable output of one pricing calculation
type QuoteResult struct {
	// Specification is the input the quote was computed from
	Specification Specification `json:"specification"`

	// Equipment is the routed print engine
	Equipment Equipment `json:"equipment"`

	// Stock is the resolved paper stock
	Stock PaperStock `json:"stock"`

	// StockResolution records how Stock was chosen
	StockResolution StockResolution `json:"stock_resolution"`

	// Imposition is the sheet layout and spoilage accounting
	Imposition ImpositionResult `json:"imposition"`

	// Costs is the internal cost breakdown
	Costs CostBreakdown `json:"costs"`

	// Multiplier is the markup applied to total cost
	Multiplier decimal.Decimal `json:"multiplier"`

	// Quote is the printing price after the shop minimum
	Quote decimal.Decimal `json:"quote"`

	// MarginPercent is (Quote - TotalCost) / Quote * 100
	MarginPercent decimal.Decimal `json:"margin_percent"`

	// MarginFloor is the minimum acceptable margin for the product
	MarginFloor decimal.Decimal `json:"margin_floor"`

	// Mailing is present only when mailing was requested
	Mailing *MailingBreakdown `json:"mailing,omitempty"`

	// TotalWithMailing is Quote plus the mailing grand total
	TotalWithMailing *decimal.Decimal `json:"total_with_mailing,omitempty"`

	// QA is the outcome of the post-hoc business checks
	QA QAOutcome `json:"qa"`

	// Currency is the invoice currency
	Currency Currency `json:"currency"`
}

// Payable returns what the customer owes: the quote plus any mailing services
func (q *QuoteResult) Payable() decimal.Decimal {
	if q.TotalWithMailing != nil {
		return *q.TotalWithMailing
	}
	return q.Quote
}

// Package api - Request and response types for the quoting API.
// The API is stateless apart from the optional issued-quote ledger.
package api

import (
	"time"

	"printquote/core/output"
	"printquote/core/types"
	"printquote/db"
)

// QuoteRequest is the input to POST /quotes.
// Size, when set, overrides finished_width and finished_height.
// Product and color accept the same spellings as the CLI ("postcards", "both-sides-color").
type QuoteRequest struct {
	types.Specification

	// Size is a finished size such as "6x9"
	Size string `json:"size,omitempty"`

	// Reference is the customer's own job reference, stored with issued quotes
	Reference string `json:"reference,omitempty"`
}

// Spec resolves the request into a specification
func (r QuoteRequest) Spec() (types.Specification, error) {
	spec := r.Specification
	if spec.Product != "" {
		p, err := types.ParseProductType(string(spec.Product))
		if err != nil {
			return spec, err
		}
		spec.Product = p
	}
	if spec.Color != "" {
		c, err := types.ParseColorMode(string(spec.Color))
		if err != nil {
			return spec, err
		}
		spec.Color = c
	}
	if r.Size != "" {
		w, h, err := types.ParseSize(r.Size)
		if err != nil {
			return spec, err
		}
		spec.FinishedWidth, spec.FinishedHeight = w, h
	}
	return spec, nil
}

// QuoteResponse wraps a rendered quote with request metadata
type QuoteResponse struct {
	output.Document

	// Issued is set when the quote was recorded in the ledger
	Issued *IssuedQuote `json:"issued,omitempty"`

	Metadata ResponseMetadata `json:"metadata"`
}

// IssuedQuote identifies a recorded quote
type IssuedQuote struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResponseMetadata contains request metadata
type ResponseMetadata struct {
	RequestID     string `json:"request_id"`
	EngineVersion string `json:"engine_version"`
	InputHash     string `json:"input_hash"`
	DurationMs    int64  `json:"duration_ms"`
}

// LedgerListResponse is the output of GET /quotes
type LedgerListResponse struct {
	Quotes []*db.Entry `json:"quotes"`
	Count  int         `json:"count"`
}

// CatalogResponse is the output of GET /catalog
type CatalogResponse struct {
	Equipment   []types.Equipment                     `json:"equipment"`
	Stocks      []types.PaperStock                    `json:"stocks"`
	Defaults    map[types.ProductType]string          `json:"defaults"`
	Multipliers map[types.ProductType]types.TierTable `json:"multipliers"`
	Spoilage    types.TierTable                       `json:"spoilage"`
	ShopMinimum string                                `json:"shop_minimum"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

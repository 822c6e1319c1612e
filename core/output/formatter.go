// Package output renders quote results for people and machines.
// A quote that failed QA is never rendered as issuable: formatters
// report the failing checks and return ErrWithheld instead.
package output

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"printquote/core/types"
	perrors "printquote/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable quote sheet
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ErrWithheld is returned when a quote failed QA and must not be issued
var ErrWithheld = errors.New("quote withheld: QA checks failed")

// Status is the issue state of a rendered quote
type Status string

const (
	StatusIssued   Status = "issued"
	StatusWithheld Status = "withheld"
)

// StatusOf reports whether a result may be issued
func StatusOf(result *types.QuoteResult) Status {
	if result.QA.Passed() {
		return StatusIssued
	}
	return StatusWithheld
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the result. It returns ErrWithheld for a failing quote.
	Render(w io.Writer, result *types.QuoteResult) error
}

// ParseFormat accepts "text" or "json"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", perrors.Newf(perrors.TypeInput, "unknown output format %q", s)
}

// New returns the formatter for a format
func New(format Format, opts Options) (Formatter, error) {
	switch format {
	case FormatText:
		return &TextFormatter{NoColor: opts.NoColor, ShowBreakdown: opts.ShowBreakdown}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	}
	return nil, perrors.Newf(perrors.TypeInput, "unknown output format %q", format)
}

// Options tune rendering
type Options struct {
	NoColor       bool
	ShowBreakdown bool
}

// Document is the JSON shape of a rendered quote
type Document struct {
	Status Status `json:"status"`

	// Quote is omitted for withheld quotes so the price cannot leak
	Quote *types.QuoteResult `json:"quote,omitempty"`

	Failures []types.CheckResult `json:"failures,omitempty"`

	// ID and InputHash are attached by callers that record quotes
	ID        string `json:"id,omitempty"`
	InputHash string `json:"input_hash,omitempty"`
}

// NewDocument wraps a result for machine output
func NewDocument(result *types.QuoteResult) Document {
	doc := Document{Status: StatusOf(result)}
	if doc.Status == StatusIssued {
		doc.Quote = result
	} else {
		doc.Failures = result.QA.Failures()
	}
	return doc
}

// JSONFormatter renders a Document
type JSONFormatter struct {
	Indent bool
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f *JSONFormatter) Render(w io.Writer, result *types.QuoteResult) error {
	doc := NewDocument(result)
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return perrors.Internal("failed to encode quote", err)
	}
	if doc.Status == StatusWithheld {
		return ErrWithheld
	}
	return nil
}

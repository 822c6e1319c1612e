// Package types - Job specification types
package types

import (
	"math"
	"strconv"
	"strings"

	perrors "printquote/internal/errors"
)

// ProductType is the closed set of products the shop quotes
type ProductType string

const (
	ProductPostcard ProductType = "postcard"
	ProductFlyer    ProductType = "flyer"
	ProductBrochure ProductType = "brochure"
	ProductBooklet  ProductType = "booklet"
	ProductLetter   ProductType = "letter"
	ProductEnvelope ProductType = "envelope"
)

// AllProductTypes lists every product type in display order
func AllProductTypes() []ProductType {
	return []ProductType{
		ProductPostcard,
		ProductFlyer,
		ProductBrochure,
		ProductBooklet,
		ProductLetter,
		ProductEnvelope,
	}
}

// String returns the string representation
func (p ProductType) String() string {
	return string(p)
}

// Valid reports whether p is one of the known product types
func (p ProductType) Valid() bool {
	switch p {
	case ProductPostcard, ProductFlyer, ProductBrochure, ProductBooklet, ProductLetter, ProductEnvelope:
		return true
	}
	return false
}

// IsFlat reports whether p is a sheet-fed flat piece that is imposed on a press sheet
func (p ProductType) IsFlat() bool {
	switch p {
	case ProductPostcard, ProductFlyer, ProductBrochure:
		return true
	}
	return false
}

// ParseProductType parses a product name, accepting plurals and any case
func ParseProductType(s string) (ProductType, error) {
	p := ProductType(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !p.Valid() {
		return "", perrors.InvalidSpec("unknown product type %q", s)
	}
	return p, nil
}

// ColorMode encodes ink per side using the press-room shorthand (front/back)
type ColorMode string

const (
	// ColorBothSides is full color on both sides
	ColorBothSides ColorMode = "4/4"
	// ColorOneSide is full color on the front only
	ColorOneSide ColorMode = "4/0"
	// MonoBothSides is black on both sides
	MonoBothSides ColorMode = "1/1"
	// MonoOneSide is black on the front only
	MonoOneSide ColorMode = "1/0"
)

var colorModeAliases = map[string]ColorMode{
	"4/4":              ColorBothSides,
	"both-sides-color": ColorBothSides,
	"4/0":              ColorOneSide,
	"one-side-color":   ColorOneSide,
	"1/1":              MonoBothSides,
	"both-sides-mono":  MonoBothSides,
	"1/0":              MonoOneSide,
	"one-side-mono":    MonoOneSide,
}

// String returns the string representation
func (c ColorMode) String() string {
	return string(c)
}

// Valid reports whether c is a known color mode
func (c ColorMode) Valid() bool {
	switch c {
	case ColorBothSides, ColorOneSide, MonoBothSides, MonoOneSide:
		return true
	}
	return false
}

// IsColor reports whether the mode uses process color ink
func (c ColorMode) IsColor() bool {
	return c == ColorBothSides || c == ColorOneSide
}

// Sides returns the number of printed sides
func (c ColorMode) Sides() int {
	if c == ColorBothSides || c == MonoBothSides {
		return 2
	}
	return 1
}

// ParseColorMode accepts ink codes ("4/4") or descriptive names ("both-sides-color")
func ParseColorMode(s string) (ColorMode, error) {
	if c, ok := colorModeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", perrors.InvalidSpec("unknown color mode %q", s)
}

// ParseSize reads a finished size such as "6x9", "8.5 X 11" or "4×6"
func ParseSize(s string) (width, height float64, err error) {
	norm := strings.NewReplacer("×", "x", "X", "x", "\"", "", "in", "").Replace(strings.TrimSpace(s))
	parts := strings.Split(norm, "x")
	if len(parts) != 2 {
		return 0, 0, perrors.InvalidSpec("size must look like 6x9, got %q", s)
	}
	width, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, perrors.InvalidSpec("invalid width in size %q", s)
	}
	height, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, perrors.InvalidSpec("invalid height in size %q", s)
	}
	if !positiveFinite(width) || !positiveFinite(height) {
		return 0, 0, perrors.InvalidSpec("size must be positive, got %q", s)
	}
	return width, height, nil
}

// Specification is a complete, structured print job request.
// It is produced once by an upstream collaborator and never mutated.
type Specification struct {
	// Quantity is the number of finished pieces ordered
	Quantity int `json:"quantity"`

	// Product is the product type
	Product ProductType `json:"product"`

	// FinishedWidth is the trimmed width in inches
	FinishedWidth float64 `json:"finished_width"`

	// FinishedHeight is the trimmed height in inches
	FinishedHeight float64 `json:"finished_height"`

	// Color is the ink coverage
	Color ColorMode `json:"color"`

	// Stock is the requested paper stock, free text; empty means product default
	Stock string `json:"stock,omitempty"`

	// TotalPages is the booklet page count including covers
	TotalPages int `json:"total_pages,omitempty"`

	// LetterNUp is the externally supplied n-up factor for letters
	LetterNUp int `json:"n_up,omitempty"`

	// WantsMailing requests mailing services
	WantsMailing bool `json:"wants_mailing,omitempty"`

	// IsEDDM selects Every Door Direct Mail over addressed mail
	IsEDDM bool `json:"is_eddm,omitempty"`
}

// Validate rejects specifications the pricing pipeline cannot price.
func (s Specification) Validate() error {
	if s.Quantity <= 0 {
		return perrors.InvalidSpec("quantity must be positive, got %d", s.Quantity).
			WithContext("field", "quantity")
	}
	if !s.Product.Valid() {
		return perrors.InvalidSpec("unknown product type %q", s.Product).
			WithContext("field", "product")
	}
	if !s.Color.Valid() {
		return perrors.InvalidSpec("unknown color mode %q", s.Color).
			WithContext("field", "color")
	}
	if !positiveFinite(s.FinishedWidth) || !positiveFinite(s.FinishedHeight) {
		return perrors.InvalidSpec("finished size must be positive, got %gx%g", s.FinishedWidth, s.FinishedHeight).
			WithContext("field", "size")
	}
	if s.Product == ProductBooklet {
		if s.TotalPages == 0 {
			return perrors.InvalidSpec("booklets require a total page count").
				WithContext("field", "total_pages")
		}
		if s.TotalPages < 4 || s.TotalPages%4 != 0 {
			return perrors.InvalidSpec("booklet page count must be a multiple of 4 and at least 4, got %d", s.TotalPages).
				WithContext("field", "total_pages")
		}
	}
	if s.LetterNUp < 0 {
		return perrors.InvalidSpec("n-up must not be negative, got %d", s.LetterNUp).
			WithContext("field", "n_up")
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

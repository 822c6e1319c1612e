package imposition

import (
	"testing"

	"github.com/shopspring/decimal"

	"printquote/core/types"
	perrors "printquote/internal/errors"
)

func TestCalculateImposition(t *testing.T) {
	tests := []struct {
		name           string
		fw, fh, sw, sh float64
		bleed          float64
		want           int
	}{
		{name: "6x9 on 19x13 rotates to 4", fw: 6, fh: 9, sw: 19, sh: 13, bleed: 0.25, want: 4},
		{name: "4x6 on 19x13 rotates to 9", fw: 4, fh: 6, sw: 19, sh: 13, bleed: 0.25, want: 9},
		{name: "letter flyer on 19x13", fw: 8.5, fh: 11, sw: 19, sh: 13, bleed: 0.25, want: 2},
		{name: "exact division without bleed", fw: 6, fh: 6.5, sw: 19, sh: 13, bleed: 0, want: 6},
		{name: "piece larger than sheet", fw: 20, fh: 14, sw: 19, sh: 13, bleed: 0.25, want: 0},
		{name: "piece fits only rotated", fw: 12, fh: 4, sw: 5, sh: 13, bleed: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateImposition(tt.fw, tt.fh, tt.sw, tt.sh, tt.bleed)
			if got != tt.want {
				t.Errorf("CalculateImposition(%g, %g, %g, %g, %g) = %d, want %d",
					tt.fw, tt.fh, tt.sw, tt.sh, tt.bleed, got, tt.want)
			}
		})
	}
}

func TestPiecesPerSheetUsesDefaultBleed(t *testing.T) {
	if got, want := PiecesPerSheet(6, 9, 19, 13), CalculateImposition(6, 9, 19, 13, DefaultBleed); got != want {
		t.Errorf("PiecesPerSheet = %d, want %d", got, want)
	}
}

func TestSpoilageBandsUseInclusiveUpperBounds(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
		label    string
	}{
		{1, "1.05", "5%"},
		{250, "1.05", "5%"},
		{251, "1.04", "4%"},
		{500, "1.04", "4%"},
		{501, "1.03", "3%"},
		{1000, "1.03", "3%"},
		{2500, "1.025", "2.5%"},
		{2501, "1.02", "2%"},
		{100000, "1.02", "2%"},
	}
	for _, tt := range tests {
		f := SpoilageFactor(tt.quantity)
		if !f.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("SpoilageFactor(%d) = %s, want %s", tt.quantity, f, tt.want)
		}
		if got := SpoilageLabel(f); got != tt.label {
			t.Errorf("SpoilageLabel(%s) = %q, want %q", f, got, tt.label)
		}
	}
}

func TestRawSheets(t *testing.T) {
	tests := []struct {
		name     string
		product  types.ProductType
		quantity int
		up       int
		pages    int
		want     int64
	}{
		{"postcard rounds up", types.ProductPostcard, 500, 4, 0, 125},
		{"flyer partial sheet", types.ProductFlyer, 501, 2, 0, 251},
		{"booklet 16 pages", types.ProductBooklet, 4432, 1, 16, 17728},
		{"booklet 4 pages", types.ProductBooklet, 100, 1, 4, 100},
		{"letter without n-up", types.ProductLetter, 1000, 1, 0, 1000},
		{"letter 2-up", types.ProductLetter, 1001, 2, 0, 501},
		{"envelope one per sheet", types.ProductEnvelope, 10000, 1, 0, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RawSheets(tt.product, tt.quantity, tt.up, tt.pages)
			if err != nil {
				t.Fatalf("RawSheets error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RawSheets = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRawSheetsFailsWithoutDerivedInputs(t *testing.T) {
	if _, err := RawSheets(types.ProductBooklet, 100, 1, 0); !perrors.IsType(err, perrors.TypeInput) {
		t.Errorf("booklet without pages: expected INPUT_ERROR, got %v", err)
	}
	for _, pages := range []int{2, 6, 18} {
		if _, err := RawSheets(types.ProductBooklet, 100, 1, pages); !perrors.IsType(err, perrors.TypeInput) {
			t.Errorf("booklet with %d pages: expected INPUT_ERROR, got %v", pages, err)
		}
	}
	if _, err := RawSheets(types.ProductPostcard, 100, 0, 0); !perrors.IsType(err, perrors.TypePricing) {
		t.Errorf("flat product without up-count: expected PRICING_ERROR, got %v", err)
	}
}

func TestPressSheetsAppliesSpoilageOnce(t *testing.T) {
	for _, raw := range []int64{1, 7, 125, 999, 10000, 17728} {
		for _, q := range []int{100, 300, 800, 2000, 9000} {
			f := SpoilageFactor(q)
			got := PressSheets(raw, f)
			want := decimal.NewFromInt(raw).Mul(f).Ceil().IntPart()
			if got != want {
				t.Errorf("PressSheets(%d, %s) = %d, want %d", raw, f, got, want)
			}
			if got < raw {
				t.Errorf("PressSheets(%d, %s) = %d is below raw", raw, f, got)
			}
		}
	}
}

func TestPlanScenarios(t *testing.T) {
	cover := types.PaperStock{Key: "14pt c2s cover", SheetWidth: 19, SheetHeight: 13}
	text := types.PaperStock{Key: "80# gloss text", SheetWidth: 19, SheetHeight: 13}
	env := types.PaperStock{Key: "#10 white wove envelope", SheetWidth: 9.5, SheetHeight: 4.125}

	tests := []struct {
		name      string
		spec      types.Specification
		stock     types.PaperStock
		wantUp    int
		wantRaw   int64
		wantPress int64
		factor    string
	}{
		{
			name:      "500 postcards 6x9",
			spec:      types.Specification{Quantity: 500, Product: types.ProductPostcard, FinishedWidth: 6, FinishedHeight: 9, Color: types.ColorBothSides},
			stock:     cover,
			wantUp:    4,
			wantRaw:   125,
			wantPress: 130,
			factor:    "1.04",
		},
		{
			name:      "10000 envelopes",
			spec:      types.Specification{Quantity: 10000, Product: types.ProductEnvelope, FinishedWidth: 9.5, FinishedHeight: 4.125, Color: types.MonoOneSide},
			stock:     env,
			wantUp:    1,
			wantRaw:   10000,
			wantPress: 10200,
			factor:    "1.02",
		},
		{
			name:      "4432 booklets of 16 pages",
			spec:      types.Specification{Quantity: 4432, Product: types.ProductBooklet, FinishedWidth: 5.5, FinishedHeight: 8.5, Color: types.ColorBothSides, TotalPages: 16},
			stock:     text,
			wantUp:    1,
			wantRaw:   17728,
			wantPress: 18083,
			factor:    "1.02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.spec, tt.stock)
			if err != nil {
				t.Fatalf("Plan error = %v", err)
			}
			if got.UpCount != tt.wantUp || got.RawSheets != tt.wantRaw || got.PressSheets != tt.wantPress {
				t.Errorf("Plan = up %d raw %d press %d, want up %d raw %d press %d",
					got.UpCount, got.RawSheets, got.PressSheets, tt.wantUp, tt.wantRaw, tt.wantPress)
			}
			if !got.SpoilageFactor.Equal(decimal.RequireFromString(tt.factor)) {
				t.Errorf("SpoilageFactor = %s, want %s", got.SpoilageFactor, tt.factor)
			}
		})
	}
}

func TestPlanRejectsOversizedFlatPiece(t *testing.T) {
	spec := types.Specification{Quantity: 100, Product: types.ProductFlyer, FinishedWidth: 24, FinishedHeight: 36, Color: types.ColorOneSide}
	_, err := Plan(spec, types.PaperStock{Key: "100# gloss text", SheetWidth: 19, SheetHeight: 13})
	if !perrors.IsType(err, perrors.TypePricing) {
		t.Fatalf("expected PRICING_ERROR, got %v", err)
	}
}

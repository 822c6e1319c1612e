package types

import (
	"testing"

	"github.com/shopspring/decimal"

	perrors "printquote/internal/errors"
)

func validPostcard() Specification {
	return Specification{
		Quantity:       500,
		Product:        ProductPostcard,
		FinishedWidth:  6,
		FinishedHeight: 9,
		Color:          ColorBothSides,
	}
}

func TestSpecificationValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Specification)
		wantErr bool
	}{
		{name: "valid postcard", mutate: func(s *Specification) {}},
		{name: "zero quantity", mutate: func(s *Specification) { s.Quantity = 0 }, wantErr: true},
		{name: "negative quantity", mutate: func(s *Specification) { s.Quantity = -5 }, wantErr: true},
		{name: "zero width", mutate: func(s *Specification) { s.FinishedWidth = 0 }, wantErr: true},
		{name: "negative height", mutate: func(s *Specification) { s.FinishedHeight = -1 }, wantErr: true},
		{name: "unknown product", mutate: func(s *Specification) { s.Product = "banner" }, wantErr: true},
		{name: "unknown color", mutate: func(s *Specification) { s.Color = "6/6" }, wantErr: true},
		{
			name:    "booklet without pages",
			mutate:  func(s *Specification) { s.Product = ProductBooklet },
			wantErr: true,
		},
		{
			name:    "booklet with odd pages",
			mutate:  func(s *Specification) { s.Product = ProductBooklet; s.TotalPages = 10 },
			wantErr: true,
		},
		{
			name:   "booklet with 16 pages",
			mutate: func(s *Specification) { s.Product = ProductBooklet; s.TotalPages = 16 },
		},
		{name: "negative n-up", mutate: func(s *Specification) { s.LetterNUp = -2 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validPostcard()
			tt.mutate(&spec)
			err := spec.Validate()
			if tt.wantErr {
				if !perrors.IsType(err, perrors.TypeInput) {
					t.Fatalf("expected INPUT_ERROR, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseProductType(t *testing.T) {
	tests := []struct {
		in   string
		want ProductType
	}{
		{"postcard", ProductPostcard},
		{"Postcards", ProductPostcard},
		{" FLYERS ", ProductFlyer},
		{"brochure", ProductBrochure},
		{"booklets", ProductBooklet},
		{"letter", ProductLetter},
		{"Envelopes", ProductEnvelope},
	}
	for _, tt := range tests {
		got, err := ParseProductType(tt.in)
		if err != nil {
			t.Fatalf("ParseProductType(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseProductType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseProductType("banner"); err == nil {
		t.Error("expected error for unknown product")
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		sides   int
		isColor bool
	}{
		{"4/4", ColorBothSides, 2, true},
		{"both-sides-color", ColorBothSides, 2, true},
		{"4/0", ColorOneSide, 1, true},
		{"1/1", MonoBothSides, 2, false},
		{"One-Side-Mono", MonoOneSide, 1, false},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if err != nil {
			t.Fatalf("ParseColorMode(%q) error = %v", tt.in, err)
		}
		if got != tt.want || got.Sides() != tt.sides || got.IsColor() != tt.isColor {
			t.Errorf("ParseColorMode(%q) = %q sides=%d color=%v", tt.in, got, got.Sides(), got.IsColor())
		}
	}
}

func TestMailingBreakdownTotals(t *testing.T) {
	var dp MailingSection
	dp.Name = "DATA PROCESSING"
	dp.Add(NewLineItem("NCOA/CASS", 1000, decimal.RequireFromString("0.01")))

	var ls MailingSection
	ls.Name = "LETTERSHOP"
	ls.Add(NewLineItem("Addressing", 1000, decimal.RequireFromString("0.035")))
	ls.Add(NewLineItem("Bulk prep", 1000, decimal.RequireFromString("0.025")))

	var b MailingBreakdown
	b.AddSection(dp)
	b.AddSection(ls)

	if !ls.Subtotal.Equal(decimal.RequireFromString("60")) {
		t.Errorf("LETTERSHOP subtotal = %s, want 60", ls.Subtotal)
	}
	if !b.GrandTotal.Equal(decimal.RequireFromString("70")) {
		t.Errorf("GrandTotal = %s, want 70", b.GrandTotal)
	}
}

func TestQAOutcomeFailures(t *testing.T) {
	o := QAOutcome{
		Checks: []CheckResult{
			{Name: CheckPaperCost, Passed: true},
			{Name: CheckMarginFloor, Passed: false},
		},
		PassedCount: 1,
		FailedCount: 1,
	}
	if o.Passed() {
		t.Error("outcome with a failure must not pass")
	}
	if f := o.Failures(); len(f) != 1 || f[0].Name != CheckMarginFloor {
		t.Errorf("Failures() = %v", f)
	}
	if (QAOutcome{}).Passed() {
		t.Error("an outcome with no checks has not passed")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    float64
		wantErr bool
	}{
		{"6x9", 6, 9, false},
		{"8.5 X 11", 8.5, 11, false},
		{"4×6", 4, 6, false},
		{`5.5" x 8.5"`, 5.5, 8.5, false},
		{"6in x 9in", 6, 9, false},
		{"6", 0, 0, true},
		{"axb", 0, 0, true},
		{"0x9", 0, 0, true},
		{"6x9x2", 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := ParseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !perrors.IsType(err, perrors.TypeInput) {
				t.Errorf("ParseSize(%q) error type = %s", tt.in, perrors.TypeOf(err))
			}
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("ParseSize(%q) = %gx%g, want %gx%g", tt.in, w, h, tt.w, tt.h)
		}
	}
}

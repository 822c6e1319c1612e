package cost

import (
	"testing"

	"github.com/shopspring/decimal"

	"printquote/core/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestShopCalculator(t *testing.T) {
	color := types.Equipment{Name: "C4080", ClickRate: dec("0.039"), Class: types.DeviceColor}
	envMono := types.Equipment{Name: "JetJet", ClickRate: dec("0.012"), Class: types.DeviceEnvelopeMono}

	tests := []struct {
		name      string
		spec      types.Specification
		equipment types.Equipment
		stock     types.PaperStock
		press     int64
		paper     string
		click     string
		finishing string
		total     string
	}{
		{
			name:      "postcards both sides",
			spec:      types.Specification{Quantity: 500, Product: types.ProductPostcard, Color: types.ColorBothSides},
			equipment: color,
			stock:     types.PaperStock{Key: "14pt c2s cover", CostPerSheet: dec("0.165")},
			press:     130,
			paper:     "21.45",
			click:     "10.14",
			finishing: "0",
			total:     "31.59",
		},
		{
			name:      "envelopes one side mono",
			spec:      types.Specification{Quantity: 10000, Product: types.ProductEnvelope, Color: types.MonoOneSide},
			equipment: envMono,
			stock:     types.PaperStock{Key: "#10 white wove envelope", CostPerSheet: dec("0.038")},
			press:     10200,
			paper:     "387.6",
			click:     "122.4",
			finishing: "0",
			total:     "510",
		},
		{
			name:      "booklets with finishing",
			spec:      types.Specification{Quantity: 4432, Product: types.ProductBooklet, Color: types.ColorBothSides, TotalPages: 16},
			equipment: color,
			stock:     types.PaperStock{Key: "80# gloss text", CostPerSheet: dec("0.071")},
			press:     18083,
			paper:     "1283.893",
			click:     "1410.474",
			finishing: "384.3",
			total:     "3078.667",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShopCalculator{}.Calculate(tt.spec, tt.equipment, tt.stock, types.ImpositionResult{PressSheets: tt.press})
			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"paper", got.PaperCost, tt.paper},
				{"click", got.ClickCost, tt.click},
				{"finishing", got.FinishingCost, tt.finishing},
				{"total", got.TotalCost, tt.total},
			}
			for _, c := range checks {
				if !c.got.Equal(dec(c.want)) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
			if !got.Balanced() {
				t.Errorf("breakdown does not balance: %+v", got)
			}
		})
	}
}

func TestFinishingDiscountTiers(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
	}{
		{999, "0"},
		{1000, "0.10"},
		{4999, "0.10"},
		{5000, "0.15"},
		{9999, "0.15"},
		{10000, "0.20"},
		{50000, "0.20"},
	}
	for _, tt := range tests {
		if got := FinishingDiscount(tt.quantity); !got.Equal(dec(tt.want)) {
			t.Errorf("FinishingDiscount(%d) = %s, want %s", tt.quantity, got, tt.want)
		}
	}
}

func TestFinishingAppliesToBookletsOnly(t *testing.T) {
	for _, p := range types.AllProductTypes() {
		got := FinishingCost(p, 2000)
		if p == types.ProductBooklet {
			// (50 + 2000*0.0625 + 100) * 0.9
			if !got.Equal(dec("247.5")) {
				t.Errorf("booklet finishing = %s, want 247.5", got)
			}
			continue
		}
		if !got.IsZero() {
			t.Errorf("%s finishing = %s, want 0", p, got)
		}
	}
}

func TestClickCostCountsSides(t *testing.T) {
	e := types.Equipment{ClickRate: dec("0.01")}
	if got := ClickCost(100, types.MonoBothSides, e); !got.Equal(dec("2")) {
		t.Errorf("1/1 click = %s, want 2", got)
	}
	if got := ClickCost(100, types.ColorOneSide, e); !got.Equal(dec("1")) {
		t.Errorf("4/0 click = %s, want 1", got)
	}
}

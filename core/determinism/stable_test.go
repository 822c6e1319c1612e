package determinism

import (
	"testing"

	"printquote/core/types"
)

func TestInputHashIsStable(t *testing.T) {
	spec := types.Specification{Quantity: 500, Product: types.ProductPostcard, FinishedWidth: 6, FinishedHeight: 9, Color: types.ColorBothSides}
	first := InputHash(spec)
	for i := 0; i < 10; i++ {
		if InputHash(spec) != first {
			t.Fatal("InputHash changed between calls")
		}
	}
	if len(first.Hex()) != 64 {
		t.Errorf("Hex length = %d, want 64", len(first.Hex()))
	}
}

func TestInputHashNormalization(t *testing.T) {
	base := types.Specification{Quantity: 1000, Product: types.ProductFlyer, FinishedWidth: 8.5, FinishedHeight: 11, Color: types.ColorOneSide, Stock: "100# Gloss Text"}

	tests := []struct {
		name   string
		mutate func(s *types.Specification)
		same   bool
	}{
		{"stock case and spacing", func(s *types.Specification) { s.Stock = "  100#   gloss TEXT " }, true},
		{"eddm without mailing", func(s *types.Specification) { s.IsEDDM = true }, true},
		{"eddm with mailing", func(s *types.Specification) { s.WantsMailing, s.IsEDDM = true, true }, false},
		{"different quantity", func(s *types.Specification) { s.Quantity = 1001 }, false},
		{"different color", func(s *types.Specification) { s.Color = types.ColorBothSides }, false},
		{"different stock", func(s *types.Specification) { s.Stock = "80# gloss text" }, false},
		{"stock alias spelling", func(s *types.Specification) { s.Stock = "100lb gloss text" }, false},
		{"pages on a flyer", func(s *types.Specification) { s.TotalPages = 16 }, true},
		{"n-up on a flyer", func(s *types.Specification) { s.LetterNUp = 4 }, true},
	}

	want := InputHash(base)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			tt.mutate(&s)
			if got := InputHash(s) == want; got != tt.same {
				t.Errorf("hash equal = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestInputHashProductFields(t *testing.T) {
	booklet := types.Specification{Quantity: 100, Product: types.ProductBooklet, FinishedWidth: 5.5, FinishedHeight: 8.5, Color: types.ColorBothSides, TotalPages: 16}
	more := booklet
	more.TotalPages = 20
	if InputHash(booklet) == InputHash(more) {
		t.Error("booklet page count should change the hash")
	}

	letter := types.Specification{Quantity: 1000, Product: types.ProductLetter, FinishedWidth: 8.5, FinishedHeight: 11, Color: types.MonoOneSide}
	oneUp, twoUp := letter, letter
	oneUp.LetterNUp = 1
	twoUp.LetterNUp = 2
	if InputHash(letter) != InputHash(oneUp) {
		t.Error("1-up letter should hash like an unset n-up")
	}
	if InputHash(letter) == InputHash(twoUp) {
		t.Error("2-up letter should change the hash")
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	got := SortedKeys(m)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedKeys = %v, want %v", got, want)
		}
	}
}

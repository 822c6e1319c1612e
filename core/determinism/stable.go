// Package determinism provides primitives for deterministic output:
// content hashes over canonical encodings and sorted iteration over maps.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"printquote/core/types"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// canonicalSpec fixes field order and normalizes free text
type canonicalSpec struct {
	Quantity       int     `json:"q"`
	Product        string  `json:"p"`
	FinishedWidth  float64 `json:"w"`
	FinishedHeight float64 `json:"h"`
	Color          string  `json:"c"`
	Stock          string  `json:"s"`
	TotalPages     int     `json:"pg"`
	LetterNUp      int     `json:"n"`
	WantsMailing   bool    `json:"m"`
	IsEDDM         bool    `json:"e"`
}

// InputHash identifies a specification. Fields the engine ignores do not
// change the hash: stock text is case- and whitespace-insensitive, page
// count only counts for booklets, n-up only for letters above 1-up and
// EDDM only when mailing was requested. Stock names are hashed as written,
// so two spellings that resolve to the same catalog stock ("80lb" and
// "80#") hash differently.
func InputHash(spec types.Specification) ContentHash {
	c := canonicalSpec{
		Quantity:       spec.Quantity,
		Product:        string(spec.Product),
		FinishedWidth:  spec.FinishedWidth,
		FinishedHeight: spec.FinishedHeight,
		Color:          string(spec.Color),
		Stock:          strings.Join(strings.Fields(strings.ToLower(spec.Stock)), " "),
		WantsMailing:   spec.WantsMailing,
		IsEDDM:         spec.WantsMailing && spec.IsEDDM,
	}
	if spec.Product == types.ProductBooklet {
		c.TotalPages = spec.TotalPages
	}
	if spec.Product == types.ProductLetter && spec.LetterNUp > 1 {
		c.LetterNUp = spec.LetterNUp
	}
	// a struct of scalars always marshals
	data, _ := json.Marshal(c)
	return ComputeHash(data)
}

// SortedKeys returns a sorted copy of map keys
func SortedKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return keys
}

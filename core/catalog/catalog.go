// Package catalog - Equipment and paper stock registry
// Holds the shop's static reference data and the routing rules over it.
// A Catalog is immutable after construction and safe for concurrent reads.
package catalog

import (
	"regexp"
	"strings"

	"printquote/core/determinism"
	"printquote/core/types"
)

// Alias rewrites part of a requested stock name before lookup.
// A Word alias only matches From as a whole word.
type Alias struct {
	From string
	To   string
	Word bool
}

// Catalog is the equipment and stock registry
type Catalog struct {
	equipment map[types.DeviceClass]types.Equipment
	stocks    map[string]types.PaperStock
	defaults  map[types.ProductType]string
	rewrite   *regexp.Regexp
	rewrites  map[string]string
	phrases   map[string]string
}

// New builds a catalog. Keys of stocks, defaults and phrases are matched
// case-insensitively; substitutions are applied in order before phrase lookup.
func New(
	equipment []types.Equipment,
	stocks []types.PaperStock,
	defaults map[types.ProductType]string,
	substitutions []Alias,
	phrases map[string]string,
) *Catalog {
	c := &Catalog{
		equipment: make(map[types.DeviceClass]types.Equipment, len(equipment)),
		stocks:    make(map[string]types.PaperStock, len(stocks)),
		defaults:  make(map[types.ProductType]string, len(defaults)),
		phrases:   make(map[string]string, len(phrases)),
		rewrites:  make(map[string]string, len(substitutions)),
	}

	for _, e := range equipment {
		c.equipment[e.Class] = e
	}
	for _, s := range stocks {
		s.Key = normalize(s.Key)
		c.stocks[s.Key] = s
	}
	for p, key := range defaults {
		c.defaults[p] = normalize(key)
	}
	for from, to := range phrases {
		c.phrases[normalize(from)] = normalize(to)
	}

	// leftmost-first alternation: earlier entries win at the same position
	patterns := make([]string, 0, len(substitutions))
	for _, a := range substitutions {
		from := strings.ToLower(a.From)
		if _, dup := c.rewrites[from]; dup || from == "" {
			continue
		}
		c.rewrites[from] = strings.ToLower(a.To)
		pattern := regexp.QuoteMeta(from)
		if a.Word {
			pattern = `\b` + pattern + `\b`
		}
		patterns = append(patterns, pattern)
	}
	if len(patterns) > 0 {
		c.rewrite = regexp.MustCompile(strings.Join(patterns, "|"))
	}

	return c
}

// ResolveEquipment routes a job to exactly one print engine.
// Envelopes always go to an envelope press matched on ink; other monochrome
// work goes to the monochrome engine; everything else to the color engine.
func (c *Catalog) ResolveEquipment(product types.ProductType, color types.ColorMode) types.Equipment {
	switch product {
	case types.ProductEnvelope:
		if color.IsColor() {
			return c.equipment[types.DeviceEnvelopeColor]
		}
		return c.equipment[types.DeviceEnvelopeMono]
	case types.ProductPostcard, types.ProductFlyer, types.ProductBrochure,
		types.ProductBooklet, types.ProductLetter:
		if !color.IsColor() {
			return c.equipment[types.DeviceMonochrome]
		}
	}
	return c.equipment[types.DeviceColor]
}

// ResolveStock returns the stock for a free-text request, falling back to the
// product default when the request is empty or matches nothing.
func (c *Catalog) ResolveStock(identifier string, product types.ProductType) (types.PaperStock, types.StockResolution) {
	res := types.StockResolution{Requested: identifier}

	key := normalize(identifier)
	if key != "" {
		if s, ok := c.stocks[key]; ok {
			res.Key = s.Key
			res.Confidence = types.ResolutionExact
			return s, res
		}
		if s, ok := c.lookupAlias(key); ok {
			res.Key = s.Key
			res.Confidence = types.ResolutionAlias
			return s, res
		}
	}

	s := c.DefaultStock(product)
	res.Key = s.Key
	res.Confidence = types.ResolutionDefault
	if key != "" {
		res.Confidence = types.ResolutionFallback
	}
	return s, res
}

func (c *Catalog) substitute(key string) string {
	if c.rewrite == nil {
		return key
	}
	return c.rewrite.ReplaceAllStringFunc(key, func(m string) string {
		return c.rewrites[m]
	})
}

func (c *Catalog) lookupAlias(key string) (types.PaperStock, bool) {
	rewritten := compact(c.substitute(key))
	if s, ok := c.stocks[rewritten]; ok {
		return s, true
	}
	for _, candidate := range []string{key, rewritten} {
		if target, ok := c.phrases[candidate]; ok {
			if s, ok := c.stocks[target]; ok {
				return s, true
			}
		}
	}
	return types.PaperStock{}, false
}

// DefaultStock returns the registered default stock for a product
func (c *Catalog) DefaultStock(product types.ProductType) types.PaperStock {
	return c.stocks[c.defaults[product]]
}

// Stock returns a stock by catalog key
func (c *Catalog) Stock(key string) (types.PaperStock, bool) {
	s, ok := c.stocks[normalize(key)]
	return s, ok
}

// Equipment returns every device in routing-class order
func (c *Catalog) Equipment() []types.Equipment {
	order := []types.DeviceClass{
		types.DeviceColor,
		types.DeviceMonochrome,
		types.DeviceEnvelopeColor,
		types.DeviceEnvelopeMono,
	}
	result := make([]types.Equipment, 0, len(order))
	for _, class := range order {
		if e, ok := c.equipment[class]; ok {
			result = append(result, e)
		}
	}
	return result
}

// Stocks returns every stock sorted by key
func (c *Catalog) Stocks() []types.PaperStock {
	keys := determinism.SortedKeys(c.stocks)
	result := make([]types.PaperStock, 0, len(keys))
	for _, k := range keys {
		result = append(result, c.stocks[k])
	}
	return result
}

// DefaultStockKey returns the default stock key for a product
func (c *Catalog) DefaultStockKey(product types.ProductType) string {
	return c.defaults[product]
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var weightGap = regexp.MustCompile(`(\d)\s+#`)

// compact tidies a rewritten name so "80 # gloss" reads "80# gloss"
func compact(s string) string {
	return normalize(weightGap.ReplaceAllString(s, "$1#"))
}

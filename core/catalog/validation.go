// Package catalog - Catalog validation
// Ensures catalog integrity and enforces invariants.
package catalog

import (
	"fmt"

	"printquote/core/types"
)

// StockRule is a validation rule over a single stock entry
type StockRule func(types.PaperStock) error

// DefaultStockRules returns the standard stock rules
func DefaultStockRules() []StockRule {
	return []StockRule{
		validateSheetSize,
		validateSheetCost,
	}
}

// Validate checks the catalog and returns every problem found
func (c *Catalog) Validate(rules []StockRule) []error {
	var errors []error

	for _, s := range c.Stocks() {
		for _, rule := range rules {
			if err := rule(s); err != nil {
				errors = append(errors, fmt.Errorf("stock %q: %w", s.Key, err))
			}
		}
	}

	for _, class := range []types.DeviceClass{
		types.DeviceColor,
		types.DeviceMonochrome,
		types.DeviceEnvelopeColor,
		types.DeviceEnvelopeMono,
	} {
		e, ok := c.equipment[class]
		if !ok {
			errors = append(errors, fmt.Errorf("no %s device registered", class))
			continue
		}
		if e.ClickRate.IsNegative() {
			errors = append(errors, fmt.Errorf("device %q: negative click rate %s", e.Name, e.ClickRate))
		}
	}

	for _, p := range types.AllProductTypes() {
		key, ok := c.defaults[p]
		if !ok {
			errors = append(errors, fmt.Errorf("product %s has no default stock", p))
			continue
		}
		if _, ok := c.stocks[key]; !ok {
			errors = append(errors, fmt.Errorf("product %s defaults to unknown stock %q", p, key))
		}
	}

	for phrase, target := range c.phrases {
		if _, ok := c.stocks[target]; !ok {
			errors = append(errors, fmt.Errorf("alias %q points at unknown stock %q", phrase, target))
		}
	}

	return errors
}

func validateSheetSize(s types.PaperStock) error {
	if s.SheetWidth <= 0 || s.SheetHeight <= 0 {
		return fmt.Errorf("sheet size must be positive, got %gx%g", s.SheetWidth, s.SheetHeight)
	}
	return nil
}

func validateSheetCost(s types.PaperStock) error {
	if !s.CostPerSheet.IsPositive() {
		return fmt.Errorf("cost per sheet must be positive, got %s", s.CostPerSheet)
	}
	return nil
}

// MustValidate panics if validation fails
func (c *Catalog) MustValidate() {
	errors := c.Validate(DefaultStockRules())
	if len(errors) > 0 {
		panic(fmt.Sprintf("catalog has %d validation errors, first: %v", len(errors), errors[0]))
	}
}

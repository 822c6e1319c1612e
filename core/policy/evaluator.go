// Package policy runs the QA gate over a computed quote.
// The gate reports; it never changes the quote and never returns an error.
package policy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"printquote/core/pricing"
	"printquote/core/types"
)

// Rule is one QA check
type Rule interface {
	// Name returns the check identifier
	Name() types.CheckName

	// Evaluate checks the rule against a computed quote
	Evaluate(result *types.QuoteResult) types.CheckResult
}

type ruleFunc struct {
	name types.CheckName
	fn   func(*types.QuoteResult) (bool, string)
}

func (r ruleFunc) Name() types.CheckName { return r.name }

func (r ruleFunc) Evaluate(result *types.QuoteResult) types.CheckResult {
	ok, msg := r.fn(result)
	return types.CheckResult{Name: r.name, Passed: ok, Message: msg}
}

// NewRule adapts a function into a Rule
func NewRule(name types.CheckName, fn func(*types.QuoteResult) (bool, string)) Rule {
	return ruleFunc{name: name, fn: fn}
}

// DefaultRules returns the shop's QA checks in evaluation order
func DefaultRules() []Rule {
	return []Rule{
		NewRule(types.CheckDeviceRouting, checkDeviceRouting),
		NewRule(types.CheckPaperCost, checkPaperCost),
		NewRule(types.CheckClickCost, checkClickCost),
		NewRule(types.CheckMarginFloor, checkMarginFloor),
		NewRule(types.CheckShopMinimum, checkShopMinimum),
		NewRule(types.CheckSpoilageApplied, checkSpoilage),
		NewRule(types.CheckCostsBalance, checkCostsBalance),
	}
}

// Evaluator runs an ordered rule set
type Evaluator struct {
	rules []Rule
}

// NewEvaluator creates an evaluator; with no rules it uses DefaultRules
func NewEvaluator(rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Evaluator{rules: rules}
}

// Evaluate runs every rule, in order, and records the outcome
func (e *Evaluator) Evaluate(result *types.QuoteResult) types.QAOutcome {
	var out types.QAOutcome
	for _, rule := range e.rules {
		cr := rule.Evaluate(result)
		out.Checks = append(out.Checks, cr)
		if cr.Passed {
			out.PassedCount++
		} else {
			out.FailedCount++
		}
		setFlag(&out, cr.Name, cr.Passed)
	}
	return out
}

// Evaluate runs the default QA gate
func Evaluate(result *types.QuoteResult) types.QAOutcome {
	return NewEvaluator().Evaluate(result)
}

func setFlag(out *types.QAOutcome, name types.CheckName, passed bool) {
	switch name {
	case types.CheckDeviceRouting:
		out.DeviceRouting = passed
	case types.CheckPaperCost:
		out.PaperCost = passed
	case types.CheckClickCost:
		out.ClickCost = passed
	case types.CheckMarginFloor:
		out.MarginFloor = passed
	case types.CheckShopMinimum:
		out.ShopMinimum = passed
	case types.CheckSpoilageApplied:
		out.SpoilageApplied = passed
	case types.CheckCostsBalance:
		out.CostsBalance = passed
	}
}

func checkDeviceRouting(r *types.QuoteResult) (bool, string) {
	isEnvelope := r.Specification.Product == types.ProductEnvelope
	if isEnvelope != r.Equipment.Class.IsEnvelope() {
		return false, fmt.Sprintf("%s routed to %s (%s)", r.Specification.Product, r.Equipment.Name, r.Equipment.Class)
	}
	return true, fmt.Sprintf("%s on %s", r.Specification.Product, r.Equipment.Name)
}

func checkPaperCost(r *types.QuoteResult) (bool, string) {
	if !r.Costs.PaperCost.IsPositive() {
		return false, "paper cost is zero"
	}
	return true, "paper cost " + r.Costs.PaperCost.StringFixed(2)
}

func checkClickCost(r *types.QuoteResult) (bool, string) {
	if !r.Costs.ClickCost.IsPositive() {
		return false, "click cost is zero"
	}
	return true, "click cost " + r.Costs.ClickCost.StringFixed(2)
}

func checkMarginFloor(r *types.QuoteResult) (bool, string) {
	msg := fmt.Sprintf("margin %s%% against floor %s%%", r.MarginPercent.StringFixed(1), r.MarginFloor.StringFixed(0))
	return r.MarginPercent.GreaterThanOrEqual(r.MarginFloor), msg
}

func checkShopMinimum(r *types.QuoteResult) (bool, string) {
	msg := fmt.Sprintf("quote %s against minimum %s", r.Quote.StringFixed(2), pricing.ShopMinimum.StringFixed(2))
	return r.Quote.GreaterThanOrEqual(pricing.ShopMinimum), msg
}

func checkSpoilage(r *types.QuoteResult) (bool, string) {
	imp := r.Imposition
	if imp.SpoilageFactor.LessThan(decimal.NewFromInt(1)) {
		return false, "spoilage factor below 1"
	}
	want := decimal.NewFromInt(imp.RawSheets).Mul(imp.SpoilageFactor).Ceil().IntPart()
	if imp.PressSheets != want || imp.PressSheets < imp.RawSheets {
		return false, fmt.Sprintf("press sheets %d, expected %d from %d raw", imp.PressSheets, want, imp.RawSheets)
	}
	return true, fmt.Sprintf("%d raw + %s = %d press sheets", imp.RawSheets, imp.SpoilagePercent, imp.PressSheets)
}

func checkCostsBalance(r *types.QuoteResult) (bool, string) {
	if !r.Costs.Balanced() {
		return false, "cost components do not sum to total " + r.Costs.TotalCost.String()
	}
	return true, "total cost " + r.Costs.TotalCost.StringFixed(2)
}

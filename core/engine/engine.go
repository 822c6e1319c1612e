// Package engine provides the API-primary quoting engine.
// CLI, HTTP and batch surfaces are thin wrappers around Calculate.
package engine

import (
	"go.uber.org/zap"

	"printquote/core/catalog"
	"printquote/core/cost"
	"printquote/core/imposition"
	"printquote/core/mailing"
	"printquote/core/policy"
	"printquote/core/pricing"
	"printquote/core/types"
)

// Engine turns a specification into a quote.
// It holds only read-only collaborators and is safe for concurrent use.
type Engine struct {
	catalog   *catalog.Catalog
	costs     cost.Calculator
	evaluator *policy.Evaluator
	logger    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithCatalog replaces the shop catalog
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithCostCalculator replaces the cost calculator
func WithCostCalculator(c cost.Calculator) Option {
	return func(e *Engine) {
		if c != nil {
			e.costs = c
		}
	}
}

// WithEvaluator replaces the QA gate
func WithEvaluator(ev *policy.Evaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.evaluator = ev
		}
	}
}

// WithLogger sets the logger used for stage tracing
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine over the default shop catalog
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog:   catalog.Default(),
		costs:     cost.ShopCalculator{},
		evaluator: policy.NewEvaluator(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine quotes against
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Calculate runs the full pipeline for one specification.
// An invalid specification or an unplaceable piece is an error; a quote
// that fails QA is returned with the failures recorded in QA.
func (e *Engine) Calculate(spec types.Specification) (*types.QuoteResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	equipment := e.catalog.ResolveEquipment(spec.Product, spec.Color)
	stock, resolution := e.catalog.ResolveStock(spec.Stock, spec.Product)
	if resolution.Substituted() {
		e.logger.Debug("stock substituted",
			zap.String("requested", resolution.Requested),
			zap.String("resolved", resolution.Key),
			zap.String("confidence", string(resolution.Confidence)))
	}

	plan, err := imposition.Plan(spec, stock)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("imposition",
		zap.Int("up", plan.UpCount),
		zap.Int64("raw_sheets", plan.RawSheets),
		zap.Int64("press_sheets", plan.PressSheets),
		zap.String("spoilage", plan.SpoilagePercent))

	costs := e.costs.Calculate(spec, equipment, stock, plan)
	price := pricing.Apply(spec.Product, spec.Quantity, costs.TotalCost)

	result := &types.QuoteResult{
		Specification:   spec,
		Equipment:       equipment,
		Stock:           stock,
		StockResolution: resolution,
		Imposition:      plan,
		Costs:           costs,
		Multiplier:      price.Multiplier,
		Quote:           price.Quote,
		MarginPercent:   price.MarginPercent,
		MarginFloor:     price.MarginFloor,
		Currency:        types.CurrencyUSD,
	}

	if m := mailing.Calculate(spec); m != nil {
		total := result.Quote.Add(m.GrandTotal)
		result.Mailing = m
		result.TotalWithMailing = &total
	}

	result.QA = e.evaluator.Evaluate(result)

	e.logger.Debug("quote calculated",
		zap.String("product", string(spec.Product)),
		zap.Int("quantity", spec.Quantity),
		zap.String("equipment", equipment.Name),
		zap.String("stock", stock.Key),
		zap.String("total_cost", costs.TotalCost.StringFixed(2)),
		zap.String("quote", result.Quote.StringFixed(2)),
		zap.Int("qa_failed", result.QA.FailedCount))

	return result, nil
}

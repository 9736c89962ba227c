package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculationEngine orchestrates all tax split calculations. It is immutable after
// construction and safe for concurrent use.
type CalculationEngine struct {
	Rules     domain.TaxRules
	TaxCalc   *BracketTaxCalculator
	Scenarios *ScenarioCalculator
	Cliffs    *CliffDetector
	Logger    Logger
	Debug     bool // Enable debug output for sweep winners and cliff nudges
}

// NewCalculationEngine creates an engine over the built-in rules.
func NewCalculationEngine() *CalculationEngine {
	engine, err := NewCalculationEngineWithRules(domain.DefaultTaxRules())
	if err != nil {
		// The built-in tables are covered by tests.
		panic(fmt.Sprintf("built-in tax rules are invalid: %v", err))
	}
	return engine
}

// NewCalculationEngineWithRules validates rules and creates an engine over a private copy.
// Cliff intervals are derived here, once.
func NewCalculationEngineWithRules(rules domain.TaxRules) (*CalculationEngine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax rules: %w", err)
	}
	rules = rules.Clone()
	return &CalculationEngine{
		Rules:     rules,
		TaxCalc:   NewBracketTaxCalculator(rules),
		Scenarios: NewScenarioCalculator(rules),
		Cliffs:    NewCliffDetector(rules.BonusTable),
		Logger:    NopLogger{},
	}, nil
}

// SetLogger sets the logger for the engine. A nil logger restores the no-op logger.
func (ce *CalculationEngine) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	ce.Logger = logger
}

func (ce *CalculationEngine) debugf(format string, args ...interface{}) {
	if ce.Debug {
		ce.Logger.Debugf(format, args...)
	}
}

// EvaluateAnnualTax taxes composite taxable income.
func (ce *CalculationEngine) EvaluateAnnualTax(taxable decimal.Decimal) domain.BracketEvaluation {
	return ce.TaxCalc.EvaluateAnnualTax(taxable)
}

// EvaluateBonusTax taxes a bonus separately.
func (ce *CalculationEngine) EvaluateBonusTax(bonus decimal.Decimal) domain.BonusEvaluation {
	return ce.TaxCalc.EvaluateBonusTax(bonus)
}

// DetectCliff reports whether bonus sits inside a cliff interval.
func (ce *CalculationEngine) DetectCliff(bonus decimal.Decimal) domain.CliffCheck {
	return ce.Cliffs.Detect(bonus)
}

// CliffIntervals returns the derived cliff intervals.
func (ce *CalculationEngine) CliffIntervals() []domain.CliffInterval {
	return ce.Cliffs.Intervals()
}

// ComputeSeparate evaluates the tuple with the bonus taxed separately.
func (ce *CalculationEngine) ComputeSeparate(in domain.ScenarioInput) domain.ScenarioResult {
	return ce.Scenarios.ComputeSeparate(in)
}

// ComputeCombined evaluates the tuple with the bonus merged into composite income.
func (ce *CalculationEngine) ComputeCombined(in domain.ScenarioInput) domain.ScenarioResult {
	return ce.Scenarios.ComputeCombined(in)
}

package domain

import (
	"github.com/shopspring/decimal"
)

// CalculationStep is one line of an explainability trace. Negative values denote
// reductions (allowances and deductions).
type CalculationStep struct {
	Label   string          `json:"label" yaml:"label"`
	Formula string          `json:"formula" yaml:"formula"`
	Value   decimal.Decimal `json:"value" yaml:"value"`
}

// Trace is presentation data only. Nothing in the engine reads it back.
type Trace struct {
	Salary []CalculationStep `json:"salary,omitempty" yaml:"salary,omitempty"`
	Bonus  []CalculationStep `json:"bonus,omitempty" yaml:"bonus,omitempty"`
	Total  []CalculationStep `json:"total,omitempty" yaml:"total,omitempty"`
}

// Steps flattens the trace in display order.
func (t Trace) Steps() []CalculationStep {
	out := make([]CalculationStep, 0, len(t.Salary)+len(t.Bonus)+len(t.Total))
	out = append(out, t.Salary...)
	out = append(out, t.Bonus...)
	return append(out, t.Total...)
}

// ScenarioMode identifies how the year-end bonus is taxed.
type ScenarioMode int

const (
	// ModeSeparate taxes the bonus on its own using the monthly-equivalent table.
	ModeSeparate ScenarioMode = iota
	// ModeCombined merges the bonus into composite income.
	ModeCombined
)

func (m ScenarioMode) String() string {
	switch m {
	case ModeSeparate:
		return "separate"
	case ModeCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// DisplayName is the label used in reports.
func (m ScenarioMode) DisplayName() string {
	switch m {
	case ModeSeparate:
		return "Bonus taxed separately"
	case ModeCombined:
		return "Bonus merged into composite income"
	default:
		return "Unknown"
	}
}

// MarshalText lets modes serialize by name in JSON and YAML.
func (m ScenarioMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ScenarioInput is the (salary, bonus, insurance, deduction) tuple a scenario is
// evaluated for. All amounts are annual.
type ScenarioInput struct {
	Salary    decimal.Decimal `json:"salary" yaml:"salary"`
	Bonus     decimal.Decimal `json:"bonus" yaml:"bonus"`
	Insurance decimal.Decimal `json:"insurance" yaml:"insurance"`
	Deduction decimal.Decimal `json:"deduction" yaml:"deduction"`
}

// Gross returns salary plus bonus.
func (in ScenarioInput) Gross() decimal.Decimal {
	return in.Salary.Add(in.Bonus)
}

// ScenarioResult is the evaluated outcome of one taxation mode.
type ScenarioResult struct {
	Mode  ScenarioMode  `json:"mode" yaml:"mode"`
	Input ScenarioInput `json:"input" yaml:"input"`

	// TaxableIncome is the composite-table base: salary only in separate mode,
	// salary plus bonus in combined mode.
	TaxableIncome decimal.Decimal `json:"taxableIncome" yaml:"taxable_income"`

	SalaryTax            decimal.Decimal `json:"salaryTax" yaml:"salary_tax"`
	SalaryRate           decimal.Decimal `json:"salaryRate" yaml:"salary_rate"`
	SalaryQuickDeduction decimal.Decimal `json:"salaryQuickDeduction" yaml:"salary_quick_deduction"`

	BonusTax               decimal.Decimal `json:"bonusTax" yaml:"bonus_tax"`
	BonusRate              decimal.Decimal `json:"bonusRate" yaml:"bonus_rate"`
	BonusQuickDeduction    decimal.Decimal `json:"bonusQuickDeduction" yaml:"bonus_quick_deduction"`
	BonusMonthlyEquivalent decimal.Decimal `json:"bonusMonthlyEquivalent" yaml:"bonus_monthly_equivalent"`

	TotalTax       decimal.Decimal `json:"totalTax" yaml:"total_tax"`
	AfterTaxIncome decimal.Decimal `json:"afterTaxIncome" yaml:"after_tax_income"`

	Trace Trace `json:"trace" yaml:"trace"`
}

// EffectiveRate returns total tax over gross income, or zero for zero income.
func (r ScenarioResult) EffectiveRate() decimal.Decimal {
	gross := r.Input.Gross()
	if gross.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return r.TotalTax.Div(gross)
}

package domain

import (
	"github.com/shopspring/decimal"
)

// PlanKind classifies an allocation by how many taxation parts it has. The numeric
// order is the simplicity ranking used to break ties: separate < combined < partial.
type PlanKind int

const (
	PlanSeparate PlanKind = iota
	PlanCombined
	PlanPartial
)

func (k PlanKind) String() string {
	switch k {
	case PlanSeparate:
		return "separate"
	case PlanCombined:
		return "combined"
	case PlanPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// DisplayName is the label used in reports.
func (k PlanKind) DisplayName() string {
	switch k {
	case PlanSeparate:
		return "Bonus taxed separately"
	case PlanCombined:
		return "Bonus merged into composite income"
	case PlanPartial:
		return "Part of bonus taxed separately"
	default:
		return "Unknown"
	}
}

// MarshalText lets kinds serialize by name.
func (k PlanKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindForMode maps a scenario mode onto its plan kind.
func KindForMode(m ScenarioMode) PlanKind {
	if m == ModeCombined {
		return PlanCombined
	}
	return PlanSeparate
}

// OptimalPlan compares both taxation modes for a fixed salary/bonus split.
type OptimalPlan struct {
	Separate    ScenarioResult  `json:"separate" yaml:"separate"`
	Combined    ScenarioResult  `json:"combined" yaml:"combined"`
	OptimalMode ScenarioMode    `json:"optimalMode" yaml:"optimal_mode"`
	Optimal     ScenarioResult  `json:"optimal" yaml:"optimal"`
	SubOptimal  ScenarioResult  `json:"subOptimal" yaml:"sub_optimal"`
	TaxSaving   decimal.Decimal `json:"taxSaving" yaml:"tax_saving"`
	Cliff       CliffCheck      `json:"cliff" yaml:"cliff"`
}

// ReversePlan is the recommended decomposition of an unsplit total income.
type ReversePlan struct {
	TotalIncome       decimal.Decimal `json:"totalIncome" yaml:"total_income"`
	OptimalSalary     decimal.Decimal `json:"optimalSalary" yaml:"optimal_salary"`
	OptimalBonus      decimal.Decimal `json:"optimalBonus" yaml:"optimal_bonus"`
	Insurance         decimal.Decimal `json:"insurance" yaml:"insurance"`
	ItemizedDeduction decimal.Decimal `json:"itemizedDeduction" yaml:"itemized_deduction"`
	BasicAllowance    decimal.Decimal `json:"basicAllowance" yaml:"basic_allowance"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome" yaml:"taxable_income"`
	Mode              ScenarioMode    `json:"mode" yaml:"mode"`
	SalaryTax         decimal.Decimal `json:"salaryTax" yaml:"salary_tax"`
	BonusTax          decimal.Decimal `json:"bonusTax" yaml:"bonus_tax"`
	TotalTax          decimal.Decimal `json:"totalTax" yaml:"total_tax"`
	AfterTaxIncome    decimal.Decimal `json:"afterTaxIncome" yaml:"after_tax_income"`
	EffectiveTaxRate  decimal.Decimal `json:"effectiveTaxRate" yaml:"effective_tax_rate"`
	SavingsVsWorst    decimal.Decimal `json:"savingsVsWorst" yaml:"savings_vs_worst"`
	CandidatesTried   int             `json:"candidatesTried" yaml:"candidates_tried"`
	Cliff             CliffAdjustment `json:"cliff" yaml:"cliff"`
	Deductions        []DeductionItem `json:"deductions,omitempty" yaml:"deductions,omitempty"`
}

// YearEndScenario describes the December decision: eleven months of salary are
// already paid, December salary and the year-end bonus are still to be allocated.
type YearEndScenario struct {
	PriorSalary    decimal.Decimal `json:"priorSalary" yaml:"prior_salary"`
	DecemberSalary decimal.Decimal `json:"decemberSalary" yaml:"december_salary"`
	Bonus          decimal.Decimal `json:"bonus" yaml:"bonus"`
	Insurance      decimal.Decimal `json:"insurance" yaml:"insurance"`
	Deduction      decimal.Decimal `json:"deduction" yaml:"deduction"`
}

// AnnualSalary returns prior months plus December.
func (s YearEndScenario) AnnualSalary() decimal.Decimal {
	return s.PriorSalary.Add(s.DecemberSalary)
}

// YearEndPlan is one candidate allocation of the year-end bonus.
type YearEndPlan struct {
	Kind        PlanKind `json:"kind" yaml:"kind"`
	Description string   `json:"description" yaml:"description"`

	SeparatePercent int             `json:"separatePercent" yaml:"separate_percent"`
	SeparateBonus   decimal.Decimal `json:"separateBonus" yaml:"separate_bonus"`
	MergedBonus     decimal.Decimal `json:"mergedBonus" yaml:"merged_bonus"`
	CombinedIncome  decimal.Decimal `json:"combinedIncome" yaml:"combined_income"`

	SalaryTaxableIncome decimal.Decimal `json:"salaryTaxableIncome" yaml:"salary_taxable_income"`
	SalaryRate          decimal.Decimal `json:"salaryRate" yaml:"salary_rate"`
	SalaryTax           decimal.Decimal `json:"salaryTax" yaml:"salary_tax"`
	BonusRate           decimal.Decimal `json:"bonusRate" yaml:"bonus_rate"`
	SeparateBonusTax    decimal.Decimal `json:"separateBonusTax" yaml:"separate_bonus_tax"`
	TotalTax            decimal.Decimal `json:"totalTax" yaml:"total_tax"`
	AfterTaxIncome      decimal.Decimal `json:"afterTaxIncome" yaml:"after_tax_income"`

	Trace Trace `json:"trace" yaml:"trace"`
}

// YearEndResult compares the all-separate, all-combined and best partial plans.
type YearEndResult struct {
	Scenario  YearEndScenario `json:"scenario" yaml:"scenario"`
	Plans     []YearEndPlan   `json:"plans" yaml:"plans"`
	Optimal   YearEndPlan     `json:"optimal" yaml:"optimal"`
	TaxSaving decimal.Decimal `json:"taxSaving" yaml:"tax_saving"`
	Separate  YearEndPlan     `json:"separate" yaml:"separate"`
	Combined  YearEndPlan     `json:"combined" yaml:"combined"`

	// Partial is nil when there is no bonus to split.
	Partial *YearEndPlan `json:"partial,omitempty" yaml:"partial,omitempty"`
}

// SplitPlan is the outcome of the forward split sweep over a total income.
type SplitPlan struct {
	TotalIncome    decimal.Decimal   `json:"totalIncome" yaml:"total_income"`
	OptimalSalary  decimal.Decimal   `json:"optimalSalary" yaml:"optimal_salary"`
	OptimalBonus   decimal.Decimal   `json:"optimalBonus" yaml:"optimal_bonus"`
	Insurance      decimal.Decimal   `json:"insurance" yaml:"insurance"`
	Deduction      decimal.Decimal   `json:"deduction" yaml:"deduction"`
	Mode           ScenarioMode      `json:"mode" yaml:"mode"`
	TotalTax       decimal.Decimal   `json:"totalTax" yaml:"total_tax"`
	AfterTaxIncome decimal.Decimal   `json:"afterTaxIncome" yaml:"after_tax_income"`
	CliffAvoided   bool              `json:"cliffAvoided" yaml:"cliff_avoided"`
	Steps          []CalculationStep `json:"steps" yaml:"steps"`
}

// QuickEstimate is a rough allocation that ignores cliffs.
type QuickEstimate struct {
	Salary         decimal.Decimal `json:"salary" yaml:"salary"`
	Bonus          decimal.Decimal `json:"bonus" yaml:"bonus"`
	Mode           ScenarioMode    `json:"mode" yaml:"mode"`
	TotalTax       decimal.Decimal `json:"totalTax" yaml:"total_tax"`
	AfterTaxIncome decimal.Decimal `json:"afterTaxIncome" yaml:"after_tax_income"`
}

// ChartPoint samples total tax at one separate/combined share of the bonus.
type ChartPoint struct {
	SeparatePercent int             `json:"separatePercent" yaml:"separate_percent"`
	CombinedPercent int             `json:"combinedPercent" yaml:"combined_percent"`
	SeparateBonus   decimal.Decimal `json:"separateBonus" yaml:"separate_bonus"`
	CombinedSalary  decimal.Decimal `json:"combinedSalary" yaml:"combined_salary"`
	TotalTax        decimal.Decimal `json:"totalTax" yaml:"total_tax"`
	AfterTaxIncome  decimal.Decimal `json:"afterTaxIncome" yaml:"after_tax_income"`
}

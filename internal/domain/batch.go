package domain

import (
	"github.com/shopspring/decimal"
)

// BatchKind selects which optimizer a batch file is run through.
type BatchKind string

const (
	BatchOptimal BatchKind = "optimal"
	BatchReverse BatchKind = "reverse"
	BatchYearEnd BatchKind = "year-end"
	BatchSplit   BatchKind = "split"
)

// BatchKinds lists the supported kinds in display order.
func BatchKinds() []BatchKind {
	return []BatchKind{BatchOptimal, BatchReverse, BatchYearEnd, BatchSplit}
}

// OptimalRow is one individual for the forward comparison.
type OptimalRow struct {
	Name      string          `yaml:"name" json:"name"`
	Salary    decimal.Decimal `yaml:"salary" json:"salary"`
	Bonus     decimal.Decimal `yaml:"bonus" json:"bonus"`
	Insurance decimal.Decimal `yaml:"insurance" json:"insurance"`
	Deduction decimal.Decimal `yaml:"deduction" json:"deduction"`
}

// OptimalRowResult echoes the row and attaches the chosen plan.
type OptimalRowResult struct {
	OptimalRow     `yaml:",inline"`
	OptimalMode    ScenarioMode    `yaml:"optimal_mode" json:"optimalMode"`
	TotalTax       decimal.Decimal `yaml:"total_tax" json:"totalTax"`
	AfterTaxIncome decimal.Decimal `yaml:"after_tax_income" json:"afterTaxIncome"`
	TaxSaving      decimal.Decimal `yaml:"tax_saving" json:"taxSaving"`
	InCliff        bool            `yaml:"in_cliff" json:"inCliff"`
	CliffWarning   string          `yaml:"cliff_warning,omitempty" json:"cliffWarning,omitempty"`
}

// ReverseRow is one individual for the reverse decomposition.
type ReverseRow struct {
	Name        string           `yaml:"name" json:"name"`
	TotalIncome decimal.Decimal  `yaml:"total_income" json:"totalIncome"`
	Insurance   decimal.Decimal  `yaml:"insurance" json:"insurance"`
	Deductions  DeductionProfile `yaml:"deductions" json:"deductions"`
}

// ReverseRowResult echoes the row and attaches the reverse plan.
type ReverseRowResult struct {
	ReverseRow `yaml:",inline"`
	Plan       ReversePlan `yaml:"plan" json:"plan"`
}

// YearEndRow is one individual for the year-end plan.
type YearEndRow struct {
	Name           string          `yaml:"name" json:"name"`
	PriorSalary    decimal.Decimal `yaml:"prior_salary" json:"priorSalary"`
	DecemberSalary decimal.Decimal `yaml:"december_salary" json:"decemberSalary"`
	Bonus          decimal.Decimal `yaml:"bonus" json:"bonus"`
	Insurance      decimal.Decimal `yaml:"insurance" json:"insurance"`
	Deduction      decimal.Decimal `yaml:"deduction" json:"deduction"`
}

// Scenario converts the row into the optimizer input.
func (r YearEndRow) Scenario() YearEndScenario {
	return YearEndScenario{
		PriorSalary:    r.PriorSalary,
		DecemberSalary: r.DecemberSalary,
		Bonus:          r.Bonus,
		Insurance:      r.Insurance,
		Deduction:      r.Deduction,
	}
}

// YearEndRowResult echoes the row and attaches the recommendation.
type YearEndRowResult struct {
	YearEndRow     `yaml:",inline"`
	OptimalKind    PlanKind        `yaml:"optimal_kind" json:"optimalKind"`
	SeparateBonus  decimal.Decimal `yaml:"separate_bonus" json:"separateBonus"`
	MergedBonus    decimal.Decimal `yaml:"merged_bonus" json:"mergedBonus"`
	TotalTax       decimal.Decimal `yaml:"total_tax" json:"totalTax"`
	AfterTaxIncome decimal.Decimal `yaml:"after_tax_income" json:"afterTaxIncome"`
	TaxSaving      decimal.Decimal `yaml:"tax_saving" json:"taxSaving"`
}

// SplitRow is one individual for the forward split sweep.
type SplitRow struct {
	Name        string          `yaml:"name" json:"name"`
	TotalIncome decimal.Decimal `yaml:"total_income" json:"totalIncome"`
	Insurance   decimal.Decimal `yaml:"insurance" json:"insurance"`
	Deduction   decimal.Decimal `yaml:"deduction" json:"deduction"`
}

// SplitRowResult echoes the row and attaches the split plan.
type SplitRowResult struct {
	SplitRow       `yaml:",inline"`
	OptimalSalary  decimal.Decimal `yaml:"optimal_salary" json:"optimalSalary"`
	OptimalBonus   decimal.Decimal `yaml:"optimal_bonus" json:"optimalBonus"`
	Mode           ScenarioMode    `yaml:"mode" json:"mode"`
	TotalTax       decimal.Decimal `yaml:"total_tax" json:"totalTax"`
	AfterTaxIncome decimal.Decimal `yaml:"after_tax_income" json:"afterTaxIncome"`
	CliffAvoided   bool            `yaml:"cliff_avoided" json:"cliffAvoided"`
}

// BatchInput is the YAML layout of a batch file. Only the list matching Kind is read.
type BatchInput struct {
	Kind    BatchKind    `yaml:"kind" json:"kind"`
	Optimal []OptimalRow `yaml:"optimal,omitempty" json:"optimal,omitempty"`
	Reverse []ReverseRow `yaml:"reverse,omitempty" json:"reverse,omitempty"`
	YearEnd []YearEndRow `yaml:"year_end,omitempty" json:"yearEnd,omitempty"`
	Split   []SplitRow   `yaml:"split,omitempty" json:"split,omitempty"`
}

// Len returns the number of rows for the selected kind.
func (b BatchInput) Len() int {
	switch b.Kind {
	case BatchOptimal:
		return len(b.Optimal)
	case BatchReverse:
		return len(b.Reverse)
	case BatchYearEnd:
		return len(b.YearEnd)
	case BatchSplit:
		return len(b.Split)
	default:
		return 0
	}
}

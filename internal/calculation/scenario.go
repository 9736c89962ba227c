package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ScenarioCalculator evaluates one (salary, bonus, insurance, deduction) tuple in either
// taxation mode.
type ScenarioCalculator struct {
	TaxCalc        *BracketTaxCalculator
	BasicAllowance decimal.Decimal
}

// NewScenarioCalculator creates a scenario calculator for the rule set.
func NewScenarioCalculator(rules domain.TaxRules) *ScenarioCalculator {
	return &ScenarioCalculator{
		TaxCalc:        NewBracketTaxCalculator(rules),
		BasicAllowance: rules.BasicAllowance,
	}
}

// taxableBase returns max(0, gross - allowance - insurance - deduction).
func (sc *ScenarioCalculator) taxableBase(gross, insurance, deduction decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, gross.Sub(sc.BasicAllowance).Sub(insurance).Sub(deduction))
}

// ComputeSeparate taxes salary on the annual table and the bonus on its own.
func (sc *ScenarioCalculator) ComputeSeparate(in domain.ScenarioInput) domain.ScenarioResult {
	taxable := sc.taxableBase(in.Salary, in.Insurance, in.Deduction)
	salary := sc.TaxCalc.EvaluateAnnualTax(taxable)
	bonus := sc.TaxCalc.EvaluateBonusTax(in.Bonus)

	total := salary.Tax.Add(bonus.Tax)
	afterTax := in.Gross().Sub(in.Insurance).Sub(in.Deduction).Sub(total)

	trace := domain.Trace{
		Salary: append(sc.reductionSteps("Salary", "salary", in.Salary, in),
			domain.CalculationStep{Label: "Salary taxable income", Formula: "salary - basic allowance - insurance - itemized deduction", Value: taxable},
			domain.CalculationStep{Label: "Salary rate", Formula: percent(salary.Rate), Value: salary.Rate},
			domain.CalculationStep{Label: "Salary quick deduction", Value: salary.QuickDeduction},
			domain.CalculationStep{Label: "Salary tax", Formula: taxFormula(taxable, salary), Value: salary.Tax},
		),
		Bonus: bonusSteps("Bonus", in.Bonus, bonus),
		Total: []domain.CalculationStep{
			{Label: "Salary tax", Value: salary.Tax},
			{Label: "Bonus tax", Value: bonus.Tax},
			{Label: "Total tax", Formula: "salary tax + bonus tax", Value: total},
		},
	}

	return domain.ScenarioResult{
		Mode:                   domain.ModeSeparate,
		Input:                  in,
		TaxableIncome:          taxable,
		SalaryTax:              salary.Tax,
		SalaryRate:             salary.Rate,
		SalaryQuickDeduction:   salary.QuickDeduction,
		BonusTax:               bonus.Tax,
		BonusRate:              bonus.Rate,
		BonusQuickDeduction:    bonus.QuickDeduction,
		BonusMonthlyEquivalent: bonus.MonthlyEquivalent,
		TotalTax:               total,
		AfterTaxIncome:         afterTax,
		Trace:                  trace,
	}
}

// ComputeCombined merges the bonus into composite income and taxes the sum once.
func (sc *ScenarioCalculator) ComputeCombined(in domain.ScenarioInput) domain.ScenarioResult {
	gross := in.Gross()
	taxable := sc.taxableBase(gross, in.Insurance, in.Deduction)
	eval := sc.TaxCalc.EvaluateAnnualTax(taxable)
	afterTax := gross.Sub(in.Insurance).Sub(in.Deduction).Sub(eval.Tax)

	steps := []domain.CalculationStep{
		{Label: "Salary", Formula: "salary", Value: in.Salary},
		{Label: "Bonus", Formula: "bonus", Value: in.Bonus},
	}
	steps = append(steps, sc.reductionSteps("Gross income", "salary + bonus", gross, in)...)
	steps = append(steps,
		domain.CalculationStep{Label: "Taxable income", Formula: "gross - basic allowance - insurance - itemized deduction", Value: taxable},
		domain.CalculationStep{Label: "Rate", Formula: percent(eval.Rate), Value: eval.Rate},
		domain.CalculationStep{Label: "Quick deduction", Value: eval.QuickDeduction},
		domain.CalculationStep{Label: "Tax", Formula: taxFormula(taxable, eval), Value: eval.Tax},
	)

	return domain.ScenarioResult{
		Mode:                 domain.ModeCombined,
		Input:                in,
		TaxableIncome:        taxable,
		SalaryTax:            eval.Tax,
		SalaryRate:           eval.Rate,
		SalaryQuickDeduction: eval.QuickDeduction,
		TotalTax:             eval.Tax,
		AfterTaxIncome:       afterTax,
		Trace: domain.Trace{
			Salary: steps,
			Total:  []domain.CalculationStep{{Label: "Total tax", Value: eval.Tax}},
		},
	}
}

// reductionSteps emits the income line followed by the allowance, insurance and
// itemized deduction as negative values.
func (sc *ScenarioCalculator) reductionSteps(label, formula string, income decimal.Decimal, in domain.ScenarioInput) []domain.CalculationStep {
	return []domain.CalculationStep{
		{Label: label, Formula: formula, Value: income},
		{Label: "Basic allowance", Formula: sc.BasicAllowance.StringFixed(0) + " per year", Value: sc.BasicAllowance.Neg()},
		{Label: "Insurance", Formula: "social insurance and housing fund", Value: in.Insurance.Neg()},
		{Label: "Itemized deduction", Formula: "special additional deductions", Value: in.Deduction.Neg()},
	}
}

func bonusSteps(label string, amount decimal.Decimal, eval domain.BonusEvaluation) []domain.CalculationStep {
	return []domain.CalculationStep{
		{Label: label, Formula: "bonus", Value: amount},
		{Label: "Monthly equivalent", Formula: amount.StringFixed(2) + " / 12", Value: eval.MonthlyEquivalent},
		{Label: "Bonus rate", Formula: percent(eval.Rate), Value: eval.Rate},
		{Label: "Bonus quick deduction", Value: eval.QuickDeduction},
		{Label: "Bonus tax", Formula: taxFormula(amount, eval.BracketEvaluation), Value: eval.Tax},
	}
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(0) + "%"
}

func taxFormula(base decimal.Decimal, eval domain.BracketEvaluation) string {
	return fmt.Sprintf("%s x %s - %s", base.StringFixed(2), percent(eval.Rate), eval.QuickDeduction.StringFixed(2))
}

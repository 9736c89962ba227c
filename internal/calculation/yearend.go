package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// kindForPercent classifies a split by its separately taxed share.
func kindForPercent(pct int) domain.PlanKind {
	switch pct {
	case 100:
		return domain.PlanSeparate
	case 0:
		return domain.PlanCombined
	default:
		return domain.PlanPartial
	}
}

// yearEndPlan evaluates one split of the bonus: pct percent taxed separately, the rest
// merged into the annual salary.
func (ce *CalculationEngine) yearEndPlan(s domain.YearEndScenario, pct int) domain.YearEndPlan {
	annual := s.AnnualSalary()
	separateBonus := s.Bonus.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)
	merged := s.Bonus.Sub(separateBonus)
	combinedIncome := annual.Add(merged)

	taxable := ce.Scenarios.taxableBase(combinedIncome, s.Insurance, s.Deduction)
	salary := ce.TaxCalc.EvaluateAnnualTax(taxable)
	bonus := ce.TaxCalc.EvaluateBonusTax(separateBonus)
	total := salary.Tax.Add(bonus.Tax)
	afterTax := annual.Add(s.Bonus).Sub(s.Insurance).Sub(s.Deduction).Sub(total)

	kind := kindForPercent(pct)
	var description string
	switch kind {
	case domain.PlanSeparate:
		description = "Whole bonus taxed separately; salary taxed as composite income"
	case domain.PlanCombined:
		description = "Whole bonus merged into composite income with salary"
	default:
		description = fmt.Sprintf("%s of the bonus taxed separately, %s merged into composite income",
			separateBonus.StringFixed(0), merged.StringFixed(0))
	}

	salarySteps := []domain.CalculationStep{
		{Label: "Annual salary", Formula: "prior months + December", Value: annual},
		{Label: "Merged bonus", Formula: "bonus not taxed separately", Value: merged},
		{Label: "Composite income", Formula: "annual salary + merged bonus", Value: combinedIncome},
		{Label: "Basic allowance", Formula: ce.Rules.BasicAllowance.StringFixed(0) + " per year", Value: ce.Rules.BasicAllowance.Neg()},
		{Label: "Insurance", Formula: "social insurance and housing fund", Value: s.Insurance.Neg()},
		{Label: "Itemized deduction", Formula: "special additional deductions", Value: s.Deduction.Neg()},
		{Label: "Salary taxable income", Formula: "composite income - basic allowance - insurance - itemized deduction", Value: taxable},
		{Label: "Salary rate", Formula: percent(salary.Rate), Value: salary.Rate},
		{Label: "Salary quick deduction", Value: salary.QuickDeduction},
		{Label: "Salary tax", Formula: taxFormula(taxable, salary), Value: salary.Tax},
	}
	var bonusTrace []domain.CalculationStep
	if pct > 0 {
		bonusTrace = bonusSteps("Separately taxed bonus", separateBonus, bonus)
	}
	totalSteps := []domain.CalculationStep{
		{Label: "Salary tax", Value: salary.Tax},
		{Label: "Bonus tax", Value: bonus.Tax},
		{Label: "Total tax", Formula: "salary tax + bonus tax", Value: total},
		{Label: "After-tax income", Formula: "salary + bonus - insurance - itemized deduction - total tax", Value: afterTax},
	}

	return domain.YearEndPlan{
		Kind:                kind,
		Description:         description,
		SeparatePercent:     pct,
		SeparateBonus:       separateBonus,
		MergedBonus:         merged,
		CombinedIncome:      combinedIncome,
		SalaryTaxableIncome: taxable,
		SalaryRate:          salary.Rate,
		SalaryTax:           salary.Tax,
		BonusRate:           bonus.Rate,
		SeparateBonusTax:    bonus.Tax,
		TotalTax:            total,
		AfterTaxIncome:      afterTax,
		Trace:               domain.Trace{Salary: salarySteps, Bonus: bonusTrace, Total: totalSteps},
	}
}

func yearEndCandidate(p domain.YearEndPlan) PlanCandidate {
	return PlanCandidate{Tax: p.TotalTax, Kind: p.Kind}
}

// bestPartialPlan sweeps the separately taxed share from 0% to 100%. Ties within epsilon
// prefer 100% over 0% over any interior split. It returns nil when there is no bonus.
func (ce *CalculationEngine) bestPartialPlan(s domain.YearEndScenario) *domain.YearEndPlan {
	if !s.Bonus.IsPositive() {
		return nil
	}
	step := ce.Rules.Search.PartialPercentStep
	eps := ce.Rules.Search.Epsilon

	var best *domain.YearEndPlan
	consider := func(pct int) {
		p := ce.yearEndPlan(s, pct)
		if best == nil || Better(yearEndCandidate(p), yearEndCandidate(*best), eps) {
			best = &p
		}
	}
	last := 0
	for pct := 0; pct <= 100; pct += step {
		consider(pct)
		last = pct
	}
	if last != 100 {
		consider(100)
	}
	return best
}

// ComputeYearEndPlan compares the all-separate, all-combined and best partial allocation
// of a year-end bonus when eleven months of salary are already fixed.
func (ce *CalculationEngine) ComputeYearEndPlan(s domain.YearEndScenario) domain.YearEndResult {
	eps := ce.Rules.Search.Epsilon

	separate := ce.yearEndPlan(s, 100)
	combined := ce.yearEndPlan(s, 0)
	partial := ce.bestPartialPlan(s)

	plans := []domain.YearEndPlan{separate, combined}
	// A sweep that settles on 0% or 100% repeats one of the whole-bonus plans.
	if partial != nil && partial.Kind == domain.PlanPartial {
		plans = append(plans, *partial)
	}

	optimal, worst := plans[0], plans[0]
	for _, p := range plans[1:] {
		if Better(yearEndCandidate(p), yearEndCandidate(optimal), eps) {
			optimal = p
		}
		if p.TotalTax.GreaterThan(worst.TotalTax) {
			worst = p
		}
	}
	ce.debugf("year-end plan: kind=%s separate_bonus=%s tax=%s",
		optimal.Kind, optimal.SeparateBonus.StringFixed(2), optimal.TotalTax.StringFixed(2))

	return domain.YearEndResult{
		Scenario:  s,
		Plans:     plans,
		Optimal:   optimal,
		TaxSaving: worst.TotalTax.Sub(optimal.TotalTax),
		Separate:  separate,
		Combined:  combined,
		Partial:   partial,
	}
}

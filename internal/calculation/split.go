package calculation

import (
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// ComputeOptimalSplit sweeps the bonus over total income in fixed steps. Every candidate
// is first moved out of any cliff, then evaluated in both modes. Only a strict improvement
// replaces the incumbent.
func (ce *CalculationEngine) ComputeOptimalSplit(totalIncome, insurance, deduction decimal.Decimal) domain.SplitPlan {
	eps := ce.Rules.Search.Epsilon
	step := ce.Rules.Search.SplitSweepStep

	var (
		best       domain.ScenarioResult
		adjustment domain.CliffAdjustment
		found      bool
		tried      int
	)
	for b := decimal.Zero; b.LessThanOrEqual(totalIncome); b = b.Add(step) {
		tried++
		adj := ce.Cliffs.Avoid(b)
		in := domain.ScenarioInput{
			Salary:    totalIncome.Sub(adj.Adjusted),
			Bonus:     adj.Adjusted,
			Insurance: insurance,
			Deduction: deduction,
		}
		result, _ := ce.cheaperMode(in)
		if !found || Better(PlanCandidate{Tax: result.TotalTax}, PlanCandidate{Tax: best.TotalTax}, eps) {
			best, adjustment, found = result, adj, true
		}
	}
	ce.debugf("optimal split: total=%s candidates=%d", totalIncome.StringFixed(2), tried)

	if !found {
		return domain.SplitPlan{
			TotalIncome:    totalIncome,
			OptimalSalary:  totalIncome,
			OptimalBonus:   decimal.Zero,
			Insurance:      insurance,
			Deduction:      deduction,
			Mode:           domain.ModeCombined,
			TotalTax:       decimal.Zero,
			AfterTaxIncome: totalIncome.Sub(insurance).Sub(deduction),
		}
	}

	salary, bonus := best.Input.Salary, best.Input.Bonus
	steps := []domain.CalculationStep{
		{Label: "Total income", Formula: "input", Value: totalIncome},
		{Label: "Suggested salary", Formula: "total income - suggested bonus", Value: salary},
		{Label: "Suggested bonus", Formula: "sweep winner", Value: bonus},
		{Label: "Insurance", Formula: "social insurance and housing fund", Value: insurance.Neg()},
		{Label: "Itemized deduction", Formula: "special additional deductions", Value: deduction.Neg()},
		{Label: "Basic allowance", Formula: ce.Rules.BasicAllowance.StringFixed(0) + " per year", Value: ce.Rules.BasicAllowance.Neg()},
	}
	if best.Mode == domain.ModeSeparate {
		steps = append(steps,
			domain.CalculationStep{Label: "Salary taxable income", Formula: "salary - basic allowance - insurance - itemized deduction", Value: best.TaxableIncome},
			domain.CalculationStep{Label: "Salary rate", Formula: percent(best.SalaryRate), Value: best.SalaryRate},
			domain.CalculationStep{Label: "Salary tax", Value: best.SalaryTax},
			domain.CalculationStep{Label: "Bonus tax", Value: best.BonusTax},
			domain.CalculationStep{Label: "Total tax", Formula: "salary tax + bonus tax", Value: best.TotalTax},
		)
	} else {
		steps = append(steps,
			domain.CalculationStep{Label: "Composite taxable income", Formula: "salary + bonus - basic allowance - insurance - itemized deduction", Value: best.TaxableIncome},
			domain.CalculationStep{Label: "Composite rate", Formula: percent(best.SalaryRate), Value: best.SalaryRate},
			domain.CalculationStep{Label: "Total tax", Value: best.TotalTax},
		)
	}

	return domain.SplitPlan{
		TotalIncome:    totalIncome,
		OptimalSalary:  salary,
		OptimalBonus:   bonus,
		Insurance:      insurance,
		Deduction:      deduction,
		Mode:           best.Mode,
		TotalTax:       best.TotalTax,
		AfterTaxIncome: totalIncome.Sub(insurance).Sub(deduction).Sub(best.TotalTax),
		CliffAvoided:   adjustment.IsAdjusted,
		Steps:          steps,
	}
}

// QuickEstimate allocates min(36000, 10% of income) to the bonus and picks the cheaper
// mode. Cliffs are not considered.
func (ce *CalculationEngine) QuickEstimate(totalIncome, insurance, deduction decimal.Decimal) domain.QuickEstimate {
	bonus := decimal.Min(decimal.NewFromInt(36000), totalIncome.Mul(decimal.RequireFromString("0.1")))
	best, _ := ce.cheaperMode(domain.ScenarioInput{
		Salary:    totalIncome.Sub(bonus),
		Bonus:     bonus,
		Insurance: insurance,
		Deduction: deduction,
	})
	return domain.QuickEstimate{
		Salary:         best.Input.Salary,
		Bonus:          bonus,
		Mode:           best.Mode,
		TotalTax:       best.TotalTax,
		AfterTaxIncome: totalIncome.Sub(insurance).Sub(deduction).Sub(best.TotalTax),
	}
}

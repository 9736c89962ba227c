package calculation

import (
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// PlanCandidate is what the shared comparator ranks: total tax and structural kind.
type PlanCandidate struct {
	Tax  decimal.Decimal
	Kind domain.PlanKind
}

// Better reports whether candidate beats incumbent. Lower tax wins outright when the gap
// exceeds eps; within eps the simpler kind wins. Every optimizer decides through this.
func Better(candidate, incumbent PlanCandidate, eps decimal.Decimal) bool {
	if candidate.Tax.LessThan(incumbent.Tax.Sub(eps)) {
		return true
	}
	return candidate.Tax.Sub(incumbent.Tax).Abs().LessThanOrEqual(eps) && candidate.Kind < incumbent.Kind
}

func candidateOf(r domain.ScenarioResult) PlanCandidate {
	return PlanCandidate{Tax: r.TotalTax, Kind: domain.KindForMode(r.Mode)}
}

// cheaperMode evaluates both modes and returns the winner first. Separate is the
// incumbent, so it keeps ties.
func (ce *CalculationEngine) cheaperMode(in domain.ScenarioInput) (best, other domain.ScenarioResult) {
	separate := ce.Scenarios.ComputeSeparate(in)
	combined := ce.Scenarios.ComputeCombined(in)
	if Better(candidateOf(combined), candidateOf(separate), ce.Rules.Search.Epsilon) {
		return combined, separate
	}
	return separate, combined
}

// ComputeOptimalPlan compares both modes for a fixed split. The cliff check is
// informational and does not alter either scenario.
func (ce *CalculationEngine) ComputeOptimalPlan(in domain.ScenarioInput) domain.OptimalPlan {
	optimal, sub := ce.cheaperMode(in)
	plan := domain.OptimalPlan{
		OptimalMode: optimal.Mode,
		Optimal:     optimal,
		SubOptimal:  sub,
		TaxSaving:   sub.TotalTax.Sub(optimal.TotalTax),
		Cliff:       ce.Cliffs.Detect(in.Bonus),
	}
	if optimal.Mode == domain.ModeSeparate {
		plan.Separate, plan.Combined = optimal, sub
	} else {
		plan.Separate, plan.Combined = sub, optimal
	}
	ce.debugf("optimal plan: mode=%s tax=%s saving=%s in_cliff=%t",
		plan.OptimalMode, plan.Optimal.TotalTax.StringFixed(2), plan.TaxSaving.StringFixed(2), plan.Cliff.InCliff)
	return plan
}

// ChartData samples total tax as the separately taxed share of the bonus moves from 0%
// to 100%. The rest of the bonus is merged into salary. No shape is assumed.
func (ce *CalculationEngine) ChartData(in domain.ScenarioInput) []domain.ChartPoint {
	step := ce.Rules.Search.ChartPercentStep
	gross := in.Gross()
	points := make([]domain.ChartPoint, 0, 100/step+1)
	for pct := 0; pct <= 100; pct += step {
		separateBonus := in.Bonus.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)
		combinedSalary := gross.Sub(separateBonus)

		taxable := ce.Scenarios.taxableBase(combinedSalary, in.Insurance, in.Deduction)
		salaryTax := ce.TaxCalc.EvaluateAnnualTax(taxable).Tax
		bonusTax := ce.TaxCalc.EvaluateBonusTax(separateBonus).Tax
		total := salaryTax.Add(bonusTax)

		points = append(points, domain.ChartPoint{
			SeparatePercent: pct,
			CombinedPercent: 100 - pct,
			SeparateBonus:   separateBonus,
			CombinedSalary:  combinedSalary,
			TotalTax:        total,
			AfterTaxIncome:  gross.Sub(in.Insurance).Sub(in.Deduction).Sub(total),
		})
	}
	return points
}

package calculation

import (
	"slices"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// reverseCandidates returns the bonus values tried by the reverse planner: the
// configured anchors, every annual bracket boundary, both endpoints of every cliff and a
// uniform sweep from zero. Values above total are dropped; the rest are deduplicated and
// sorted ascending.
func (ce *CalculationEngine) reverseCandidates(total decimal.Decimal) []decimal.Decimal {
	search := ce.Rules.Search
	raw := append([]decimal.Decimal(nil), search.ReverseAnchors...)
	raw = append(raw, ce.Rules.AnnualTable.Boundaries()...)
	for _, iv := range ce.Cliffs.intervals {
		raw = append(raw, iv.LowerBound, iv.UpperBound)
	}
	for b := decimal.Zero; b.LessThanOrEqual(total); b = b.Add(search.ReverseSweepStep) {
		raw = append(raw, b)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]decimal.Decimal, 0, len(raw))
	for _, b := range raw {
		if b.GreaterThan(total) || b.IsNegative() {
			continue
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b decimal.Decimal) int { return a.Cmp(b) })
	return out
}

// ComputeReversePlan decomposes an unsplit total income into salary and bonus.
//
// Each candidate bonus is evaluated in both modes and the cheaper mode kept. Sweep points
// share a kind, so only a strict improvement beyond epsilon replaces the incumbent and the
// first candidate found at the minimum wins. The cliff nudge is applied to the winner
// only; its salary and tax are reported as evaluated.
func (ce *CalculationEngine) ComputeReversePlan(totalIncome, insurance decimal.Decimal, profile domain.DeductionProfile) (domain.ReversePlan, error) {
	deduction := ce.AggregateDeductions(profile)
	eps := ce.Rules.Search.Epsilon

	candidates := ce.reverseCandidates(totalIncome)
	ce.debugf("reverse plan: total=%s candidates=%d", totalIncome.StringFixed(2), len(candidates))

	var (
		best      domain.ScenarioResult
		bestBonus decimal.Decimal
		found     bool
	)
	for _, bonus := range candidates {
		in := domain.ScenarioInput{
			Salary:    totalIncome.Sub(bonus),
			Bonus:     bonus,
			Insurance: insurance,
			Deduction: deduction,
		}
		result, _ := ce.cheaperMode(in)
		if !found || Better(PlanCandidate{Tax: result.TotalTax}, PlanCandidate{Tax: best.TotalTax}, eps) {
			best, bestBonus, found = result, bonus, true
		}
	}
	if !found {
		return domain.ReversePlan{}, &PlanError{
			Operation: "reverse_plan",
			Message:   "total income " + totalIncome.String() + " produced no candidate",
			Cause:     ErrNoCandidate,
		}
	}

	adjustment := ce.Cliffs.Avoid(bestBonus)
	if adjustment.IsAdjusted {
		ce.debugf("reverse plan: nudged winning bonus %s down to %s", bestBonus.StringFixed(2), adjustment.Adjusted.StringFixed(2))
	}

	worst := ce.Scenarios.ComputeCombined(domain.ScenarioInput{
		Salary:    totalIncome,
		Insurance: insurance,
		Deduction: deduction,
	})

	effective := decimal.Zero
	if totalIncome.IsPositive() {
		effective = best.TotalTax.Div(totalIncome)
	}

	plan := domain.ReversePlan{
		TotalIncome:       totalIncome,
		OptimalSalary:     totalIncome.Sub(bestBonus),
		OptimalBonus:      adjustment.Adjusted,
		Insurance:         insurance,
		ItemizedDeduction: deduction,
		BasicAllowance:    ce.Rules.BasicAllowance,
		TaxableIncome:     best.TaxableIncome,
		Mode:              best.Mode,
		SalaryTax:         best.SalaryTax,
		BonusTax:          best.BonusTax,
		TotalTax:          best.TotalTax,
		AfterTaxIncome:    totalIncome.Sub(insurance).Sub(deduction).Sub(best.TotalTax),
		EffectiveTaxRate:  effective,
		SavingsVsWorst:    worst.TotalTax.Sub(best.TotalTax),
		CandidatesTried:   len(candidates),
		Cliff:             adjustment,
		Deductions:        ce.DeductionBreakdown(profile),
	}
	ce.debugf("reverse plan: salary=%s bonus=%s mode=%s tax=%s",
		plan.OptimalSalary.StringFixed(2), plan.OptimalBonus.StringFixed(2), plan.Mode, plan.TotalTax.StringFixed(2))
	return plan, nil
}

package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReversePlan_ZeroIncome(t *testing.T) {
	engine := NewCalculationEngine()

	plan, err := engine.ComputeReversePlan(decimal.Zero, decimal.Zero, domain.DeductionProfile{})

	require.NoError(t, err)
	assert.True(t, plan.TotalTax.IsZero())
	assert.True(t, plan.OptimalSalary.IsZero())
	assert.True(t, plan.OptimalBonus.IsZero())
	assert.True(t, plan.EffectiveTaxRate.IsZero())
	assert.True(t, plan.SavingsVsWorst.IsZero())
	assert.Equal(t, 1, plan.CandidatesTried)
	assert.False(t, plan.Cliff.IsAdjusted)
}

func TestComputeReversePlan_FirstMinimumWins(t *testing.T) {
	engine := NewCalculationEngine()

	// Every split keeping both parts in the 3% band costs 3% of (100000-60000) = 1200.
	// The first such candidate in ascending order is a 10000 bonus.
	plan, err := engine.ComputeReversePlan(dec("100000"), decimal.Zero, domain.DeductionProfile{})

	require.NoError(t, err)
	assert.Equal(t, domain.ModeSeparate, plan.Mode)
	assert.True(t, plan.OptimalBonus.Equal(dec("10000")), "got %s", plan.OptimalBonus)
	assert.True(t, plan.OptimalSalary.Equal(dec("90000")), "got %s", plan.OptimalSalary)
	assert.True(t, plan.TotalTax.Equal(dec("1200")), "got %s", plan.TotalTax)
	assert.True(t, plan.SavingsVsWorst.Equal(dec("280")), "got %s", plan.SavingsVsWorst)
	assert.True(t, plan.AfterTaxIncome.Equal(dec("98800")))
	assert.True(t, plan.EffectiveTaxRate.Equal(dec("0.012")), "got %s", plan.EffectiveTaxRate)
	assert.True(t, plan.BasicAllowance.Equal(dec("60000")))
}

func TestComputeReversePlan_UsesAggregatedDeductions(t *testing.T) {
	engine := NewCalculationEngine()
	profile := domain.DeductionProfile{ChildrenInEducation: 2, HousingLoan: true}

	plan, err := engine.ComputeReversePlan(dec("300000"), dec("30000"), profile)

	require.NoError(t, err)
	assert.True(t, plan.ItemizedDeduction.Equal(dec("60000")))
	assert.Len(t, plan.Deductions, 2)
	expected := dec("300000").Sub(dec("30000")).Sub(dec("60000")).Sub(plan.TotalTax)
	assert.True(t, plan.AfterTaxIncome.Equal(expected))
}

func TestComputeReversePlan_Consistency(t *testing.T) {
	engine := NewCalculationEngine()

	totals := []string{"0", "5000", "60000", "100000", "150000", "240000", "400000", "777777", "1500000", "3000000"}
	for _, total := range totals {
		for _, ins := range []string{"0", "36000"} {
			income, insurance := dec(total), dec(ins)
			plan, err := engine.ComputeReversePlan(income, insurance, domain.DeductionProfile{ElderlyCare: domain.ElderlyCareShared})
			require.NoError(t, err)

			sum := plan.OptimalSalary.Add(plan.OptimalBonus)
			assert.True(t, sum.LessThanOrEqual(income), "total=%s: salary+bonus %s exceeds total", total, sum)
			if !plan.Cliff.IsAdjusted {
				assert.True(t, sum.Equal(income), "total=%s: salary+bonus %s should equal total", total, sum)
			}

			naive := engine.ComputeCombined(domain.ScenarioInput{
				Salary:    income,
				Insurance: insurance,
				Deduction: plan.ItemizedDeduction,
			})
			assert.True(t, plan.TotalTax.LessThanOrEqual(naive.TotalTax), "total=%s: %s > naive %s", total, plan.TotalTax, naive.TotalTax)
			assert.True(t, plan.SavingsVsWorst.Equal(naive.TotalTax.Sub(plan.TotalTax)))
			assert.Greater(t, plan.CandidatesTried, 0)
		}
	}
}

func TestComputeReversePlan_NegativeIncomeHasNoCandidate(t *testing.T) {
	engine := NewCalculationEngine()

	_, err := engine.ComputeReversePlan(dec("-1"), decimal.Zero, domain.DeductionProfile{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoCandidate))
	var planErr *PlanError
	require.True(t, errors.As(err, &planErr))
	assert.Equal(t, "reverse_plan", planErr.Operation)
}

func TestReverseCandidates(t *testing.T) {
	engine := NewCalculationEngine()

	candidates := engine.reverseCandidates(dec("165000"))

	// Anchors 0, 30000, 100000; boundaries and cliff ends 36000, 38566.67, 144000, 160500;
	// sweep 0..160000 every 10000.
	var got []string
	for _, c := range candidates {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"0", "10000", "20000", "30000", "36000", "38566.67", "40000", "50000", "60000", "70000",
		"80000", "90000", "100000", "110000", "120000", "130000", "140000", "144000", "150000",
		"160000", "160500",
	}, got)
}

package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOptimalSplit(t *testing.T) {
	engine := NewCalculationEngine()

	// Salary taxable income must drop to 36000 before the 3% band covers it, which first
	// happens at a 4000 bonus.
	plan := engine.ComputeOptimalSplit(dec("100000"), decimal.Zero, decimal.Zero)

	assert.Equal(t, domain.ModeSeparate, plan.Mode)
	assert.True(t, plan.OptimalBonus.Equal(dec("4000")), "got %s", plan.OptimalBonus)
	assert.True(t, plan.OptimalSalary.Equal(dec("96000")), "got %s", plan.OptimalSalary)
	assert.True(t, plan.TotalTax.Equal(dec("1200")), "got %s", plan.TotalTax)
	assert.True(t, plan.AfterTaxIncome.Equal(dec("98800")))
	assert.False(t, plan.CliffAvoided)
	require.NotEmpty(t, plan.Steps)
	assert.Equal(t, "Total income", plan.Steps[0].Label)
	assert.True(t, plan.Steps[len(plan.Steps)-1].Value.Equal(plan.TotalTax))
}

func TestComputeOptimalSplit_ZeroIncome(t *testing.T) {
	engine := NewCalculationEngine()

	plan := engine.ComputeOptimalSplit(decimal.Zero, decimal.Zero, decimal.Zero)

	assert.True(t, plan.TotalTax.IsZero())
	assert.True(t, plan.OptimalSalary.IsZero())
	assert.True(t, plan.OptimalBonus.IsZero())
}

func TestComputeOptimalSplit_NegativeIncomeFallsBackToSalary(t *testing.T) {
	engine := NewCalculationEngine()

	plan := engine.ComputeOptimalSplit(dec("-1000"), decimal.Zero, decimal.Zero)

	assert.Equal(t, domain.ModeCombined, plan.Mode)
	assert.True(t, plan.OptimalSalary.Equal(dec("-1000")))
	assert.True(t, plan.TotalTax.IsZero())
	assert.Empty(t, plan.Steps)
}

func TestComputeOptimalSplit_NeverInsideCliff(t *testing.T) {
	engine := NewCalculationEngine()

	for _, total := range []string{"150000", "400000", "900000", "2500000"} {
		plan := engine.ComputeOptimalSplit(dec(total), dec("20000"), dec("24000"))
		assert.False(t, engine.DetectCliff(plan.OptimalBonus).InCliff, "total=%s: bonus %s is in a cliff", total, plan.OptimalBonus)
		assert.True(t, plan.OptimalSalary.Add(plan.OptimalBonus).Equal(dec(total)))

		naive := engine.ComputeCombined(domain.ScenarioInput{Salary: dec(total), Insurance: dec("20000"), Deduction: dec("24000")})
		assert.True(t, plan.TotalTax.LessThanOrEqual(naive.TotalTax))
	}
}

func TestQuickEstimate(t *testing.T) {
	engine := NewCalculationEngine()

	tests := []struct {
		name          string
		total         decimal.Decimal
		expectedBonus decimal.Decimal
	}{
		{"ten percent below cap", dec("100000"), dec("10000")},
		{"capped at 36000", dec("500000"), dec("36000")},
		{"zero income", decimal.Zero, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := engine.QuickEstimate(tt.total, decimal.Zero, decimal.Zero)
			assert.True(t, est.Bonus.Equal(tt.expectedBonus), "Expected bonus %s, got %s", tt.expectedBonus, est.Bonus)
			assert.True(t, est.Salary.Add(est.Bonus).Equal(tt.total))
			assert.True(t, est.AfterTaxIncome.Equal(tt.total.Sub(est.TotalTax)))
		})
	}
}

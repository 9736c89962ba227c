package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluateAnnualTax(t *testing.T) {
	calc := NewBracketTaxCalculator(domain.DefaultTaxRules())

	tests := []struct {
		name        string
		taxable     decimal.Decimal
		expectedTax decimal.Decimal
		rate        decimal.Decimal
	}{
		{"zero income", decimal.Zero, decimal.Zero, decimal.Zero},
		{"negative income", dec("-5000"), decimal.Zero, decimal.Zero},
		{"first bracket", dec("10000"), dec("300"), dec("0.03")},
		{"first boundary", dec("36000"), dec("1080"), dec("0.03")},
		{"just over first boundary", dec("36001"), dec("1080.1"), dec("0.10")},
		{"third bracket", dec("180000"), dec("19080"), dec("0.20")},
		{"combined example", dec("216000"), dec("26280"), dec("0.20")},
		{"top bracket", dec("1000000"), dec("268080"), dec("0.45")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.EvaluateAnnualTax(tt.taxable)
			assert.True(t, result.Tax.Equal(tt.expectedTax), "Expected tax %s, got %s", tt.expectedTax, result.Tax)
			assert.True(t, result.Rate.Equal(tt.rate), "Expected rate %s, got %s", tt.rate, result.Rate)
		})
	}
}

func TestEvaluateBonusTax(t *testing.T) {
	calc := NewBracketTaxCalculator(domain.DefaultTaxRules())

	tests := []struct {
		name            string
		bonus           decimal.Decimal
		expectedTax     decimal.Decimal
		expectedRate    decimal.Decimal
		expectedQD      decimal.Decimal
		expectedMonthly decimal.Decimal
	}{
		{"zero bonus", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero},
		{"negative bonus", dec("-1"), decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero},
		{"at first boundary", dec("36000"), dec("1080"), dec("0.03"), decimal.Zero, dec("3000")},
		{"one over first boundary", dec("36001"), dec("3390.1"), dec("0.10"), dec("210"), dec("36001").Div(dec("12"))},
		{"second bracket", dec("120000"), dec("11790"), dec("0.10"), dec("210"), dec("10000")},
		{"top bracket", dec("1200000"), dec("524840"), dec("0.45"), dec("15160"), dec("100000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.EvaluateBonusTax(tt.bonus)
			assert.True(t, result.Tax.Equal(tt.expectedTax), "Expected tax %s, got %s", tt.expectedTax, result.Tax)
			assert.True(t, result.Rate.Equal(tt.expectedRate), "Expected rate %s, got %s", tt.expectedRate, result.Rate)
			assert.True(t, result.QuickDeduction.Equal(tt.expectedQD), "Expected quick deduction %s, got %s", tt.expectedQD, result.QuickDeduction)
			assert.True(t, result.MonthlyEquivalent.Equal(tt.expectedMonthly), "Expected monthly %s, got %s", tt.expectedMonthly, result.MonthlyEquivalent)
		})
	}
}

func TestEvaluate_FallsBackToLastBracket(t *testing.T) {
	table := domain.BracketTable{
		Name: "bounded",
		Brackets: []domain.Bracket{
			{UpperLimit: dec("100"), Rate: dec("0.1")},
			{UpperLimit: dec("200"), Rate: dec("0.2"), QuickDeduction: dec("10")},
		},
	}

	result := Evaluate(dec("500"), table)
	assert.True(t, result.Rate.Equal(dec("0.2")))
	assert.True(t, result.Tax.Equal(dec("90")), "got %s", result.Tax)
}

func TestBracketTables_Continuity(t *testing.T) {
	rules := domain.DefaultTaxRules()
	require.NoError(t, rules.AnnualTable.Validate())
	require.NoError(t, rules.BonusTable.Validate())

	for _, table := range []domain.BracketTable{rules.AnnualTable, rules.BonusTable} {
		for i := 0; i+1 < len(table.Brackets); i++ {
			cur, next := table.Brackets[i], table.Brackets[i+1]
			limit := cur.UpperLimit
			assert.True(t, cur.TaxAt(limit).Equal(next.TaxAt(limit)),
				"%s: tax discontinuous at %s (%s vs %s)", table.Name, limit, cur.TaxAt(limit), next.TaxAt(limit))
		}
	}
}

func TestBracketTables_MonotonicWithinBracket(t *testing.T) {
	calc := NewBracketTaxCalculator(domain.DefaultTaxRules())
	step := dec("0.5")

	prevLimit := decimal.Zero
	for _, b := range calc.AnnualTable.Brackets {
		if b.Unbounded {
			break
		}
		lo := prevLimit.Add(step)
		mid := prevLimit.Add(b.UpperLimit).Div(dec("2"))
		hi := b.UpperLimit

		t1 := calc.EvaluateAnnualTax(lo).Tax
		t2 := calc.EvaluateAnnualTax(mid).Tax
		t3 := calc.EvaluateAnnualTax(hi).Tax
		assert.True(t, t1.LessThan(t2) && t2.LessThan(t3),
			"tax should increase within bracket ending %s: %s, %s, %s", b.UpperLimit, t1, t2, t3)
		prevLimit = b.UpperLimit
	}
}

func TestBracketTable_ValidateRejectsBadTables(t *testing.T) {
	good := domain.DefaultTaxRules().AnnualTable

	discontinuous := good.Clone()
	discontinuous.Brackets[1].QuickDeduction = dec("2000")
	assert.ErrorContains(t, discontinuous.Validate(), "discontinuous")

	bounded := good.Clone()
	bounded.Brackets = bounded.Brackets[:len(bounded.Brackets)-1]
	assert.ErrorContains(t, bounded.Validate(), "unbounded")

	decreasing := good.Clone()
	decreasing.Brackets[2].Rate = dec("0.05")
	assert.Error(t, decreasing.Validate())

	empty := domain.BracketTable{Name: "empty"}
	assert.ErrorContains(t, empty.Validate(), "no brackets")
}

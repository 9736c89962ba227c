package calculation

import (
	"context"
	"fmt"
	"testing"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchOptimal_PreservesOrderAndEcho(t *testing.T) {
	engine := NewCalculationEngine()

	var rows []domain.OptimalRow
	for i := 0; i < 50; i++ {
		rows = append(rows, domain.OptimalRow{
			Name:   fmt.Sprintf("employee-%02d", i),
			Salary: decimal.NewFromInt(int64(60000 + i*10000)),
			Bonus:  decimal.NewFromInt(int64(i * 3000)),
		})
	}

	results, err := engine.BatchOptimal(context.Background(), rows, BatchOptions{Concurrency: 4})

	require.NoError(t, err)
	require.Len(t, results, len(rows))
	for i, r := range results {
		assert.Equal(t, rows[i].Name, r.Name)
		assert.True(t, r.Salary.Equal(rows[i].Salary))

		single := engine.ComputeOptimalPlan(domain.ScenarioInput{Salary: rows[i].Salary, Bonus: rows[i].Bonus})
		assert.True(t, r.TotalTax.Equal(single.Optimal.TotalTax), "row %d", i)
		assert.Equal(t, single.OptimalMode, r.OptimalMode)
		assert.Equal(t, single.Cliff.InCliff, r.InCliff)
	}
}

func TestBatchOptimal_CliffWarning(t *testing.T) {
	engine := NewCalculationEngine()

	results, err := engine.BatchOptimal(context.Background(), []domain.OptimalRow{
		{Name: "in cliff", Salary: dec("200000"), Bonus: dec("37000")},
		{Name: "safe", Salary: dec("200000"), Bonus: dec("36000")},
	}, BatchOptions{})

	require.NoError(t, err)
	assert.True(t, results[0].InCliff)
	assert.NotEmpty(t, results[0].CliffWarning)
	assert.False(t, results[1].InCliff)
	assert.Empty(t, results[1].CliffWarning)
}

func TestBatchReverse(t *testing.T) {
	engine := NewCalculationEngine()
	rows := []domain.ReverseRow{
		{Name: "a", TotalIncome: dec("100000")},
		{Name: "b", TotalIncome: dec("0")},
		{Name: "c", TotalIncome: dec("250000"), Insurance: dec("20000"), Deductions: domain.DeductionProfile{HousingLoan: true}},
	}

	results, err := engine.BatchReverse(context.Background(), rows, BatchOptions{Concurrency: 2})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Name)
	assert.True(t, results[0].Plan.TotalTax.Equal(dec("1200")))
	assert.True(t, results[1].Plan.TotalTax.IsZero())
	assert.True(t, results[2].Plan.ItemizedDeduction.Equal(dec("12000")))
}

func TestBatchReverse_PropagatesRowError(t *testing.T) {
	engine := NewCalculationEngine()

	_, err := engine.BatchReverse(context.Background(), []domain.ReverseRow{
		{Name: "ok", TotalIncome: dec("1000")},
		{Name: "broken", TotalIncome: dec("-5")},
	}, BatchOptions{Concurrency: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCandidate)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "broken")
}

func TestBatchYearEnd(t *testing.T) {
	engine := NewCalculationEngine()
	rows := []domain.YearEndRow{
		{Name: "interior", PriorSalary: dec("27500"), DecemberSalary: dec("2500"), Bonus: dec("100000")},
		{Name: "no bonus", PriorSalary: dec("110000"), DecemberSalary: dec("10000")},
	}

	results, err := engine.BatchYearEnd(context.Background(), rows, BatchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.PlanPartial, results[0].OptimalKind)
	assert.True(t, results[0].SeparateBonus.Equal(dec("34000")))
	assert.True(t, results[0].TaxSaving.Equal(dec("7690")))
	assert.Equal(t, domain.PlanSeparate, results[1].OptimalKind)
	assert.Equal(t, "no bonus", results[1].Name)
}

func TestBatchSplit(t *testing.T) {
	engine := NewCalculationEngine()

	results, err := engine.BatchSplit(context.Background(), []domain.SplitRow{
		{Name: "x", TotalIncome: dec("100000")},
	}, BatchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].OptimalBonus.Equal(dec("4000")))
	assert.True(t, results[0].TotalTax.Equal(dec("1200")))
	assert.Equal(t, domain.ModeSeparate, results[0].Mode)
}

func TestBatch_EmptyInput(t *testing.T) {
	engine := NewCalculationEngine()

	results, err := engine.BatchSplit(context.Background(), nil, BatchOptions{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatch_CancelledContext(t *testing.T) {
	engine := NewCalculationEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []domain.SplitRow{{Name: "x", TotalIncome: dec("100000")}}
	results, err := engine.BatchSplit(ctx, rows, BatchOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestBatchOptions_Limit(t *testing.T) {
	assert.Equal(t, 3, BatchOptions{Concurrency: 3}.limit())
	assert.Greater(t, BatchOptions{}.limit(), 0)
	assert.Greater(t, BatchOptions{Concurrency: -2}.limit(), 0)
}

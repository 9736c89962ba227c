package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/rgehrsitz/taxsplit/internal/calculation"
	"github.com/rgehrsitz/taxsplit/internal/config"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/rgehrsitz/taxsplit/internal/output"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../testdata/"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newEngine(t *testing.T) *calculation.CalculationEngine {
	t.Helper()
	rules, err := config.NewInputParser().LoadRules(testdata + "rules_2024.yaml")
	require.NoError(t, err)

	engine, err := calculation.NewCalculationEngineWithRules(rules)
	require.NoError(t, err)
	return engine
}

// TestIntegrationSuite runs the batch pipeline end to end: file, engine, formatter.
func TestIntegrationSuite(t *testing.T) {
	t.Run("Rules_MatchBuiltIn", testRulesMatchBuiltIn)
	t.Run("Optimal_CSV", testOptimalCSV)
	t.Run("Reverse_YAML", testReverseYAML)
	t.Run("YearEnd_JSON", testYearEndJSON)
	t.Run("Data_Consistency", testDataConsistency)
}

func testRulesMatchBuiltIn(t *testing.T) {
	engine := newEngine(t)
	builtIn := calculation.NewCalculationEngine()

	want, got := builtIn.CliffIntervals(), engine.CliffIntervals()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].LowerBound.Equal(got[i].LowerBound))
		assert.True(t, want[i].UpperBound.Equal(got[i].UpperBound))
	}
	assert.Equal(t, "Built-in schedule restated in full", engine.Rules.Metadata.Description)
}

func testOptimalCSV(t *testing.T) {
	engine := newEngine(t)
	input, err := config.NewInputParser().LoadBatch(testdata+"batch_optimal.csv", domain.BatchOptimal)
	require.NoError(t, err)
	require.Equal(t, 3, input.Len())

	results, err := engine.BatchOptimal(context.Background(), input.Optimal, calculation.BatchOptions{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "张三", results[0].Name, "Results keep input order")
	assert.Equal(t, domain.ModeSeparate, results[0].OptimalMode)
	assert.True(t, results[0].TaxSaving.Equal(dec("6120")), "Expected 6120, got %s", results[0].TaxSaving)
	assert.True(t, results[1].InCliff)
	assert.True(t, results[2].TotalTax.IsZero())

	report := output.NewBatchReport(input.Kind, "batch_optimal.csv", input.Len(), results)
	data, err := output.GetFormatterByName("csv").Format(report)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)

	console, err := output.GetFormatterByName("table").Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(console), "李四")
}

func testReverseYAML(t *testing.T) {
	engine := newEngine(t)
	input, err := config.NewInputParser().LoadBatch(testdata+"batch_reverse.yaml", "")
	require.NoError(t, err)
	require.Equal(t, domain.BatchReverse, input.Kind)

	results, err := engine.BatchReverse(context.Background(), input.Reverse, calculation.BatchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	erin := results[0].Plan
	assert.True(t, erin.OptimalSalary.Equal(dec("90000")), "Expected 90000, got %s", erin.OptimalSalary)
	assert.True(t, erin.OptimalBonus.Equal(dec("10000")), "Expected 10000, got %s", erin.OptimalBonus)
	assert.True(t, erin.TotalTax.Equal(dec("1200")))

	frank := results[1].Plan
	assert.True(t, frank.ItemizedDeduction.Equal(dec("36000")), "Expected child education plus housing loan, got %s", frank.ItemizedDeduction)
	assert.True(t, frank.OptimalSalary.Add(frank.OptimalBonus).Equal(dec("300000")))
	assert.True(t, frank.TotalTax.LessThanOrEqual(engine.ComputeSeparate(domain.ScenarioInput{
		Salary:    dec("300000"),
		Insurance: dec("24000"),
		Deduction: dec("36000"),
	}).TotalTax), "Reverse plan must not lose to paying everything as salary")
}

func testYearEndJSON(t *testing.T) {
	engine := newEngine(t)
	input, err := config.NewInputParser().LoadBatch(testdata+"batch_year_end.json", domain.BatchYearEnd)
	require.NoError(t, err)

	results, err := engine.BatchYearEnd(context.Background(), input.YearEnd, calculation.BatchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].TaxSaving.Equal(dec("2520")), "Expected 2520, got %s", results[0].TaxSaving)
	assert.Equal(t, domain.PlanSeparate, results[0].OptimalKind)
	assert.True(t, results[1].TotalTax.IsZero())

	data, err := output.GetFormatterByName("json").Format(output.NewBatchReport(input.Kind, "batch_year_end.json", input.Len(), results))
	require.NoError(t, err)
	var decoded struct {
		Kind    string
		Results []struct{ OptimalKind string }
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "year-end", decoded.Kind)
	assert.Equal(t, "separate", decoded.Results[0].OptimalKind)
}

func testDataConsistency(t *testing.T) {
	engine := newEngine(t)
	in := domain.ScenarioInput{Salary: dec("240000"), Bonus: dec("36000")}

	first := engine.ComputeOptimalPlan(in)
	for i := 0; i < 5; i++ {
		again := engine.ComputeOptimalPlan(in)
		assert.True(t, first.Optimal.TotalTax.Equal(again.Optimal.TotalTax), "Run %d differs", i)
	}

	// The chart's cheapest point can never beat the exhaustive year-end search by more
	// than the tie tolerance.
	points := engine.ChartData(in)
	lowest := points[0].TotalTax
	for _, p := range points {
		lowest = decimal.Min(lowest, p.TotalTax)
	}
	yearEnd := engine.ComputeYearEndPlan(domain.YearEndScenario{PriorSalary: in.Salary, Bonus: in.Bonus})
	assert.True(t, yearEnd.Optimal.TotalTax.LessThanOrEqual(lowest.Add(engine.Rules.Search.Epsilon)),
		"Expected year-end optimum %s <= chart minimum %s", yearEnd.Optimal.TotalTax, lowest)
}

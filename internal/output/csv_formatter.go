package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVFormatter writes tabular results. Batch output columns follow the input columns
// with the result columns appended. Single results become one header and one row, and
// reverse plans become field/value pairs.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(v any) ([]byte, error) {
	var records [][]string
	switch r := v.(type) {
	case *BatchReport:
		var err error
		if records, err = batchRecords(r.Results); err != nil {
			return nil, err
		}
	case ChartReport:
		records = append(records, []string{"separate_percent", "combined_percent", "separate_bonus", "combined_salary", "total_tax", "after_tax_income"})
		for _, p := range r.Points {
			records = append(records, []string{
				strconv.Itoa(p.SeparatePercent), strconv.Itoa(p.CombinedPercent),
				p.SeparateBonus.StringFixed(2), p.CombinedSalary.StringFixed(2),
				p.TotalTax.StringFixed(2), p.AfterTaxIncome.StringFixed(2),
			})
		}
	case []domain.CliffInterval:
		records = append(records, []string{"lower_bound", "upper_bound", "after_tax_loss"})
		for _, iv := range r {
			records = append(records, []string{iv.LowerBound.StringFixed(2), iv.UpperBound.StringFixed(2), iv.AfterTaxLoss.StringFixed(2)})
		}
	case DeductionReport:
		records = append(records, []string{"category", "detail", "amount"})
		for _, it := range r.Items {
			records = append(records, []string{it.Category, it.Detail, it.Amount.StringFixed(2)})
		}
		records = append(records, []string{"total", "", r.Total.StringFixed(2)})
	case domain.YearEndResult:
		records = append(records, []string{"kind", "separate_percent", "separate_bonus", "merged_bonus", "salary_tax", "bonus_tax", "total_tax", "after_tax_income", "optimal"})
		best := optimalIndex(r)
		for i, p := range r.Plans {
			records = append(records, []string{
				p.Kind.String(), strconv.Itoa(p.SeparatePercent),
				p.SeparateBonus.StringFixed(2), p.MergedBonus.StringFixed(2),
				p.SalaryTax.StringFixed(2), p.SeparateBonusTax.StringFixed(2),
				p.TotalTax.StringFixed(2), p.AfterTaxIncome.StringFixed(2),
				strconv.FormatBool(i == best),
			})
		}
	case ReverseReport:
		records = reverseRecords(r)
	case domain.CliffCheck:
		var lower, upper string
		if r.Interval != nil {
			lower, upper = r.Interval.LowerBound.StringFixed(2), r.Interval.UpperBound.StringFixed(2)
		}
		records = [][]string{
			{"bonus", "in_cliff", "lower_bound", "upper_bound", "lower_to", "raise_to", "suggestion"},
			{r.Bonus.StringFixed(2), strconv.FormatBool(r.InCliff), lower, upper, optionalAmount(r.InCliff, r.LowerTo), optionalAmount(r.InCliff, r.RaiseTo), r.Suggestion},
		}
	case domain.BracketEvaluation:
		records = [][]string{
			{"tax", "rate", "quick_deduction"},
			{r.Tax.StringFixed(2), r.Rate.String(), r.QuickDeduction.StringFixed(2)},
		}
	case domain.BonusEvaluation:
		records = [][]string{
			{"tax", "rate", "quick_deduction", "monthly_equivalent"},
			{r.Tax.StringFixed(2), r.Rate.String(), r.QuickDeduction.StringFixed(2), r.MonthlyEquivalent.StringFixed(2)},
		}
	case domain.QuickEstimate:
		records = [][]string{
			{"salary", "bonus", "mode", "total_tax", "after_tax_income"},
			{r.Salary.StringFixed(2), r.Bonus.StringFixed(2), r.Mode.String(), r.TotalTax.StringFixed(2), r.AfterTaxIncome.StringFixed(2)},
		}
	case domain.TaxRules:
		records = append(records, []string{"table", "bracket", "upper_limit", "rate", "quick_deduction"})
		for _, table := range []domain.BracketTable{r.AnnualTable, r.BonusTable} {
			for i, b := range table.Brackets {
				limit := "unbounded"
				if !b.Unbounded {
					limit = b.UpperLimit.StringFixed(2)
				}
				records = append(records, []string{table.Name, strconv.Itoa(i + 1), limit, b.Rate.String(), b.QuickDeduction.StringFixed(2)})
			}
		}
	case domain.SplitPlan:
		records = stepRecords(r.Steps)
	case domain.ScenarioResult:
		records = stepRecords(r.Trace.Steps())
	case domain.OptimalPlan:
		records = stepRecords(r.Optimal.Trace.Steps())
	default:
		return nil, fmt.Errorf("csv output does not support %T", v)
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// reverseRecords lists the plan as field/value rows followed by one row per advice line.
func reverseRecords(r ReverseReport) [][]string {
	p := r.Plan
	records := [][]string{
		{"field", "value"},
		{"total_income", p.TotalIncome.StringFixed(2)},
		{"optimal_salary", p.OptimalSalary.StringFixed(2)},
		{"optimal_bonus", p.OptimalBonus.StringFixed(2)},
		{"insurance", p.Insurance.StringFixed(2)},
		{"itemized_deduction", p.ItemizedDeduction.StringFixed(2)},
		{"basic_allowance", p.BasicAllowance.StringFixed(2)},
		{"taxable_income", p.TaxableIncome.StringFixed(2)},
		{"mode", p.Mode.String()},
		{"salary_tax", p.SalaryTax.StringFixed(2)},
		{"bonus_tax", p.BonusTax.StringFixed(2)},
		{"total_tax", p.TotalTax.StringFixed(2)},
		{"after_tax_income", p.AfterTaxIncome.StringFixed(2)},
		{"effective_tax_rate", p.EffectiveTaxRate.StringFixed(4)},
		{"savings_vs_worst", p.SavingsVsWorst.StringFixed(2)},
		{"cliff_adjusted", strconv.FormatBool(p.Cliff.IsAdjusted)},
	}
	for _, line := range r.Advice {
		records = append(records, []string{"advice", line})
	}
	return records
}

func optionalAmount(ok bool, d decimal.Decimal) string {
	if !ok {
		return ""
	}
	return d.StringFixed(2)
}

func stepRecords(steps []domain.CalculationStep) [][]string {
	records := [][]string{{"label", "formula", "value"}}
	for _, s := range steps {
		records = append(records, []string{s.Label, s.Formula, s.Value.StringFixed(2)})
	}
	return records
}

func batchRecords(results any) ([][]string, error) {
	var records [][]string
	switch rows := results.(type) {
	case []domain.OptimalRowResult:
		records = append(records, []string{"name", "salary", "bonus", "insurance", "deduction", "optimal_mode", "total_tax", "after_tax_income", "tax_saving", "cliff_warning"})
		for _, r := range rows {
			records = append(records, []string{
				r.Name, r.Salary.StringFixed(2), r.Bonus.StringFixed(2), r.Insurance.StringFixed(2), r.Deduction.StringFixed(2),
				r.OptimalMode.String(), r.TotalTax.StringFixed(2), r.AfterTaxIncome.StringFixed(2), r.TaxSaving.StringFixed(2), r.CliffWarning,
			})
		}
	case []domain.ReverseRowResult:
		records = append(records, []string{"name", "total_income", "insurance", "itemized_deduction", "optimal_salary", "optimal_bonus", "mode", "total_tax", "after_tax_income", "effective_tax_rate", "savings_vs_worst", "cliff_adjusted"})
		for _, r := range rows {
			p := r.Plan
			records = append(records, []string{
				r.Name, r.TotalIncome.StringFixed(2), r.Insurance.StringFixed(2), p.ItemizedDeduction.StringFixed(2),
				p.OptimalSalary.StringFixed(2), p.OptimalBonus.StringFixed(2), p.Mode.String(), p.TotalTax.StringFixed(2),
				p.AfterTaxIncome.StringFixed(2), p.EffectiveTaxRate.StringFixed(4), p.SavingsVsWorst.StringFixed(2),
				strconv.FormatBool(p.Cliff.IsAdjusted),
			})
		}
	case []domain.YearEndRowResult:
		records = append(records, []string{"name", "prior_salary", "december_salary", "bonus", "insurance", "deduction", "optimal_kind", "separate_bonus", "merged_bonus", "total_tax", "after_tax_income", "tax_saving"})
		for _, r := range rows {
			records = append(records, []string{
				r.Name, r.PriorSalary.StringFixed(2), r.DecemberSalary.StringFixed(2), r.Bonus.StringFixed(2),
				r.Insurance.StringFixed(2), r.Deduction.StringFixed(2), r.OptimalKind.String(),
				r.SeparateBonus.StringFixed(2), r.MergedBonus.StringFixed(2), r.TotalTax.StringFixed(2),
				r.AfterTaxIncome.StringFixed(2), r.TaxSaving.StringFixed(2),
			})
		}
	case []domain.SplitRowResult:
		records = append(records, []string{"name", "total_income", "insurance", "deduction", "optimal_salary", "optimal_bonus", "mode", "total_tax", "after_tax_income", "cliff_avoided"})
		for _, r := range rows {
			records = append(records, []string{
				r.Name, r.TotalIncome.StringFixed(2), r.Insurance.StringFixed(2), r.Deduction.StringFixed(2),
				r.OptimalSalary.StringFixed(2), r.OptimalBonus.StringFixed(2), r.Mode.String(),
				r.TotalTax.StringFixed(2), r.AfterTaxIncome.StringFixed(2), strconv.FormatBool(r.CliffAvoided),
			})
		}
	default:
		return nil, fmt.Errorf("csv output does not support batch results of type %T", results)
	}
	return records, nil
}

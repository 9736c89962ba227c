package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders results for a terminal.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	switch r := v.(type) {
	case domain.BracketEvaluation:
		title(buf, "ANNUAL COMPOSITE TAX")
		writeEvaluation(buf, r)
	case domain.BonusEvaluation:
		title(buf, "SEPARATELY TAXED BONUS")
		kv(buf, "Monthly equivalent", FormatCurrency(r.MonthlyEquivalent))
		writeEvaluation(buf, r.BracketEvaluation)
	case domain.CliffCheck:
		title(buf, "CLIFF CHECK")
		writeCliffCheck(buf, r)
	case []domain.CliffInterval:
		title(buf, "BONUS CLIFF INTERVALS")
		writeIntervals(buf, r)
	case domain.ScenarioResult:
		title(buf, strings.ToUpper(r.Mode.DisplayName()))
		writeScenario(buf, r)
	case domain.OptimalPlan:
		writeOptimalPlan(buf, r)
	case ReverseReport:
		writeReverse(buf, r)
	case domain.YearEndResult:
		writeYearEnd(buf, r)
	case domain.SplitPlan:
		writeSplit(buf, r)
	case domain.QuickEstimate:
		title(buf, "QUICK ESTIMATE")
		kv(buf, "Salary", FormatCurrency(r.Salary))
		kv(buf, "Bonus", FormatCurrency(r.Bonus))
		kv(buf, "Taxation", r.Mode.DisplayName())
		kv(buf, "Total tax", FormatCurrency(r.TotalTax))
		kv(buf, "After-tax income", FormatCurrency(r.AfterTaxIncome))
	case ChartReport:
		writeChart(buf, r)
	case DeductionReport:
		writeDeductions(buf, r)
	case *BatchReport:
		if err := writeBatch(buf, r); err != nil {
			return nil, err
		}
	case domain.TaxRules:
		writeRules(buf, r)
	default:
		return nil, fmt.Errorf("console output does not support %T", v)
	}
	return buf.Bytes(), nil
}

func title(buf *bytes.Buffer, s string) {
	fmt.Fprintln(buf, TitleStyle.Render(s))
	fmt.Fprintln(buf, strings.Repeat("=", lipgloss.Width(s)))
}

func section(buf *bytes.Buffer, s string) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, SectionStyle.Render(s))
}

func kv(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "%s %s\n", LabelStyle.Render(fmt.Sprintf("%-26s", label+":")), value)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers(headers...)
}

func writeEvaluation(buf *bytes.Buffer, e domain.BracketEvaluation) {
	kv(buf, "Rate", FormatPercentage(e.Rate))
	kv(buf, "Quick deduction", FormatCurrency(e.QuickDeduction))
	kv(buf, "Tax", HighlightStyle.Render(FormatCurrency(e.Tax)))
}

func writeCliffCheck(buf *bytes.Buffer, c domain.CliffCheck) {
	kv(buf, "Bonus", FormatCurrency(c.Bonus))
	if !c.InCliff {
		kv(buf, "Status", HighlightStyle.Render("outside every cliff interval"))
		return
	}
	kv(buf, "Status", WarningStyle.Render("inside a cliff interval"))
	kv(buf, "Interval", fmt.Sprintf("(%s, %s)", FormatCurrency(c.Interval.LowerBound), FormatCurrency(c.Interval.UpperBound)))
	kv(buf, "After-tax loss at lower", FormatCurrency(c.Interval.AfterTaxLoss))
	fmt.Fprintln(buf, WarningStyle.Render("Warning: "+c.Suggestion))
}

func writeIntervals(buf *bytes.Buffer, intervals []domain.CliffInterval) {
	t := newTable("Lower bound", "Upper bound", "After-tax loss")
	for _, iv := range intervals {
		t.Row(FormatCurrency(iv.LowerBound), FormatCurrency(iv.UpperBound), FormatCurrency(iv.AfterTaxLoss))
	}
	fmt.Fprintln(buf, t.Render())
}

func writeSteps(buf *bytes.Buffer, steps []domain.CalculationStep) {
	for _, s := range steps {
		line := fmt.Sprintf("  %-26s %15s", s.Label, FormatCurrency(s.Value))
		if s.Formula != "" {
			line += "  " + LabelStyle.Render(s.Formula)
		}
		fmt.Fprintln(buf, line)
	}
}

func writeTrace(buf *bytes.Buffer, tr domain.Trace) {
	if len(tr.Salary) > 0 {
		section(buf, "Salary")
		writeSteps(buf, tr.Salary)
	}
	if len(tr.Bonus) > 0 {
		section(buf, "Bonus")
		writeSteps(buf, tr.Bonus)
	}
	if len(tr.Total) > 0 {
		section(buf, "Total")
		writeSteps(buf, tr.Total)
	}
}

func writeScenario(buf *bytes.Buffer, r domain.ScenarioResult) {
	kv(buf, "Salary tax", FormatCurrency(r.SalaryTax))
	kv(buf, "Bonus tax", FormatCurrency(r.BonusTax))
	kv(buf, "Total tax", FormatCurrency(r.TotalTax))
	kv(buf, "After-tax income", FormatCurrency(r.AfterTaxIncome))
	kv(buf, "Effective rate", FormatPercentage(r.EffectiveRate()))
	writeTrace(buf, r.Trace)
}

func writeOptimalPlan(buf *bytes.Buffer, p domain.OptimalPlan) {
	title(buf, "SEPARATE VS COMBINED TAXATION")
	t := newTable("", "Separate", "Combined")
	t.Row("Salary tax", FormatCurrency(p.Separate.SalaryTax), FormatCurrency(p.Combined.SalaryTax))
	t.Row("Bonus tax", FormatCurrency(p.Separate.BonusTax), FormatCurrency(p.Combined.BonusTax))
	t.Row("Total tax", FormatCurrency(p.Separate.TotalTax), FormatCurrency(p.Combined.TotalTax))
	t.Row("After-tax income", FormatCurrency(p.Separate.AfterTaxIncome), FormatCurrency(p.Combined.AfterTaxIncome))
	fmt.Fprintln(buf, t.Render())

	kv(buf, "Recommended", HighlightStyle.Render(p.OptimalMode.DisplayName()))
	kv(buf, "Tax saving", FormatCurrency(p.TaxSaving))
	if p.Cliff.InCliff {
		fmt.Fprintln(buf, WarningStyle.Render("Warning: bonus is inside a cliff interval; "+p.Cliff.Suggestion))
	}

	section(buf, "Recommended plan detail")
	writeTrace(buf, p.Optimal.Trace)
}

func writeReverse(buf *bytes.Buffer, r ReverseReport) {
	p := r.Plan
	title(buf, "REVERSE PLAN")
	kv(buf, "Total income", FormatCurrency(p.TotalIncome))
	kv(buf, "Salary", HighlightStyle.Render(FormatCurrency(p.OptimalSalary)))
	kv(buf, "Year-end bonus", HighlightStyle.Render(FormatCurrency(p.OptimalBonus)))
	kv(buf, "Taxation", p.Mode.DisplayName())
	kv(buf, "Taxable income", FormatCurrency(p.TaxableIncome))
	kv(buf, "Salary tax", FormatCurrency(p.SalaryTax))
	kv(buf, "Bonus tax", FormatCurrency(p.BonusTax))
	kv(buf, "Total tax", FormatCurrency(p.TotalTax))
	kv(buf, "After-tax income", FormatCurrency(p.AfterTaxIncome))
	kv(buf, "Effective rate", FormatPercentage(p.EffectiveTaxRate))
	kv(buf, "Saving vs all salary", FormatCurrency(p.SavingsVsWorst))
	kv(buf, "Candidates tried", strconv.Itoa(p.CandidatesTried))
	if p.Cliff.IsAdjusted {
		fmt.Fprintln(buf, WarningStyle.Render("Warning: "+p.Cliff.Message))
	}
	if len(p.Deductions) > 0 {
		section(buf, "Itemized deductions")
		writeDeductionTable(buf, p.Deductions, p.ItemizedDeduction)
	}
	if len(r.Advice) > 0 {
		section(buf, "Advice")
		fmt.Fprintln(buf, BoxStyle.Render(strings.Join(r.Advice, "\n")))
	}
}

func writeYearEnd(buf *bytes.Buffer, r domain.YearEndResult) {
	title(buf, "YEAR-END BONUS PLAN")
	kv(buf, "Annual salary", FormatCurrency(r.Scenario.AnnualSalary()))
	kv(buf, "Year-end bonus", FormatCurrency(r.Scenario.Bonus))

	t := newTable("Plan", "Separate bonus", "Merged bonus", "Total tax", "After-tax income")
	best := optimalIndex(r)
	for i, p := range r.Plans {
		name := p.Kind.DisplayName()
		if i == best {
			name += " *"
		}
		t.Row(name, FormatCurrency(p.SeparateBonus), FormatCurrency(p.MergedBonus), FormatCurrency(p.TotalTax), FormatCurrency(p.AfterTaxIncome))
	}
	fmt.Fprintln(buf, t.Render())

	kv(buf, "Recommended", HighlightStyle.Render(r.Optimal.Description))
	kv(buf, "Tax saving vs worst", FormatCurrency(r.TaxSaving))
	section(buf, "Recommended plan detail")
	writeTrace(buf, r.Optimal.Trace)
}

func writeSplit(buf *bytes.Buffer, p domain.SplitPlan) {
	title(buf, "OPTIMAL SALARY/BONUS SPLIT")
	kv(buf, "Salary", HighlightStyle.Render(FormatCurrency(p.OptimalSalary)))
	kv(buf, "Year-end bonus", HighlightStyle.Render(FormatCurrency(p.OptimalBonus)))
	kv(buf, "Taxation", p.Mode.DisplayName())
	kv(buf, "Total tax", FormatCurrency(p.TotalTax))
	kv(buf, "After-tax income", FormatCurrency(p.AfterTaxIncome))
	if p.CliffAvoided {
		fmt.Fprintln(buf, WarningStyle.Render("Bonus was moved down out of a cliff interval"))
	}
	if len(p.Steps) > 0 {
		section(buf, "Calculation")
		writeSteps(buf, p.Steps)
	}
}

func writeChart(buf *bytes.Buffer, r ChartReport) {
	title(buf, "TAX BY SEPARATELY TAXED SHARE")
	var lowest decimal.Decimal
	for i, p := range r.Points {
		if i == 0 || p.TotalTax.LessThan(lowest) {
			lowest = p.TotalTax
		}
	}
	t := newTable("Separate %", "Separate bonus", "Composite salary", "Total tax", "After-tax income")
	for _, p := range r.Points {
		tax := FormatCurrency(p.TotalTax)
		if p.TotalTax.Equal(lowest) {
			tax += " *"
		}
		t.Row(strconv.Itoa(p.SeparatePercent), FormatCurrency(p.SeparateBonus), FormatCurrency(p.CombinedSalary), tax, FormatCurrency(p.AfterTaxIncome))
	}
	fmt.Fprintln(buf, t.Render())
}

func writeDeductionTable(buf *bytes.Buffer, items []domain.DeductionItem, total decimal.Decimal) {
	t := newTable("Category", "Detail", "Amount")
	for _, it := range items {
		t.Row(it.Category, it.Detail, FormatCurrency(it.Amount))
	}
	t.Row("total", "", FormatCurrency(total))
	fmt.Fprintln(buf, t.Render())
}

func writeDeductions(buf *bytes.Buffer, r DeductionReport) {
	title(buf, "ITEMIZED DEDUCTIONS")
	if len(r.Items) == 0 {
		fmt.Fprintln(buf, "No deductions claimed")
		return
	}
	writeDeductionTable(buf, r.Items, r.Total)
}

func writeBatch(buf *bytes.Buffer, r *BatchReport) error {
	title(buf, "BATCH RESULTS ("+strings.ToUpper(string(r.Kind))+")")
	kv(buf, "Run ID", r.RunID)
	kv(buf, "Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if r.Source != "" {
		kv(buf, "Source", r.Source)
	}
	kv(buf, "Rows", strconv.Itoa(r.Rows))

	var t *table.Table
	switch rows := r.Results.(type) {
	case []domain.OptimalRowResult:
		t = newTable("Name", "Salary", "Bonus", "Optimal", "Total tax", "Saving", "Cliff")
		for _, row := range rows {
			cliff := ""
			if row.InCliff {
				cliff = WarningStyle.Render("yes")
			}
			t.Row(row.Name, FormatCurrency(row.Salary), FormatCurrency(row.Bonus), row.OptimalMode.String(),
				FormatCurrency(row.TotalTax), FormatCurrency(row.TaxSaving), cliff)
		}
	case []domain.ReverseRowResult:
		t = newTable("Name", "Total income", "Salary", "Bonus", "Mode", "Total tax", "Effective rate")
		for _, row := range rows {
			t.Row(row.Name, FormatCurrency(row.TotalIncome), FormatCurrency(row.Plan.OptimalSalary), FormatCurrency(row.Plan.OptimalBonus),
				row.Plan.Mode.String(), FormatCurrency(row.Plan.TotalTax), FormatPercentage(row.Plan.EffectiveTaxRate))
		}
	case []domain.YearEndRowResult:
		t = newTable("Name", "Bonus", "Plan", "Separate bonus", "Total tax", "Saving")
		for _, row := range rows {
			t.Row(row.Name, FormatCurrency(row.Bonus), row.OptimalKind.String(), FormatCurrency(row.SeparateBonus),
				FormatCurrency(row.TotalTax), FormatCurrency(row.TaxSaving))
		}
	case []domain.SplitRowResult:
		t = newTable("Name", "Total income", "Salary", "Bonus", "Mode", "Total tax", "Cliff avoided")
		for _, row := range rows {
			t.Row(row.Name, FormatCurrency(row.TotalIncome), FormatCurrency(row.OptimalSalary), FormatCurrency(row.OptimalBonus),
				row.Mode.String(), FormatCurrency(row.TotalTax), strconv.FormatBool(row.CliffAvoided))
		}
	default:
		return fmt.Errorf("console output does not support batch results of type %T", r.Results)
	}
	fmt.Fprintln(buf, t.Render())
	return nil
}

func writeRules(buf *bytes.Buffer, r domain.TaxRules) {
	title(buf, fmt.Sprintf("TAX RULES (%d)", r.Metadata.DataYear))
	kv(buf, "Basic allowance", FormatCurrency(r.BasicAllowance))
	for _, tbl := range []domain.BracketTable{r.AnnualTable, r.BonusTable} {
		section(buf, tbl.Name)
		t := newTable("Up to", "Rate", "Quick deduction")
		for _, b := range tbl.Brackets {
			limit := "unbounded"
			if !b.Unbounded {
				limit = FormatCurrency(b.UpperLimit)
			}
			t.Row(limit, FormatPercentage(b.Rate), FormatCurrency(b.QuickDeduction))
		}
		fmt.Fprintln(buf, t.Render())
	}
}

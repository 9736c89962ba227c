package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TAXSPLIT_RULES", "")
	t.Setenv("TAXSPLIT_FORMAT", "")
	t.Setenv("TAXSPLIT_LOG_LEVEL", "error")

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, append(args, "--format", "json")...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "taxsplit", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"evaluate", "cliff", "optimal", "reverse", "year-end", "split",
		"chart", "deductions", "batch", "rules", "validate", "tui", "version",
	}
	registered := make(map[string]bool)
	for _, c := range newRootCmd().Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "Expected command %s to be registered", name)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "taxsplit")
	assert.Contains(t, out, "--format")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "taxsplit dev")
}

func TestEvaluateCommand(t *testing.T) {
	var annual struct{ Tax decimal.Decimal }
	runJSON(t, &annual, "evaluate", "annual", "36000")
	assert.True(t, annual.Tax.Equal(dec("1080")), "Expected 1080, got %s", annual.Tax)

	var bonus struct {
		Tax               decimal.Decimal
		MonthlyEquivalent decimal.Decimal
	}
	runJSON(t, &bonus, "evaluate", "bonus", "36001")
	assert.True(t, bonus.Tax.Equal(dec("3390.1")), "Expected 3390.1, got %s", bonus.Tax)
}

func TestEvaluateCommand_InvalidAmount(t *testing.T) {
	_, err := run(t, "evaluate", "bonus", "lots")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid number")
}

func TestCliffCommand(t *testing.T) {
	out, err := run(t, "cliff", "36001")
	require.NoError(t, err)
	assert.Contains(t, out, "inside a cliff interval")

	var intervals []struct{ LowerBound decimal.Decimal }
	runJSON(t, &intervals, "cliff")
	require.Len(t, intervals, 6)
	assert.True(t, intervals[0].LowerBound.Equal(dec("36000")))
}

func TestOptimalCommand(t *testing.T) {
	var plan struct {
		OptimalMode string
		TaxSaving   decimal.Decimal
	}
	runJSON(t, &plan, "optimal", "--salary", "240000", "--bonus", "36000")

	assert.Equal(t, "separate", plan.OptimalMode)
	assert.True(t, plan.TaxSaving.Equal(dec("6120")), "Expected 6120, got %s", plan.TaxSaving)
}

func TestOptimalCommand_NegativeAmount(t *testing.T) {
	_, err := run(t, "optimal", "--salary", "-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "salary cannot be negative")
}

func TestReverseCommand(t *testing.T) {
	var report struct {
		Plan struct {
			OptimalSalary decimal.Decimal
			OptimalBonus  decimal.Decimal
			TotalTax      decimal.Decimal
		}
		Advice []string
	}
	runJSON(t, &report, "reverse", "--total", "100000")

	assert.True(t, report.Plan.OptimalSalary.Equal(dec("90000")), "Expected 90000, got %s", report.Plan.OptimalSalary)
	assert.True(t, report.Plan.OptimalBonus.Equal(dec("10000")), "Expected 10000, got %s", report.Plan.OptimalBonus)
	assert.True(t, report.Plan.TotalTax.Equal(dec("1200")))
	assert.NotEmpty(t, report.Advice)
}

func TestReverseCommand_RequiresTotal(t *testing.T) {
	_, err := run(t, "reverse")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "total")
}

func TestYearEndCommand(t *testing.T) {
	var result struct {
		TaxSaving decimal.Decimal
		Optimal   struct{ Kind string }
	}
	runJSON(t, &result, "year-end", "--prior-salary", "91666.67", "--december-salary", "8333.33", "--bonus", "36000")

	assert.True(t, result.TaxSaving.Equal(dec("2520")), "Expected 2520, got %s", result.TaxSaving)
	assert.Equal(t, "separate", result.Optimal.Kind)
}

func TestSplitCommand(t *testing.T) {
	var plan struct {
		OptimalBonus decimal.Decimal
		TotalTax     decimal.Decimal
	}
	runJSON(t, &plan, "split", "--total", "100000")

	assert.True(t, plan.OptimalBonus.Equal(dec("4000")), "Expected 4000, got %s", plan.OptimalBonus)
	assert.True(t, plan.TotalTax.Equal(dec("1200")))
}

func TestSplitCommand_Quick(t *testing.T) {
	var est struct{ Bonus decimal.Decimal }
	runJSON(t, &est, "split", "--total", "500000", "--quick")

	assert.True(t, est.Bonus.Equal(dec("36000")), "Expected 36000, got %s", est.Bonus)
}

func TestChartCommand_CSV(t *testing.T) {
	out, err := run(t, "chart", "--salary", "240000", "--bonus", "36000", "--format", "csv")

	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 22, "header plus 21 points")
}

func TestDeductionsCommand(t *testing.T) {
	var report struct{ Total decimal.Decimal }
	runJSON(t, &report, "deductions", "--children", "2", "--housing-loan")

	assert.True(t, report.Total.Equal(dec("60000")), "Expected 60000, got %s", report.Total)
}

func TestDeductionsCommand_UnknownMode(t *testing.T) {
	_, err := run(t, "deductions", "--housing-rent", "castle")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown housing_rent")
}

func TestRulesCommand(t *testing.T) {
	out, err := run(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "basic_allowance:")
	assert.Contains(t, out, "bonus_table:")

	path := writeFile(t, "rules.yaml", "basic_allowance: 72000\n")
	var rules struct{ BasicAllowance decimal.Decimal }
	runJSON(t, &rules, "rules", "--rules", path)
	assert.True(t, rules.BasicAllowance.Equal(dec("72000")))
}

func TestInvalidRulesFile(t *testing.T) {
	path := writeFile(t, "rules.yaml", "basic_allowance: -5\n")

	_, err := run(t, "evaluate", "annual", "1", "--rules", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules validation failed")
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := run(t, "evaluate", "annual", "1", "--format", "html")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestCommands_CSVFormat(t *testing.T) {
	batch := writeFile(t, "batch.yaml", "kind: reverse\nreverse:\n  - name: Erin\n    total_income: 100000\n")
	tests := []struct {
		name   string
		args   []string
		header string
		rows   int
	}{
		{"evaluate annual", []string{"evaluate", "annual", "50000"}, "tax", 2},
		{"evaluate bonus", []string{"evaluate", "bonus", "36001"}, "tax", 2},
		{"cliff list", []string{"cliff"}, "lower_bound", 7},
		{"cliff check", []string{"cliff", "36001"}, "bonus", 2},
		{"optimal", []string{"optimal", "--salary", "240000", "--bonus", "36000"}, "label", 0},
		{"reverse", []string{"reverse", "--total", "300000"}, "field", 0},
		{"year-end", []string{"year-end", "--prior-salary", "100000", "--bonus", "36000"}, "kind", 3},
		{"split", []string{"split", "--total", "100000"}, "label", 0},
		{"split quick", []string{"split", "--total", "500000", "--quick"}, "salary", 2},
		{"chart", []string{"chart", "--salary", "240000", "--bonus", "36000"}, "separate_percent", 22},
		{"deductions", []string{"deductions", "--children", "1"}, "category", 0},
		{"rules", []string{"rules"}, "table", 15},
		{"batch", []string{"batch", batch}, "name", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append(tt.args, "--format", "csv")...)
			require.NoError(t, err, out)

			records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
			require.NoError(t, err, out)
			require.NotEmpty(t, records)
			assert.Equal(t, tt.header, records[0][0])
			if tt.rows > 0 {
				assert.Len(t, records, tt.rows)
			} else {
				assert.Greater(t, len(records), 1)
			}
		})
	}
}

func TestReverseCommand_CSVFromEnvironment(t *testing.T) {
	t.Setenv("TAXSPLIT_RULES", "")
	t.Setenv("TAXSPLIT_LOG_LEVEL", "error")
	t.Setenv("TAXSPLIT_FORMAT", "csv")

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"reverse", "--total", "300000"})

	require.NoError(t, cmd.Execute(), buf.String())
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"field", "value"}, records[0])
	assert.Contains(t, records, []string{"total_income", "300000.00"})
}

func TestBatchCommand_CSV(t *testing.T) {
	path := writeFile(t, "batch.csv", "姓名,年度工资,年终奖,三险一金,专项附加扣除\n张三,240000,36000,,\n李四,100000,36001,0,0\n")

	out, err := run(t, "batch", path, "--kind", "optimal", "--format", "csv")

	require.NoError(t, err, out)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "张三", records[1][0])
	assert.Equal(t, "separate", records[1][5])
	assert.NotEmpty(t, records[2][9], "Expected a cliff warning for a bonus of 36001")
}

func TestBatchCommand_YAMLSaveDir(t *testing.T) {
	path := writeFile(t, "batch.yaml", `
kind: split
split:
  - name: Erin
    total_income: 100000
`)
	dir := t.TempDir()

	out, err := run(t, "batch", path, "--save-dir", dir, "--format", "json")

	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote 1 split results")
	matches, err := filepath.Glob(filepath.Join(dir, "taxsplit_report_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var report struct {
		RunID   string
		Kind    string
		Results []struct{ OptimalBonus decimal.Decimal }
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "split", report.Kind)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].OptimalBonus.Equal(dec("4000")))
}

func TestBatchCommand_CSVRequiresKind(t *testing.T) {
	path := writeFile(t, "batch.csv", "name,salary,bonus\nA,1,1\n")

	_, err := run(t, "batch", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch kind is required")
}

func TestValidateCommand(t *testing.T) {
	batch := writeFile(t, "batch.csv", "name,total_income\nA,100000\nB,200000\n")
	out, err := run(t, "validate", batch, "--kind", "reverse")
	require.NoError(t, err)
	assert.Contains(t, out, "valid reverse batch with 2 rows")

	rules := writeFile(t, "rules.yaml", "basic_allowance: 60000\n")
	out, err = run(t, "validate", rules, "--rules-file")
	require.NoError(t, err)
	assert.Contains(t, out, "valid tax rules")

	bad := writeFile(t, "bad.csv", "name,total_income\nA,12k\n")
	_, err = run(t, "validate", bad, "--kind", "reverse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2, column total_income")
}

package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// headerAliases maps the spreadsheet headers exported by payroll tools onto column keys.
var headerAliases = map[string]string{
	"姓名":     "name",
	"年度工资":   "salary",
	"年终奖":    "bonus",
	"三险一金":   "insurance",
	"专项附加扣除": "deduction",
	"年收入总额":  "total_income",
}

// requiredColumns lists the headers a CSV batch of each kind must carry.
var requiredColumns = map[domain.BatchKind][]string{
	domain.BatchOptimal: {"name", "salary", "bonus"},
	domain.BatchReverse: {"name", "total_income"},
	domain.BatchYearEnd: {"name", "prior_salary", "december_salary", "bonus"},
	domain.BatchSplit:   {"name", "total_income"},
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if key, ok := headerAliases[h]; ok {
		return key
	}
	h = strings.ToLower(h)
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

// csvRow reads typed cells from one record. The first conversion failure sticks in err
// and later reads return zero values.
type csvRow struct {
	line   int
	cols   map[string]int
	record []string
	err    error
}

func (r *csvRow) text(key string) string {
	i, ok := r.cols[key]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *csvRow) amount(key string) decimal.Decimal {
	s := r.text(key)
	if r.err != nil || s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.err = fmt.Errorf("line %d, column %s: invalid number %q", r.line, key, s)
		return decimal.Zero
	}
	return d
}

func (r *csvRow) count(key string) int {
	s := r.text(key)
	if r.err != nil || s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.err = fmt.Errorf("line %d, column %s: invalid count %q", r.line, key, s)
		return 0
	}
	return n
}

func (r *csvRow) flag(key string) bool {
	s := r.text(key)
	if r.err != nil || s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		r.err = fmt.Errorf("line %d, column %s: invalid boolean %q", r.line, key, s)
		return false
	}
	return b
}

// ParseBatchCSV parses a header-driven CSV batch. Empty cells are zero; a malformed
// number fails the whole file with the line and column named.
func (ip *InputParser) ParseBatchCSV(r io.Reader, kind domain.BatchKind) (*domain.BatchInput, error) {
	if err := ValidateKind(kind); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	for _, want := range requiredColumns[kind] {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("missing required column %q for %s batch", want, kind)
		}
	}

	input := &domain.BatchInput{Kind: kind}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		row := &csvRow{line: line, cols: cols, record: record}
		appendRow(input, row)
		if row.err != nil {
			return nil, row.err
		}
	}

	if err := ip.ValidateBatch(input); err != nil {
		return nil, fmt.Errorf("batch validation failed: %w", err)
	}
	return input, nil
}

func appendRow(input *domain.BatchInput, row *csvRow) {
	switch input.Kind {
	case domain.BatchOptimal:
		input.Optimal = append(input.Optimal, domain.OptimalRow{
			Name:      row.text("name"),
			Salary:    row.amount("salary"),
			Bonus:     row.amount("bonus"),
			Insurance: row.amount("insurance"),
			Deduction: row.amount("deduction"),
		})
	case domain.BatchReverse:
		input.Reverse = append(input.Reverse, domain.ReverseRow{
			Name:        row.text("name"),
			TotalIncome: row.amount("total_income"),
			Insurance:   row.amount("insurance"),
			Deductions: domain.DeductionProfile{
				ChildrenInEducation: row.count("children_in_education"),
				InfantsInCare:       row.count("infants_in_care"),
				ContinuingEducation: domain.ContinuingEducation(row.text("continuing_education")),
				MedicalExpenses:     row.amount("medical_expenses"),
				HousingLoan:         row.flag("housing_loan"),
				HousingRent:         domain.HousingRent(row.text("housing_rent")),
				ElderlyCare:         domain.ElderlyCare(row.text("elderly_care")),
				PersonalPension:     row.amount("personal_pension"),
			},
		})
	case domain.BatchYearEnd:
		input.YearEnd = append(input.YearEnd, domain.YearEndRow{
			Name:           row.text("name"),
			PriorSalary:    row.amount("prior_salary"),
			DecemberSalary: row.amount("december_salary"),
			Bonus:          row.amount("bonus"),
			Insurance:      row.amount("insurance"),
			Deduction:      row.amount("deduction"),
		})
	case domain.BatchSplit:
		input.Split = append(input.Split, domain.SplitRow{
			Name:        row.text("name"),
			TotalIncome: row.amount("total_income"),
			Insurance:   row.amount("insurance"),
			Deduction:   row.amount("deduction"),
		})
	}
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

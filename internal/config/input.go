package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser loads rule overrides and batch files and rejects input the engine must
// never see: negative amounts, malformed numbers and unknown deduction modes.
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadRules loads a rules YAML file over the built-in rules. Keys missing from the file
// keep their built-in values; a bracket list in the file replaces the whole table.
func (ip *InputParser) LoadRules(filename string) (domain.TaxRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.TaxRules{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseRules(data)
}

// ParseRules parses rules YAML over the built-in rules and validates the result.
func (ip *InputParser) ParseRules(data []byte) (domain.TaxRules, error) {
	rules := domain.DefaultTaxRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.TaxRules{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return domain.TaxRules{}, fmt.Errorf("rules validation failed: %w", err)
	}
	return rules, nil
}

// LoadBatch loads a batch file. CSV files need kind; YAML and JSON files may carry their
// own kind, which must agree with kind when both are set.
func (ip *InputParser) LoadBatch(filename string, kind domain.BatchKind) (*domain.BatchInput, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
		}
		defer f.Close()
		return ip.ParseBatchCSV(f, kind)
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		return ip.ParseBatchYAML(data, kind)
	default:
		return nil, fmt.Errorf("unsupported batch file type %q (want .csv, .yaml, .yml or .json)", filepath.Ext(filename))
	}
}

// ParseBatchYAML parses a YAML (or JSON) batch document.
func (ip *InputParser) ParseBatchYAML(data []byte, kind domain.BatchKind) (*domain.BatchInput, error) {
	var input domain.BatchInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	switch {
	case kind == "":
	case input.Kind == "":
		input.Kind = kind
	case input.Kind != kind:
		return nil, fmt.Errorf("file declares kind %q but %q was requested", input.Kind, kind)
	}
	if err := ip.ValidateBatch(&input); err != nil {
		return nil, fmt.Errorf("batch validation failed: %w", err)
	}
	return &input, nil
}

// ValidateBatch checks the kind and every row of the selected list.
func (ip *InputParser) ValidateBatch(input *domain.BatchInput) error {
	if err := ValidateKind(input.Kind); err != nil {
		return err
	}
	if input.Len() == 0 {
		return fmt.Errorf("no %s rows found", input.Kind)
	}

	var check func(i int) error
	switch input.Kind {
	case domain.BatchOptimal:
		check = func(i int) error {
			r := input.Optimal[i]
			return nonNegative(
				namedAmount{"salary", r.Salary}, namedAmount{"bonus", r.Bonus},
				namedAmount{"insurance", r.Insurance}, namedAmount{"deduction", r.Deduction},
			)
		}
	case domain.BatchReverse:
		check = func(i int) error {
			r := input.Reverse[i]
			if err := nonNegative(namedAmount{"total_income", r.TotalIncome}, namedAmount{"insurance", r.Insurance}); err != nil {
				return err
			}
			return ValidateDeductionProfile(r.Deductions)
		}
	case domain.BatchYearEnd:
		check = func(i int) error {
			r := input.YearEnd[i]
			return nonNegative(
				namedAmount{"prior_salary", r.PriorSalary}, namedAmount{"december_salary", r.DecemberSalary},
				namedAmount{"bonus", r.Bonus}, namedAmount{"insurance", r.Insurance}, namedAmount{"deduction", r.Deduction},
			)
		}
	case domain.BatchSplit:
		check = func(i int) error {
			r := input.Split[i]
			return nonNegative(
				namedAmount{"total_income", r.TotalIncome}, namedAmount{"insurance", r.Insurance},
				namedAmount{"deduction", r.Deduction},
			)
		}
	}

	for i := 0; i < input.Len(); i++ {
		if err := check(i); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateKind rejects unknown batch kinds.
func ValidateKind(kind domain.BatchKind) error {
	for _, k := range domain.BatchKinds() {
		if kind == k {
			return nil
		}
	}
	if kind == "" {
		return errors.New("batch kind is required")
	}
	return fmt.Errorf("unknown batch kind %q", kind)
}

// ValidateDeductionProfile rejects negative counts and amounts and unknown modes.
func ValidateDeductionProfile(p domain.DeductionProfile) error {
	if p.ChildrenInEducation < 0 {
		return errors.New("children_in_education cannot be negative")
	}
	if p.InfantsInCare < 0 {
		return errors.New("infants_in_care cannot be negative")
	}
	if err := nonNegative(
		namedAmount{"medical_expenses", p.MedicalExpenses}, namedAmount{"personal_pension", p.PersonalPension},
	); err != nil {
		return err
	}
	switch p.ContinuingEducation {
	case "", domain.ContinuingEducationNone, domain.ContinuingEducationDegree, domain.ContinuingEducationCertificate:
	default:
		return fmt.Errorf("unknown continuing_education %q", p.ContinuingEducation)
	}
	switch p.HousingRent {
	case "", domain.HousingRentNone, domain.HousingRentSmall, domain.HousingRentMedium, domain.HousingRentLarge:
	default:
		return fmt.Errorf("unknown housing_rent %q", p.HousingRent)
	}
	switch p.ElderlyCare {
	case "", domain.ElderlyCareNone, domain.ElderlyCareOnlyChild, domain.ElderlyCareShared:
	default:
		return fmt.Errorf("unknown elderly_care %q", p.ElderlyCare)
	}
	return nil
}

// ParseAmount parses a money amount from user input. Blank input is zero.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid number %q", field, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s cannot be negative", field)
	}
	return d, nil
}

type namedAmount struct {
	name  string
	value decimal.Decimal
}

// nonNegative reports the first negative field in argument order.
func nonNegative(fields ...namedAmount) error {
	for _, f := range fields {
		if f.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative (got %s)", f.name, f.value)
		}
	}
	return nil
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRules contains all statutory data the engine works from.
// It is loaded once (built in or from a rules YAML file) and passed explicitly into the
// calculation engine; nothing mutates it afterwards.
type TaxRules struct {
	Metadata       RulesMetadata   `yaml:"metadata" json:"metadata"`
	BasicAllowance decimal.Decimal `yaml:"basic_allowance" json:"basicAllowance"`
	AnnualTable    BracketTable    `yaml:"annual_table" json:"annualTable"`
	BonusTable     BracketTable    `yaml:"bonus_table" json:"bonusTable"`
	DeductionCaps  DeductionCaps   `yaml:"deduction_caps" json:"deductionCaps"`
	Search         SearchSettings  `yaml:"search" json:"search"`
}

// RulesMetadata contains information about the rule data
type RulesMetadata struct {
	DataYear    int    `yaml:"data_year" json:"dataYear"`
	LastUpdated string `yaml:"last_updated" json:"lastUpdated"`
	Description string `yaml:"description" json:"description"`
}

// DeductionCaps holds the annual amounts and ceilings for itemized deductions.
type DeductionCaps struct {
	ChildEducationPerChild    decimal.Decimal `yaml:"child_education_per_child" json:"childEducationPerChild"`
	InfantCarePerInfant       decimal.Decimal `yaml:"infant_care_per_infant" json:"infantCarePerInfant"`
	ContinuingEducationDegree decimal.Decimal `yaml:"continuing_education_degree" json:"continuingEducationDegree"`
	ContinuingEducationCert   decimal.Decimal `yaml:"continuing_education_certificate" json:"continuingEducationCertificate"`
	MedicalMax                decimal.Decimal `yaml:"medical_max" json:"medicalMax"`
	HousingLoan               decimal.Decimal `yaml:"housing_loan" json:"housingLoan"`
	HousingRentSmall          decimal.Decimal `yaml:"housing_rent_small" json:"housingRentSmall"`
	HousingRentMedium         decimal.Decimal `yaml:"housing_rent_medium" json:"housingRentMedium"`
	HousingRentLarge          decimal.Decimal `yaml:"housing_rent_large" json:"housingRentLarge"`
	ElderlyCareOnlyChild      decimal.Decimal `yaml:"elderly_care_only_child" json:"elderlyCareOnlyChild"`
	ElderlyCareShared         decimal.Decimal `yaml:"elderly_care_shared" json:"elderlyCareShared"`
	PersonalPensionMax        decimal.Decimal `yaml:"personal_pension_max" json:"personalPensionMax"`
}

// SearchSettings fixes the granularity of the grid searches. Changing a step changes
// which optima can be discovered.
type SearchSettings struct {
	Epsilon            decimal.Decimal   `yaml:"epsilon" json:"epsilon"`
	ReverseSweepStep   decimal.Decimal   `yaml:"reverse_sweep_step" json:"reverseSweepStep"`
	ReverseAnchors     []decimal.Decimal `yaml:"reverse_anchors" json:"reverseAnchors"`
	SplitSweepStep     decimal.Decimal   `yaml:"split_sweep_step" json:"splitSweepStep"`
	PartialPercentStep int               `yaml:"partial_percent_step" json:"partialPercentStep"`
	ChartPercentStep   int               `yaml:"chart_percent_step" json:"chartPercentStep"`
}

// DefaultTaxRules returns the built-in rule set: a 5,000/month basic allowance, the
// seven-bracket annual composite table and the monthly table used for separately taxed
// year-end bonuses.
func DefaultTaxRules() TaxRules {
	return TaxRules{
		Metadata: RulesMetadata{
			DataYear:    2024,
			LastUpdated: "2024-01-01",
			Description: "Annual composite income schedule with separately taxed year-end bonus",
		},
		BasicAllowance: decimal.NewFromInt(60000),
		AnnualTable: BracketTable{
			Name: "annual_composite",
			Brackets: []Bracket{
				{UpperLimit: decimal.NewFromInt(36000), Rate: decimal.RequireFromString("0.03"), QuickDeduction: decimal.Zero},
				{UpperLimit: decimal.NewFromInt(144000), Rate: decimal.RequireFromString("0.10"), QuickDeduction: decimal.NewFromInt(2520)},
				{UpperLimit: decimal.NewFromInt(300000), Rate: decimal.RequireFromString("0.20"), QuickDeduction: decimal.NewFromInt(16920)},
				{UpperLimit: decimal.NewFromInt(420000), Rate: decimal.RequireFromString("0.25"), QuickDeduction: decimal.NewFromInt(31920)},
				{UpperLimit: decimal.NewFromInt(660000), Rate: decimal.RequireFromString("0.30"), QuickDeduction: decimal.NewFromInt(52920)},
				{UpperLimit: decimal.NewFromInt(960000), Rate: decimal.RequireFromString("0.35"), QuickDeduction: decimal.NewFromInt(85920)},
				{Unbounded: true, Rate: decimal.RequireFromString("0.45"), QuickDeduction: decimal.NewFromInt(181920)},
			},
		},
		BonusTable: BracketTable{
			Name: "bonus_monthly_equivalent",
			Brackets: []Bracket{
				{UpperLimit: decimal.NewFromInt(3000), Rate: decimal.RequireFromString("0.03"), QuickDeduction: decimal.Zero},
				{UpperLimit: decimal.NewFromInt(12000), Rate: decimal.RequireFromString("0.10"), QuickDeduction: decimal.NewFromInt(210)},
				{UpperLimit: decimal.NewFromInt(25000), Rate: decimal.RequireFromString("0.20"), QuickDeduction: decimal.NewFromInt(1410)},
				{UpperLimit: decimal.NewFromInt(35000), Rate: decimal.RequireFromString("0.25"), QuickDeduction: decimal.NewFromInt(2660)},
				{UpperLimit: decimal.NewFromInt(55000), Rate: decimal.RequireFromString("0.30"), QuickDeduction: decimal.NewFromInt(4410)},
				{UpperLimit: decimal.NewFromInt(80000), Rate: decimal.RequireFromString("0.35"), QuickDeduction: decimal.NewFromInt(7160)},
				{Unbounded: true, Rate: decimal.RequireFromString("0.45"), QuickDeduction: decimal.NewFromInt(15160)},
			},
		},
		DeductionCaps: DeductionCaps{
			ChildEducationPerChild:    decimal.NewFromInt(24000),
			InfantCarePerInfant:       decimal.NewFromInt(24000),
			ContinuingEducationDegree: decimal.NewFromInt(4800),
			ContinuingEducationCert:   decimal.NewFromInt(3600),
			MedicalMax:                decimal.NewFromInt(80000),
			HousingLoan:               decimal.NewFromInt(12000),
			HousingRentSmall:          decimal.NewFromInt(9600),
			HousingRentMedium:         decimal.NewFromInt(13200),
			HousingRentLarge:          decimal.NewFromInt(18000),
			ElderlyCareOnlyChild:      decimal.NewFromInt(36000),
			ElderlyCareShared:         decimal.NewFromInt(18000),
			PersonalPensionMax:        decimal.NewFromInt(12000),
		},
		Search: SearchSettings{
			Epsilon:          decimal.RequireFromString("0.01"),
			ReverseSweepStep: decimal.NewFromInt(10000),
			// Round figures tried alongside the cliff endpoints.
			ReverseAnchors: []decimal.Decimal{
				decimal.Zero,
				decimal.NewFromInt(30000),
				decimal.NewFromInt(100000),
				decimal.NewFromInt(200000),
				decimal.NewFromInt(400000),
				decimal.NewFromInt(500000),
				decimal.NewFromInt(800000),
			},
			SplitSweepStep:     decimal.NewFromInt(1000),
			PartialPercentStep: 1,
			ChartPercentStep:   5,
		},
	}
}

// Clone returns a deep copy so callers cannot alias the engine's tables.
func (r TaxRules) Clone() TaxRules {
	out := r
	out.AnnualTable = r.AnnualTable.Clone()
	out.BonusTable = r.BonusTable.Clone()
	out.Search.ReverseAnchors = append([]decimal.Decimal(nil), r.Search.ReverseAnchors...)
	return out
}

// Validate checks the rule set for internal consistency.
func (r TaxRules) Validate() error {
	if r.BasicAllowance.LessThan(decimal.Zero) {
		return fmt.Errorf("basic allowance cannot be negative")
	}
	if err := r.AnnualTable.Validate(); err != nil {
		return fmt.Errorf("annual table: %w", err)
	}
	if err := r.BonusTable.Validate(); err != nil {
		return fmt.Errorf("bonus table: %w", err)
	}
	if err := r.DeductionCaps.Validate(); err != nil {
		return fmt.Errorf("deduction caps: %w", err)
	}
	s := r.Search
	if s.Epsilon.LessThan(decimal.Zero) {
		return fmt.Errorf("search epsilon cannot be negative")
	}
	if !s.ReverseSweepStep.GreaterThan(decimal.Zero) {
		return fmt.Errorf("reverse sweep step must be positive")
	}
	if !s.SplitSweepStep.GreaterThan(decimal.Zero) {
		return fmt.Errorf("split sweep step must be positive")
	}
	if s.PartialPercentStep <= 0 || s.PartialPercentStep > 100 {
		return fmt.Errorf("partial percent step must be between 1 and 100")
	}
	if s.ChartPercentStep <= 0 || s.ChartPercentStep > 100 {
		return fmt.Errorf("chart percent step must be between 1 and 100")
	}
	for i, a := range s.ReverseAnchors {
		if a.LessThan(decimal.Zero) {
			return fmt.Errorf("reverse anchor %d cannot be negative", i)
		}
	}
	return nil
}

// Validate rejects negative caps.
func (c DeductionCaps) Validate() error {
	fields := map[string]decimal.Decimal{
		"child_education_per_child":        c.ChildEducationPerChild,
		"infant_care_per_infant":           c.InfantCarePerInfant,
		"continuing_education_degree":      c.ContinuingEducationDegree,
		"continuing_education_certificate": c.ContinuingEducationCert,
		"medical_max":                      c.MedicalMax,
		"housing_loan":                     c.HousingLoan,
		"housing_rent_small":               c.HousingRentSmall,
		"housing_rent_medium":              c.HousingRentMedium,
		"housing_rent_large":               c.HousingRentLarge,
		"elderly_care_only_child":          c.ElderlyCareOnlyChild,
		"elderly_care_shared":              c.ElderlyCareShared,
		"personal_pension_max":             c.PersonalPensionMax,
	}
	for name, v := range fields {
		if v.LessThan(decimal.Zero) {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	return nil
}

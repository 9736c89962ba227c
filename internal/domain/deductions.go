package domain

import (
	"github.com/shopspring/decimal"
)

// ContinuingEducation selects the continuing-education deduction mode.
type ContinuingEducation string

const (
	ContinuingEducationNone        ContinuingEducation = "none"
	ContinuingEducationDegree      ContinuingEducation = "degree"
	ContinuingEducationCertificate ContinuingEducation = "certificate"
)

// HousingRent is the rent tier, keyed by city size.
type HousingRent string

const (
	HousingRentNone   HousingRent = "none"
	HousingRentSmall  HousingRent = "small"
	HousingRentMedium HousingRent = "medium"
	HousingRentLarge  HousingRent = "large"
)

// ElderlyCare selects the elder-care deduction mode.
type ElderlyCare string

const (
	ElderlyCareNone      ElderlyCare = "none"
	ElderlyCareOnlyChild ElderlyCare = "only_child"
	ElderlyCareShared    ElderlyCare = "shared"
)

// DeductionProfile holds itemized personal deduction inputs. Empty string modes are
// treated as "none".
type DeductionProfile struct {
	ChildrenInEducation int                 `yaml:"children_in_education" json:"childrenInEducation"`
	InfantsInCare       int                 `yaml:"infants_in_care" json:"infantsInCare"`
	ContinuingEducation ContinuingEducation `yaml:"continuing_education" json:"continuingEducation"`
	MedicalExpenses     decimal.Decimal     `yaml:"medical_expenses" json:"medicalExpenses"`
	HousingLoan         bool                `yaml:"housing_loan" json:"housingLoan"`
	HousingRent         HousingRent         `yaml:"housing_rent" json:"housingRent"`
	ElderlyCare         ElderlyCare         `yaml:"elderly_care" json:"elderlyCare"`
	PersonalPension     decimal.Decimal     `yaml:"personal_pension" json:"personalPension"`
}

// DeductionItem is one capped category of an aggregated profile.
type DeductionItem struct {
	Category string          `json:"category" yaml:"category"`
	Detail   string          `json:"detail" yaml:"detail"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
}

package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// DeductionBreakdown converts a profile into capped annual amounts, one item per
// category that contributes. Each category is capped on its own; negative counts and
// amounts contribute nothing.
func DeductionBreakdown(profile domain.DeductionProfile, caps domain.DeductionCaps) []domain.DeductionItem {
	var items []domain.DeductionItem
	add := func(category, detail string, amount decimal.Decimal) {
		if amount.IsPositive() {
			items = append(items, domain.DeductionItem{Category: category, Detail: detail, Amount: amount})
		}
	}

	if n := profile.ChildrenInEducation; n > 0 {
		add("child_education", fmt.Sprintf("%d x %s", n, caps.ChildEducationPerChild.StringFixed(0)),
			caps.ChildEducationPerChild.Mul(decimal.NewFromInt(int64(n))))
	}
	if n := profile.InfantsInCare; n > 0 {
		add("infant_care", fmt.Sprintf("%d x %s", n, caps.InfantCarePerInfant.StringFixed(0)),
			caps.InfantCarePerInfant.Mul(decimal.NewFromInt(int64(n))))
	}

	switch profile.ContinuingEducation {
	case domain.ContinuingEducationDegree:
		add("continuing_education", "degree", caps.ContinuingEducationDegree)
	case domain.ContinuingEducationCertificate:
		add("continuing_education", "certificate", caps.ContinuingEducationCert)
	}

	add("medical", "capped at "+caps.MedicalMax.StringFixed(0), capAt(profile.MedicalExpenses, caps.MedicalMax))

	if profile.HousingLoan {
		add("housing_loan", "mortgage interest", caps.HousingLoan)
	}

	switch profile.HousingRent {
	case domain.HousingRentSmall:
		add("housing_rent", "small city", caps.HousingRentSmall)
	case domain.HousingRentMedium:
		add("housing_rent", "medium city", caps.HousingRentMedium)
	case domain.HousingRentLarge:
		add("housing_rent", "large city", caps.HousingRentLarge)
	}

	switch profile.ElderlyCare {
	case domain.ElderlyCareOnlyChild:
		add("elderly_care", "only child", caps.ElderlyCareOnlyChild)
	case domain.ElderlyCareShared:
		add("elderly_care", "shared", caps.ElderlyCareShared)
	}

	add("personal_pension", "capped at "+caps.PersonalPensionMax.StringFixed(0),
		capAt(profile.PersonalPension, caps.PersonalPensionMax))

	return items
}

// AggregateDeductions sums the capped categories of a profile.
func AggregateDeductions(profile domain.DeductionProfile, caps domain.DeductionCaps) decimal.Decimal {
	total := decimal.Zero
	for _, item := range DeductionBreakdown(profile, caps) {
		total = total.Add(item.Amount)
	}
	return total
}

// capAt clamps amount to [0, limit].
func capAt(amount, limit decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, decimal.Min(amount, limit))
}

// AggregateDeductions sums a profile using the engine's caps.
func (ce *CalculationEngine) AggregateDeductions(profile domain.DeductionProfile) decimal.Decimal {
	return AggregateDeductions(profile, ce.Rules.DeductionCaps)
}

// DeductionBreakdown itemizes a profile using the engine's caps.
func (ce *CalculationEngine) DeductionBreakdown(profile domain.DeductionProfile) []domain.DeductionItem {
	return DeductionBreakdown(profile, ce.Rules.DeductionCaps)
}

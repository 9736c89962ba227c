package calculation

import (
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Composite income is taxed once per year on the annual table after the basic
//    allowance, insurance and itemized deductions are subtracted.
//
// 2. A separately taxed bonus picks its rate and quick deduction from the monthly table
//    using bonus/12, then applies them to the whole bonus. This is what creates cliffs.
//
// 3. No rounding is applied to computed tax. Callers format to cents for display.

var twelve = decimal.NewFromInt(12)

// Evaluate applies table to a non-negative taxable amount. Callers clamp negative
// amounts before calling; no floor is applied here.
func Evaluate(amount decimal.Decimal, table domain.BracketTable) domain.BracketEvaluation {
	b := table.Lookup(amount)
	return domain.BracketEvaluation{
		Tax:            b.TaxAt(amount),
		Rate:           b.Rate,
		QuickDeduction: b.QuickDeduction,
	}
}

// BracketTaxCalculator evaluates the two statutory tables.
type BracketTaxCalculator struct {
	AnnualTable domain.BracketTable
	BonusTable  domain.BracketTable
}

// NewBracketTaxCalculator creates a calculator over the rule set's tables.
func NewBracketTaxCalculator(rules domain.TaxRules) *BracketTaxCalculator {
	return &BracketTaxCalculator{
		AnnualTable: rules.AnnualTable.Clone(),
		BonusTable:  rules.BonusTable.Clone(),
	}
}

// EvaluateAnnualTax taxes composite taxable income. Non-positive income owes nothing
// and reports a zero rate.
func (tc *BracketTaxCalculator) EvaluateAnnualTax(taxable decimal.Decimal) domain.BracketEvaluation {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return domain.BracketEvaluation{}
	}
	return Evaluate(taxable, tc.AnnualTable)
}

// EvaluateBonusTax taxes a year-end bonus on its own.
func (tc *BracketTaxCalculator) EvaluateBonusTax(bonus decimal.Decimal) domain.BonusEvaluation {
	if bonus.LessThanOrEqual(decimal.Zero) {
		return domain.BonusEvaluation{}
	}
	monthly := bonus.Div(twelve)
	b := tc.BonusTable.Lookup(monthly)
	return domain.BonusEvaluation{
		BracketEvaluation: domain.BracketEvaluation{
			Tax:            b.TaxAt(bonus),
			Rate:           b.Rate,
			QuickDeduction: b.QuickDeduction,
		},
		MonthlyEquivalent: monthly,
	}
}

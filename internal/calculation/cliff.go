package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// DeriveCliffIntervals computes the cliff intervals implied by a monthly bonus table.
//
// At each boundary L of bracket i the annual bonus 12*L still uses bracket i. One unit
// more switches the whole bonus to bracket i+1, so after-tax proceeds drop by the tax
// jump at 12*L. They only recover at the bonus x where
//
//	x*(1-r[i+1]) + qd[i+1] == 12*L*(1-r[i]) + qd[i]
//
// which is the interval's upper bound, rounded to cents.
func DeriveCliffIntervals(table domain.BracketTable) []domain.CliffInterval {
	one := decimal.NewFromInt(1)
	var out []domain.CliffInterval
	for i := 0; i+1 < len(table.Brackets); i++ {
		cur, next := table.Brackets[i], table.Brackets[i+1]
		if cur.Unbounded {
			break
		}
		keepRate := one.Sub(next.Rate)
		if !keepRate.IsPositive() {
			// A 100% rate never recovers.
			continue
		}
		lower := cur.UpperLimit.Mul(twelve)
		kept := lower.Mul(one.Sub(cur.Rate)).Add(cur.QuickDeduction)
		upper := kept.Sub(next.QuickDeduction).Div(keepRate).Round(2)
		out = append(out, domain.CliffInterval{
			LowerBound:   lower,
			UpperBound:   upper,
			AfterTaxLoss: next.TaxAt(lower).Sub(cur.TaxAt(lower)),
		})
	}
	return out
}

// CliffDetector checks bonuses against a fixed interval list.
type CliffDetector struct {
	intervals []domain.CliffInterval
}

// NewCliffDetector derives the intervals once from the bonus table.
func NewCliffDetector(bonusTable domain.BracketTable) *CliffDetector {
	return &CliffDetector{intervals: DeriveCliffIntervals(bonusTable)}
}

// Intervals returns a copy of the interval list in ascending order.
func (cd *CliffDetector) Intervals() []domain.CliffInterval {
	return append([]domain.CliffInterval(nil), cd.intervals...)
}

// find returns the first interval strictly containing bonus.
func (cd *CliffDetector) find(bonus decimal.Decimal) (domain.CliffInterval, bool) {
	for _, iv := range cd.intervals {
		if iv.Contains(bonus) {
			return iv, true
		}
	}
	return domain.CliffInterval{}, false
}

// Detect reports whether bonus sits inside a cliff. The bounds themselves are safe.
func (cd *CliffDetector) Detect(bonus decimal.Decimal) domain.CliffCheck {
	iv, ok := cd.find(bonus)
	if !ok {
		return domain.CliffCheck{Bonus: bonus}
	}
	raise := iv.UpperBound.Ceil()
	suggestion := fmt.Sprintf("lower the bonus to %s or raise it to at least %s",
		iv.LowerBound.StringFixed(2), raise.StringFixed(2))
	return domain.CliffCheck{
		Bonus:      bonus,
		InCliff:    true,
		Interval:   &iv,
		LowerTo:    iv.LowerBound,
		RaiseTo:    raise,
		Suggestion: suggestion,
	}
}

// Avoid moves a bonus inside a cliff down to the interval's lower bound.
func (cd *CliffDetector) Avoid(bonus decimal.Decimal) domain.CliffAdjustment {
	iv, ok := cd.find(bonus)
	if !ok {
		return domain.CliffAdjustment{Original: bonus, Adjusted: bonus}
	}
	msg := fmt.Sprintf("bonus %s is inside the %s-%s cliff; paying %s instead saves up to %s",
		bonus.StringFixed(2), iv.LowerBound.StringFixed(2), iv.UpperBound.StringFixed(2),
		iv.LowerBound.StringFixed(2), iv.AfterTaxLoss.StringFixed(2))
	return domain.CliffAdjustment{
		Original:        bonus,
		Adjusted:        iv.LowerBound,
		IsAdjusted:      true,
		PotentialSaving: iv.AfterTaxLoss,
		Message:         msg,
	}
}

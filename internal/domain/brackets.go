package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one row of a quick-deduction rate table.
// The top bracket of a table has Unbounded set and no meaningful UpperLimit.
type Bracket struct {
	UpperLimit     decimal.Decimal `yaml:"upper_limit,omitempty" json:"upperLimit"`
	Unbounded      bool            `yaml:"unbounded,omitempty" json:"unbounded,omitempty"`
	Rate           decimal.Decimal `yaml:"rate" json:"rate"`
	QuickDeduction decimal.Decimal `yaml:"quick_deduction" json:"quickDeduction"`
}

// Contains reports whether amount falls at or below the bracket's upper limit.
func (b Bracket) Contains(amount decimal.Decimal) bool {
	return b.Unbounded || amount.LessThanOrEqual(b.UpperLimit)
}

// TaxAt applies the bracket's single-step formula: amount*rate - quickDeduction.
func (b Bracket) TaxAt(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(b.Rate).Sub(b.QuickDeduction)
}

// BracketTable is an ordered rate schedule partitioning [0, ∞).
type BracketTable struct {
	Name     string    `yaml:"name" json:"name"`
	Brackets []Bracket `yaml:"brackets" json:"brackets"`
}

// Lookup returns the first bracket whose upper limit is >= amount, falling back
// to the last bracket.
func (t BracketTable) Lookup(amount decimal.Decimal) Bracket {
	for _, b := range t.Brackets {
		if b.Contains(amount) {
			return b
		}
	}
	return t.Brackets[len(t.Brackets)-1]
}

// Boundaries returns the finite upper limits in table order.
func (t BracketTable) Boundaries() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(t.Brackets))
	for _, b := range t.Brackets {
		if !b.Unbounded {
			out = append(out, b.UpperLimit)
		}
	}
	return out
}

// Clone returns a copy that shares no slice storage with t.
func (t BracketTable) Clone() BracketTable {
	return BracketTable{Name: t.Name, Brackets: append([]Bracket(nil), t.Brackets...)}
}

// Validate checks ordering, rate monotonicity, the unbounded tail and continuity of
// amount*rate - quickDeduction at every boundary.
func (t BracketTable) Validate() error {
	if len(t.Brackets) == 0 {
		return fmt.Errorf("bracket table %q has no brackets", t.Name)
	}
	last := t.Brackets[len(t.Brackets)-1]
	if !last.Unbounded {
		return fmt.Errorf("bracket table %q: last bracket must be unbounded", t.Name)
	}
	for i, b := range t.Brackets {
		if b.Rate.LessThan(decimal.Zero) || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket table %q: bracket %d rate %s outside [0,1]", t.Name, i, b.Rate)
		}
		if b.QuickDeduction.LessThan(decimal.Zero) {
			return fmt.Errorf("bracket table %q: bracket %d quick deduction cannot be negative", t.Name, i)
		}
		if i == len(t.Brackets)-1 {
			break
		}
		if b.Unbounded {
			return fmt.Errorf("bracket table %q: only the last bracket may be unbounded", t.Name)
		}
		if !b.UpperLimit.GreaterThan(decimal.Zero) {
			return fmt.Errorf("bracket table %q: bracket %d upper limit must be positive", t.Name, i)
		}
		next := t.Brackets[i+1]
		if !next.Unbounded && !next.UpperLimit.GreaterThan(b.UpperLimit) {
			return fmt.Errorf("bracket table %q: upper limits must increase (bracket %d)", t.Name, i+1)
		}
		if !next.Rate.GreaterThan(b.Rate) {
			return fmt.Errorf("bracket table %q: rates must increase (bracket %d)", t.Name, i+1)
		}
		if !b.TaxAt(b.UpperLimit).Equal(next.TaxAt(b.UpperLimit)) {
			return fmt.Errorf("bracket table %q: tax is discontinuous at %s (%s vs %s)",
				t.Name, b.UpperLimit, b.TaxAt(b.UpperLimit), next.TaxAt(b.UpperLimit))
		}
	}
	return nil
}

// BracketEvaluation is the outcome of evaluating an amount against a table.
type BracketEvaluation struct {
	Tax            decimal.Decimal `json:"tax" yaml:"tax"`
	Rate           decimal.Decimal `json:"rate" yaml:"rate"`
	QuickDeduction decimal.Decimal `json:"quickDeduction" yaml:"quick_deduction"`
}

// BonusEvaluation is a separately taxed bonus: rate and quick deduction are looked up
// at the monthly equivalent but applied to the full bonus.
type BonusEvaluation struct {
	BracketEvaluation `yaml:",inline"`
	MonthlyEquivalent decimal.Decimal `json:"monthlyEquivalent" yaml:"monthly_equivalent"`
}

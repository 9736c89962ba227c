package domain

import (
	"github.com/shopspring/decimal"
)

// CliffInterval is an open interval of bonus amounts in which paying more pre-tax
// bonus leaves less after tax than paying exactly LowerBound.
type CliffInterval struct {
	LowerBound   decimal.Decimal `json:"lowerBound" yaml:"lower_bound"`
	UpperBound   decimal.Decimal `json:"upperBound" yaml:"upper_bound"`
	AfterTaxLoss decimal.Decimal `json:"afterTaxLoss" yaml:"after_tax_loss"`
}

// Contains is strict on both sides; the bounds themselves are safe.
func (c CliffInterval) Contains(bonus decimal.Decimal) bool {
	return bonus.GreaterThan(c.LowerBound) && bonus.LessThan(c.UpperBound)
}

// CliffCheck reports whether a bonus sits inside a cliff interval.
type CliffCheck struct {
	Bonus      decimal.Decimal `json:"bonus" yaml:"bonus"`
	InCliff    bool            `json:"inCliff" yaml:"in_cliff"`
	Interval   *CliffInterval  `json:"interval,omitempty" yaml:"interval,omitempty"`
	LowerTo    decimal.Decimal `json:"lowerTo,omitempty" yaml:"lower_to,omitempty"`
	RaiseTo    decimal.Decimal `json:"raiseTo,omitempty" yaml:"raise_to,omitempty"`
	Suggestion string          `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// CliffAdjustment is the result of nudging a bonus down out of a cliff interval.
type CliffAdjustment struct {
	Original        decimal.Decimal `json:"original" yaml:"original"`
	Adjusted        decimal.Decimal `json:"adjusted" yaml:"adjusted"`
	IsAdjusted      bool            `json:"isAdjusted" yaml:"is_adjusted"`
	PotentialSaving decimal.Decimal `json:"potentialSaving" yaml:"potential_saving"`
	Message         string          `json:"message,omitempty" yaml:"message,omitempty"`
}

package output

import (
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/shopspring/decimal"
)

// ReverseReport pairs a reverse plan with its advice lines.
type ReverseReport struct {
	Plan   domain.ReversePlan `json:"plan" yaml:"plan"`
	Advice []string           `json:"advice" yaml:"advice"`
}

// DeductionReport is the capped breakdown of a deduction profile.
type DeductionReport struct {
	Items []domain.DeductionItem `json:"items" yaml:"items"`
	Total decimal.Decimal        `json:"total" yaml:"total"`
}

// ChartReport is the tax curve over the separate share of a bonus.
type ChartReport struct {
	Input  domain.ScenarioInput `json:"input" yaml:"input"`
	Points []domain.ChartPoint  `json:"points" yaml:"points"`
}

// BatchReport wraps batch results with run metadata. Results holds one of the
// []domain.*RowResult slices matching Kind.
type BatchReport struct {
	RunID       string           `json:"runId" yaml:"run_id"`
	GeneratedAt time.Time        `json:"generatedAt" yaml:"generated_at"`
	Kind        domain.BatchKind `json:"kind" yaml:"kind"`
	Source      string           `json:"source,omitempty" yaml:"source,omitempty"`
	Rows        int              `json:"rows" yaml:"rows"`
	Results     any              `json:"results" yaml:"results"`
}

// NewBatchReport stamps results with a fresh run ID and the current time.
func NewBatchReport(kind domain.BatchKind, source string, rows int, results any) *BatchReport {
	return &BatchReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Kind:        kind,
		Source:      source,
		Rows:        rows,
		Results:     results,
	}
}

// optimalIndex returns the first plan matching the recommendation, or -1.
func optimalIndex(r domain.YearEndResult) int {
	for i, p := range r.Plans {
		if p.Kind == r.Optimal.Kind && p.SeparatePercent == r.Optimal.SeparatePercent {
			return i
		}
	}
	return -1
}

// FormatCurrency renders an amount with two decimals and thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	return domain.FormatAmount(amount)
}

// FormatPercentage renders a fraction as a percentage with two decimals.
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

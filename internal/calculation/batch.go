package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rgehrsitz/taxsplit/internal/domain"
	"golang.org/x/sync/errgroup"
)

// BatchOptions controls batch parallelism.
type BatchOptions struct {
	// Concurrency bounds the number of rows evaluated at once. Zero or less means
	// GOMAXPROCS.
	Concurrency int
}

func (o BatchOptions) limit() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// runBatch maps fn over rows in parallel. Each worker writes only its own index, so the
// result slice needs no locking and keeps input order. Cancelling ctx stops scheduling
// new rows and returns ctx.Err().
func runBatch[T, R any](ctx context.Context, opts BatchOptions, rows []T, fn func(T) (R, error)) ([]R, error) {
	results := make([]R, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())

	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(rows[i])
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// BatchOptimal runs the forward comparison for every row.
func (ce *CalculationEngine) BatchOptimal(ctx context.Context, rows []domain.OptimalRow, opts BatchOptions) ([]domain.OptimalRowResult, error) {
	ce.Logger.Infof("batch optimal: %d rows", len(rows))
	return runBatch(ctx, opts, rows, func(row domain.OptimalRow) (domain.OptimalRowResult, error) {
		plan := ce.ComputeOptimalPlan(domain.ScenarioInput{
			Salary:    row.Salary,
			Bonus:     row.Bonus,
			Insurance: row.Insurance,
			Deduction: row.Deduction,
		})
		return domain.OptimalRowResult{
			OptimalRow:     row,
			OptimalMode:    plan.OptimalMode,
			TotalTax:       plan.Optimal.TotalTax,
			AfterTaxIncome: plan.Optimal.AfterTaxIncome,
			TaxSaving:      plan.TaxSaving,
			InCliff:        plan.Cliff.InCliff,
			CliffWarning:   plan.Cliff.Suggestion,
		}, nil
	})
}

// BatchReverse runs the reverse planner for every row.
func (ce *CalculationEngine) BatchReverse(ctx context.Context, rows []domain.ReverseRow, opts BatchOptions) ([]domain.ReverseRowResult, error) {
	ce.Logger.Infof("batch reverse: %d rows", len(rows))
	return runBatch(ctx, opts, rows, func(row domain.ReverseRow) (domain.ReverseRowResult, error) {
		plan, err := ce.ComputeReversePlan(row.TotalIncome, row.Insurance, row.Deductions)
		if err != nil {
			return domain.ReverseRowResult{}, fmt.Errorf("%s: %w", row.Name, err)
		}
		return domain.ReverseRowResult{ReverseRow: row, Plan: plan}, nil
	})
}

// BatchYearEnd runs the year-end planner for every row.
func (ce *CalculationEngine) BatchYearEnd(ctx context.Context, rows []domain.YearEndRow, opts BatchOptions) ([]domain.YearEndRowResult, error) {
	ce.Logger.Infof("batch year-end: %d rows", len(rows))
	return runBatch(ctx, opts, rows, func(row domain.YearEndRow) (domain.YearEndRowResult, error) {
		res := ce.ComputeYearEndPlan(row.Scenario())
		return domain.YearEndRowResult{
			YearEndRow:     row,
			OptimalKind:    res.Optimal.Kind,
			SeparateBonus:  res.Optimal.SeparateBonus,
			MergedBonus:    res.Optimal.MergedBonus,
			TotalTax:       res.Optimal.TotalTax,
			AfterTaxIncome: res.Optimal.AfterTaxIncome,
			TaxSaving:      res.TaxSaving,
		}, nil
	})
}

// BatchSplit runs the forward split sweep for every row.
func (ce *CalculationEngine) BatchSplit(ctx context.Context, rows []domain.SplitRow, opts BatchOptions) ([]domain.SplitRowResult, error) {
	ce.Logger.Infof("batch split: %d rows", len(rows))
	return runBatch(ctx, opts, rows, func(row domain.SplitRow) (domain.SplitRowResult, error) {
		plan := ce.ComputeOptimalSplit(row.TotalIncome, row.Insurance, row.Deduction)
		return domain.SplitRowResult{
			SplitRow:       row,
			OptimalSalary:  plan.OptimalSalary,
			OptimalBonus:   plan.OptimalBonus,
			Mode:           plan.Mode,
			TotalTax:       plan.TotalTax,
			AfterTaxIncome: plan.AfterTaxIncome,
			CliffAvoided:   plan.CliffAvoided,
		}, nil
	})
}

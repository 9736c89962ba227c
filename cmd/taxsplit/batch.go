package main

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/calculation"
	"github.com/rgehrsitz/taxsplit/internal/config"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/rgehrsitz/taxsplit/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func batchCmd(a *app) *cobra.Command {
	var (
		kind        string
		concurrency int
		saveDir     string
	)
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Run an optimizer over every row of a CSV, YAML or JSON file",
		Long: `Run an optimizer over every row of a batch file.

CSV files need --kind and a header row. Optimal batches accept the headers
name,salary,bonus,insurance,deduction or 姓名,年度工资,年终奖,三险一金,专项附加扣除.
Empty cells count as zero. YAML and JSON files may declare kind themselves.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			input, err := config.NewInputParser().LoadBatch(file, domain.BatchKind(kind))
			if err != nil {
				return err
			}

			opts := calculation.BatchOptions{Concurrency: concurrency}
			ctx := cmd.Context()
			var results any
			switch input.Kind {
			case domain.BatchOptimal:
				results, err = a.engine.BatchOptimal(ctx, input.Optimal, opts)
			case domain.BatchReverse:
				results, err = a.engine.BatchReverse(ctx, input.Reverse, opts)
			case domain.BatchYearEnd:
				results, err = a.engine.BatchYearEnd(ctx, input.YearEnd, opts)
			case domain.BatchSplit:
				results, err = a.engine.BatchSplit(ctx, input.Split, opts)
			}
			if err != nil {
				return fmt.Errorf("batch %s failed: %w", file, err)
			}

			report := output.NewBatchReport(input.Kind, file, input.Len(), results)
			a.logger.Info("batch complete",
				zap.String("run_id", report.RunID),
				zap.String("kind", string(report.Kind)),
				zap.Int("rows", report.Rows))

			if saveDir == "" {
				return a.render(cmd, report)
			}
			f := output.GetFormatterByName(a.format)
			if f == nil {
				return fmt.Errorf("unsupported format %q", a.format)
			}
			ext := f.Name()
			if ext == "console" {
				ext = "txt"
			}
			filename, err := output.WriteFormatted(f, report, saveDir, ext)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s results to %s\n", report.Rows, report.Kind, filename)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Batch kind ("+batchKindNames()+"); required for CSV")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Rows evaluated in parallel (default GOMAXPROCS)")
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "Write the report to a timestamped file in this directory")
	return cmd
}

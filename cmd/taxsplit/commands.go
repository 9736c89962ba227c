package main

import (
	"fmt"

	"github.com/rgehrsitz/taxsplit/internal/calculation"
	"github.com/rgehrsitz/taxsplit/internal/config"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/rgehrsitz/taxsplit/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Amount flags are strings so that values reach decimal without a float round trip.

type scenarioFlags struct {
	salary, bonus, insurance, deduction string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.salary, "salary", "", "Annual salary")
	cmd.Flags().StringVar(&f.bonus, "bonus", "", "Year-end bonus")
	cmd.Flags().StringVar(&f.insurance, "insurance", "", "Annual social insurance and housing fund")
	cmd.Flags().StringVar(&f.deduction, "deduction", "", "Annual itemized deduction")
}

func (f *scenarioFlags) input() (domain.ScenarioInput, error) {
	var in domain.ScenarioInput
	err := parseAmounts(
		amountField{"salary", f.salary, &in.Salary},
		amountField{"bonus", f.bonus, &in.Bonus},
		amountField{"insurance", f.insurance, &in.Insurance},
		amountField{"deduction", f.deduction, &in.Deduction},
	)
	return in, err
}

type profileFlags struct {
	children, infants   int
	continuingEducation string
	medical             string
	housingLoan         bool
	housingRent         string
	elderlyCare         string
	pension             string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.children, "children", 0, "Children in education")
	cmd.Flags().IntVar(&f.infants, "infants", 0, "Infants under three in care")
	cmd.Flags().StringVar(&f.continuingEducation, "continuing-education", "none", "Continuing education (none, degree, certificate)")
	cmd.Flags().StringVar(&f.medical, "medical", "", "Serious illness medical expenses")
	cmd.Flags().BoolVar(&f.housingLoan, "housing-loan", false, "First home mortgage interest")
	cmd.Flags().StringVar(&f.housingRent, "housing-rent", "none", "Housing rent tier (none, small, medium, large)")
	cmd.Flags().StringVar(&f.elderlyCare, "elderly-care", "none", "Elderly care (none, only_child, shared)")
	cmd.Flags().StringVar(&f.pension, "pension", "", "Personal pension contributions")
}

func (f *profileFlags) profile() (domain.DeductionProfile, error) {
	p := domain.DeductionProfile{
		ChildrenInEducation: f.children,
		InfantsInCare:       f.infants,
		ContinuingEducation: domain.ContinuingEducation(f.continuingEducation),
		HousingLoan:         f.housingLoan,
		HousingRent:         domain.HousingRent(f.housingRent),
		ElderlyCare:         domain.ElderlyCare(f.elderlyCare),
	}
	if err := parseAmounts(
		amountField{"medical", f.medical, &p.MedicalExpenses},
		amountField{"pension", f.pension, &p.PersonalPension},
	); err != nil {
		return p, err
	}
	return p, config.ValidateDeductionProfile(p)
}

type amountField struct {
	name  string
	value string
	dst   *decimal.Decimal
}

func parseAmounts(fields ...amountField) error {
	for _, f := range fields {
		d, err := config.ParseAmount(f.name, f.value)
		if err != nil {
			return err
		}
		*f.dst = d
	}
	return nil
}

func evaluateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a single tax table",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "annual <taxable-income>",
			Short: "Tax on annual composite taxable income",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := config.ParseAmount("taxable income", args[0])
				if err != nil {
					return err
				}
				return a.render(cmd, a.engine.EvaluateAnnualTax(amount))
			},
		},
		&cobra.Command{
			Use:   "bonus <bonus>",
			Short: "Tax on a separately taxed year-end bonus",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := config.ParseAmount("bonus", args[0])
				if err != nil {
					return err
				}
				return a.render(cmd, a.engine.EvaluateBonusTax(amount))
			},
		},
	)
	return cmd
}

func cliffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cliff [bonus]",
		Short: "Check a bonus against the cliff intervals, or list them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.render(cmd, a.engine.CliffIntervals())
			}
			bonus, err := config.ParseAmount("bonus", args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, a.engine.DetectCliff(bonus))
		},
	}
}

func optimalCmd(a *app) *cobra.Command {
	var flags scenarioFlags
	cmd := &cobra.Command{
		Use:   "optimal",
		Short: "Compare separate and combined taxation for a fixed salary and bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			return a.render(cmd, a.engine.ComputeOptimalPlan(in))
		},
	}
	flags.register(cmd)
	return cmd
}

func reverseCmd(a *app) *cobra.Command {
	var (
		total, insurance string
		profile          profileFlags
	)
	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Split a total income into the lowest-tax salary and bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			var totalIncome, ins decimal.Decimal
			if err := parseAmounts(
				amountField{"total", total, &totalIncome},
				amountField{"insurance", insurance, &ins},
			); err != nil {
				return err
			}
			p, err := profile.profile()
			if err != nil {
				return err
			}
			plan, err := a.engine.ComputeReversePlan(totalIncome, ins, p)
			if err != nil {
				return err
			}
			return a.render(cmd, output.ReverseReport{Plan: plan, Advice: calculation.PlanningAdvice(plan)})
		},
	}
	cmd.Flags().StringVar(&total, "total", "", "Total annual income to split")
	cmd.Flags().StringVar(&insurance, "insurance", "", "Annual social insurance and housing fund")
	_ = cmd.MarkFlagRequired("total")
	profile.register(cmd)
	return cmd
}

func yearEndCmd(a *app) *cobra.Command {
	var prior, december, bonus, insurance, deduction string
	cmd := &cobra.Command{
		Use:   "year-end",
		Short: "Allocate a year-end bonus between separate and merged taxation",
		RunE: func(cmd *cobra.Command, args []string) error {
			var s domain.YearEndScenario
			if err := parseAmounts(
				amountField{"prior-salary", prior, &s.PriorSalary},
				amountField{"december-salary", december, &s.DecemberSalary},
				amountField{"bonus", bonus, &s.Bonus},
				amountField{"insurance", insurance, &s.Insurance},
				amountField{"deduction", deduction, &s.Deduction},
			); err != nil {
				return err
			}
			return a.render(cmd, a.engine.ComputeYearEndPlan(s))
		},
	}
	cmd.Flags().StringVar(&prior, "prior-salary", "", "Salary paid January through November")
	cmd.Flags().StringVar(&december, "december-salary", "", "December salary")
	cmd.Flags().StringVar(&bonus, "bonus", "", "Year-end bonus")
	cmd.Flags().StringVar(&insurance, "insurance", "", "Annual social insurance and housing fund")
	cmd.Flags().StringVar(&deduction, "deduction", "", "Annual itemized deduction")
	return cmd
}

func splitCmd(a *app) *cobra.Command {
	var (
		total, insurance, deduction string
		quick                       bool
	)
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Sweep salary/bonus splits of a total income",
		RunE: func(cmd *cobra.Command, args []string) error {
			var totalIncome, ins, ded decimal.Decimal
			if err := parseAmounts(
				amountField{"total", total, &totalIncome},
				amountField{"insurance", insurance, &ins},
				amountField{"deduction", deduction, &ded},
			); err != nil {
				return err
			}
			if quick {
				return a.render(cmd, a.engine.QuickEstimate(totalIncome, ins, ded))
			}
			return a.render(cmd, a.engine.ComputeOptimalSplit(totalIncome, ins, ded))
		},
	}
	cmd.Flags().StringVar(&total, "total", "", "Total annual income to split")
	cmd.Flags().StringVar(&insurance, "insurance", "", "Annual social insurance and housing fund")
	cmd.Flags().StringVar(&deduction, "deduction", "", "Annual itemized deduction")
	cmd.Flags().BoolVar(&quick, "quick", false, "Rough estimate: bonus of 10% of income, at most 36000")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func chartCmd(a *app) *cobra.Command {
	var flags scenarioFlags
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Total tax for each separately taxed share of the bonus",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			return a.render(cmd, output.ChartReport{Input: in, Points: a.engine.ChartData(in)})
		},
	}
	flags.register(cmd)
	return cmd
}

func deductionsCmd(a *app) *cobra.Command {
	var profile profileFlags
	cmd := &cobra.Command{
		Use:   "deductions",
		Short: "Aggregate itemized deductions under the configured caps",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := profile.profile()
			if err != nil {
				return err
			}
			return a.render(cmd, output.DeductionReport{
				Items: a.engine.DeductionBreakdown(p),
				Total: a.engine.AggregateDeductions(p),
			})
		},
	}
	profile.register(cmd)
	return cmd
}

func rulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective tax rules (YAML unless --format is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				a.format = "yaml"
			}
			return a.render(cmd, a.engine.Rules)
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	var (
		kind    string
		asRules bool
	)
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a batch file, or a rules file with --rules-file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			if asRules {
				rules, err := parser.LoadRules(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: valid tax rules (data year %d, %d annual and %d bonus brackets)\n",
					args[0], rules.Metadata.DataYear, len(rules.AnnualTable.Brackets), len(rules.BonusTable.Brackets))
				return nil
			}
			input, err := parser.LoadBatch(args[0], domain.BatchKind(kind))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s batch with %d rows\n", args[0], input.Kind, input.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Batch kind ("+batchKindNames()+"); required for CSV")
	cmd.Flags().BoolVar(&asRules, "rules-file", false, "Validate the file as tax rules instead of a batch")
	return cmd
}

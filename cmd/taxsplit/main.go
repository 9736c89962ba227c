package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rgehrsitz/taxsplit/internal/calculation"
	"github.com/rgehrsitz/taxsplit/internal/config"
	"github.com/rgehrsitz/taxsplit/internal/domain"
	"github.com/rgehrsitz/taxsplit/internal/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	env       config.Environment
	rulesFile string
	format    string
	debug     bool

	logger *zap.Logger
	engine *calculation.CalculationEngine
}

// setup builds the logger and engine once flags are parsed.
func (a *app) setup(*cobra.Command, []string) error {
	logger, err := newLogger(a.env.LogLevel, a.debug)
	if err != nil {
		return err
	}
	a.logger = logger

	rules := domain.DefaultTaxRules()
	if a.rulesFile != "" {
		rules, err = config.NewInputParser().LoadRules(a.rulesFile)
		if err != nil {
			return err
		}
		logger.Info("loaded tax rules", zap.String("file", a.rulesFile), zap.Int("data_year", rules.Metadata.DataYear))
	}
	engine, err := calculation.NewCalculationEngineWithRules(rules)
	if err != nil {
		return err
	}
	engine.SetLogger(zapLogger{s: logger.Sugar()})
	engine.Debug = a.debug
	a.engine = engine
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// render writes v to the command's output in the selected format.
func (a *app) render(cmd *cobra.Command, v any) error {
	f := output.GetFormatterByName(a.format)
	if f == nil {
		return fmt.Errorf("unsupported format %q (available: %s)", a.format, strings.Join(output.AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(v)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func newRootCmd() *cobra.Command {
	a := &app{env: config.LoadEnvironment()}

	root := &cobra.Command{
		Use:   "taxsplit",
		Short: "Salary and year-end bonus tax split optimizer",
		Long: `taxsplit compares separate and combined taxation of a year-end bonus, detects
bonus cliff intervals and recommends how to split a total income between salary and
bonus to minimize tax.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	root.PersistentFlags().StringVar(&a.rulesFile, "rules", a.env.RulesFile, "Path to a tax rules YAML file (env TAXSPLIT_RULES)")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", a.env.Format,
		fmt.Sprintf("Output format (%s) (env TAXSPLIT_FORMAT)", strings.Join(output.AvailableFormatterNames(), ", ")))
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging of sweeps and cliff adjustments")

	root.AddCommand(
		evaluateCmd(a),
		cliffCmd(a),
		optimalCmd(a),
		reverseCmd(a),
		yearEndCmd(a),
		splitCmd(a),
		chartCmd(a),
		deductionsCmd(a),
		batchCmd(a),
		rulesCmd(a),
		validateCmd(a),
		tuiCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Version needs neither rules nor a logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxsplit %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func batchKindNames() string {
	names := make([]string, 0, len(domain.BatchKinds()))
	for _, k := range domain.BatchKinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

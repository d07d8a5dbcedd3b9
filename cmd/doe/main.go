// Command doe generates design of experiments configuration files from an
// input design matrix.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/doe/internal/config"
	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/fsutil"
	"github.com/banshee-data/doe/internal/idm"
	"github.com/banshee-data/doe/internal/monitoring"
	"github.com/banshee-data/doe/internal/report"
	"github.com/banshee-data/doe/internal/sink"
	"github.com/banshee-data/doe/internal/store"
)

// Exit codes.
const (
	exitError         = 1
	exitConfiguration = 2
)

type rootFlags struct {
	configPath string
	verbose    bool

	samples    int
	iterations int
	seed       int64
	input      string
	output     string
	randomize  string
	strategy   string
	offset     int
	idLabel    string
	testCount  int
	perConfig  bool
	delimiter  string
	sqlitePath string
	reportDir  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, doe.ErrConfiguration) {
			os.Exit(exitConfiguration)
		}
		os.Exit(exitError)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "doe",
		Short: "Generate a design of experiments from an input design matrix",
		Long: `doe reads parameter declarations (name, minimum, maximum, increment, type)
and writes a design point matrix: every Latin hypercube draw crossed with
the full factorial grid, with fixed and random parameters filled per row.

Types are LHD, Factorial (or Fact), FactPower, Fixed and Random.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = monitoring.NewZapLogger(f.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolveConfig(cmd)
			if err != nil {
				return err
			}
			return generate(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "run configuration file (.json, .yaml)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&f.sqlitePath, "sqlite", "", "archive runs in this SQLite database")

	fl := cmd.Flags()
	fl.IntVarP(&f.samples, "samples", "n", 100, "LHD sample size; negative multiplies the LHD factor count")
	fl.IntVarP(&f.iterations, "iterations", "i", 10, "LHD optimisation iterations")
	fl.Int64VarP(&f.seed, "seed", "s", 42, "random seed")
	fl.StringVarP(&f.input, "input", "f", "input/ExampleIDM.tsv", "input design matrix (.tsv, .yaml)")
	fl.StringVarP(&f.output, "output", "o", "DOE/DPM.tsv", "output file")
	fl.StringVarP(&f.randomize, "randomize", "r", "Yes", "shuffle the configuration order (Yes/No)")
	fl.StringVar(&f.strategy, "strategy", string(doe.StrategyAuto), "LHD criterion: auto, none, center, maximin, centermaximin, correlation")
	fl.IntVar(&f.offset, "offset", 0, "added to every ConfigID")
	fl.StringVar(&f.idLabel, "id-label", doe.DefaultIDLabel, "header of the ConfigID column")
	fl.IntVar(&f.testCount, "test", 0, "write only this many configurations")
	fl.BoolVar(&f.perConfig, "per-config", false, "write one file per configuration")
	fl.StringVar(&f.delimiter, "delimiter", "\t", "output field delimiter")
	fl.StringVar(&f.reportDir, "report", "", "write an HTML report and scatter plots to this directory")

	cmd.AddCommand(newHistoryCmd(f), newVersionCmd())
	return cmd
}

// resolveConfig layers defaults, the optional config file and explicitly
// set flags, in that order.
func (f *rootFlags) resolveConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	cfg := config.EmptyRunConfig()
	if f.configPath != "" {
		fileCfg, err := config.LoadRunConfig(f.configPath)
		if err != nil {
			return nil, errors.Mark(err, doe.ErrConfiguration)
		}
		cfg.Merge(fileCfg)
	}

	flags := cmd.Flags()
	override := config.EmptyRunConfig()
	if flags.Changed("samples") {
		override.LHDSamples = &f.samples
	}
	if flags.Changed("iterations") {
		override.LHDIterations = &f.iterations
	}
	if flags.Changed("seed") {
		override.Seed = &f.seed
	}
	if flags.Changed("input") {
		override.Input = &f.input
	}
	if flags.Changed("output") {
		override.Output = &f.output
	}
	if flags.Changed("randomize") {
		r, err := parseYesNo(f.randomize)
		if err != nil {
			return nil, err
		}
		override.Randomize = &r
	}
	if flags.Changed("strategy") {
		override.Strategy = &f.strategy
	}
	if flags.Changed("offset") {
		override.IDOffset = &f.offset
	}
	if flags.Changed("id-label") {
		override.IDLabel = &f.idLabel
	}
	if flags.Changed("test") {
		override.TestCount = &f.testCount
	}
	if flags.Changed("per-config") {
		override.PerConfig = &f.perConfig
	}
	if flags.Changed("delimiter") {
		override.Delimiter = &f.delimiter
	}
	if flags.Changed("sqlite") {
		override.SQLitePath = &f.sqlitePath
	}
	if flags.Changed("report") {
		override.ReportDir = &f.reportDir
	}
	cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Mark(err, doe.ErrConfiguration)
	}
	return cfg, nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	}
	return false, errors.Mark(errors.Newf("randomize must be Yes or No, got %q", s), doe.ErrConfiguration)
}

// generate runs one design build and hands the result to every configured
// sink.
func generate(ctx context.Context, out io.Writer, cfg *config.RunConfig) error {
	fs := fsutil.OSFileSystem{}

	params, err := idm.Load(fs, cfg.GetInput())
	if err != nil {
		return err
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return err
	}
	d, err := doe.Build(ctx, params, opts)
	if err != nil {
		return err
	}

	w, err := sink.NewWriter(fs, cfg.GetDelimiter())
	if err != nil {
		return errors.Mark(err, doe.ErrConfiguration)
	}
	if cfg.GetPerConfig() {
		if _, err := w.WritePerConfig(cfg.GetOutput(), d); err != nil {
			return err
		}
	} else {
		if err := w.WriteAggregate(cfg.GetOutput(), d); err != nil {
			return err
		}
		monitoring.Logf("wrote %d configurations to %s", len(d.Selection()), cfg.GetOutput())
	}

	if path := cfg.GetSQLitePath(); path != "" {
		s, err := store.Open(path)
		if err != nil {
			return err
		}
		defer s.Close()
		id, err := s.SaveRun(ctx, d, opts)
		if err != nil {
			return err
		}
		monitoring.Logf("archived run %s in %s", id, path)
	}

	if dir := cfg.GetReportDir(); dir != "" {
		paths, err := report.WriteReport(fs, dir, d)
		if err != nil {
			return err
		}
		monitoring.Logf("wrote %d report files to %s", len(paths), dir)
	}

	printSummary(out, d)
	return nil
}

func printSummary(out io.Writer, d *doe.Design) {
	s := d.Summary()
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Design summary")
	t.AppendHeader(table.Row{"Item", "Value"})
	t.AppendRows([]table.Row{
		{"Parameters", s.Parameters},
		{"LHD factors", s.LHDFactors},
		{"LHD samples", s.LHDSamples},
		{"Factorial factors", s.FactorialFactors},
		{"Factorial configurations", s.FactorialConfigs},
		{"Fixed factors", s.FixedFactors},
		{"Random factors", s.RandomFactors},
		{"Configurations", s.Configurations},
		{"Written", len(d.Selection())},
	})
	if s.LHDFactors > 0 {
		t.AppendRow(table.Row{"Strategy", s.Strategy})
		t.AppendRow(table.Row{"Iterations", s.Iterations})
	}
	t.AppendRow(table.Row{"Randomized", s.Randomized})
	t.Render()

	for _, w := range d.Warnings() {
		fmt.Fprintf(out, "WARNING: %s\n", w)
	}
}

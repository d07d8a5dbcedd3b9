package doe

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/doe/internal/doe/lhs"
	"github.com/banshee-data/doe/internal/monitoring"
)

// DefaultIDLabel is the header of the ConfigID column.
const DefaultIDLabel = "ConfigID"

// Options controls one design build.
type Options struct {
	// Seed initialises the run source when Source is nil.
	Seed int64
	// Source, when set, is used for every random draw of the run.
	Source rand.Source
	// LHDSamples is the number of LHD draws. Negative values multiply the
	// LHD factor count.
	LHDSamples int
	// Strategy is an lhs criterion or StrategyAuto.
	Strategy lhs.Criterion
	// Iterations is the candidate count for optimising criteria.
	Iterations int
	Randomize  bool
	IDOffset   int
	// TestCount, when positive, limits the rows handed to sinks.
	TestCount int
	// PerConfig selects per-configuration output, which changes how the
	// test subset is chosen.
	PerConfig bool
	IDLabel   string
}

// Summary describes the shape of a built design.
type Summary struct {
	Parameters       int
	LHDFactors       int
	LHDSamples       int
	FactorialFactors int
	FactorialConfigs int
	FixedFactors     int
	RandomFactors    int
	Configurations   int
	Strategy         lhs.Criterion
	Iterations       int
	Randomized       bool
}

// NewSource returns the run source for a seed.
func NewSource(seed int64) rand.Source {
	s := uint64(seed)
	return rand.NewPCG(s, s^0x9e3779b97f4a7c15)
}

// Build generates the design point matrix for params. Random draws happen in
// a fixed order: LHD candidates, Random columns in row-major order, the row
// shuffle, then the per-config test subset. Every configuration problem is
// reported before the first draw.
func Build(ctx context.Context, params []RawParameter, opts Options) (*Design, error) {
	reg, err := NewRegistry(params)
	if err != nil {
		return nil, err
	}
	if opts.IDLabel == "" {
		opts.IDLabel = DefaultIDLabel
	}
	if opts.TestCount < 0 {
		return nil, configErrorf("test count must not be negative, got %d", opts.TestCount)
	}

	lhdParams := reg.ByKind(KindLHD)
	samples := ResolveSampleCount(opts.LHDSamples, len(lhdParams))
	switch {
	case len(lhdParams) == 0 && samples > 0:
		return nil, configErrorf("%d LHD samples requested but no parameter has kind LHD", samples)
	case len(lhdParams) > 0 && samples == 0:
		return nil, configErrorf("%d parameters have kind LHD but the LHD sample size is 0", len(lhdParams))
	}

	var warnings []Warning
	var axes []FactorialAxis
	for _, p := range reg.ByKind(KindFactorial, KindFactPower) {
		axis, w, err := NewFactorialAxis(p)
		if err != nil {
			return nil, err
		}
		axes = append(axes, axis)
		warnings = append(warnings, w...)
	}

	criterion, iterations := ChooseStrategy(opts.Strategy, samples, len(lhdParams), opts.Iterations)
	if len(lhdParams) > 0 {
		switch criterion {
		case lhs.None, lhs.Center, lhs.Maximin, lhs.CenterMaximin, lhs.Correlation:
		default:
			return nil, configErrorf("unknown sampling criterion %q", criterion)
		}
	}

	if _, err := designSize(axes, samples); err != nil {
		return nil, err
	}

	src := opts.Source
	if src == nil {
		src = NewSource(opts.Seed)
	}
	rng := rand.New(src)

	// Only the LHD sampler draws from the source here, so running the two
	// builders concurrently keeps the draw order fixed.
	var table *FactorialTable
	var lhdMatrix *mat.Dense
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		table, err = BuildFactorialTable(axes)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		lhdMatrix, err = SampleLHD(rng, lhdParams, samples, criterion, iterations)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	unit := &distuv.Uniform{Min: 0, Max: 1, Src: src}
	dpm, err := Assemble(ctx, reg, table, lhdMatrix, unit)
	if err != nil {
		return nil, err
	}
	Order(dpm, rng, opts.Randomize, opts.IDOffset)

	rows, _ := dpm.Dims()
	d := &Design{
		registry: reg,
		matrix:   dpm,
		header:   reg.Header(opts.IDLabel),
		warnings: warnings,
		summary: Summary{
			Parameters:       reg.Len(),
			LHDFactors:       len(lhdParams),
			LHDSamples:       samples,
			FactorialFactors: len(axes),
			FactorialConfigs: table.Rows(),
			FixedFactors:     reg.Count(KindFixed),
			RandomFactors:    reg.Count(KindRandom),
			Configurations:   rows,
			Randomized:       opts.Randomize,
		},
	}
	if len(lhdParams) > 0 {
		d.summary.Strategy = criterion
		d.summary.Iterations = iterations
	}
	d.selection = selectRows(rng, rows, opts.TestCount, opts.PerConfig)

	monitoring.Logf("Factorial design with %d factors and %d configurations", d.summary.FactorialFactors, d.summary.FactorialConfigs)
	if d.summary.LHDFactors > 0 {
		monitoring.Logf("Latin hypercube design with %d factors and %d design points, strategy %s with %d iterations",
			d.summary.LHDFactors, d.summary.LHDSamples, d.summary.Strategy, d.summary.Iterations)
	}
	monitoring.Logf("Overall sample size is %d", rows)
	for _, w := range warnings {
		monitoring.Warnf("%s", w)
	}
	return d, nil
}

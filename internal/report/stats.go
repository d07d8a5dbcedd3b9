// Package report renders visual summaries of a design: pairwise scatter
// plots of the Latin hypercube columns and an HTML page of per-parameter
// histograms.
package report

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/doe/internal/doe"
)

const maxHistogramBins = 20

// ColumnStats summarises one parameter column of the full design.
type ColumnStats struct {
	Name string
	Kind doe.Kind
	Min  float64
	Max  float64
	Mean float64
	// StdDev is zero for constant columns.
	StdDev float64
}

// Summarize returns the statistics of every parameter column in declaration
// order.
func Summarize(d *doe.Design) []ColumnStats {
	params := d.Registry().Params()
	out := make([]ColumnStats, 0, len(params))
	for _, p := range params {
		col, _ := d.Column(p.Name)
		cs := ColumnStats{Name: p.Name, Kind: p.Kind}
		if len(col) > 0 {
			cs.Min = floats.Min(col)
			cs.Max = floats.Max(col)
			cs.Mean, cs.StdDev = stat.MeanStdDev(col, nil)
			if len(col) < 2 || math.IsNaN(cs.StdDev) {
				cs.StdDev = 0
			}
		}
		out = append(out, cs)
	}
	return out
}

// Histogram bins values into at most maxHistogramBins equal-width bins and
// returns the lower edge of each bin with its count.
func Histogram(values []float64) (edges, counts []float64) {
	if len(values) == 0 {
		return nil, nil
	}
	x := slices.Clone(values)
	slices.Sort(x)
	lo, hi := x[0], x[len(x)-1]

	bins := int(math.Ceil(math.Sqrt(float64(len(x)))))
	bins = min(max(bins, 1), maxHistogramBins)
	if lo == hi {
		bins = 1
	}

	dividers := make([]float64, bins+1)
	if bins == 1 {
		dividers[0] = lo
	} else {
		floats.Span(dividers, lo, hi)
	}
	// The last divider is exclusive, so nudge it past the maximum.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, x, nil)
	return dividers[:bins], counts
}

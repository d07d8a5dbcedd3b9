// Package lhs generates Latin hypercube samples on the unit cube.
//
// A sample of n points in d dimensions places exactly one point in each of
// the n equal strata of every dimension. Optimising criteria draw several
// candidate designs and keep the best one, so the amount of randomness
// consumed depends on the criterion and the iteration count.
package lhs

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Criterion selects how candidate designs are generated and ranked.
type Criterion string

const (
	// None draws one random point inside each stratum, no optimisation.
	None Criterion = "none"
	// Center places each point at its stratum midpoint.
	Center Criterion = "center"
	// Maximin keeps the candidate with the largest minimum pairwise distance.
	Maximin Criterion = "maximin"
	// CenterMaximin is Maximin over centered candidates.
	CenterMaximin Criterion = "centermaximin"
	// Correlation keeps the candidate with the smallest maximum absolute
	// pairwise column correlation.
	Correlation Criterion = "correlation"
)

// ParseCriterion accepts the criterion names and their short aliases.
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "classic":
		return None, nil
	case "center", "c":
		return Center, nil
	case "maximin", "m":
		return Maximin, nil
	case "centermaximin", "cm":
		return CenterMaximin, nil
	case "correlation", "corr":
		return Correlation, nil
	}
	return "", fmt.Errorf("unknown sampling criterion %q", s)
}

// Options describes one sampling request.
type Options struct {
	Samples    int
	Factors    int
	Criterion  Criterion
	Iterations int
}

// Generate returns a Samples × Factors design with every value in [0,1).
// All randomness is drawn from rng.
func Generate(rng *rand.Rand, opts Options) (*mat.Dense, error) {
	if opts.Samples < 1 || opts.Factors < 1 {
		return nil, fmt.Errorf("latin hypercube needs at least one sample and one factor, got %d×%d", opts.Samples, opts.Factors)
	}
	iterations := opts.Iterations
	if iterations < 1 {
		iterations = 1
	}

	n, d := opts.Samples, opts.Factors
	switch opts.Criterion {
	case None:
		return classic(rng, n, d), nil
	case Center:
		return centered(rng, n, d), nil
	case Maximin:
		return best(iterations, func() *mat.Dense { return classic(rng, n, d) }, minDistance, true), nil
	case CenterMaximin:
		return best(iterations, func() *mat.Dense { return centered(rng, n, d) }, minDistance, true), nil
	case Correlation:
		return best(iterations, func() *mat.Dense { return classic(rng, n, d) }, maxCorrelation, false), nil
	}
	return nil, fmt.Errorf("unknown sampling criterion %q", opts.Criterion)
}

// classic draws u in row-major order, maps row r of u into stratum r, and
// then permutes every column independently.
func classic(rng *rand.Rand, n, d int) *mat.Dense {
	u := make([]float64, n*d)
	for i := range u {
		u[i] = rng.Float64()
	}
	width := 1 / float64(n)
	h := mat.NewDense(n, d, nil)
	for c := 0; c < d; c++ {
		order := rng.Perm(n)
		for r, src := range order {
			h.Set(r, c, u[src*d+c]*width+float64(src)*width)
		}
	}
	return h
}

// centered consumes the same uniform block as classic so that both variants
// advance the random stream identically, then uses stratum midpoints.
func centered(rng *rand.Rand, n, d int) *mat.Dense {
	for i := 0; i < n*d; i++ {
		rng.Float64()
	}
	width := 1 / float64(n)
	h := mat.NewDense(n, d, nil)
	for c := 0; c < d; c++ {
		order := rng.Perm(n)
		for r, src := range order {
			h.Set(r, c, (float64(src)+0.5)*width)
		}
	}
	return h
}

// best draws iterations candidates and keeps the one with the best score.
// The first candidate is kept unless a later one is strictly better.
func best(iterations int, draw func() *mat.Dense, score func(*mat.Dense) float64, maximise bool) *mat.Dense {
	var keep *mat.Dense
	var keepScore float64
	for i := 0; i < iterations; i++ {
		cand := draw()
		s := score(cand)
		if keep == nil || (maximise && s > keepScore) || (!maximise && s < keepScore) {
			keep, keepScore = cand, s
		}
	}
	return keep
}

// minDistance is the smallest Euclidean distance between any two rows.
func minDistance(h *mat.Dense) float64 {
	n, _ := h.Dims()
	if n < 2 {
		return 0
	}
	min := math.Inf(1)
	for i := 0; i < n; i++ {
		ri := h.RawRowView(i)
		for j := i + 1; j < n; j++ {
			if dist := floats.Distance(ri, h.RawRowView(j), 2); dist < min {
				min = dist
			}
		}
	}
	return min
}

// maxCorrelation is the largest absolute Pearson correlation between two columns.
func maxCorrelation(h *mat.Dense) float64 {
	n, d := h.Dims()
	if n < 2 || d < 2 {
		return 0
	}
	cols := make([][]float64, d)
	for c := range cols {
		cols[c] = mat.Col(nil, c, h)
	}
	var max float64
	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			r := math.Abs(stat.Correlation(cols[i], cols[j], nil))
			if math.IsNaN(r) {
				continue
			}
			if r > max {
				max = r
			}
		}
	}
	return max
}

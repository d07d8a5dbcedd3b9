package doe

import (
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/doe/internal/doe/lhs"
)

// StrategyAuto lets the sampler pick a criterion from the sample/factor ratio.
const StrategyAuto lhs.Criterion = "auto"

// centerMaximinRatio is the samples-per-factor ratio above which the
// correlation criterion is replaced by the cheaper centered maximin.
const centerMaximinRatio = 30

// ParseStrategy accepts "auto" (or empty) and every lhs criterion name.
func ParseStrategy(s string) (lhs.Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(StrategyAuto):
		return StrategyAuto, nil
	}
	c, err := lhs.ParseCriterion(s)
	if err != nil {
		return "", configErrorf("%v", err)
	}
	return c, nil
}

// ChooseStrategy resolves the criterion and iteration count for one run.
// An explicit criterion is used as given. With StrategyAuto, designs with
// more than 30 samples per factor use centered maximin with a tenth of the
// iterations (at least 2); smaller designs minimise correlation with the
// full iteration count.
func ChooseStrategy(requested lhs.Criterion, samples, factors, iterations int) (lhs.Criterion, int) {
	if requested != StrategyAuto && requested != "" {
		return requested, iterations
	}
	if factors > 0 && float64(samples)/float64(factors) > centerMaximinRatio {
		return lhs.CenterMaximin, int(math.Max(2, math.Floor(float64(iterations)/10)))
	}
	return lhs.Correlation, iterations
}

// ResolveSampleCount turns the requested LHD sample count into an absolute
// one. A negative request is a multiplier of the factor count, rounded half
// away from zero.
func ResolveSampleCount(requested, factors int) int {
	if requested >= 0 {
		return requested
	}
	return int(math.Round(float64(-requested) * float64(factors)))
}

// SampleLHD draws the raw unit-cube design for the LHD parameters and rescales
// it to their bounds. It returns nil when there are no LHD parameters.
func SampleLHD(rng *rand.Rand, params []ParameterSpec, samples int, criterion lhs.Criterion, iterations int) (*mat.Dense, error) {
	if len(params) == 0 {
		return nil, nil
	}
	raw, err := lhs.Generate(rng, lhs.Options{
		Samples:    samples,
		Factors:    len(params),
		Criterion:  criterion,
		Iterations: iterations,
	})
	if err != nil {
		return nil, configErrorf("%v", err)
	}
	RescaleLHD(raw, params)
	return raw, nil
}

// RescaleLHD maps every column of a unit-cube design onto its parameter's
// bounds and snaps it to the parameter's increment, in place.
func RescaleLHD(m *mat.Dense, params []ParameterSpec) {
	rows, _ := m.Dims()
	for c, p := range params {
		for r := 0; r < rows; r++ {
			m.Set(r, c, rescale(m.At(r, c), p))
		}
	}
}

// rescale applies round((raw*(max-min)+min)/inc)*inc. A snapped value that
// overshoots a bound by rounding is moved one increment back inside. The
// result is rounded to the increment's decimal places and never leaves
// [min, max].
func rescale(raw float64, p ParameterSpec) float64 {
	v := math.Round((raw*(p.Max-p.Min)+p.Min)/p.Increment) * p.Increment
	tol := boundaryTolerance(p.Max, p.Increment)
	if v > p.Max+tol {
		v -= p.Increment
	}
	if v < p.Min-tol {
		v += p.Increment
	}
	return clamp(roundDecimals(clamp(v, p), decimalPlaces(p.Increment)), p)
}

package lhs

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// assertStratified checks that every column has exactly one point per stratum.
func assertStratified(t *testing.T, h *mat.Dense) {
	t.Helper()
	n, d := h.Dims()
	for c := 0; c < d; c++ {
		seen := make([]bool, n)
		for r := 0; r < n; r++ {
			v := h.At(r, c)
			if v < 0 || v >= 1 {
				t.Fatalf("value %v at (%d,%d) outside [0,1)", v, r, c)
			}
			s := int(math.Floor(v * float64(n)))
			if seen[s] {
				t.Fatalf("column %d has two points in stratum %d", c, s)
			}
			seen[s] = true
		}
	}
}

func TestGenerate_Stratified(t *testing.T) {
	criteria := []Criterion{None, Center, Maximin, CenterMaximin, Correlation}
	for _, c := range criteria {
		t.Run(string(c), func(t *testing.T) {
			h, err := Generate(newRand(42), Options{Samples: 12, Factors: 3, Criterion: c, Iterations: 5})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			r, cols := h.Dims()
			if r != 12 || cols != 3 {
				t.Fatalf("dims = %dx%d, want 12x3", r, cols)
			}
			assertStratified(t, h)
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	opts := Options{Samples: 20, Factors: 4, Criterion: Correlation, Iterations: 10}
	a, err := Generate(newRand(7), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(newRand(7), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mat.Equal(a, b) {
		t.Error("same seed produced different designs")
	}
	c, _ := Generate(newRand(8), opts)
	if mat.Equal(a, c) {
		t.Error("different seeds produced identical designs")
	}
}

func TestGenerate_CenteredUsesMidpoints(t *testing.T) {
	h, err := Generate(newRand(1), Options{Samples: 4, Factors: 2, Criterion: Center})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	valid := map[float64]bool{0.125: true, 0.375: true, 0.625: true, 0.875: true}
	n, d := h.Dims()
	for r := 0; r < n; r++ {
		for c := 0; c < d; c++ {
			if !valid[h.At(r, c)] {
				t.Errorf("value %v at (%d,%d) is not a stratum midpoint", h.At(r, c), r, c)
			}
		}
	}
}

func TestGenerate_OptimisedCriteriaImproveOnFirstCandidate(t *testing.T) {
	opts := Options{Samples: 10, Factors: 3, Iterations: 1}

	opts.Criterion = Correlation
	single, _ := Generate(newRand(3), opts)
	opts.Iterations = 50
	many, _ := Generate(newRand(3), opts)
	if maxCorrelation(many) > maxCorrelation(single) {
		t.Errorf("correlation with 50 candidates %v worse than with 1 (%v)", maxCorrelation(many), maxCorrelation(single))
	}

	opts.Criterion = Maximin
	opts.Iterations = 1
	single, _ = Generate(newRand(3), opts)
	opts.Iterations = 50
	many, _ = Generate(newRand(3), opts)
	if minDistance(many) < minDistance(single) {
		t.Errorf("min distance with 50 candidates %v worse than with 1 (%v)", minDistance(many), minDistance(single))
	}
}

func TestGenerate_SingleSample(t *testing.T) {
	for _, c := range []Criterion{Maximin, CenterMaximin, Correlation} {
		h, err := Generate(newRand(1), Options{Samples: 1, Factors: 2, Criterion: c, Iterations: 3})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c, err)
		}
		assertStratified(t, h)
	}
}

func TestGenerate_Errors(t *testing.T) {
	testCases := []struct {
		name string
		opts Options
	}{
		{"no_samples", Options{Samples: 0, Factors: 1, Criterion: None}},
		{"no_factors", Options{Samples: 3, Factors: 0, Criterion: None}},
		{"unknown_criterion", Options{Samples: 3, Factors: 1, Criterion: "bogus"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Generate(newRand(1), tc.opts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseCriterion(t *testing.T) {
	testCases := []struct {
		input     string
		expected  Criterion
		expectErr bool
	}{
		{"none", None, false},
		{"corr", Correlation, false},
		{" Correlation ", Correlation, false},
		{"cm", CenterMaximin, false},
		{"centermaximin", CenterMaximin, false},
		{"m", Maximin, false},
		{"c", Center, false},
		{"bogus", "", true},
	}
	for _, tc := range testCases {
		got, err := ParseCriterion(tc.input)
		if tc.expectErr {
			if err == nil {
				t.Errorf("ParseCriterion(%q) expected error", tc.input)
			}
			continue
		}
		if err != nil || got != tc.expected {
			t.Errorf("ParseCriterion(%q) = %q, %v; want %q", tc.input, got, err, tc.expected)
		}
	}
}

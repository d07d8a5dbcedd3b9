// Package testutil provides shared test fixtures for packages that consume
// designs.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/monitoring"
)

// ExampleIDM is the tab-separated form of ExampleParameters, matching
// input/ExampleIDM.tsv.
const ExampleIDM = "Parameter\tMinimum\tMaximum\tIncrement\tType\n" +
	"n_Agents\t10\t10000\t1\tLHD\n" +
	"p_crowded\t0.01\t.99\t0.2\tFactorial\n" +
	"seed\t1\t2147483647\t1\tRandom\n" +
	"Lambda\t0.1\t0.9\t0.4\tFixed\n" +
	"beta\t10\t10000\t10\tFactPower\n"

// ExampleParameters returns one parameter of every kind.
func ExampleParameters() []doe.RawParameter {
	return []doe.RawParameter{
		{Name: "n_Agents", Min: 10, Max: 10000, Increment: 1, Kind: "LHD"},
		{Name: "p_crowded", Min: 0.01, Max: 0.99, Increment: 0.2, Kind: "Factorial"},
		{Name: "seed", Min: 1, Max: 2147483647, Increment: 1, Kind: "Random"},
		{Name: "Lambda", Min: 0.1, Max: 0.9, Increment: 0.4, Kind: "Fixed"},
		{Name: "beta", Min: 10, Max: 10000, Increment: 10, Kind: "FactPower"},
	}
}

// Quiet mutes the monitoring loggers for the rest of the test.
func Quiet(t testing.TB) {
	t.Helper()
	logf, warnf := monitoring.Logf, monitoring.Warnf
	monitoring.SetLogger(nil)
	monitoring.SetWarnLogger(nil)
	t.Cleanup(func() {
		monitoring.Logf, monitoring.Warnf = logf, warnf
	})
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertInRange fails the test if any value lies outside [lo, hi].
func AssertInRange(t testing.TB, name string, values []float64, lo, hi float64) {
	t.Helper()
	for i, v := range values {
		if v < lo || v > hi {
			t.Errorf("%s[%d] = %v outside [%v, %v]", name, i, v, lo, hi)
		}
	}
}

// AssertOnGrid fails the test if any value is not min plus a whole number of
// increments, within tol.
func AssertOnGrid(t testing.TB, name string, values []float64, min, inc, tol float64) {
	t.Helper()
	for i, v := range values {
		k := (v - min) / inc
		if math.Abs(k-math.Round(k)) > tol {
			t.Errorf("%s[%d] = %v is not on the %v grid from %v", name, i, v, inc, min)
		}
	}
}

package testutil

import (
	"context"
	"testing"

	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/monitoring"
)

func TestQuiet(t *testing.T) {
	called := false
	monitoring.SetLogger(func(string, ...interface{}) { called = true })
	defer monitoring.SetLogger(nil)

	t.Run("muted", func(t *testing.T) {
		Quiet(t)
		monitoring.Logf("hidden")
	})
	if called {
		t.Error("Quiet did not mute Logf")
	}

	monitoring.Logf("visible")
	if !called {
		t.Error("Quiet did not restore Logf")
	}
}

func TestExampleParametersBuild(t *testing.T) {
	Quiet(t)
	d, err := doe.Build(context.Background(), ExampleParameters(), doe.Options{Seed: 1, LHDSamples: 2, Iterations: 1})
	AssertNoError(t, err)
	if d.Len() == 0 {
		t.Fatal("empty design")
	}

	col, _ := d.Column("n_Agents")
	AssertInRange(t, "n_Agents", col, 10, 10000)
	AssertOnGrid(t, "n_Agents", col, 10, 1, 1e-9)

	lambda, _ := d.Column("Lambda")
	AssertInRange(t, "Lambda", lambda, 0.1, 0.1)
}

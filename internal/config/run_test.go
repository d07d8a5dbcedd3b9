package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/doe/lhs"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()

	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Errorf("Expected Seed 42, got %v", cfg.Seed)
	}
	if cfg.LHDSamples == nil || *cfg.LHDSamples != 100 {
		t.Errorf("Expected LHDSamples 100, got %v", cfg.LHDSamples)
	}
	if cfg.Randomize == nil || *cfg.Randomize != true {
		t.Errorf("Expected Randomize true, got %v", cfg.Randomize)
	}
	if cfg.GetStrategy() != "auto" {
		t.Errorf("GetStrategy() = %q, want auto", cfg.GetStrategy())
	}
	if cfg.GetDelimiter() != "\t" {
		t.Errorf("GetDelimiter() = %q, want tab", cfg.GetDelimiter())
	}
	if cfg.GetIDLabel() != "ConfigID" {
		t.Errorf("GetIDLabel() = %q, want ConfigID", cfg.GetIDLabel())
	}
	if cfg.GetOutput() != filepath.Join("DOE", "DPM.tsv") {
		t.Errorf("GetOutput() = %q", cfg.GetOutput())
	}
}

func TestLoadRunConfig_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.json")

	testJSON := `{
  "seed": 7,
  "lhd_samples": -2,
  "strategy": "corr",
  "randomize": false,
  "id_offset": 500
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadRunConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GetSeed() != 7 {
		t.Errorf("GetSeed() = %d, want 7", cfg.GetSeed())
	}
	if cfg.GetLHDSamples() != -2 {
		t.Errorf("GetLHDSamples() = %d, want -2", cfg.GetLHDSamples())
	}
	if cfg.GetRandomize() {
		t.Error("GetRandomize() = true, want false")
	}
	// Omitted fields fall back to defaults.
	if cfg.GetLHDIterations() != 10 {
		t.Errorf("GetLHDIterations() = %d, want 10", cfg.GetLHDIterations())
	}

	opts, err := cfg.BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions() error: %v", err)
	}
	if opts.Strategy != lhs.Correlation || opts.IDOffset != 500 || opts.Seed != 7 {
		t.Errorf("BuildOptions() = %+v", opts)
	}
}

func TestLoadRunConfig_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.yaml")

	testYAML := "seed: 3\nlhd_iterations: 20\nper_config: true\ntest_count: 5\nid_label: ABMAT_ConfigID\n"
	if err := os.WriteFile(configPath, []byte(testYAML), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadRunConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GetSeed() != 3 || cfg.GetLHDIterations() != 20 || !cfg.GetPerConfig() || cfg.GetTestCount() != 5 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.GetIDLabel() != "ABMAT_ConfigID" {
		t.Errorf("GetIDLabel() = %q", cfg.GetIDLabel())
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions() error: %v", err)
	}
	if opts.Strategy != doe.StrategyAuto {
		t.Errorf("Strategy = %q, want auto", opts.Strategy)
	}
}

func TestLoadRunConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	testCases := []struct {
		name     string
		filename string
		content  string
	}{
		{"wrong_extension", "run.txt", "{}"},
		{"invalid_json", "bad.json", "{not json"},
		{"invalid_yaml", "bad.yaml", "seed: [1, 2"},
		{"bad_strategy", "strategy.json", `{"strategy": "sobol"}`},
		{"zero_iterations", "iter.json", `{"lhd_iterations": 0}`},
		{"negative_test_count", "test.json", `{"test_count": -1}`},
		{"long_delimiter", "delim.json", `{"delimiter": "ab"}`},
		{"blank_id_label", "label.json", `{"id_label": "  "}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tc.filename)
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			if _, err := LoadRunConfig(path); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}

	if _, err := LoadRunConfig(filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultRunConfig()
	override := EmptyRunConfig()
	override.Seed = ptrInt64(99)
	override.Output = ptrString("out/dpm.csv")

	base.Merge(override)
	base.Merge(nil)

	if base.GetSeed() != 99 {
		t.Errorf("GetSeed() = %d, want 99", base.GetSeed())
	}
	if base.GetOutput() != "out/dpm.csv" {
		t.Errorf("GetOutput() = %q", base.GetOutput())
	}
	if base.GetLHDSamples() != 100 {
		t.Errorf("GetLHDSamples() = %d, want unchanged 100", base.GetLHDSamples())
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	defaults := DefaultRunConfig()
	if cfg.GetSeed() != defaults.GetSeed() || cfg.GetLHDSamples() != defaults.GetLHDSamples() {
		t.Errorf("defaults file disagrees with built-in defaults: %+v", cfg)
	}
	if cfg.GetDelimiter() != "\t" {
		t.Errorf("defaults file delimiter = %q", cfg.GetDelimiter())
	}
}

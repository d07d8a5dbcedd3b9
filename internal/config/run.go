package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/doe/internal/doe"
)

// DefaultConfigPath is the path to the canonical run defaults file.
const DefaultConfigPath = "config/doe.defaults.json"

// RunConfig holds the settings of one design generation run. Fields are
// pointers so that a partial file only overrides what it names; the Get*
// methods supply defaults for everything else.
type RunConfig struct {
	Seed          *int64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	LHDSamples    *int    `json:"lhd_samples,omitempty" yaml:"lhd_samples,omitempty"`
	LHDIterations *int    `json:"lhd_iterations,omitempty" yaml:"lhd_iterations,omitempty"`
	Strategy      *string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Randomize     *bool   `json:"randomize,omitempty" yaml:"randomize,omitempty"`
	IDOffset      *int    `json:"id_offset,omitempty" yaml:"id_offset,omitempty"`
	IDLabel       *string `json:"id_label,omitempty" yaml:"id_label,omitempty"`
	TestCount     *int    `json:"test_count,omitempty" yaml:"test_count,omitempty"`
	PerConfig     *bool   `json:"per_config,omitempty" yaml:"per_config,omitempty"`

	// I/O
	Input      *string `json:"input,omitempty" yaml:"input,omitempty"`
	Output     *string `json:"output,omitempty" yaml:"output,omitempty"`
	Delimiter  *string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"`
	SQLitePath *string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	ReportDir  *string `json:"report_dir,omitempty" yaml:"report_dir,omitempty"`
}

// Helper functions to create pointers
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }
func ptrInt64(v int64) *int64    { return &v }

// EmptyRunConfig returns a RunConfig with all fields set to nil.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// DefaultRunConfig returns a RunConfig with every field set to its default.
func DefaultRunConfig() *RunConfig {
	empty := EmptyRunConfig()
	return &RunConfig{
		Seed:          ptrInt64(empty.GetSeed()),
		LHDSamples:    ptrInt(empty.GetLHDSamples()),
		LHDIterations: ptrInt(empty.GetLHDIterations()),
		Strategy:      ptrString(empty.GetStrategy()),
		Randomize:     ptrBool(empty.GetRandomize()),
		IDOffset:      ptrInt(empty.GetIDOffset()),
		IDLabel:       ptrString(empty.GetIDLabel()),
		TestCount:     ptrInt(empty.GetTestCount()),
		PerConfig:     ptrBool(empty.GetPerConfig()),
		Input:         ptrString(empty.GetInput()),
		Output:        ptrString(empty.GetOutput()),
		Delimiter:     ptrString(empty.GetDelimiter()),
		SQLitePath:    ptrString(empty.GetSQLitePath()),
		ReportDir:     ptrString(empty.GetReportDir()),
	}
}

// LoadRunConfig loads a RunConfig from a .json, .yaml or .yml file.
// Fields omitted from the file retain their default values, so partial
// configs are safe.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical run defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *RunConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,    // from cmd/doe/
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadRunConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *RunConfig) Validate() error {
	if c.LHDIterations != nil && *c.LHDIterations < 1 {
		return fmt.Errorf("lhd_iterations must be at least 1, got %d", *c.LHDIterations)
	}
	if c.Strategy != nil {
		if _, err := doe.ParseStrategy(*c.Strategy); err != nil {
			return fmt.Errorf("invalid strategy %q: %w", *c.Strategy, err)
		}
	}
	if c.TestCount != nil && *c.TestCount < 0 {
		return fmt.Errorf("test_count must be non-negative, got %d", *c.TestCount)
	}
	if c.Delimiter != nil && len([]rune(*c.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", *c.Delimiter)
	}
	if c.IDLabel != nil && strings.TrimSpace(*c.IDLabel) == "" {
		return fmt.Errorf("id_label must not be empty")
	}
	return nil
}

// Merge copies every field set in other over c.
func (c *RunConfig) Merge(other *RunConfig) {
	if other == nil {
		return
	}
	if other.Seed != nil {
		c.Seed = other.Seed
	}
	if other.LHDSamples != nil {
		c.LHDSamples = other.LHDSamples
	}
	if other.LHDIterations != nil {
		c.LHDIterations = other.LHDIterations
	}
	if other.Strategy != nil {
		c.Strategy = other.Strategy
	}
	if other.Randomize != nil {
		c.Randomize = other.Randomize
	}
	if other.IDOffset != nil {
		c.IDOffset = other.IDOffset
	}
	if other.IDLabel != nil {
		c.IDLabel = other.IDLabel
	}
	if other.TestCount != nil {
		c.TestCount = other.TestCount
	}
	if other.PerConfig != nil {
		c.PerConfig = other.PerConfig
	}
	if other.Input != nil {
		c.Input = other.Input
	}
	if other.Output != nil {
		c.Output = other.Output
	}
	if other.Delimiter != nil {
		c.Delimiter = other.Delimiter
	}
	if other.SQLitePath != nil {
		c.SQLitePath = other.SQLitePath
	}
	if other.ReportDir != nil {
		c.ReportDir = other.ReportDir
	}
}

// BuildOptions converts the configuration into design build options.
func (c *RunConfig) BuildOptions() (doe.Options, error) {
	strategy, err := doe.ParseStrategy(c.GetStrategy())
	if err != nil {
		return doe.Options{}, err
	}
	return doe.Options{
		Seed:       c.GetSeed(),
		LHDSamples: c.GetLHDSamples(),
		Strategy:   strategy,
		Iterations: c.GetLHDIterations(),
		Randomize:  c.GetRandomize(),
		IDOffset:   c.GetIDOffset(),
		TestCount:  c.GetTestCount(),
		PerConfig:  c.GetPerConfig(),
		IDLabel:    c.GetIDLabel(),
	}, nil
}

// GetSeed returns the seed value or the default.
func (c *RunConfig) GetSeed() int64 {
	if c.Seed == nil {
		return 42
	}
	return *c.Seed
}

// GetLHDSamples returns the lhd_samples value or the default.
func (c *RunConfig) GetLHDSamples() int {
	if c.LHDSamples == nil {
		return 100
	}
	return *c.LHDSamples
}

// GetLHDIterations returns the lhd_iterations value or the default.
func (c *RunConfig) GetLHDIterations() int {
	if c.LHDIterations == nil {
		return 10
	}
	return *c.LHDIterations
}

// GetStrategy returns the strategy value or the default.
func (c *RunConfig) GetStrategy() string {
	if c.Strategy == nil || *c.Strategy == "" {
		return string(doe.StrategyAuto)
	}
	return *c.Strategy
}

// GetRandomize returns the randomize value or the default.
func (c *RunConfig) GetRandomize() bool {
	if c.Randomize == nil {
		return true
	}
	return *c.Randomize
}

// GetIDOffset returns the id_offset value or the default.
func (c *RunConfig) GetIDOffset() int {
	if c.IDOffset == nil {
		return 0
	}
	return *c.IDOffset
}

// GetIDLabel returns the id_label value or the default.
func (c *RunConfig) GetIDLabel() string {
	if c.IDLabel == nil || *c.IDLabel == "" {
		return doe.DefaultIDLabel
	}
	return *c.IDLabel
}

// GetTestCount returns the test_count value or the default (0, disabled).
func (c *RunConfig) GetTestCount() int {
	if c.TestCount == nil {
		return 0
	}
	return *c.TestCount
}

// GetPerConfig returns the per_config value or the default.
func (c *RunConfig) GetPerConfig() bool {
	if c.PerConfig == nil {
		return false
	}
	return *c.PerConfig
}

// GetInput returns the input value or the default.
func (c *RunConfig) GetInput() string {
	if c.Input == nil || *c.Input == "" {
		return filepath.Join("input", "ExampleIDM.tsv")
	}
	return *c.Input
}

// GetOutput returns the output value or the default.
func (c *RunConfig) GetOutput() string {
	if c.Output == nil || *c.Output == "" {
		return filepath.Join("DOE", "DPM.tsv")
	}
	return *c.Output
}

// GetDelimiter returns the output field delimiter, tab by default.
func (c *RunConfig) GetDelimiter() string {
	if c.Delimiter == nil || *c.Delimiter == "" {
		return "\t"
	}
	return *c.Delimiter
}

// GetSQLitePath returns the sqlite_path value; empty disables archiving.
func (c *RunConfig) GetSQLitePath() string {
	if c.SQLitePath == nil {
		return ""
	}
	return *c.SQLitePath
}

// GetReportDir returns the report_dir value; empty disables reports.
func (c *RunConfig) GetReportDir() string {
	if c.ReportDir == nil {
		return ""
	}
	return *c.ReportDir
}

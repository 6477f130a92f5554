// Package config loads and represents the immutable scan configuration
// record consumed by the file scanner and scan engine.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/leakguard/leakguard/core/scanerr"
)

// DetectorSwitches enables or disables each detection strategy.
type DetectorSwitches struct {
	Pattern bool `yaml:"pattern"`
	Entropy bool `yaml:"entropy"`
	Context bool `yaml:"context"`
	Decoded bool `yaml:"decoded"`
}

// PatternSettings controls the pattern detector's behavior.
type PatternSettings struct {
	CaseSensitive      bool     `yaml:"case_sensitive"`
	Multiline          bool     `yaml:"multiline"`
	MaxMatches         int      `yaml:"max_matches"`
	CustomPatterns     []string `yaml:"custom_patterns"`
	CustomPatternFiles []string `yaml:"custom_pattern_files"`
}

// EntropySettings controls the entropy detector's thresholds.
type EntropySettings struct {
	Threshold       float64 `yaml:"threshold"`
	MinLength       int     `yaml:"min_length"`
	MaxLength       int     `yaml:"max_length"`
	Charset         string  `yaml:"charset"`
	SkipCommonWords bool    `yaml:"skip_common_words"`
}

// TestFileHandling controls how the context-aware detector treats findings
// inside test files.
type TestFileHandling string

// Recognized TestFileHandling values.
const (
	TestFileHandlingNormal          TestFileHandling = "normal"
	TestFileHandlingReducedSeverity TestFileHandling = "reduced_severity"
	TestFileHandlingSkip            TestFileHandling = "skip"
)

// ContextSettings controls the context-aware detector's behavior.
type ContextSettings struct {
	AnalyzeComments      bool             `yaml:"analyze_comments"`
	AnalyzeStrings       bool             `yaml:"analyze_strings"`
	AnalyzeVariableNames bool             `yaml:"analyze_variable_names"`
	TestFileHandling     TestFileHandling `yaml:"test_file_handling"`
}

// FilterSettings controls the filter chain's cheap, file-level decisions.
type FilterSettings struct {
	MaxLineLength    int      `yaml:"max_line_length"`
	SkipBinary       bool     `yaml:"skip_binary"`
	SkipEmpty        bool     `yaml:"skip_empty"`
	SkipGenerated    bool     `yaml:"skip_generated"`
	GeneratedMarkers []string `yaml:"generated_markers"`
}

// WhitelistSettings lists exclusions applied to matched secret values.
type WhitelistSettings struct {
	Paths    []string `yaml:"paths"`
	Patterns []string `yaml:"patterns"`
	Hashes   []string `yaml:"hashes"`
}

// ReportingSettings controls result presentation, independent of the engine
// itself.
type ReportingSettings struct {
	Formats     []string `yaml:"formats"`
	OutputPath  string   `yaml:"output_path"`
	Verbosity   string   `yaml:"verbosity"`
	GroupByFile bool     `yaml:"group_by_file"`
}

// PerformanceSettings controls concurrency, timeouts, and caching.
type PerformanceSettings struct {
	MaxConcurrency int    `yaml:"max_concurrency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	EnableCaching  bool   `yaml:"enable_caching"`
	CacheDirectory string `yaml:"cache_directory"`
	BatchSize      int    `yaml:"batch_size"`
}

// BuildIntegrationSettings controls how a calling build pipeline reacts to
// scan results.
type BuildIntegrationSettings struct {
	FailOnFindings   bool     `yaml:"fail_on_findings"`
	FailureThreshold string   `yaml:"failure_threshold"`
	MaxFindings      int      `yaml:"max_findings"`
	SkipOnBranches   []string `yaml:"skip_on_branches"`
}

// Configuration is the immutable record built once per scan invocation.
type Configuration struct {
	Enabled            bool     `yaml:"enabled"`
	ScanPath           string   `yaml:"scan_path"`
	IncludePatterns    []string `yaml:"include_patterns"`
	ExcludePatterns    []string `yaml:"exclude_patterns"`
	IncludedExtensions []string `yaml:"included_extensions"`
	ExcludedExtensions []string `yaml:"excluded_extensions"`
	MaxFileSize        int64    `yaml:"max_file_size"`
	FollowSymlinks     bool     `yaml:"follow_symlinks"`

	Detectors        DetectorSwitches         `yaml:"detectors"`
	Patterns         PatternSettings          `yaml:"patterns"`
	Entropy          EntropySettings          `yaml:"entropy"`
	Context          ContextSettings          `yaml:"context"`
	Filters          FilterSettings           `yaml:"filters"`
	Whitelist        WhitelistSettings        `yaml:"whitelist"`
	Reporting        ReportingSettings        `yaml:"reporting"`
	Performance      PerformanceSettings      `yaml:"performance"`
	BuildIntegration BuildIntegrationSettings `yaml:"build_integration"`

	// ConfidenceFloor is the minimum confidence a finding must have to be
	// reported.
	ConfidenceFloor float64 `yaml:"confidence_floor"`
	// FailureSeverity is the minimum severity of a finding that causes the
	// build integration to consider the scan failed.
	FailureSeverity string `yaml:"failure_severity"`
	// AllowLongLines permits scanning files containing a line longer than
	// Filters.MaxLineLength instead of rejecting the file outright.
	AllowLongLines bool `yaml:"allow_long_lines"`
	// StrictExtensions, when set, rejects any file whose extension is not in
	// IncludedExtensions (in addition to the hard-coded binary deny list).
	StrictExtensions bool `yaml:"strict_extensions"`
}

// Default returns a Configuration with conservative, broadly-useful
// defaults.
func Default() Configuration {
	return Configuration{
		Enabled:     true,
		ScanPath:    ".",
		MaxFileSize: 5 * 1024 * 1024,
		Detectors: DetectorSwitches{
			Pattern: true,
			Entropy: true,
			Context: true,
			Decoded: true,
		},
		Entropy: EntropySettings{
			Threshold: 3.5,
			MinLength: 16,
			MaxLength: 256,
		},
		Context: ContextSettings{
			AnalyzeComments:      true,
			AnalyzeStrings:       true,
			AnalyzeVariableNames: true,
			TestFileHandling:     TestFileHandlingReducedSeverity,
		},
		Filters: FilterSettings{
			MaxLineLength: 4000,
			SkipBinary:    true,
			SkipEmpty:     true,
		},
		Performance: PerformanceSettings{
			MaxConcurrency: runtime.NumCPU(),
			EnableCaching:  true,
		},
		ConfidenceFloor: 0.3,
		FailureSeverity: "high",
	}
}

// LoadFile reads and parses a YAML configuration file, applying it on top of
// Default(). If path does not exist, the default configuration is returned
// with no error.
func LoadFile(path string) (Configuration, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, scanerr.New(scanerr.KindConfiguration, path, fmt.Errorf("reading config: %w", err))
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, scanerr.New(scanerr.KindConfiguration, path, fmt.Errorf("parsing config: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate reports a configuration error for contradictory or invalid
// settings. Configuration errors are fatal per the error-handling model.
func (c Configuration) Validate() error {
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return scanerr.New(scanerr.KindConfiguration, "", fmt.Errorf("confidence_floor must be in [0,1], got %v", c.ConfidenceFloor))
	}
	if c.Entropy.Threshold < 0 || c.Entropy.Threshold > 8 {
		return scanerr.New(scanerr.KindConfiguration, "", fmt.Errorf("entropy.threshold must be in [0,8], got %v", c.Entropy.Threshold))
	}
	if c.Entropy.MinLength > 0 && c.Entropy.MaxLength > 0 && c.Entropy.MinLength > c.Entropy.MaxLength {
		return scanerr.New(scanerr.KindConfiguration, "", fmt.Errorf("entropy.min_length (%d) exceeds entropy.max_length (%d)", c.Entropy.MinLength, c.Entropy.MaxLength))
	}
	if c.MaxFileSize < 0 {
		return scanerr.New(scanerr.KindConfiguration, "", fmt.Errorf("max_file_size must be non-negative"))
	}
	if c.Performance.MaxConcurrency < 0 {
		return scanerr.New(scanerr.KindConfiguration, "", fmt.Errorf("performance.max_concurrency must be non-negative"))
	}
	return nil
}

// EffectiveConcurrency returns the worker pool size: the configured maximum
// clamped to at least 1 and at most the number of available CPUs.
func (c Configuration) EffectiveConcurrency() int {
	max := c.Performance.MaxConcurrency
	if max <= 0 {
		max = runtime.NumCPU()
	}
	if cpus := runtime.NumCPU(); max > cpus {
		max = cpus
	}
	if max < 1 {
		max = 1
	}
	return max
}

// Package main is the entry point for the leakguard CLI, the build-tool
// integration that invokes the scanning engine and translates its result
// into a process exit status. This wiring is glue: all detection logic
// lives in core and its subpackages.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	leakguard "github.com/leakguard/leakguard/core"
	"github.com/leakguard/leakguard/core/baseline"
	"github.com/leakguard/leakguard/core/cache"
	"github.com/leakguard/leakguard/core/config"
	"github.com/leakguard/leakguard/core/findings"
	"github.com/leakguard/leakguard/core/report"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
// 0 = no findings at or above the failure threshold, 1 = threshold crossed,
// 2 = a fatal or usage error occurred.
func run(args []string) int {
	fs := flag.NewFlagSet("leakguard", flag.ContinueOnError)

	var (
		configPath   string
		formatFlag   string
		outputDir    string
		baselinePath string
		quiet        bool
		verbose      bool
		versionFlag  bool
	)

	fs.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	fs.StringVar(&formatFlag, "format", "console", "output format: console or json")
	fs.StringVar(&outputDir, "output", ".", "output directory for report files")
	fs.StringVar(&baselinePath, "baseline", "", "path to a baseline file; only new findings are reported")
	fs.BoolVar(&quiet, "quiet", false, "suppress console output")
	fs.BoolVar(&verbose, "verbose", false, "enable verbose progress output")
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: leakguard scan <path> [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		fmt.Printf("leakguard %s (commit %s)\n", version, commit)
		return 0
	}

	remaining := fs.Args()
	if len(remaining) < 2 || remaining[0] != "scan" {
		fs.Usage()
		return 2
	}
	target := remaining[1]

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
			return 2
		}
		cfg = loaded
	}
	cfg.ScanPath = target

	engine, err := leakguard.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	var cachePath string
	if cfg.Performance.EnableCaching {
		cacheDir := cfg.Performance.CacheDirectory
		if cacheDir == "" {
			cacheDir = filepath.Join(target, ".leakguard")
		}
		cachePath = filepath.Join(cacheDir, "cache.json")
		contentCache, loadErr := cache.Load(cachePath)
		if loadErr != nil {
			contentCache = cache.New()
		}
		engine.Cache = contentCache
	}

	if baselinePath != "" {
		if b, loadErr := baseline.Load(baselinePath); loadErr == nil {
			engine.Baseline = b
		}
	}

	if verbose {
		engine.Progress = func(scanned, total int) {
			fmt.Fprintf(os.Stderr, "[scan] %d/%d files\n", scanned, total)
		}
	}

	result, err := engine.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: scan failed: %v\n", err)
		return 2
	}

	if engine.Cache != nil && cachePath != "" {
		_ = engine.Cache.Save(cachePath)
	}

	if !quiet {
		if err := renderResult(result, formatFlag, outputDir, version); err != nil {
			fmt.Fprintf(os.Stderr, "error: writing report: %v\n", err)
			return 2
		}
	}

	for _, scanErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "[error] %s: %v\n", scanErr.Path, scanErr.Err)
	}

	if !cfg.BuildIntegration.FailOnFindings {
		return 0
	}
	return exitCode(result.Findings, cfg.BuildIntegration.FailureThreshold)
}

func renderResult(result *leakguard.ScanResult, format, outputDir, version string) error {
	switch format {
	case "json":
		r := report.NewJSONReporter(version)
		path := filepath.Join(outputDir, "findings.json")
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}
		return r.WriteToFile(result.Findings, path)
	default:
		return report.NewConsoleReporter().WriteAuto(os.Stdout, os.Stdout, result.Findings)
	}
}

// exitCode returns 1 when the finding set's most severe finding meets or
// exceeds threshold, 0 otherwise. An empty or unrecognized threshold
// defaults to "high", matching config.Default's FailureSeverity.
func exitCode(fs *findings.FindingSet, threshold string) int {
	sev := findings.Severity(threshold)
	if sev == "" {
		sev = findings.SeverityHigh
	}
	if fs.MaxSeverity() == "" {
		return 0
	}
	if fs.MaxSeverity().AtLeastAsSevereAs(sev) {
		return 1
	}
	return 0
}

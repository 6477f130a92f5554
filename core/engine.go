// Package core wires the scanning subsystems together: it builds a
// detector and filter chain from a Configuration, walks a target tree,
// dispatches files to a bounded worker pool of FileScanners, and
// aggregates the results into a single ScanResult.
package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leakguard/leakguard/core/baseline"
	"github.com/leakguard/leakguard/core/cache"
	"github.com/leakguard/leakguard/core/catalog"
	"github.com/leakguard/leakguard/core/config"
	"github.com/leakguard/leakguard/core/detect"
	"github.com/leakguard/leakguard/core/discovery"
	"github.com/leakguard/leakguard/core/filter"
	"github.com/leakguard/leakguard/core/findings"
	"github.com/leakguard/leakguard/core/scanerr"
	"github.com/leakguard/leakguard/core/scanner"
	"golang.org/x/time/rate"
)

// progressRateLimit caps how often the Progress callback fires during a
// large scan, so a verbose CLI consumer isn't flooded with one line per
// file on a tree with tens of thousands of candidates.
const progressRateLimit = 20

// ScanResult holds the complete, aggregated output of one engine run.
type ScanResult struct {
	Findings     *findings.FindingSet
	Errors       []*scanerr.ScanError
	FilesScanned int
	FilesSkipped int
	Duration     time.Duration
}

// ProgressFunc is invoked after each file completes, reporting cumulative
// progress against the total candidate count.
type ProgressFunc func(scanned, total int)

// Engine orchestrates a full scan run against a Configuration.
type Engine struct {
	Config   config.Configuration
	Catalog  *catalog.Catalog
	Baseline *baseline.Baseline
	Cache    *cache.ContentCache
	Progress ProgressFunc
}

// New builds an Engine from cfg. It compiles the effective rule catalog
// (built-ins plus any custom rule files/inline patterns) up front, so a
// bad pattern is reported before any file is scanned, per the fatal
// pattern-compilation error class.
func New(cfg config.Configuration) (*Engine, error) {
	cat, err := buildCatalog(cfg)
	if err != nil {
		return nil, scanerr.New(scanerr.KindPatternCompilation, "", err)
	}
	if err := cat.CompileAll(); err != nil {
		return nil, scanerr.New(scanerr.KindPatternCompilation, "", err)
	}

	return &Engine{Config: cfg, Catalog: cat}, nil
}

func buildCatalog(cfg config.Configuration) (*catalog.Catalog, error) {
	cat := catalog.Builtin()

	for _, path := range cfg.Patterns.CustomPatternFiles {
		custom, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cat.Merge(custom)
	}

	for i, pattern := range cfg.Patterns.CustomPatterns {
		rule := catalog.Rule{
			ID:         fmt.Sprintf("LG-CUSTOM-%03d", i+1),
			Pattern:    pattern,
			SecretType: findings.TypeUnknown,
			Severity:   findings.SeverityMedium,
			Confidence: 0.6,
		}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		cat.Add(rule)
	}

	return cat, nil
}

// buildComposite assembles the composite detector from the configured
// detector switches, with priorities reflecting pattern matches (cheap,
// high-precision) ahead of entropy and context heuristics.
func (e *Engine) buildComposite() detect.Detector {
	composite := detect.NewComposite(
		detect.ModeParallel,
		detect.MergeUnion,
		detect.DedupPositionBased,
		timeoutOrDefault(e.Config.Performance.TimeoutSeconds),
		e.Config.EffectiveConcurrency(),
		1024,
	)

	if e.Config.Detectors.Pattern {
		composite.AddDetector(detect.NewPatternDetector(e.Catalog.Rules()), 0, 1.0)
	}
	if e.Config.Detectors.Entropy {
		composite.AddDetector(detect.NewEntropyDetector(e.Config.Entropy.MinLength, e.Config.Entropy.MaxLength, e.Config.ConfidenceFloor), 1, 0.8)
	}
	if e.Config.Detectors.Context {
		composite.AddDetector(detect.NewContextAwareDetector(), 2, 0.6)
	}
	if e.Config.Detectors.Decoded {
		composite.AddDetector(detect.NewDecodeDetector(e.Catalog.Rules()), 1, 0.7)
	}

	return composite
}

func timeoutOrDefault(seconds int) time.Duration {
	if seconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

func (e *Engine) buildFilterChain() *filter.Chain {
	members := []filter.Filter{
		filter.NewExtensionFilter(e.Config.IncludedExtensions, e.Config.ExcludedExtensions, 100),
		filter.NewPathFilter(e.Config.IncludePatterns, e.Config.ExcludePatterns, false, 90),
	}

	testPolicy := filter.TestFileInclude
	if e.Config.Context.TestFileHandling == config.TestFileHandlingSkip {
		testPolicy = filter.TestFileExclude
	}
	members = append(members, filter.NewTestFileFilter(testPolicy, 50))

	if w := e.Config.Whitelist; len(w.Paths) > 0 || len(w.Patterns) > 0 {
		members = append(members, filter.NewWhitelistFilter(w.Paths, nil, nil, w.Patterns, nil, 10))
	}

	return filter.NewChain(members...)
}

func (e *Engine) buildWhitelist() *filter.WhitelistFilter {
	w := e.Config.Whitelist
	if len(w.Hashes) == 0 {
		return nil
	}
	return filter.NewWhitelistFilter(nil, nil, w.Hashes, nil, nil, 0)
}

// Run discovers candidate files under cfg.ScanPath, scans them with a
// worker pool bounded by EffectiveConcurrency, and returns the aggregated
// result. A fatal error (pattern compilation, configuration) aborts before
// any file is scanned; per-file errors are recorded in ScanResult.Errors
// and do not stop the run, so the scan as a whole succeeds if no fatal
// error occurred, independent of individual file outcomes.
func (e *Engine) Run(ctx context.Context) (*ScanResult, error) {
	start := time.Now()

	if err := e.Config.Validate(); err != nil {
		return nil, err
	}

	walker, err := discovery.NewWalker(e.Config.ScanPath, e.Config.FollowSymlinks)
	if err != nil {
		return nil, scanerr.New(scanerr.KindFileRead, e.Config.ScanPath, err)
	}
	entries, err := walker.Walk()
	if err != nil {
		return nil, scanerr.New(scanerr.KindFileRead, e.Config.ScanPath, err)
	}

	fsc := &scanner.FileScanner{
		Config:     e.Config,
		Extensions: filter.NewExtensionFilter(e.Config.IncludedExtensions, e.Config.ExcludedExtensions, 100),
		Filters:    e.buildFilterChain(),
		Detector:   e.buildComposite(),
		Whitelist:  e.buildWhitelist(),
		Cache:      e.Cache,
	}

	result := &ScanResult{Findings: findings.NewFindingSet()}

	type outcome struct {
		res scanner.FileScanResult
	}

	jobs := make(chan discovery.Entry)
	results := make(chan outcome)

	var wg sync.WaitGroup
	workers := e.Config.EffectiveConcurrency()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results <- outcome{res: fsc.ScanFile(entry.AbsPath, entry.RelPath)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, entry := range entries {
			select {
			case <-ctx.Done():
				return
			case jobs <- entry:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	progressLimiter := rate.NewLimiter(rate.Limit(progressRateLimit), progressRateLimit)

	scanned := 0
	for o := range results {
		scanned++
		if e.Progress != nil {
			total := len(entries)
			if scanned == total || progressLimiter.Allow() {
				e.Progress(scanned, total)
			}
		}

		if o.res.Error != nil {
			result.Errors = append(result.Errors, o.res.Error)
		}
		if o.res.Skipped {
			result.FilesSkipped++
			continue
		}
		result.FilesScanned++
		result.Findings.AddAll(o.res.Findings)
	}

	result.Findings.Deduplicate()
	result.Findings.SortDeterministic()

	if e.Baseline != nil {
		filtered := baseline.Diff(e.Baseline, result.Findings.Findings())
		result.Findings = findings.NewFindingSet()
		result.Findings.AddAll(filtered)
	}

	result.Duration = time.Since(start)
	return result, nil
}

package detect

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leakguard/leakguard/core/findings"
)

// ExecutionMode controls how the composite detector invokes its member
// detectors.
type ExecutionMode string

// Recognized execution modes.
const (
	ModeSequential   ExecutionMode = "sequential"
	ModeParallel     ExecutionMode = "parallel"
	ModeFailFast     ExecutionMode = "fail-fast"
	ModePriority     ExecutionMode = "priority"
)

// MergeStrategy controls how overlapping findings from different detectors
// are combined into one.
type MergeStrategy string

// Recognized merge strategies.
const (
	MergeUnion            MergeStrategy = "union"
	MergeWeightedAverage   MergeStrategy = "weighted-average"
	MergeConservative      MergeStrategy = "conservative"
	MergeOptimistic        MergeStrategy = "optimistic"
)

// DedupStrategy controls how findings are deduplicated after merging.
type DedupStrategy string

// Recognized deduplication strategies.
const (
	DedupNone                DedupStrategy = "none"
	DedupExactMatch          DedupStrategy = "exact-match"
	DedupPositionBased       DedupStrategy = "position-based"
	DedupPositionAndContent  DedupStrategy = "position-and-content"
	DedupSmartMerge          DedupStrategy = "smart-merge"
)

// memberDetector pairs a Detector with its priority tier (higher runs
// first in priority mode) and its weight for the weighted-average merge
// strategy.
type memberDetector struct {
	detector Detector
	priority int
	weight   float64
}

// Composite orchestrates the pattern, entropy, and context-aware detectors
// per file: it runs them according to an execution mode, merges findings
// that cover the same location, deduplicates the merged set, and applies a
// per-detector timeout.
type Composite struct {
	members        []memberDetector
	Mode           ExecutionMode
	Merge          MergeStrategy
	Dedup          DedupStrategy
	DetectorTimeout time.Duration
	Concurrency    int

	cacheMu sync.Mutex
	cache   *fifoCache
}

// NewComposite returns a Composite with the given execution mode, merge
// strategy, and deduplication strategy. cacheSize bounds the FIFO result
// cache keyed by (absolute path, content hash); a size of 0 disables
// caching.
func NewComposite(mode ExecutionMode, merge MergeStrategy, dedup DedupStrategy, detectorTimeout time.Duration, concurrency, cacheSize int) *Composite {
	c := &Composite{
		Mode:            mode,
		Merge:           merge,
		Dedup:           dedup,
		DetectorTimeout: detectorTimeout,
		Concurrency:     concurrency,
	}
	if cacheSize > 0 {
		c.cache = newFIFOCache(cacheSize)
	}
	return c
}

// AddDetector registers a member detector with the given priority tier
// (higher runs earlier in priority/fail-fast mode) and weight (used by the
// weighted-average merge strategy).
func (c *Composite) AddDetector(d Detector, priority int, weight float64) {
	c.members = append(c.members, memberDetector{detector: d, priority: priority, weight: weight})
}

// Name implements Detector.
func (c *Composite) Name() findings.DetectorName {
	return findings.DetectorComposite
}

// Detect implements Detector: it runs every member detector according to
// the configured execution mode, merges overlapping findings, deduplicates
// the result, and returns it.
func (c *Composite) Detect(sc *ScanContext) ([]findings.Finding, error) {
	if c.cache != nil {
		key := cacheKey(sc.AbsPath, sc.Content)
		if cached, ok := c.cache.get(key); ok {
			return cached, nil
		}
	}

	var raw []findings.Finding
	var err error

	switch c.Mode {
	case ModeParallel:
		raw, err = c.runParallel(sc, c.members)
	case ModeFailFast:
		raw, err = c.runFailFast(sc)
	case ModePriority:
		raw, err = c.runPriority(sc)
	default:
		raw, err = c.runSequential(sc, c.members)
	}
	if err != nil {
		return nil, err
	}

	merged := c.mergeFindings(raw)
	deduped := c.deduplicate(merged)

	if c.cache != nil {
		key := cacheKey(sc.AbsPath, sc.Content)
		c.cache.put(key, deduped)
	}
	return deduped, nil
}

// runDetectorWithTimeout invokes a single detector, converting a timeout
// into a synthetic error finding rather than aborting the file scan.
func (c *Composite) runDetectorWithTimeout(sc *ScanContext, d Detector) []findings.Finding {
	if c.DetectorTimeout <= 0 {
		out, _ := d.Detect(sc)
		return out
	}

	type result struct {
		findings []findings.Finding
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := d.Detect(sc)
		ch <- result{findings: out, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil
		}
		return r.findings
	case <-time.After(c.DetectorTimeout):
		return []findings.Finding{syntheticTimeoutFinding(sc, d.Name())}
	}
}

func syntheticTimeoutFinding(sc *ScanContext, name findings.DetectorName) findings.Finding {
	return findings.Finding{
		Location: findings.Location{
			AbsPath: sc.AbsPath,
			RelPath: sc.RelPath,
			Line:    1,
		},
		Secret: findings.Secret{
			Value: "",
			Type:  findings.TypeUnknown,
		},
		Severity:   findings.SeverityInfo,
		Confidence: 0,
		Detectors:  []findings.DetectorName{name},
	}
}

func (c *Composite) runSequential(sc *ScanContext, members []memberDetector) ([]findings.Finding, error) {
	var out []findings.Finding
	for _, m := range members {
		out = append(out, c.runDetectorWithTimeout(sc, m.detector)...)
	}
	return out, nil
}

func (c *Composite) runParallel(sc *ScanContext, members []memberDetector) ([]findings.Finding, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = len(members)
	}
	if concurrency <= 0 {
		return nil, nil
	}

	results := make([][]findings.Finding, len(members))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(concurrency)

	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			results[i] = c.runDetectorWithTimeout(sc, m.detector)
			return nil
		})
	}
	_ = g.Wait()

	var out []findings.Finding
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// runFailFast stops launching further priority tiers once a high-priority
// detector in the current tier has returned a finding with confidence
// above 0.8. Detectors within the current tier always run to completion
// before the decision to continue is made.
func (c *Composite) runFailFast(sc *ScanContext) ([]findings.Finding, error) {
	tiers := groupByPriority(c.members)

	var out []findings.Finding
	for _, tier := range tiers {
		tierFindings, _ := c.runParallel(sc, tier)
		out = append(out, tierFindings...)

		stop := false
		for _, f := range tierFindings {
			if f.Confidence > 0.8 {
				stop = true
				break
			}
		}
		if stop {
			break
		}
	}
	return out, nil
}

// runPriority executes every priority tier (high priority first), always
// running every tier unless a tier produces a finding above the
// short-circuit confidence of 0.95.
func (c *Composite) runPriority(sc *ScanContext) ([]findings.Finding, error) {
	tiers := groupByPriority(c.members)

	var out []findings.Finding
	for _, tier := range tiers {
		tierFindings, _ := c.runParallel(sc, tier)
		out = append(out, tierFindings...)

		shortCircuit := false
		for _, f := range tierFindings {
			if f.Confidence > 0.95 {
				shortCircuit = true
				break
			}
		}
		if shortCircuit {
			break
		}
	}
	return out, nil
}

// groupByPriority buckets members into tiers ordered from highest to
// lowest priority.
func groupByPriority(members []memberDetector) [][]memberDetector {
	byPriority := make(map[int][]memberDetector)
	var priorities []int
	for _, m := range members {
		if _, ok := byPriority[m.priority]; !ok {
			priorities = append(priorities, m.priority)
		}
		byPriority[m.priority] = append(byPriority[m.priority], m)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(priorities)))

	tiers := make([][]memberDetector, 0, len(priorities))
	for _, p := range priorities {
		tiers = append(tiers, byPriority[p])
	}
	return tiers
}

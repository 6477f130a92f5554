package detect

import "github.com/leakguard/leakguard/core/findings"

// columnProximity is the maximum column-start delta for two findings on the
// same line to be considered overlapping/adjacent for merging purposes.
const columnProximity = 3

// mergeFindings groups similar findings — same file, same line, overlapping
// or adjacent column ranges — into equivalence classes and combines each
// class per the configured merge strategy.
func (c *Composite) mergeFindings(raw []findings.Finding) []findings.Finding {
	if c.Merge == "" || c.Merge == MergeUnion {
		return raw
	}

	groups := groupSimilar(raw)

	out := make([]findings.Finding, 0, len(groups))
	for _, group := range groups {
		out = append(out, c.combine(group)...)
	}
	return out
}

// groupSimilar partitions findings into connected components under the
// "same file, same line, |Δcol_start| <= columnProximity" relation.
func groupSimilar(items []findings.Finding) [][]findings.Finding {
	n := len(items)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if similar(items[i], items[j]) {
				union(i, j)
			}
		}
	}

	byRoot := make(map[int][]findings.Finding)
	var order []int
	for i, f := range items {
		r := find(i)
		if _, ok := byRoot[r]; !ok {
			order = append(order, r)
		}
		byRoot[r] = append(byRoot[r], f)
	}

	groups := make([][]findings.Finding, 0, len(order))
	for _, r := range order {
		groups = append(groups, byRoot[r])
	}
	return groups
}

func similar(a, b findings.Finding) bool {
	if a.Location.AbsPath != b.Location.AbsPath {
		return false
	}
	if a.Location.Line != b.Location.Line {
		return false
	}
	delta := a.Location.ColStart - b.Location.ColStart
	if delta < 0 {
		delta = -delta
	}
	return delta <= columnProximity
}

// combine applies the configured merge strategy to one equivalence class,
// returning the finding(s) that represent it in the final set.
func (c *Composite) combine(group []findings.Finding) []findings.Finding {
	if len(group) == 1 {
		return group
	}

	switch c.Merge {
	case MergeWeightedAverage:
		return []findings.Finding{c.weightedAverageMerge(group)}
	case MergeConservative:
		return c.conservativeMerge(group)
	case MergeOptimistic:
		return []findings.Finding{optimisticMerge(group)}
	default:
		return group
	}
}

func (c *Composite) weightFor(detector findings.DetectorName) float64 {
	for _, m := range c.members {
		if m.detector.Name() == detector {
			if m.weight > 0 {
				return m.weight
			}
			return 1
		}
	}
	return 1
}

// weightedAverageMerge combines a group using each contributing detector's
// configured weight: merged confidence = Σ wᵢ·cᵢ / Σ wᵢ.
func (c *Composite) weightedAverageMerge(group []findings.Finding) findings.Finding {
	base := group[0]
	var weightedSum, weightTotal float64
	var detectors []findings.DetectorName

	for _, f := range group {
		for _, d := range f.Detectors {
			w := c.weightFor(d)
			weightedSum += w * f.Confidence
			weightTotal += w
			detectors = appendUniqueDetector(detectors, d)
		}
		base.Severity = findings.MaxSeverity(base.Severity, f.Severity)
	}

	merged := base
	merged.Detectors = detectors
	if weightTotal > 0 {
		merged = merged.WithConfidence(weightedSum / weightTotal)
	}
	return merged
}

// conservativeMerge discards findings not confirmed by at least two
// detectors unless their confidence exceeds 0.8; confirmed findings receive
// a 1.2x confidence boost.
func (c *Composite) conservativeMerge(group []findings.Finding) []findings.Finding {
	detectorSet := make(map[findings.DetectorName]bool)
	for _, f := range group {
		for _, d := range f.Detectors {
			detectorSet[d] = true
		}
	}
	confirmedByTwo := len(detectorSet) >= 2

	maxConfidence := 0.0
	for _, f := range group {
		if f.Confidence > maxConfidence {
			maxConfidence = f.Confidence
		}
	}

	if !confirmedByTwo && maxConfidence <= 0.8 {
		return nil
	}

	merged := optimisticMerge(group)
	if confirmedByTwo {
		merged = merged.WithConfidence(merged.Confidence * 1.2)
	}
	return []findings.Finding{merged}
}

// optimisticMerge takes the maximum confidence and maximum severity across
// the group, listing every contributing detector.
func optimisticMerge(group []findings.Finding) findings.Finding {
	best := group[0]
	var detectors []findings.DetectorName

	for _, f := range group {
		for _, d := range f.Detectors {
			detectors = appendUniqueDetector(detectors, d)
		}
		if f.Confidence > best.Confidence {
			best = f
		}
		best.Severity = findings.MaxSeverity(best.Severity, f.Severity)
	}

	best.Detectors = detectors
	return best
}

func appendUniqueDetector(list []findings.DetectorName, d findings.DetectorName) []findings.DetectorName {
	for _, existing := range list {
		if existing == d {
			return list
		}
	}
	return append(list, d)
}

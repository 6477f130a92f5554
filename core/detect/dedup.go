package detect

import (
	"strconv"

	"github.com/leakguard/leakguard/core/findings"
)

// deduplicate applies the configured DedupStrategy to findings already
// produced by mergeFindings.
func (c *Composite) deduplicate(items []findings.Finding) []findings.Finding {
	switch c.Dedup {
	case DedupExactMatch:
		return dedupBy(items, func(f findings.Finding) string {
			return f.Location.AbsPath + "\x00" + strconv.Itoa(f.Location.Line) + "\x00" + f.Secret.Value
		}, keepFirst)
	case DedupPositionBased:
		return dedupBy(items, func(f findings.Finding) string {
			return f.Location.AbsPath + "\x00" + strconv.Itoa(f.Location.Line) + "\x00" + strconv.Itoa(f.Location.ColStart)
		}, keepHighestConfidence)
	case DedupPositionAndContent:
		return dedupBy(items, func(f findings.Finding) string {
			return f.Location.AbsPath + "\x00" + strconv.Itoa(f.Location.Line) + "\x00" + strconv.Itoa(f.Location.ColStart) + "\x00" + f.Secret.Value
		}, keepFirst)
	case DedupSmartMerge:
		return smartMergeDedup(items)
	default:
		return items
	}
}

// dedupBy groups items by key(item) and reduces each group to one finding
// using reduce.
func dedupBy(items []findings.Finding, key func(findings.Finding) string, reduce func([]findings.Finding) findings.Finding) []findings.Finding {
	groups := make(map[string][]findings.Finding)
	var order []string
	for _, f := range items {
		k := key(f)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], f)
	}

	out := make([]findings.Finding, 0, len(order))
	for _, k := range order {
		out = append(out, reduce(groups[k]))
	}
	return out
}

func keepFirst(group []findings.Finding) findings.Finding {
	return group[0]
}

func keepHighestConfidence(group []findings.Finding) findings.Finding {
	best := group[0]
	for _, f := range group[1:] {
		if f.Confidence > best.Confidence {
			best = f
		}
	}
	return best
}

// smartMergeDedup treats similarity as transitive over position proximity
// (the same relation used during merging) and produces one finding per
// connected component, listing every contributing rule id via provenance.
func smartMergeDedup(items []findings.Finding) []findings.Finding {
	groups := groupSimilar(items)
	out := make([]findings.Finding, 0, len(groups))
	for _, group := range groups {
		out = append(out, optimisticMerge(group))
	}
	return out
}


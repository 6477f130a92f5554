package detect

import (
	"regexp"

	"github.com/leakguard/leakguard/core/catalog"
	"github.com/leakguard/leakguard/core/entropy"
	"github.com/leakguard/leakguard/core/findings"
)

// PatternDetector runs every enabled rule's compiled regex against a file's
// full content and scores each match using a fixed set of confidence
// adjustments.
type PatternDetector struct {
	Rules []catalog.Rule
}

// NewPatternDetector returns a PatternDetector over the given rule set.
func NewPatternDetector(rules []catalog.Rule) *PatternDetector {
	return &PatternDetector{Rules: rules}
}

// Name implements Detector.
func (d *PatternDetector) Name() findings.DetectorName {
	return findings.DetectorPattern
}

// Detect implements Detector: every rule's pattern is matched against the
// full file content, and each match becomes a Finding with an adjusted
// confidence score.
func (d *PatternDetector) Detect(sc *ScanContext) ([]findings.Finding, error) {
	var out []findings.Finding

	// Precompute line start byte offsets for O(1) line/column resolution.
	lineStarts := computeLineStarts(sc.Content)

	for i := range d.Rules {
		rule := d.Rules[i]
		re, err := rule.Compile()
		if err != nil {
			continue
		}
		contextRe, err := rule.CompileContext()
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllIndex(sc.Content, -1) {
			startOffset, endOffset := loc[0], loc[1]
			value := string(sc.Content[startOffset:endOffset])

			line, col := resolveLineCol(lineStarts, startOffset)
			colEnd := col + (endOffset - startOffset)
			lineText := sc.LineText(line)

			contextSatisfied := !rule.RequiresContext || requiresContext(contextRe, lineText)
			confidence := scorePatternMatch(rule, value, lineText, contextSatisfied)

			out = append(out, findings.Finding{
				Location: findings.Location{
					AbsPath:  sc.AbsPath,
					RelPath:  sc.RelPath,
					Line:     line,
					ColStart: col,
					ColEnd:   colEnd,
					LineText: lineText,
				},
				Secret: findings.Secret{
					Value:       value,
					Type:        rule.SecretType,
					Entropy:     entropy.Shannon(value),
					RuleID:      rule.ID,
					Description: rule.Description,
				},
				Context: findings.Context{
					InComment:  IsCommentLine(lineText),
					InTestFile: sc.IsTestFile,
				},
				Severity:   rule.Severity,
				Confidence: confidence,
				Detectors:  []findings.DetectorName{findings.DetectorPattern},
			})
		}
	}
	return out, nil
}

// scorePatternMatch computes the adjusted confidence for a single regex
// match: base confidence scaled by match length, required-context
// satisfaction, comment context, and placeholder/assignment heuristics.
func scorePatternMatch(rule catalog.Rule, value, lineText string, contextSatisfied bool) float64 {
	c := rule.Confidence

	switch {
	case len(value) >= 50:
		c *= 1.2
	case len(value) >= 30:
		c *= 1.1
	case len(value) < 10:
		c *= 0.8
	}

	if rule.RequiresContext && !contextSatisfied {
		c *= 0.5
	}
	if IsCommentLine(lineText) {
		c *= 0.7
	}
	if IsPlaceholder(value) {
		c *= 0.3
	}
	if HasAssignmentToken(lineText) {
		c *= 1.3
	}

	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// computeLineStarts returns the byte offset at which each line begins.
func computeLineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// resolveLineCol converts a byte offset into a 1-based line number and
// 0-based column within that line, using a linear scan back from the end of
// lineStarts (file sizes in scope here make this cheap in practice).
func resolveLineCol(lineStarts []int, offset int) (line, col int) {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i + 1, offset - lineStarts[i]
		}
	}
	return 1, offset
}

// requiresContext reports whether a match on line also satisfies a
// required context pattern within the same line.
func requiresContext(contextPattern *regexp.Regexp, lineText string) bool {
	if contextPattern == nil {
		return true
	}
	return contextPattern.MatchString(lineText)
}

// Package detect implements the three independent secret-detection
// strategies (pattern, entropy, context-aware) and the composite detector
// that orchestrates them.
package detect

import "github.com/leakguard/leakguard/core/findings"

// ScanContext is the per-file input shared by every detector: the full
// content, a pre-split line index, and file-level classification flags.
type ScanContext struct {
	AbsPath      string
	RelPath      string
	Extension    string
	IsTestFile   bool
	IsConfigFile bool
	Content      []byte
	Lines        []string // 0-indexed; Lines[i] is line i+1
}

// LineText returns the text of the given 1-based line number, or "" if out
// of range.
func (sc *ScanContext) LineText(line int) string {
	idx := line - 1
	if idx < 0 || idx >= len(sc.Lines) {
		return ""
	}
	return sc.Lines[idx]
}

// Detector is the common interface implemented by every detection
// strategy, including the composite.
type Detector interface {
	Name() findings.DetectorName
	Detect(sc *ScanContext) ([]findings.Finding, error)
}

// SplitLines splits content into lines without the trailing newline,
// matching the semantics needed for 1-based line/column reporting.
func SplitLines(content []byte) []string {
	lines := make([]string, 0, 64)
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			end := i
			if end > start && content[end-1] == '\r' {
				end--
			}
			lines = append(lines, string(content[start:end]))
			start = i + 1
		}
	}
	if start <= len(content) {
		lines = append(lines, string(content[start:]))
	}
	return lines
}

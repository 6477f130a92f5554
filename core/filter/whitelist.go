package filter

import (
	"regexp"
	"strings"
)

// WhitelistFilter excludes files and lines by path substring, exact path,
// secret-value regex, line-content regex, or comment-marker regex. A nil or
// empty set of any kind is simply never matched.
type WhitelistFilter struct {
	PathSubstrings []string
	ExactPaths     map[string]bool
	ValuePatterns  []*regexp.Regexp
	LinePatterns   []*regexp.Regexp
	CommentMarkers []*regexp.Regexp
	priority       int
}

// NewWhitelistFilter compiles the regex tables and returns a ready-to-use
// WhitelistFilter. Invalid regex strings are silently skipped, matching the
// teacher's "best effort, never abort a scan for a bad whitelist entry"
// posture; callers that want strict validation should pre-compile and check
// errors themselves.
func NewWhitelistFilter(pathSubstrings, exactPaths, valuePatterns, linePatterns, commentMarkers []string, priority int) *WhitelistFilter {
	exact := make(map[string]bool, len(exactPaths))
	for _, p := range exactPaths {
		exact[p] = true
	}
	return &WhitelistFilter{
		PathSubstrings: pathSubstrings,
		ExactPaths:     exact,
		ValuePatterns:  compileAll(valuePatterns),
		LinePatterns:   compileAll(linePatterns),
		CommentMarkers: compileAll(commentMarkers),
		priority:       priority,
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			out = append(out, re)
		}
	}
	return out
}

// IncludesFile implements Filter.
func (f *WhitelistFilter) IncludesFile(meta Metadata) bool {
	if f.ExactPaths[meta.RelPath] || f.ExactPaths[meta.AbsPath] {
		return false
	}
	for _, sub := range f.PathSubstrings {
		if sub != "" && strings.Contains(meta.RelPath, sub) {
			return false
		}
	}
	return true
}

// IncludesLine implements Filter: a line is excluded if it matches any line
// pattern or comment marker pattern.
func (f *WhitelistFilter) IncludesLine(text string, _ int, _ string) bool {
	for _, re := range f.LinePatterns {
		if re.MatchString(text) {
			return false
		}
	}
	for _, re := range f.CommentMarkers {
		if re.MatchString(text) {
			return false
		}
	}
	return true
}

// MatchesValue reports whether value is whitelisted by any value pattern.
// This is consulted by detectors directly (value-level exclusion is not
// expressible through the file/line Filter capability).
func (f *WhitelistFilter) MatchesValue(value string) bool {
	for _, re := range f.ValuePatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// Priority implements Filter.
func (f *WhitelistFilter) Priority() int {
	return f.priority
}

// Describe implements Filter.
func (f *WhitelistFilter) Describe() string {
	return "whitelist filter"
}

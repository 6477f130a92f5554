package filter

import (
	"path/filepath"
	"strings"
)

// PathFilter implements glob-based path include/exclude. Patterns use `**`
// to match any number of path segments, `*` to match within a single
// segment, and may be case-sensitive or not.
type PathFilter struct {
	Include       []string
	Exclude       []string
	CaseSensitive bool
	priority      int
}

// NewPathFilter builds a PathFilter.
func NewPathFilter(include, exclude []string, caseSensitive bool, priority int) *PathFilter {
	return &PathFilter{Include: include, Exclude: exclude, CaseSensitive: caseSensitive, priority: priority}
}

// IncludesFile implements Filter: a path is excluded if it matches any
// exclude pattern, and — when any include pattern is configured — must also
// match at least one include pattern.
func (f *PathFilter) IncludesFile(meta Metadata) bool {
	path := meta.RelPath
	if !f.CaseSensitive {
		path = strings.ToLower(path)
	}

	for _, pat := range f.Exclude {
		if matchGlob(normalizePattern(pat, f.CaseSensitive), path) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pat := range f.Include {
		if matchGlob(normalizePattern(pat, f.CaseSensitive), path) {
			return true
		}
	}
	return false
}

// IncludesLine implements Filter; the path filter operates at the file
// level only.
func (f *PathFilter) IncludesLine(_ string, _ int, _ string) bool {
	return true
}

// Priority implements Filter.
func (f *PathFilter) Priority() int {
	return f.priority
}

// Describe implements Filter.
func (f *PathFilter) Describe() string {
	return "path filter"
}

func normalizePattern(pattern string, caseSensitive bool) string {
	p := filepath.ToSlash(pattern)
	if !caseSensitive {
		p = strings.ToLower(p)
	}
	return p
}

// matchGlob reports whether path matches pattern, where pattern may contain
// `**` (matches zero or more full path segments) and `*` (matches within a
// single segment, never crossing a `/`).
func matchGlob(pattern, path string) bool {
	path = filepath.ToSlash(path)

	patSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(path, "/")
	return matchSegments(patSegs, pathSegs)
}

func matchSegments(pat, path []string) bool {
	if len(pat) == 0 {
		return len(path) == 0
	}

	if pat[0] == "**" {
		// `**` matches zero or more segments: try consuming 0,1,2,...
		// segments of path before continuing to match the rest of pat.
		if matchSegments(pat[1:], path) {
			return true
		}
		for i := 1; i <= len(path); i++ {
			if matchSegments(pat[1:], path[i:]) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}
	if !matchSingleSegment(pat[0], path[0]) {
		return false
	}
	return matchSegments(pat[1:], path[1:])
}

// matchSingleSegment matches one path segment against one pattern segment
// using filepath.Match semantics (supports `*` and `?` within the segment).
func matchSingleSegment(pat, seg string) bool {
	ok, err := filepath.Match(pat, seg)
	if err != nil {
		return false
	}
	return ok
}

package detect

import (
	"regexp"
	"strings"
)

// placeholderMarkers are substrings that, when present in a matched value,
// are evidence against real-secret status.
var placeholderMarkers = []string{
	"example", "test", "demo", "placeholder", "dummy", "xxx", "0000", "1234",
	"your_", "insert_here", "changeme", "fixme", "sample",
}

// IsPlaceholder reports whether value contains any known placeholder
// marker, case-insensitively.
func IsPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// commentPrefixes are leading tokens (after trimming whitespace) that mark
// a line as a comment in one of several common languages.
var commentPrefixes = []string{"//", "#", "/*", "*", "<!--", ";", "--"}

// IsCommentLine reports whether the trimmed line begins with a recognized
// comment marker.
func IsCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// assignmentTokenPattern recognizes a line that looks like a variable
// assignment or configuration entry.
var assignmentTokenPattern = regexp.MustCompile(`[=:]|config|properties|env`)

// HasAssignmentToken reports whether line contains an assignment or config
// marker.
func HasAssignmentToken(line string) bool {
	return assignmentTokenPattern.MatchString(strings.ToLower(line))
}

// highConfidencePattern matches value shapes that warrant reporting even in
// otherwise-suppressing contexts (comments, test files): PEM blocks, long
// hex runs, long base64 runs.
var highConfidencePattern = regexp.MustCompile(`(?i)-----BEGIN[ A-Z0-9_-]*PRIVATE KEY-----|[0-9a-f]{32,}|[A-Za-z0-9+/]{32,}={0,2}`)

// IsHighConfidencePattern reports whether value matches a high-confidence
// shape.
func IsHighConfidencePattern(value string) bool {
	return highConfidencePattern.MatchString(value)
}

// secretVariableNamePattern matches variable names that suggest a secret.
var secretVariableNamePattern = regexp.MustCompile(`(?i)secret|key|token|password|credential`)

// testVariableNamePattern matches variable names that suggest test/mock
// data rather than a real secret.
var testVariableNamePattern = regexp.MustCompile(`(?i)test|mock|example`)

// IsSecretLikeName reports whether name looks like it holds a credential.
func IsSecretLikeName(name string) bool {
	return secretVariableNamePattern.MatchString(name)
}

// IsTestLikeName reports whether name looks like test/mock data.
func IsTestLikeName(name string) bool {
	return testVariableNamePattern.MatchString(name)
}

// IsSequential reports whether s has monotonically increasing or
// decreasing character codes over at least 70% of adjacent positions, a
// signal that it is a placeholder rather than a real secret (e.g.
// "abcdefgh" or "87654321").
func IsSequential(s string) bool {
	if len(s) < 3 {
		return false
	}
	increasing, decreasing := 0, 0
	total := len(s) - 1
	for i := 1; i < len(s); i++ {
		diff := int(s[i]) - int(s[i-1])
		switch diff {
		case 1:
			increasing++
		case -1:
			decreasing++
		}
	}
	ratio := 0.7
	return float64(increasing)/float64(total) >= ratio || float64(decreasing)/float64(total) >= ratio
}

// HasRepeatingSubstring reports whether s contains a repeating substring
// that covers at least 50% of its length (e.g. "abcabcabcabc").
func HasRepeatingSubstring(s string) bool {
	n := len(s)
	if n < 4 {
		return false
	}
	for period := 1; period <= n/2; period++ {
		covered := 0
		for i := period; i < n; i++ {
			if s[i] == s[i-period] {
				covered++
			}
		}
		if float64(covered)/float64(n-period) >= 0.5 && float64(n-period)/float64(n) >= 0.5 {
			return true
		}
	}
	return false
}

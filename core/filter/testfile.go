package filter

import (
	"path/filepath"
	"regexp"
	"strings"
)

// TestFilePolicy governs how test files are treated by the scan.
type TestFilePolicy string

// Recognized test-file policies.
const (
	TestFileExclude         TestFilePolicy = "exclude"
	TestFileInclude         TestFilePolicy = "include"
	TestFileRelaxed         TestFilePolicy = "relaxed"
	TestFileIntegrationOnly TestFilePolicy = "integration-only"
)

var testDirMarkers = []string{"/test/", "/tests/", "/spec/"}

var testNamePattern = regexp.MustCompile(`(?i)(Test\.[^/]+$|Spec\.[^/]+$|\.test\.[^/]+$|\.spec\.[^/]+$)`)

var integrationMarkers = []string{"integration", "e2e", "/it/"}

// IsTestFile reports whether relPath looks like a test file by directory
// convention or filename suffix.
func IsTestFile(relPath string) bool {
	slashPath := "/" + filepath.ToSlash(relPath) + "/"
	for _, marker := range testDirMarkers {
		if strings.Contains(slashPath, marker) {
			return true
		}
	}
	return testNamePattern.MatchString(filepath.ToSlash(relPath))
}

// isIntegrationPath reports whether relPath looks like it belongs to an
// integration-test suite, for the integration-only policy.
func isIntegrationPath(relPath string) bool {
	lower := strings.ToLower(filepath.ToSlash(relPath))
	for _, marker := range integrationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// TestFileFilter applies the configured TestFilePolicy to files classified
// as test files by IsTestFile. Non-test files are always included and
// unaffected by the policy.
type TestFileFilter struct {
	Policy   TestFilePolicy
	priority int
}

// NewTestFileFilter builds a TestFileFilter for the given policy.
func NewTestFileFilter(policy TestFilePolicy, priority int) *TestFileFilter {
	if policy == "" {
		policy = TestFileInclude
	}
	return &TestFileFilter{Policy: policy, priority: priority}
}

// IncludesFile implements Filter.
func (f *TestFileFilter) IncludesFile(meta Metadata) bool {
	if !meta.IsTestFile {
		return true
	}
	switch f.Policy {
	case TestFileExclude:
		return false
	case TestFileIntegrationOnly:
		return isIntegrationPath(meta.RelPath)
	case TestFileInclude, TestFileRelaxed:
		return true
	default:
		return true
	}
}

// IncludesLine implements Filter; the test-file filter operates at the file
// level only. Confidence reduction for the "relaxed" policy is applied
// during post-processing, not here.
func (f *TestFileFilter) IncludesLine(_ string, _ int, _ string) bool {
	return true
}

// Priority implements Filter.
func (f *TestFileFilter) Priority() int {
	return f.priority
}

// Describe implements Filter.
func (f *TestFileFilter) Describe() string {
	return "test-file filter (" + string(f.Policy) + ")"
}

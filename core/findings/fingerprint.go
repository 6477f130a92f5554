package findings

import (
	"crypto/sha256"
	"fmt"
)

// ComputeID produces a deterministic SHA-256 hex digest from a finding's
// location, matched value, and rule, so the same secret at the same
// position always yields the same identifier across runs.
func ComputeID(loc Location, value, ruleID string) string {
	h := sha256.New()
	// Write each component separated by a null byte to avoid ambiguous
	// concatenations (e.g. path="ab", value="c" vs path="a", value="bc").
	_, _ = fmt.Fprintf(h, "%s\x00%d\x00%d\x00%d\x00%s\x00%s",
		loc.AbsPath, loc.Line, loc.ColStart, loc.ColEnd, value, ruleID)
	return fmt.Sprintf("%x", h.Sum(nil))
}

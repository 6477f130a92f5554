// Package findings defines the canonical finding model produced by the
// leakguard scanning engine. Every detector emits Finding values which are
// collected into a FindingSet for deduplication, sorting, and downstream
// consumption by report formatters.
package findings

import "sort"

// Severity indicates how critical a finding is. Values are ordered from
// most to least severe.
type Severity string

// Severity level constants ordered from most to least severe.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRank maps severity levels to numeric ranks for comparison; lower
// rank means more severe.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// AtLeastAsSevereAs reports whether s is at least as severe as other.
func (s Severity) AtLeastAsSevereAs(other Severity) bool {
	r, ok := severityRank[s]
	if !ok {
		return false
	}
	o, ok := severityRank[other]
	if !ok {
		return false
	}
	return r <= o
}

// MaxSeverity returns whichever of a, b is more severe. Unknown values are
// treated as less severe than any known value.
func MaxSeverity(a, b Severity) Severity {
	ra, aok := severityRank[a]
	rb, bok := severityRank[b]
	switch {
	case !aok && !bok:
		return a
	case !aok:
		return b
	case !bok:
		return a
	case ra <= rb:
		return a
	default:
		return b
	}
}

// SecretType classifies the kind of secret a finding represents.
type SecretType string

// Recognized secret type values.
const (
	TypeAPIKey        SecretType = "api-key"
	TypeAccessToken   SecretType = "access-token"
	TypePrivateKey    SecretType = "private-key"
	TypePassword      SecretType = "password"
	TypeDatabaseURL   SecretType = "database-url"
	TypeCertificate   SecretType = "certificate"
	TypeEncryptionKey SecretType = "encryption-key"
	TypeJWT           SecretType = "jwt"
	TypeHighEntropy   SecretType = "high-entropy"
	TypeUnknown       SecretType = "unknown"
)

// DetectorName identifies which detection strategy produced or confirmed a
// finding.
type DetectorName string

// Recognized detector names.
const (
	DetectorPattern   DetectorName = "pattern"
	DetectorEntropy   DetectorName = "entropy"
	DetectorContext   DetectorName = "context"
	DetectorDecoded   DetectorName = "decoded"
	DetectorComposite DetectorName = "composite"
)

// Location pinpoints where a finding was detected within a source file.
type Location struct {
	AbsPath  string
	RelPath  string
	Line     int // 1-based
	ColStart int // 0-based
	ColEnd   int // 0-based, exclusive
	LineText string
}

// Secret carries the matched value and its classification.
type Secret struct {
	Value       string
	Type        SecretType
	Entropy     float64 // 0 when not computed
	RuleID      string
	Description string // human-readable rule/classification description, if known
}

// Context carries structural flags about where a finding was detected.
type Context struct {
	InComment       bool
	InStringLiteral bool
	InTestFile      bool
	InConfigFile    bool
	EnclosingName   string // enclosing variable/function/class, if known
}

// Finding is a single reported potential secret.
type Finding struct {
	ID         string
	Location   Location
	Secret     Secret
	Context    Context
	Severity   Severity
	Confidence float64 // clamped to [0,1]
	Detectors  []DetectorName
}

// Clamp restricts Confidence to the closed interval [0,1].
func (f *Finding) Clamp() {
	if f.Confidence < 0 {
		f.Confidence = 0
	}
	if f.Confidence > 1 {
		f.Confidence = 1
	}
}

// WithConfidence returns a copy of f with Confidence replaced, clamped to
// [0,1]. Findings are otherwise immutable once placed in a FindingSet; this
// is the sanctioned "copy-with" mutation path used during post-processing.
func (f Finding) WithConfidence(c float64) Finding {
	f.Confidence = c
	f.Clamp()
	return f
}

// AddDetector returns a copy of f with detector appended to its provenance
// list if not already present.
func (f Finding) AddDetector(detector DetectorName) Finding {
	for _, d := range f.Detectors {
		if d == detector {
			return f
		}
	}
	out := make([]DetectorName, len(f.Detectors), len(f.Detectors)+1)
	copy(out, f.Detectors)
	f.Detectors = append(out, detector)
	return f
}

// FindingSet is an ordered collection of findings with deduplication and
// deterministic sorting.
type FindingSet struct {
	items []Finding
}

// NewFindingSet returns an empty FindingSet ready for use.
func NewFindingSet() *FindingSet {
	return &FindingSet{}
}

// Add appends a finding to the set. If the finding has an empty ID, one is
// computed from its location, value, and rule so that every finding in the
// set is always identifiable.
func (fs *FindingSet) Add(f Finding) {
	if f.ID == "" {
		f.ID = ComputeID(f.Location, f.Secret.Value, f.Secret.RuleID)
	}
	f.Clamp()
	fs.items = append(fs.items, f)
}

// AddAll appends every finding in ff.
func (fs *FindingSet) AddAll(ff []Finding) {
	for _, f := range ff {
		fs.Add(f)
	}
}

// Deduplicate removes findings that share the same ID, keeping the first
// occurrence. Idempotent: calling it twice in a row is a no-op.
func (fs *FindingSet) Deduplicate() {
	seen := make(map[string]struct{}, len(fs.items))
	unique := make([]Finding, 0, len(fs.items))
	for _, f := range fs.items {
		if _, exists := seen[f.ID]; exists {
			continue
		}
		seen[f.ID] = struct{}{}
		unique = append(unique, f)
	}
	fs.items = unique
}

// SortDeterministic orders findings by severity (desc), then path (asc),
// then line (asc), then column start (asc), per spec §3/§8.
func (fs *FindingSet) SortDeterministic() {
	sort.SliceStable(fs.items, func(i, j int) bool {
		a, b := fs.items[i], fs.items[j]
		if a.Severity != b.Severity {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		if a.Location.AbsPath != b.Location.AbsPath {
			return a.Location.AbsPath < b.Location.AbsPath
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		return a.Location.ColStart < b.Location.ColStart
	})
}

// Filter removes findings for which keep returns false.
func (fs *FindingSet) Filter(keep func(Finding) bool) {
	kept := make([]Finding, 0, len(fs.items))
	for _, f := range fs.items {
		if keep(f) {
			kept = append(kept, f)
		}
	}
	fs.items = kept
}

// Findings returns the current slice of findings. The caller must not
// modify the returned slice.
func (fs *FindingSet) Findings() []Finding {
	return fs.items
}

// Len returns the number of findings currently in the set.
func (fs *FindingSet) Len() int {
	return len(fs.items)
}

// MaxSeverity returns the most severe severity among all findings in the
// set, or "" if the set is empty.
func (fs *FindingSet) MaxSeverity() Severity {
	var max Severity
	for i, f := range fs.items {
		if i == 0 {
			max = f.Severity
			continue
		}
		max = MaxSeverity(max, f.Severity)
	}
	return max
}

// CountsBySeverity returns a count of findings grouped by severity.
func (fs *FindingSet) CountsBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range fs.items {
		counts[f.Severity]++
	}
	return counts
}

// CountsByDetector returns a count of findings grouped by each contributing
// detector. A finding produced by multiple detectors is counted once per
// detector in its provenance list.
func (fs *FindingSet) CountsByDetector() map[DetectorName]int {
	counts := make(map[DetectorName]int)
	for _, f := range fs.items {
		for _, d := range f.Detectors {
			counts[d]++
		}
	}
	return counts
}

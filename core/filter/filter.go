// Package filter implements the file-level include/exclude decision chain:
// a set of independently testable filters, each carrying a priority, that
// run in priority order with short-circuiting rejection.
package filter

// Metadata carries the file-level facts a filter may need without having to
// read file content.
type Metadata struct {
	AbsPath    string
	RelPath    string
	Extension  string // normalized, lowercase, no leading dot
	Size       int64
	IsTestFile bool
}

// Filter is the capability every filter chain member implements: a
// path-level decision, a line-level decision, a priority for ordering, and
// a human-readable description for diagnostics.
type Filter interface {
	IncludesFile(meta Metadata) bool
	IncludesLine(text string, lineNo int, path string) bool
	Priority() int
	Describe() string
}

// Chain runs a set of filters in priority order (highest first). Any
// rejection short-circuits evaluation of the remaining filters.
type Chain struct {
	filters []Filter
}

// NewChain returns a Chain containing filters, sorted by descending
// priority. Equal-priority filters retain their relative input order.
func NewChain(filters ...Filter) *Chain {
	c := &Chain{filters: append([]Filter(nil), filters...)}
	sortByPriorityDesc(c.filters)
	return c
}

// IncludesFile reports whether every filter in the chain accepts meta. It
// short-circuits at the first rejection.
func (c *Chain) IncludesFile(meta Metadata) bool {
	for _, f := range c.filters {
		if !f.IncludesFile(meta) {
			return false
		}
	}
	return true
}

// IncludesLine reports whether every filter in the chain accepts the line.
// It short-circuits at the first rejection.
func (c *Chain) IncludesLine(text string, lineNo int, path string) bool {
	for _, f := range c.filters {
		if !f.IncludesLine(text, lineNo, path) {
			return false
		}
	}
	return true
}

// Filters returns the chain's filters in evaluation order.
func (c *Chain) Filters() []Filter {
	return c.filters
}

func sortByPriorityDesc(filters []Filter) {
	// Simple insertion sort: chains are small (a handful of filters), and
	// insertion sort keeps equal-priority filters in their original order.
	for i := 1; i < len(filters); i++ {
		j := i
		for j > 0 && filters[j-1].Priority() < filters[j].Priority() {
			filters[j-1], filters[j] = filters[j], filters[j-1]
			j--
		}
	}
}

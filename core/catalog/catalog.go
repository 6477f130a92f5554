package catalog

import "fmt"

// Catalog is an ordered collection of rules with fast lookup by ID.
// Insertion order is preserved so that scan results are deterministic across
// runs for a fixed rule set.
type Catalog struct {
	rules []Rule
	byID  map[string]int
}

// New returns an empty, initialised Catalog.
func New() *Catalog {
	return &Catalog{byID: make(map[string]int)}
}

// Add appends a rule to the catalog, overwriting any existing rule with the
// same ID so that custom rule files can shadow built-ins.
func (c *Catalog) Add(r Rule) {
	if idx, ok := c.byID[r.ID]; ok {
		c.rules[idx] = r
		return
	}
	c.byID[r.ID] = len(c.rules)
	c.rules = append(c.rules, r)
}

// Merge appends every rule from other into c, in other's order.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil {
		return
	}
	for _, r := range other.rules {
		c.Add(r)
	}
}

// Rules returns every rule in the catalog, in insertion order.
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// ByID looks up a rule by its unique identifier.
func (c *Catalog) ByID(id string) (Rule, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[idx], true
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Validate checks every rule in the catalog and returns the first error
// encountered, if any.
func (c *Catalog) Validate() error {
	for _, r := range c.rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	return nil
}

// CompileAll forces compilation of every rule's pattern, surfacing any
// regex syntax errors before a scan begins rather than mid-scan.
func (c *Catalog) CompileAll() error {
	for i := range c.rules {
		if _, err := c.rules[i].Compile(); err != nil {
			return err
		}
	}
	return nil
}

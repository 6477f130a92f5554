// Package catalog holds the declarative pattern-matching rules used by the
// pattern detector: a built-in table of well-known credential formats, plus
// support for loading additional rules from YAML files.
package catalog

import (
	"fmt"
	"regexp"

	"github.com/leakguard/leakguard/core/findings"
)

// Rule is a single declarative pattern-matching rule. Pattern is a regular
// expression; when it matches file content, a finding is produced using the
// remaining fields for classification.
type Rule struct {
	ID              string              `yaml:"id"`
	Description     string              `yaml:"description"`
	Pattern         string              `yaml:"pattern"`
	SecretType      findings.SecretType `yaml:"secret_type"`
	Severity        findings.Severity   `yaml:"severity"`
	Confidence      float64             `yaml:"confidence"`
	Keywords        []string            `yaml:"keywords"`
	RequiresContext bool                `yaml:"requires_context"`
	ContextPattern  string              `yaml:"context_pattern"`

	compiled        *regexp.Regexp
	compiledContext *regexp.Regexp
}

// Compile lazily compiles and caches the rule's pattern. Calling it more
// than once is safe and cheap after the first call.
func (r *Rule) Compile() (*regexp.Regexp, error) {
	if r.compiled != nil {
		return r.compiled, nil
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling rule %s pattern %q: %w", r.ID, r.Pattern, err)
	}
	r.compiled = re
	return re, nil
}

// CompileContext lazily compiles and caches the rule's context pattern, if
// any. It returns (nil, nil) when the rule declares no context pattern.
func (r *Rule) CompileContext() (*regexp.Regexp, error) {
	if r.ContextPattern == "" {
		return nil, nil
	}
	if r.compiledContext != nil {
		return r.compiledContext, nil
	}
	re, err := regexp.Compile(r.ContextPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling rule %s context pattern %q: %w", r.ID, r.ContextPattern, err)
	}
	r.compiledContext = re
	return re, nil
}

// Validate checks that a rule satisfies the mandatory constraints for use in
// a Catalog: a non-empty ID, a non-empty pattern that compiles, and a
// recognized severity.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule ID must not be empty")
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule %s: pattern must not be empty", r.ID)
	}
	if _, err := r.Compile(); err != nil {
		return err
	}
	if _, err := r.CompileContext(); err != nil {
		return err
	}
	if !validSeverities[r.Severity] {
		return fmt.Errorf("rule %s: invalid severity %q", r.ID, r.Severity)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("rule %s: confidence %v out of [0,1]", r.ID, r.Confidence)
	}
	return nil
}

var validSeverities = map[findings.Severity]bool{
	findings.SeverityCritical: true,
	findings.SeverityHigh:     true,
	findings.SeverityMedium:   true,
	findings.SeverityLow:      true,
	findings.SeverityInfo:     true,
}

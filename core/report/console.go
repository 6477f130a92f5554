package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/leakguard/leakguard/core/findings"
)

// severityColor maps each severity to an ANSI SGR code used when the
// output stream is a terminal.
var severityColor = map[findings.Severity]string{
	findings.SeverityCritical: "31;1", // bold red
	findings.SeverityHigh:     "31",   // red
	findings.SeverityMedium:   "33",   // yellow
	findings.SeverityLow:      "36",   // cyan
	findings.SeverityInfo:     "37",   // white
}

// ConsoleReporter renders a FindingSet as human-readable text, one line per
// finding, grouped implicitly by the set's deterministic sort order. Color
// is applied only when the destination is detected to be a terminal.
type ConsoleReporter struct {
	// Color forces (true) or disables (false) ANSI coloring regardless of
	// terminal detection when explicitly set via WithColor. Nil means
	// auto-detect.
	color *bool
}

// NewConsoleReporter returns a ConsoleReporter that auto-detects color
// support from the output destination.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// WithColor overrides auto-detection, forcing color on or off.
func (r *ConsoleReporter) WithColor(enabled bool) *ConsoleReporter {
	r.color = &enabled
	return r
}

// IsTerminal reports whether the given file descriptor is attached to a
// terminal, used to decide whether color escapes should be emitted.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Render writes a human-readable report of fs to w. colorEnabled controls
// whether ANSI color escapes are emitted.
func (r *ConsoleReporter) Render(w io.Writer, fs *findings.FindingSet, colorEnabled bool) error {
	fs.SortDeterministic()
	items := fs.Findings()

	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "no findings")
		return err
	}

	var buf bytes.Buffer
	for _, f := range items {
		line := fmt.Sprintf("%s:%d:%d", f.Location.RelPath, f.Location.Line, f.Location.ColStart)
		sevLabel := fmt.Sprintf("[%s]", f.Severity)
		if colorEnabled {
			if code, ok := severityColor[f.Severity]; ok {
				sevLabel = fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, sevLabel)
			}
		}
		fmt.Fprintf(&buf, "%s %s %s (%s, confidence %.2f) %s\n",
			line, sevLabel, f.Secret.RuleID, f.Secret.Type, f.Confidence, findings.MaskValue(f.Secret.Value))
	}

	counts := fs.CountsBySeverity()
	fmt.Fprintf(&buf, "\n%d findings", len(items))
	for _, sev := range []findings.Severity{findings.SeverityCritical, findings.SeverityHigh, findings.SeverityMedium, findings.SeverityLow, findings.SeverityInfo} {
		if n := counts[sev]; n > 0 {
			fmt.Fprintf(&buf, "  %s=%d", sev, n)
		}
	}
	fmt.Fprintln(&buf)

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteAuto renders to w, auto-detecting terminal color support from f when
// r.color has not been explicitly set via WithColor.
func (r *ConsoleReporter) WriteAuto(w io.Writer, f *os.File, fs *findings.FindingSet) error {
	enabled := f != nil && IsTerminal(f)
	if r.color != nil {
		enabled = *r.color
	}
	return r.Render(w, fs, enabled)
}

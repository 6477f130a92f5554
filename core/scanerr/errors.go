// Package scanerr defines the typed error model shared by the file scanner
// and scan engine: which failures are fatal (abort the scan before any file
// is processed) and which are local (recorded against one file, scanning
// continues).
package scanerr

import "fmt"

// Kind classifies a ScanError by cause.
type Kind string

// Recognized error kinds.
const (
	// KindFileRead covers I/O or decoding failures on a single file.
	KindFileRead Kind = "file-read"
	// KindPatternCompilation covers an invalid user-supplied regex.
	KindPatternCompilation Kind = "pattern-compilation"
	// KindConfiguration covers a contradictory or invalid configuration.
	KindConfiguration Kind = "configuration"
	// KindResource covers out-of-memory or oversized-content conditions.
	KindResource Kind = "resource"
	// KindTimeout covers a detector exceeding its per-file budget.
	KindTimeout Kind = "timeout"
)

// fatalKinds are reported before any file is scanned and abort the run.
var fatalKinds = map[Kind]bool{
	KindPatternCompilation: true,
	KindConfiguration:      true,
}

// ScanError is a typed error carrying the path it applies to (empty for
// scan-wide errors such as configuration) and whether it is fatal.
type ScanError struct {
	Kind Kind
	Path string
	Err  error
}

// New constructs a ScanError of the given kind.
func New(kind Kind, path string, err error) *ScanError {
	return &ScanError{Kind: kind, Path: path, Err: err}
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Fatal reports whether this error kind must abort the scan before any file
// is processed. File-read, resource, and timeout errors are local: they are
// recorded against the offending path and scanning continues.
func (e *ScanError) Fatal() bool {
	return fatalKinds[e.Kind]
}

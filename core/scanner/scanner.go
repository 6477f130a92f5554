// Package scanner implements per-file scan orchestration: validating a
// candidate file, reading and classifying its content, running the
// configured detector against it, and post-processing the raw findings into
// a final, sorted result.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leakguard/leakguard/core/cache"
	"github.com/leakguard/leakguard/core/config"
	"github.com/leakguard/leakguard/core/detect"
	"github.com/leakguard/leakguard/core/filter"
	"github.com/leakguard/leakguard/core/findings"
	"github.com/leakguard/leakguard/core/scanerr"
	"github.com/leakguard/leakguard/core/suppress"
)

// FileScanResult is the outcome of scanning a single file.
type FileScanResult struct {
	Path         string
	Findings     []findings.Finding
	Duration     time.Duration
	FileSize     int64
	LinesScanned int
	Skipped      bool
	SkipReason   string
	Error        *scanerr.ScanError
}

// FileScanner orchestrates the per-file pipeline: reject, sample, read,
// filter, detect, post-process.
type FileScanner struct {
	Config     config.Configuration
	Extensions *filter.ExtensionFilter
	Filters    *filter.Chain
	Detector   detect.Detector
	Whitelist  *filter.WhitelistFilter // consulted for value-level exclusion; may be nil
	Cache      *cache.ContentCache     // incremental-scan cache; nil disables step 7
}

// ScanFile runs the full per-file pipeline documented for the file scanner:
// reject invalid/oversized/binary files, read and validate content, apply
// the filter chain, consult the incremental cache, run detectors, and
// post-process the result.
func (fsc *FileScanner) ScanFile(absPath, relPath string) FileScanResult {
	start := time.Now()
	result := FileScanResult{Path: relPath}

	// 1. Reject if missing, unreadable, a directory, or too large.
	info, err := os.Stat(absPath)
	if err != nil {
		result.Error = scanerr.New(scanerr.KindFileRead, relPath, err)
		result.Duration = time.Since(start)
		return result
	}
	if info.IsDir() {
		result.Skipped = true
		result.SkipReason = "is a directory"
		result.Duration = time.Since(start)
		return result
	}
	result.FileSize = info.Size()
	if fsc.Config.MaxFileSize > 0 && info.Size() > fsc.Config.MaxFileSize {
		result.Skipped = true
		result.SkipReason = "exceeds max_file_size"
		result.Duration = time.Since(start)
		return result
	}

	ext := normalizedExt(relPath)
	meta := filter.Metadata{
		AbsPath:    absPath,
		RelPath:    relPath,
		Extension:  ext,
		Size:       info.Size(),
		IsTestFile: filter.IsTestFile(relPath),
	}

	// 2. Reject by extension (hard-coded binary extensions always; a
	// configured allow-list in strict mode).
	if fsc.Extensions != nil && !fsc.Extensions.IncludesFile(meta) {
		result.Skipped = true
		result.SkipReason = "excluded by extension"
		result.Duration = time.Since(start)
		return result
	}

	f, err := os.Open(absPath)
	if err != nil {
		result.Error = scanerr.New(scanerr.KindFileRead, relPath, err)
		result.Duration = time.Since(start)
		return result
	}
	defer f.Close()

	sample := make([]byte, 1024)
	n, _ := f.Read(sample)
	sample = sample[:n]

	// 3. Sample the first 1024 bytes; reject if binary.
	if fsc.Config.Filters.SkipBinary && filter.LooksBinary(sample) {
		result.Skipped = true
		result.SkipReason = "binary content"
		result.Duration = time.Since(start)
		return result
	}

	// 4. Read the full file as UTF-8; reject if decoding fails or content
	// length exceeds the configured maximum.
	content, err := os.ReadFile(absPath)
	if err != nil {
		result.Error = scanerr.New(scanerr.KindFileRead, relPath, err)
		result.Duration = time.Since(start)
		return result
	}
	if !utf8.Valid(content) {
		result.Skipped = true
		result.SkipReason = "not valid UTF-8"
		result.Duration = time.Since(start)
		return result
	}
	if fsc.Config.MaxFileSize > 0 && int64(len(content)) > fsc.Config.MaxFileSize {
		result.Error = scanerr.New(scanerr.KindResource, relPath, fmt.Errorf("content length %d exceeds max_file_size %d", len(content), fsc.Config.MaxFileSize))
		result.Duration = time.Since(start)
		return result
	}

	lines := detect.SplitLines(content)

	// 5. Reject if any line exceeds the configured per-line maximum and
	// long-line scanning is disabled.
	if fsc.Config.Filters.MaxLineLength > 0 && !fsc.Config.AllowLongLines {
		for _, line := range lines {
			if len(line) > fsc.Config.Filters.MaxLineLength {
				result.Skipped = true
				result.SkipReason = "line exceeds max_line_length"
				result.Duration = time.Since(start)
				return result
			}
		}
	}

	if fsc.Config.Filters.SkipEmpty && len(strings.TrimSpace(string(content))) == 0 {
		result.Skipped = true
		result.SkipReason = "empty file"
		result.Duration = time.Since(start)
		return result
	}

	// 6. Apply the filter chain.
	if fsc.Filters != nil && !fsc.Filters.IncludesFile(meta) {
		result.Skipped = true
		result.SkipReason = "excluded by filter chain"
		result.Duration = time.Since(start)
		return result
	}

	// 7. If incremental scanning is enabled, skip unchanged content.
	contentHash := cache.Hash(content)
	if fsc.Cache != nil && fsc.Config.Performance.EnableCaching {
		if fsc.Cache.Unchanged(absPath, contentHash) {
			result.LinesScanned = len(lines)
			result.Duration = time.Since(start)
			return result
		}
	}

	// 8. Build the scan context and run detectors.
	sc := &detect.ScanContext{
		AbsPath:      absPath,
		RelPath:      relPath,
		Extension:    ext,
		IsTestFile:   meta.IsTestFile,
		IsConfigFile: isConfigFile(ext, relPath),
		Content:      content,
		Lines:        lines,
	}

	var raw []findings.Finding
	if fsc.Detector != nil {
		out, err := fsc.Detector.Detect(sc)
		if err != nil {
			result.Error = scanerr.New(scanerr.KindTimeout, relPath, err)
		}
		raw = out
	}

	// Apply line-level filters (whitelist line/comment patterns) before
	// post-processing.
	filtered := raw
	if fsc.Filters != nil {
		filtered = make([]findings.Finding, 0, len(raw))
		for _, fdg := range raw {
			lineText := sc.LineText(fdg.Location.Line)
			if !fsc.Filters.IncludesLine(lineText, fdg.Location.Line, relPath) {
				continue
			}
			filtered = append(filtered, fdg)
		}
	}

	// Drop findings covered by an inline "leakguard:ignore" suppression
	// directive before post-processing, so a suppressed line never appears
	// in the result regardless of which detector flagged it.
	suppressed := suppress.ScanForSuppressions(content, relPath)
	unsuppressed := filtered
	if len(suppressed) > 0 {
		unsuppressed = make([]findings.Finding, 0, len(filtered))
		now := time.Now()
		for _, fdg := range filtered {
			covered := false
			for _, s := range suppressed {
				if s.MatchesFinding(fdg.Secret.RuleID, fdg.Location.Line, now) {
					covered = true
					break
				}
			}
			if !covered {
				unsuppressed = append(unsuppressed, fdg)
			}
		}
	}

	// 9. Post-process.
	processed := fsc.postProcess(unsuppressed, meta)

	result.Findings = processed
	result.LinesScanned = len(lines)
	result.Duration = time.Since(start)
	return result
}

// postProcess implements the dedup/confidence-adjustment/floor/sort
// pipeline applied within a single file's findings.
func (fsc *FileScanner) postProcess(raw []findings.Finding, meta filter.Metadata) []findings.Finding {
	deduped := dedupeWithinFile(raw)

	adjusted := make([]findings.Finding, 0, len(deduped))
	for _, f := range deduped {
		if fsc.Whitelist != nil && fsc.Whitelist.MatchesValue(f.Secret.Value) {
			continue
		}

		c := f.Confidence
		if meta.IsTestFile {
			c *= 0.7
		}
		if f.Context.InComment {
			c *= 0.6
		}
		if detect.IsPlaceholder(f.Secret.Value) {
			c *= 0.5
		}
		if f.Secret.Entropy > 4.5 {
			c *= 1.2
		}
		f = f.WithConfidence(c)

		floor := fsc.Config.ConfidenceFloor
		if f.Confidence <= floor {
			continue
		}
		adjusted = append(adjusted, f)
	}

	sort.SliceStable(adjusted, func(i, j int) bool {
		a, b := adjusted[i], adjusted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		return a.Location.ColStart < b.Location.ColStart
	})

	return adjusted
}

// dedupeWithinFile removes findings sharing (line, col_start, type, value),
// keeping the first occurrence.
func dedupeWithinFile(items []findings.Finding) []findings.Finding {
	seen := make(map[string]bool, len(items))
	out := make([]findings.Finding, 0, len(items))
	for _, f := range items {
		key := fmt.Sprintf("%d\x00%d\x00%s\x00%s", f.Location.Line, f.Location.ColStart, f.Secret.Type, f.Secret.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func normalizedExt(relPath string) string {
	ext := filepath.Ext(relPath)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

var configExtensions = map[string]bool{
	"yaml": true, "yml": true, "json": true, "toml": true, "ini": true,
	"cfg": true, "conf": true, "env": true, "properties": true,
}

func isConfigFile(ext, relPath string) bool {
	if configExtensions[ext] {
		return true
	}
	return strings.HasPrefix(filepath.Base(relPath), ".env")
}

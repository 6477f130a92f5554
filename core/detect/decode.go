package detect

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/leakguard/leakguard/core/catalog"
	"github.com/leakguard/leakguard/core/findings"
)

// decodedSegment is a base64- or hex-encoded run of text found in a file,
// along with its decoded bytes and its byte offset in the original content.
type decodedSegment struct {
	original    string
	decoded     string
	encoding    string // "base64" or "hex"
	startOffset int
}

var (
	reDecodeBase64 = regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`)
	reDecodeHex    = regexp.MustCompile(`(?i)[0-9a-f]{40,}`)
)

// decodeBase64Segments finds and decodes base64-encoded runs in content.
func decodeBase64Segments(content []byte) []decodedSegment {
	var segments []decodedSegment
	for _, loc := range reDecodeBase64.FindAllIndex(content, -1) {
		raw := string(content[loc[0]:loc[1]])
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			decoded, err = base64.URLEncoding.DecodeString(raw)
			if err != nil {
				continue
			}
		}
		if !isPrintableBytes(decoded) {
			continue
		}
		segments = append(segments, decodedSegment{
			original:    raw,
			decoded:     string(decoded),
			encoding:    "base64",
			startOffset: loc[0],
		})
	}
	return segments
}

// decodeHexSegments finds and decodes hex-encoded runs in content.
func decodeHexSegments(content []byte) []decodedSegment {
	var segments []decodedSegment
	for _, loc := range reDecodeHex.FindAllIndex(content, -1) {
		raw := string(content[loc[0]:loc[1]])
		if len(raw)%2 != 0 {
			continue
		}
		decoded, err := hex.DecodeString(strings.ToLower(raw))
		if err != nil {
			continue
		}
		if !isPrintableBytes(decoded) {
			continue
		}
		segments = append(segments, decodedSegment{
			original:    raw,
			decoded:     string(decoded),
			encoding:    "hex",
			startOffset: loc[0],
		})
	}
	return segments
}

// isPrintableBytes reports whether data is mostly printable ASCII, the
// signal used to decide a decoded blob is worth re-scanning rather than
// being opaque binary noise.
func isPrintableBytes(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	printable := 0
	for _, b := range data {
		if b >= 0x20 && b <= 0x7e {
			printable++
		}
	}
	return float64(printable)/float64(len(data)) > 0.8
}

// DecodeDetector finds base64- and hex-encoded runs in a file, decodes them,
// and re-scans the decoded text with the pattern rule set, so a secret that
// is itself base64- or hex-wrapped (e.g. a PEM key pasted as a base64 blob,
// or an API key hex-encoded into a fixture) is still caught. Findings are
// reported at the location of the encoded run in the original file, not at
// an offset into the transient decoded buffer.
type DecodeDetector struct {
	Rules []catalog.Rule
}

// NewDecodeDetector returns a DecodeDetector that re-scans decoded content
// against rules.
func NewDecodeDetector(rules []catalog.Rule) *DecodeDetector {
	return &DecodeDetector{Rules: rules}
}

// Name implements Detector.
func (d *DecodeDetector) Name() findings.DetectorName {
	return findings.DetectorDecoded
}

// Detect implements Detector: it extracts base64/hex runs from sc.Content,
// decodes each, runs the pattern detector against the decoded text, and
// remaps any match back to the encoded run's position in the original file.
func (d *DecodeDetector) Detect(sc *ScanContext) ([]findings.Finding, error) {
	segments := decodeBase64Segments(sc.Content)
	segments = append(segments, decodeHexSegments(sc.Content)...)
	if len(segments) == 0 {
		return nil, nil
	}

	lineStarts := computeLineStarts(sc.Content)
	inner := &PatternDetector{Rules: d.Rules}

	var out []findings.Finding
	for _, seg := range segments {
		line, col := resolveLineCol(lineStarts, seg.startOffset)
		lineText := sc.LineText(line)

		decodedSC := &ScanContext{
			AbsPath:      sc.AbsPath,
			RelPath:      sc.RelPath,
			Extension:    sc.Extension,
			IsTestFile:   sc.IsTestFile,
			IsConfigFile: sc.IsConfigFile,
			Content:      []byte(seg.decoded),
			Lines:        SplitLines([]byte(seg.decoded)),
		}

		matches, err := inner.Detect(decodedSC)
		if err != nil {
			continue
		}
		for _, m := range matches {
			m.Location = findings.Location{
				AbsPath:  sc.AbsPath,
				RelPath:  sc.RelPath,
				Line:     line,
				ColStart: col,
				ColEnd:   col + len(seg.original),
				LineText: lineText,
			}
			m.Secret.Description = fmt.Sprintf("%s (decoded from %s)", m.Secret.Description, seg.encoding)
			m.Context.InComment = IsCommentLine(lineText)
			m.Context.InTestFile = sc.IsTestFile
			m.Detectors = []findings.DetectorName{findings.DetectorDecoded}
			m.Confidence *= 0.9
			if m.Confidence > 1 {
				m.Confidence = 1
			}
			out = append(out, m)
		}
	}
	return out, nil
}

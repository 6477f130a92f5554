package detect

import (
	"regexp"

	"github.com/leakguard/leakguard/core/entropy"
	"github.com/leakguard/leakguard/core/findings"
)

// EntropyDetector flags high-entropy substrings extracted from file
// content via several independent extraction strategies.
type EntropyDetector struct {
	MinLength       int
	MaxLength       int
	ConfidenceFloor float64
	HexThreshold    float64
	Base64Threshold float64
	AlnumThreshold  float64
}

// NewEntropyDetector returns an EntropyDetector with the given candidate
// length bounds and confidence floor, using the charset-specific entropy
// thresholds from the specification (hex ~3.0, base64 ~4.5,
// alphanumeric ~3.5).
func NewEntropyDetector(minLength, maxLength int, confidenceFloor float64) *EntropyDetector {
	return &EntropyDetector{
		MinLength:       minLength,
		MaxLength:       maxLength,
		ConfidenceFloor: confidenceFloor,
		HexThreshold:    3.0,
		Base64Threshold: 4.5,
		AlnumThreshold:  3.5,
	}
}

// Name implements Detector.
func (d *EntropyDetector) Name() findings.DetectorName {
	return findings.DetectorEntropy
}

var (
	quotedStringPattern    = regexp.MustCompile(`"([^"\n]+)"|'([^'\n]+)'`)
	secretVarAssignPattern = regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret|password|auth)\b\s*[=:]\s*["']?([A-Za-z0-9+/=_\-.]+)["']?`)
	urlQueryParamPattern   = regexp.MustCompile(`(?i)\b(token|key|auth|secret)=([A-Za-z0-9+/=_\-.]+)`)
	jsonValuePattern       = regexp.MustCompile(`(?i)"(api[_-]?key|token|secret|password|auth)"\s*:\s*"([^"]+)"`)
	longRunPattern         = regexp.MustCompile(`[A-Za-z0-9+/=_\-]{20,}`)
)

// candidate pairs an extracted string with the column at which it starts
// on its line.
type candidate struct {
	value string
	col   int
}

// Detect implements Detector: candidates are extracted line by line using
// five strategies, deduplicated by value per line, scored by entropy, and
// emitted when their confidence clears the configured floor.
func (d *EntropyDetector) Detect(sc *ScanContext) ([]findings.Finding, error) {
	var out []findings.Finding

	for idx, line := range sc.Lines {
		lineNo := idx + 1
		seen := make(map[string]bool)

		for _, c := range d.extractCandidates(line) {
			if seen[c.value] {
				continue
			}
			seen[c.value] = true

			if len(c.value) < d.MinLength || len(c.value) > d.MaxLength {
				continue
			}

			confidence, charset := d.score(c.value)
			if confidence < d.ConfidenceFloor {
				continue
			}

			out = append(out, findings.Finding{
				Location: findings.Location{
					AbsPath:  sc.AbsPath,
					RelPath:  sc.RelPath,
					Line:     lineNo,
					ColStart: c.col,
					ColEnd:   c.col + len(c.value),
					LineText: line,
				},
				Secret: findings.Secret{
					Value:   c.value,
					Type:    findings.TypeHighEntropy,
					Entropy: entropy.Shannon(c.value),
					RuleID:  "entropy:" + string(charset),
				},
				Context: findings.Context{
					InComment:  IsCommentLine(line),
					InTestFile: sc.IsTestFile,
				},
				Severity:   findings.SeverityMedium,
				Confidence: confidence,
				Detectors:  []findings.DetectorName{findings.DetectorEntropy},
			})
		}
	}
	return out, nil
}

// extractCandidates runs all five extraction strategies against line and
// returns their union.
func (d *EntropyDetector) extractCandidates(line string) []candidate {
	var out []candidate

	for _, m := range quotedStringPattern.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, submatchCandidate(line, m))
	}
	for _, m := range secretVarAssignPattern.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, groupCandidate(line, m, 2))
	}
	for _, m := range urlQueryParamPattern.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, groupCandidate(line, m, 2))
	}
	for _, m := range jsonValuePattern.FindAllStringSubmatchIndex(line, -1) {
		out = append(out, groupCandidate(line, m, 2))
	}
	for _, loc := range longRunPattern.FindAllStringIndex(line, -1) {
		value := line[loc[0]:loc[1]]
		if uniqueCharRatio(value) > 0.3 {
			out = append(out, candidate{value: value, col: loc[0]})
		}
	}
	return out
}

// submatchCandidate extracts whichever of the two quoted-string groups
// matched (double or single quotes).
func submatchCandidate(line string, m []int) candidate {
	if m[2] >= 0 {
		return candidate{value: line[m[2]:m[3]], col: m[2]}
	}
	return candidate{value: line[m[4]:m[5]], col: m[4]}
}

// groupCandidate extracts submatch group g from a FindAllStringSubmatchIndex
// match.
func groupCandidate(line string, m []int, g int) candidate {
	start, end := m[2*g], m[2*g+1]
	if start < 0 {
		return candidate{}
	}
	return candidate{value: line[start:end], col: start}
}

// uniqueCharRatio returns the fraction of distinct characters in s.
func uniqueCharRatio(s string) float64 {
	if s == "" {
		return 0
	}
	seen := make(map[rune]bool)
	for _, r := range s {
		seen[r] = true
	}
	return float64(len(seen)) / float64(len([]rune(s)))
}

// score computes the entropy-based confidence for a candidate value: the
// normalized entropy weighted by a charset multiplier and a length
// multiplier, down-weighted for sequential/repeating/placeholder values.
func (d *EntropyDetector) score(value string) (float64, entropy.Charset) {
	charset := entropy.Classify(value)
	h := entropy.Shannon(value)

	var threshold float64
	switch charset {
	case entropy.CharsetHex:
		threshold = d.HexThreshold
	case entropy.CharsetBase64:
		threshold = d.Base64Threshold
	default:
		threshold = d.AlnumThreshold
	}
	if h < threshold {
		return 0, charset
	}

	normalized := entropy.Normalized(value)
	charsetMultiplier := charsetMultiplierFor(charset)
	lengthMultiplier := lengthMultiplierFor(len(value))

	confidence := normalized * charsetMultiplier * lengthMultiplier

	if IsSequential(value) || HasRepeatingSubstring(value) || IsPlaceholder(value) {
		confidence *= 0.3
	}

	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence, charset
}

func charsetMultiplierFor(c entropy.Charset) float64 {
	switch c {
	case entropy.CharsetBase64:
		return 1.1
	case entropy.CharsetHex:
		return 0.9
	case entropy.CharsetAlphanumeric:
		return 1.0
	default:
		return 0.8
	}
}

func lengthMultiplierFor(length int) float64 {
	switch {
	case length >= 40:
		return 1.2
	case length >= 20:
		return 1.0
	default:
		return 0.8
	}
}

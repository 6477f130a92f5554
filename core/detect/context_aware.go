package detect

import (
	"regexp"
	"strings"

	"github.com/leakguard/leakguard/core/entropy"
	"github.com/leakguard/leakguard/core/findings"
)

// ContextAwareDetector classifies candidate secrets using structural
// signals from the surrounding line: assignment variable names, comment
// context, enclosing declaration, and path-level hints.
type ContextAwareDetector struct{}

// NewContextAwareDetector returns a ready-to-use ContextAwareDetector.
func NewContextAwareDetector() *ContextAwareDetector {
	return &ContextAwareDetector{}
}

// Name implements Detector.
func (d *ContextAwareDetector) Name() findings.DetectorName {
	return findings.DetectorContext
}

var assignmentPattern = regexp.MustCompile(`(?i)\b([A-Za-z_][A-Za-z0-9_]*)\s*[=:]\s*["']([^"'\n]+)["']`)

var declarationPattern = regexp.MustCompile(`(?i)\b(?:func|function|def|class|interface|struct|fun)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// baseConfidenceByType gives the starting confidence for a value classified
// by its recognized shape, before any contextual adjustment.
var baseConfidenceByType = map[findings.SecretType]float64{
	findings.TypePrivateKey:  0.9,
	findings.TypeCertificate: 0.9,
	findings.TypeDatabaseURL: 0.8,
	findings.TypeAPIKey:      0.7,
	findings.TypeAccessToken: 0.7,
	findings.TypeJWT:         0.7,
	findings.TypePassword:    0.6,
	findings.TypeUnknown:     0.3,
}

// Detect implements Detector: each line is parsed into a lightweight
// context record (comment?, assignment name/value, enclosing declaration),
// and candidates drawn from assignment values are scored by composite
// rules.
func (d *ContextAwareDetector) Detect(sc *ScanContext) ([]findings.Finding, error) {
	var out []findings.Finding
	enclosing := ""

	for idx, line := range sc.Lines {
		lineNo := idx + 1

		if m := declarationPattern.FindStringSubmatch(line); m != nil {
			enclosing = m[1]
		}

		matches := assignmentPattern.FindAllStringSubmatchIndex(line, -1)
		for _, m := range matches {
			varName := line[m[2]:m[3]]
			value := line[m[4]:m[5]]

			if value == "" {
				continue
			}

			secretType := classifyValue(value)
			confidence := d.score(secretType, value, varName, line, sc)
			if confidence <= 0.3 {
				continue
			}

			out = append(out, findings.Finding{
				Location: findings.Location{
					AbsPath:  sc.AbsPath,
					RelPath:  sc.RelPath,
					Line:     lineNo,
					ColStart: m[4],
					ColEnd:   m[5],
					LineText: line,
				},
				Secret: findings.Secret{
					Value:   value,
					Type:    secretType,
					Entropy: entropy.Shannon(value),
				},
				Context: findings.Context{
					InComment:     IsCommentLine(line),
					InTestFile:    sc.IsTestFile,
					InConfigFile:  sc.IsConfigFile,
					EnclosingName: enclosing,
				},
				Severity:   severityForType(secretType),
				Confidence: confidence,
				Detectors:  []findings.DetectorName{findings.DetectorContext},
			})
		}
	}
	return out, nil
}

// classifyValue gives a coarse SecretType classification for a bare value
// based on its shape, independent of the catalog's regex rules.
func classifyValue(value string) findings.SecretType {
	switch {
	case strings.Contains(value, "BEGIN") && strings.Contains(value, "PRIVATE KEY"):
		return findings.TypePrivateKey
	case strings.Contains(value, "BEGIN CERTIFICATE"):
		return findings.TypeCertificate
	case strings.Contains(value, "://") && strings.Contains(value, "@"):
		return findings.TypeDatabaseURL
	case strings.Count(value, ".") == 2 && strings.HasPrefix(value, "eyJ"):
		return findings.TypeJWT
	case entropy.Shannon(value) >= 4.0 && len(value) >= 20:
		return findings.TypeHighEntropy
	default:
		return findings.TypeUnknown
	}
}

func severityForType(t findings.SecretType) findings.Severity {
	switch t {
	case findings.TypePrivateKey, findings.TypeCertificate:
		return findings.SeverityCritical
	case findings.TypeDatabaseURL, findings.TypeAPIKey, findings.TypeAccessToken:
		return findings.SeverityHigh
	case findings.TypeJWT, findings.TypePassword:
		return findings.SeverityMedium
	default:
		return findings.SeverityLow
	}
}

// score composites the base confidence for secretType with structural
// adjustments from the line, variable name, and file path.
func (d *ContextAwareDetector) score(secretType findings.SecretType, value, varName, line string, sc *ScanContext) float64 {
	c, ok := baseConfidenceByType[secretType]
	if !ok {
		c = baseConfidenceByType[findings.TypeUnknown]
	}
	if secretType == findings.TypeHighEntropy {
		c = entropy.Shannon(value) / 8
	}

	if IsCommentLine(line) && !IsHighConfidencePattern(value) {
		c *= 0.3
	}
	if sc.IsTestFile {
		c *= 0.4
	}
	if IsSecretLikeName(varName) {
		c *= 1.5
	} else if IsTestLikeName(varName) {
		c *= 0.3
	}
	if IsPlaceholder(value) {
		c *= 0.1
	}

	path := strings.ToLower(sc.RelPath)
	switch {
	case strings.Contains(path, "config") || strings.Contains(path, "env"):
		c *= 1.2
	case strings.Contains(path, "test") || strings.Contains(path, "mock"):
		c *= 0.5
	case strings.Contains(path, "example") || strings.Contains(path, "sample"):
		c *= 0.3
	}

	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

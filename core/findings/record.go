package findings

import "fmt"

// Record is the stable, flat serialized shape of a Finding, consumed by
// report formatters and any downstream tooling. Field names match the
// external interface's recognized keys; they are not renamed even when the
// internal Finding model changes shape.
type Record struct {
	ID          string       `json:"id"`
	File        string       `json:"file"`
	Line        int          `json:"line"`
	Column      int          `json:"column"`
	Severity    Severity     `json:"severity"`
	Type        SecretType   `json:"type"`
	Description string       `json:"description"`
	PatternID   string       `json:"pattern_id"`
	Detector    DetectorName `json:"detector"`
	Confidence  float64      `json:"confidence"`
	MaskedValue string       `json:"masked_value"`
}

// ToRecord flattens f into its stable serialized shape, masking the secret
// value and falling back to a synthesized description when the detector
// that produced f did not supply one. When multiple detectors contributed
// to f, Detector reports the first entry in provenance order (typically the
// composite detector for merged findings).
func (f Finding) ToRecord() Record {
	description := f.Secret.Description
	if description == "" {
		description = fmt.Sprintf("%s detected", f.Secret.Type)
	}

	var detector DetectorName
	if len(f.Detectors) > 0 {
		detector = f.Detectors[0]
	}

	return Record{
		ID:          f.ID,
		File:        f.Location.RelPath,
		Line:        f.Location.Line,
		Column:      f.Location.ColStart,
		Severity:    f.Severity,
		Type:        f.Secret.Type,
		Description: description,
		PatternID:   f.Secret.RuleID,
		Detector:    detector,
		Confidence:  f.Confidence,
		MaskedValue: MaskValue(f.Secret.Value),
	}
}

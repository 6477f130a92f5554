package detect

import "testing"

func TestEntropyDetectorFlagsHighEntropyToken(t *testing.T) {
	sc := newTestScanContext(`val token = "dGhpc2lzYXJlYWxseWxvbmdyYW5kb21sb29raW5ndG9rZW4xMjM0NTY3ODkw"`)
	d := NewEntropyDetector(16, 256, 0.3)

	got, err := d.Detect(sc)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one entropy finding for a long high-entropy base64 string")
	}
	for _, f := range got {
		if f.Confidence < 0.3 {
			t.Errorf("finding confidence %v below configured floor", f.Confidence)
		}
	}
}

func TestEntropyDetectorSkipsLowEntropyRepeats(t *testing.T) {
	sc := newTestScanContext(`val padding = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"`)
	d := NewEntropyDetector(16, 256, 0.3)

	got, _ := d.Detect(sc)
	if len(got) != 0 {
		t.Errorf("expected no findings for a low-entropy repeated string, got %d", len(got))
	}
}

func TestEntropyDetectorSkipsPlaceholder(t *testing.T) {
	sc := newTestScanContext(`secret_key = "example_placeholder_value_1234567890abcdef"`)
	d := NewEntropyDetector(16, 256, 0.3)

	got, _ := d.Detect(sc)
	for _, f := range got {
		if f.Secret.Value == "example_placeholder_value_1234567890abcdef" {
			t.Errorf("expected placeholder value to be down-weighted below floor, got confidence %v", f.Confidence)
		}
	}
}

func TestEntropyDetectorRespectsLengthBounds(t *testing.T) {
	sc := newTestScanContext(`val x = "dGhpc2lzYXJlYWxseWxvbmdyYW5kb21sb29raW5ndG9rZW4xMjM0NTY3ODkw"`)
	d := NewEntropyDetector(1000, 2000, 0.0)

	got, _ := d.Detect(sc)
	if len(got) != 0 {
		t.Errorf("expected no findings when candidate length is below MinLength, got %d", len(got))
	}
}

func TestUniqueCharRatio(t *testing.T) {
	if got := uniqueCharRatio("aaaa"); got != 0.25 {
		t.Errorf("uniqueCharRatio(aaaa) = %v, want 0.25", got)
	}
	if got := uniqueCharRatio("abcd"); got != 1 {
		t.Errorf("uniqueCharRatio(abcd) = %v, want 1", got)
	}
}

package catalog

import "testing"

func TestLoadFile(t *testing.T) {
	c, err := LoadFile("testdata/custom_rules.yaml")
	if err != nil {
		t.Fatalf("LoadFile() = %v", err)
	}
	r, ok := c.ByID("CUSTOM-001")
	if !ok {
		t.Fatal("CUSTOM-001 not found after LoadFile")
	}
	re, err := r.Compile()
	if err != nil {
		t.Fatalf("Compile() = %v", err)
	}
	if !re.MatchString("internal_tok_deadbeefdeadbeefdeadbeefdeadbeef") {
		t.Error("expected custom rule pattern to match sample token")
	}
}

func TestLoadDir(t *testing.T) {
	c, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir() = %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("LoadDir() returned an empty catalog")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("testdata/does_not_exist.yaml"); err == nil {
		t.Fatal("LoadFile() = nil error, want error for missing file")
	}
}

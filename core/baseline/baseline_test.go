package baseline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leakguard/leakguard/core/findings"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.json")

	bl := &Baseline{}
	now := time.Now().UTC()
	bl.Add(&Entry{
		ID:        "abc123",
		RuleID:    "LG-GEN-001",
		FilePath:  "config.env",
		Severity:  findings.SeverityHigh,
		CreatedAt: now,
	})

	if err := bl.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", loaded.Len())
	}
	if loaded.Entries[0].ID != "abc123" {
		t.Fatalf("expected id abc123, got %s", loaded.Entries[0].ID)
	}
	if loaded.Entries[0].RuleID != "LG-GEN-001" {
		t.Fatalf("expected RuleID LG-GEN-001, got %s", loaded.Entries[0].RuleID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	bl, err := Load("/nonexistent/baseline.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if bl.Len() != 0 {
		t.Fatalf("expected empty baseline, got %d entries", bl.Len())
	}
}

func TestMatch_Found(t *testing.T) {
	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})

	f := findings.Finding{ID: "fp1"}
	if bl.Match(&f) == nil {
		t.Fatal("expected match, got nil")
	}
}

func TestMatch_NotFound(t *testing.T) {
	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})

	f := findings.Finding{ID: "fp2"}
	if bl.Match(&f) != nil {
		t.Fatal("expected no match")
	}
}

func TestMatch_Expired(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	bl := &Baseline{}
	bl.Add(&Entry{
		ID:        "fp1",
		RuleID:    "LG-GEN-001",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: &past,
	})

	f := findings.Finding{ID: "fp1"}
	if bl.Match(&f) != nil {
		t.Fatal("expected expired entry to not match")
	}
}

func TestPrune(t *testing.T) {
	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})
	bl.Add(&Entry{ID: "fp2", RuleID: "LG-GEN-002", CreatedAt: time.Now()})
	bl.Add(&Entry{ID: "fp3", RuleID: "LG-AWS-001", CreatedAt: time.Now()})

	current := []findings.Finding{
		{ID: "fp1"},
		{ID: "fp3"},
	}

	removed := bl.Prune(current)
	if removed != 1 {
		t.Fatalf("expected 1 pruned, got %d", removed)
	}
	if bl.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", bl.Len())
	}
}

func TestSave_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "baseline.json")

	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})

	if err := bl.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not created: %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath("/project")
	want := filepath.FromSlash("/project/.leakguard/baseline.json")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFromFindings(t *testing.T) {
	ff := []findings.Finding{
		{ID: "fp1", Secret: findings.Secret{RuleID: "LG-GEN-001"}, Severity: findings.SeverityHigh, Location: findings.Location{RelPath: "a.go"}},
		{ID: "fp2", Secret: findings.Secret{RuleID: "LG-GEN-002"}, Severity: findings.SeverityLow, Location: findings.Location{RelPath: "b.go"}},
	}

	entries := FromFindings(ff)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "fp1" {
		t.Fatal("wrong id")
	}
	if entries[1].Severity != findings.SeverityLow {
		t.Fatal("wrong severity")
	}
}

func TestExpiredCount(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", CreatedAt: time.Now(), ExpiresAt: &past})
	bl.Add(&Entry{ID: "fp2", CreatedAt: time.Now(), ExpiresAt: &future})
	bl.Add(&Entry{ID: "fp3", CreatedAt: time.Now()})

	if bl.ExpiredCount() != 1 {
		t.Fatalf("expected 1 expired, got %d", bl.ExpiredCount())
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.json")

	if err := os.WriteFile(path, []byte("{invalid json!!!}"), 0o644); err != nil {
		t.Fatalf("writing invalid baseline: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestLoad_ReadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.json")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error when path is a directory, got nil")
	}
}

func TestSave_MkdirAllFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o444); err != nil {
		t.Fatalf("writing blocker: %v", err)
	}

	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})

	err := bl.Save(filepath.Join(blocker, "sub", "baseline.json"))
	if err == nil {
		t.Fatal("expected error when MkdirAll fails, got nil")
	}
}

func TestSave_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baseline.json")

	bl1 := &Baseline{}
	bl1.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})
	if err := bl1.Save(path); err != nil {
		t.Fatalf("first save: %v", err)
	}

	bl2 := &Baseline{}
	bl2.Add(&Entry{ID: "fp2", RuleID: "LG-GEN-002", CreatedAt: time.Now()})
	bl2.Add(&Entry{ID: "fp3", RuleID: "LG-AWS-001", CreatedAt: time.Now()})
	if err := bl2.Save(path); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 entries after overwrite, got %d", loaded.Len())
	}
}

func TestAdd_NilIndex(t *testing.T) {
	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})

	f := findings.Finding{ID: "fp1"}
	if bl.Match(&f) == nil {
		t.Fatal("expected match after Add with nil initial index")
	}
}

func TestBuildIndex_RebuildsCorrectly(t *testing.T) {
	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})
	bl.Add(&Entry{ID: "fp2", RuleID: "LG-GEN-002", CreatedAt: time.Now()})

	bl.buildIndex()

	f1 := findings.Finding{ID: "fp1"}
	f2 := findings.Finding{ID: "fp2"}
	if bl.Match(&f1) == nil {
		t.Fatal("expected match for fp1 after rebuild")
	}
	if bl.Match(&f2) == nil {
		t.Fatal("expected match for fp2 after rebuild")
	}
}

func TestDiff_ExcludesBaselined(t *testing.T) {
	bl := &Baseline{}
	bl.Add(&Entry{ID: "fp1", RuleID: "LG-GEN-001", CreatedAt: time.Now()})

	current := []findings.Finding{
		{ID: "fp1"},
		{ID: "fp2"},
	}

	fresh := Diff(bl, current)
	if len(fresh) != 1 || fresh[0].ID != "fp2" {
		t.Fatalf("expected only fp2 to remain, got %v", fresh)
	}
}

func TestDiff_NilBaselineReturnsAll(t *testing.T) {
	current := []findings.Finding{{ID: "fp1"}, {ID: "fp2"}}
	fresh := Diff(nil, current)
	if len(fresh) != 2 {
		t.Fatalf("expected all findings with nil baseline, got %d", len(fresh))
	}
}

package cache

import (
	"path/filepath"
	"testing"
)

func TestUnchangedFirstSeenIsFalse(t *testing.T) {
	c := New()
	if c.Unchanged("/a.go", Hash([]byte("hello"))) {
		t.Error("expected first observation of a path to report changed")
	}
}

func TestUnchangedSameHashIsTrue(t *testing.T) {
	c := New()
	h := Hash([]byte("hello"))
	c.Unchanged("/a.go", h)
	if !c.Unchanged("/a.go", h) {
		t.Error("expected repeated identical hash to report unchanged")
	}
}

func TestUnchangedDifferentHashIsFalse(t *testing.T) {
	c := New()
	c.Unchanged("/a.go", Hash([]byte("hello")))
	if c.Unchanged("/a.go", Hash([]byte("world"))) {
		t.Error("expected a changed hash to report changed")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c := New()
	c.Set("/a.go", "hash-a")
	c.Set("/b.go", "hash-b")

	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", loaded.Len())
	}
	h, ok := loaded.Get("/a.go")
	if !ok || h != "hash-a" {
		t.Errorf("expected hash-a for /a.go, got %q (ok=%v)", h, ok)
	}
}

func TestLoadMissingFileReturnsEmptyCache(t *testing.T) {
	c, err := Load("/nonexistent/cache.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath("/project")
	want := filepath.FromSlash("/project/.leakguard/cache.json")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

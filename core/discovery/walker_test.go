package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWalkFindsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.go"), "package main")
	writeFile(t, filepath.Join(dir, "sub", "b.go"), "package sub")

	w, err := NewWalker(dir, false)
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}
	entries, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RelPath != "a.go" || entries[1].RelPath != "sub/b.go" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestWalkSkipsGitDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/main")
	writeFile(t, filepath.Join(dir, "a.go"), "package main")

	w, _ := NewWalker(dir, false)
	entries, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 1 || entries[0].RelPath != "a.go" {
		t.Fatalf("expected only a.go, got %+v", entries)
	}
}

func TestWalkRespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "vendor/\n*.log\n")
	writeFile(t, filepath.Join(dir, "vendor", "dep.go"), "package dep")
	writeFile(t, filepath.Join(dir, "debug.log"), "noise")
	writeFile(t, filepath.Join(dir, "a.go"), "package main")

	w, err := NewWalker(dir, false)
	if err != nil {
		t.Fatalf("NewWalker: %v", err)
	}
	entries, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.RelPath)
	}
	for _, unwanted := range []string{"vendor/dep.go", "debug.log"} {
		for _, p := range paths {
			if p == unwanted {
				t.Fatalf("expected %s to be ignored, got entries %v", unwanted, paths)
			}
		}
	}
}

func TestWalkRespectsLeakguardignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".leakguardignore"), "fixtures/\n")
	writeFile(t, filepath.Join(dir, "fixtures", "sample.go"), "package fixtures")
	writeFile(t, filepath.Join(dir, "a.go"), "package main")

	w, _ := NewWalker(dir, false)
	entries, err := w.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 1 || entries[0].RelPath != "a.go" {
		t.Fatalf("expected only a.go, got %+v", entries)
	}
}

func TestIsIgnoredHandlesNegation(t *testing.T) {
	patterns := []string{"*.log", "!keep.log"}
	if !IsIgnored("debug.log", patterns) {
		t.Error("expected debug.log to be ignored")
	}
	if IsIgnored("keep.log", patterns) {
		t.Error("expected keep.log to be un-ignored by negation")
	}
}

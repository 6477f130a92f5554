package discovery

import (
	"os"
	"path/filepath"
	"sort"
)

// Entry is a single candidate file discovered under a Walker's root.
type Entry struct {
	RelPath string
	AbsPath string
	Size    int64
}

// Walker recursively enumerates regular files under Root, excluding
// .git and anything matched by gitignore-style IgnorePatterns.
type Walker struct {
	Root           string
	IgnorePatterns []string
	FollowSymlinks bool
}

// NewWalker builds a Walker rooted at root, loading .gitignore and
// .leakguardignore patterns from root. If neither file exists, the walker
// proceeds with no ignore patterns.
func NewWalker(root string, followSymlinks bool) (*Walker, error) {
	patterns, err := LoadIgnorePatterns(root)
	if err != nil {
		return nil, err
	}
	return &Walker{Root: root, IgnorePatterns: patterns, FollowSymlinks: followSymlinks}, nil
}

// Walk traverses Root and returns every regular file not excluded by
// IgnorePatterns, sorted by relative path for deterministic scan ordering.
func (w *Walker) Walk() ([]Entry, error) {
	absRoot, err := filepath.Abs(w.Root)
	if err != nil {
		return nil, err
	}

	var entries []Entry

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if info.IsDir() && info.Name() == ".git" {
			return filepath.SkipDir
		}

		if IsIgnored(rel, w.IgnorePatterns) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		isSymlink := info.Mode()&os.ModeSymlink != 0
		if isSymlink && !w.FollowSymlinks {
			return nil
		}

		if !info.Mode().IsRegular() && !isSymlink {
			return nil
		}

		entries = append(entries, Entry{
			RelPath: filepath.ToSlash(rel),
			AbsPath: path,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelPath < entries[j].RelPath
	})

	return entries, nil
}

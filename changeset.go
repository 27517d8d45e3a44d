package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	sourceTestsDir = "test/core"
	wastExt        = ".wast"
)

// ChangeSetDetector computes which source test files are eligible for
// copying. Eligibility is tracked by file base name, not full path: the
// selection step matches name patterns, so two same-named files in
// different subdirectories are indistinguishable to it. Known ambiguity,
// kept for compatibility with existing configurations.
type ChangeSetDetector struct {
	git *Git
}

func NewChangeSetDetector(git *Git) *ChangeSetDetector {
	return &ChangeSetDetector{git: git}
}

// Changes returns the sorted base names of source test files considered
// changed. A root repository's entire corpus is always eligible; a child's
// eligibility is the name-only diff against the parent's tip, restricted to
// the source-tests tree.
func (d *ChangeSetDetector) Changes(dir string, hasParent bool, parentRef string) ([]string, error) {
	if !hasParent {
		return d.allSourceTests(dir)
	}

	paths, err := d.git.DiffNameOnly(dir, "HEAD", parentRef, sourceTestsDir)
	if err != nil {
		return nil, err
	}
	return baseNames(paths), nil
}

func (d *ChangeSetDetector) allSourceTests(dir string) ([]string, error) {
	root := filepath.Join(dir, filepath.FromSlash(sourceTestsDir))
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return baseNames(paths), nil
}

func baseNames(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		name := filepath.Base(filepath.FromSlash(path))
		if !strings.HasSuffix(name, wastExt) {
			continue
		}
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

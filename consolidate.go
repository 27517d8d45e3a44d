package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Output categories under tests/.
const (
	categoryWast = "wast"
	categoryWpt  = "wpt"
	categoryJS   = "js"
)

// Consolidator copies selected files from a repository's per-category
// source trees into the shared output tree and writes directive files.
type Consolidator struct {
	outDir string
	log    *logrus.Logger
}

func NewConsolidator(outDir string, log *logrus.Logger) *Consolidator {
	return &Consolidator{outDir: outDir, log: log}
}

func (c *Consolidator) testsDir() string {
	return filepath.Join(c.outDir, "tests")
}

// CopyCategory walks srcDir and copies every selected file into
// tests/<category>/<repoName>/<destPrefix>/<relativePath>. Selection
// patterns see the slash-separated path relative to srcDir; destPrefix
// restores the repo-relative location in the output tree (test/core for
// source tests, empty for the generated categories). A missing srcDir
// copies nothing.
func (c *Consolidator) CopyCategory(srcDir string, category string, repoName string, destPrefix string, sel *FileSelector) error {
	if _, err := os.Stat(srcDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	destRoot := filepath.Join(c.testsDir(), category, repoName, filepath.FromSlash(destPrefix))
	return filepath.WalkDir(srcDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if !sel.Selected(filepath.ToSlash(rel)) {
			return nil
		}
		dest := filepath.Join(destRoot, rel)
		c.log.Debugf("copy %s -> %s", path, dest)
		return copyFile(path, dest)
	})
}

// WriteDirectives emits the script-test directive files for one repo: the
// global harness directive verbatim, and the concatenation of the global
// and repo directives (global first) when non-empty.
func (c *Consolidator) WriteDirectives(cfg *Config, repo RepoSpec) error {
	jsDir := filepath.Join(c.testsDir(), categoryJS, repo.Name)
	if cfg.HarnessDirective != "" {
		path := filepath.Join(jsDir, "harness", "directives.txt")
		if err := writeFileMkdir(path, cfg.HarnessDirective); err != nil {
			return err
		}
	}
	directives := cfg.Directive + repo.Directive
	if directives != "" {
		path := filepath.Join(jsDir, "directives.txt")
		if err := writeFileMkdir(path, directives); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src string, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeFileMkdir(path string, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

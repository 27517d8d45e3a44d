package main

import (
	"errors"
	"os/exec"
	"strings"
)

// Git wraps the primitive version-control operations the pipeline needs.
// Mutating operations always go through the git binary; read operations try
// go-git in process first and fall back to the binary.
type Git struct {
	path string
	run  CommandRunner
}

func NewGit(run CommandRunner) (*Git, error) {
	path, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.New("git not installed")
	}
	return &Git{path: path, run: run}, nil
}

func (g *Git) Clone(dir string, url string, dest string) error {
	_, err := g.run.Run(dir, g.path, "clone", url, dest)
	return err
}

func (g *Git) RemoteAdd(dir string, name string, url string) error {
	_, err := g.run.Run(dir, g.path, "remote", "add", name, url)
	return err
}

func (g *Git) Branch(dir string, name string) error {
	_, err := g.run.Run(dir, g.path, "branch", name)
	return err
}

func (g *Git) Fetch(dir string, remote string) error {
	_, err := g.run.Run(dir, g.path, "fetch", remote)
	return err
}

func (g *Git) Checkout(dir string, ref string) error {
	_, err := g.run.Run(dir, g.path, "checkout", ref)
	return err
}

func (g *Git) ResetHard(dir string, rev string) error {
	_, err := g.run.Run(dir, g.path, "reset", rev, "--hard")
	return err
}

func (g *Git) Merge(dir string, ref string, message string) error {
	_, err := g.run.Run(dir, g.path, "merge", "-q", ref, "-m", message)
	return err
}

// CheckoutOurs forces the local side of path during an in-progress merge.
func (g *Git) CheckoutOurs(dir string, path string) error {
	_, err := g.run.Run(dir, g.path, "checkout", "--ours", path)
	return err
}

func (g *Git) Add(dir string, path string) error {
	_, err := g.run.Run(dir, g.path, "add", path)
	return err
}

// MergeContinue finishes an in-progress merge without opening an editor.
func (g *Git) MergeContinue(dir string) error {
	_, err := g.run.Run(dir, g.path, "-c", "core.editor=true", "merge", "--continue")
	return err
}

func (g *Git) MergeAbort(dir string) error {
	_, err := g.run.Run(dir, g.path, "merge", "--abort")
	return err
}

// DiffNameOnly lists the paths under pathSpec that differ between two refs.
func (g *Git) DiffNameOnly(dir string, refA string, refB string, pathSpec string) ([]string, error) {
	if names, ok := gogitDiffNameOnly(dir, refA, refB, pathSpec); ok {
		return names, nil
	}
	out, err := g.run.Run(dir, g.path, "diff", "--name-only", refA, refB, "--", pathSpec)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// ShortHash returns the abbreviated hash of HEAD.
func (g *Git) ShortHash(dir string) (string, error) {
	if hash, ok := gogitShortHash(dir); ok {
		return hash, nil
	}
	out, err := g.run.Run(dir, g.path, "log", "--pretty=%h", "-n", "1")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HeadSummary returns the one-line log entry for HEAD.
func (g *Git) HeadSummary(dir string) (string, error) {
	if summary, ok := gogitHeadSummary(dir); ok {
		return summary, nil
	}
	out, err := g.run.Run(dir, g.path, "log", "--oneline", "-n", "1")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DefaultBranch resolves the upstream default branch of a clone, falling
// back to master when origin/HEAD is not recorded.
func (g *Git) DefaultBranch(dir string) string {
	if branch, ok := gogitDefaultBranch(dir); ok {
		return branch
	}
	out, err := g.run.Run(dir, g.path, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err == nil {
		if branch := strings.TrimPrefix(strings.TrimSpace(out), "origin/"); branch != "" {
			return branch
		}
	}
	return "master"
}

func splitLines(out string) []string {
	var lines []string
	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

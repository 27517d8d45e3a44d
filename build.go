package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	buildScript = "test/build.py"
	jsOutDir    = "js"
	wptOutDir   = "wpt"
)

// TestBuilder invokes the repository's own generation tool to produce the
// wpt and js trees. A failed build after a parent merge is assumed to be
// merge breakage: the working copy is reset to the base hash and the build
// retried exactly once.
type TestBuilder struct {
	git *Git
	run CommandRunner
	log *logrus.Logger
}

func NewTestBuilder(git *Git, run CommandRunner, log *logrus.Logger) *TestBuilder {
	return &TestBuilder{git: git, run: run, log: log}
}

// Build returns whether the generation tool succeeded. A false result is a
// recorded status, not an error; only infrastructure failures propagate.
func (b *TestBuilder) Build(dir string, hasParent bool, baseHash string) (bool, error) {
	err := b.invoke(dir)
	if err == nil {
		return true, nil
	}
	if !isProcessError(err) {
		return false, err
	}
	if !hasParent {
		return false, nil
	}

	b.log.Warnf("build failed for %s, retrying on the unmerged baseline", dir)
	if err := b.git.ResetHard(dir, baseHash); err != nil {
		return false, err
	}
	err = b.invoke(dir)
	if err == nil {
		return true, nil
	}
	if !isProcessError(err) {
		return false, err
	}
	return false, nil
}

// invoke clears stale generated trees, then runs the tool from inside the
// clone. The tool path stays relative so it resolves against the clone
// directory the command runs in, not the process working directory.
func (b *TestBuilder) invoke(dir string) error {
	if err := os.RemoveAll(filepath.Join(dir, jsOutDir)); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(dir, wptOutDir)); err != nil {
		return err
	}
	_, err := b.run.Run(dir, "./"+buildScript, "--use-sync", "--js", "./"+jsOutDir, "--html", "./"+wptOutDir)
	return err
}

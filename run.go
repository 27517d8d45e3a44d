package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// RunLoop processes every configured repository in dependency order,
// aggregates the outcomes, and persists the lock store only when every
// repository succeeded.
type RunLoop struct {
	cfg   *Config
	git   *Git
	run   CommandRunner
	locks *LockStore
	root  string
	log   *logrus.Logger
}

func NewRunLoop(cfg *Config, git *Git, run CommandRunner, locks *LockStore, root string, log *logrus.Logger) *RunLoop {
	return &RunLoop{cfg: cfg, git: git, run: run, locks: locks, root: root, log: log}
}

func (l *RunLoop) Run() error {
	ordered, err := l.cfg.SortedByDependency()
	if err != nil {
		return err
	}
	if err := l.clean(); err != nil {
		return err
	}

	pipeline := NewPipeline(l.cfg, l.git, l.run, l.locks, l.root, l.log)
	report := Report{}
	for _, repo := range ordered {
		l.log.Infof("@@ %s", repo.Name)
		status, err := pipeline.Process(repo)
		if err != nil {
			report.Failures = append(report.Failures, RepoFailure{Name: repo.Name, Err: err})
			// A fatal repository failure aborts the remaining run.
			break
		}
		report.Statuses = append(report.Statuses, status)
	}
	l.log.Info("@@ done")

	fmt.Fprint(os.Stdout, report.Render())
	if err := writeFileMkdir(filepath.Join(l.root, "tests", "proposals"), report.Plain()); err != nil {
		return err
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d repos failed", len(report.Failures), len(ordered))
	}
	return l.locks.Save()
}

// clean makes sure the clone area exists and the previous output tree is
// gone; stale outputs must never leak into a new run.
func (l *RunLoop) clean() error {
	if err := os.MkdirAll(filepath.Join(l.root, "repos"), 0o755); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(l.root, "tests"))
}

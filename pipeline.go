package main

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// RepoStatus is the recorded outcome of one repository's pipeline.
type RepoStatus struct {
	Name   string
	Commit string
	Merge  MergeOutcome
	Built  bool
}

// Pipeline runs one repository through sync, parent integration, test
// generation, change detection, and consolidation. Repositories are
// processed strictly one at a time.
type Pipeline struct {
	cfg   *Config
	git   *Git
	run   CommandRunner
	locks *LockStore
	root  string
	log   *logrus.Logger
}

func NewPipeline(cfg *Config, git *Git, run CommandRunner, locks *LockStore, root string, log *logrus.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, git: git, run: run, locks: locks, root: root, log: log}
}

func (p *Pipeline) reposDir() string {
	return filepath.Join(p.root, "repos")
}

func (p *Pipeline) Process(repo RepoSpec) (RepoStatus, error) {
	var parent *RepoSpec
	if repo.Parent != "" {
		spec, ok := p.cfg.RepoByName(repo.Parent)
		if !ok {
			return RepoStatus{}, fmt.Errorf("unknown parent %q", repo.Parent)
		}
		parent = &spec
	}

	syncer := NewRepoSyncer(p.git, p.reposDir(), p.locks)
	sync, err := syncer.Sync(repo, parent)
	if err != nil {
		return RepoStatus{}, fmt.Errorf("sync: %w", err)
	}

	// The parent remote tracks the same upstream as the parent's own
	// clone, so its default branch names the ref to integrate and diff
	// against.
	parentRef := ""
	if parent != nil {
		parentDir := filepath.Join(p.reposDir(), parent.Name)
		parentRef = parentRemote + "/" + p.git.DefaultBranch(parentDir)
	}

	merge, err := NewMergeResolver(p.git).Integrate(sync.Dir, repo, parentRef, sync.BaseHash)
	if err != nil {
		return RepoStatus{}, fmt.Errorf("merge: %w", err)
	}

	built, err := NewTestBuilder(p.git, p.run, p.log).Build(sync.Dir, parent != nil, sync.BaseHash)
	if err != nil {
		return RepoStatus{}, fmt.Errorf("build: %w", err)
	}
	if !built {
		p.log.Warnf("%s failed to build, generated categories will be skipped", repo.Name)
	}

	changed, err := NewChangeSetDetector(p.git).Changes(sync.Dir, parent != nil, parentRef)
	if err != nil {
		return RepoStatus{}, fmt.Errorf("change detection: %w", err)
	}
	p.log.Infof("@@ changed files %v", changed)

	sel, err := NewFileSelector(changed, repo, p.cfg)
	if err != nil {
		return RepoStatus{}, err
	}

	consolidator := NewConsolidator(p.root, p.log)
	if !repo.SkipWast {
		src := filepath.Join(sync.Dir, filepath.FromSlash(sourceTestsDir))
		if err := consolidator.CopyCategory(src, categoryWast, repo.Name, sourceTestsDir, sel); err != nil {
			return RepoStatus{}, fmt.Errorf("copy %s: %w", categoryWast, err)
		}
	}
	if built {
		if !repo.SkipWpt {
			src := filepath.Join(sync.Dir, wptOutDir)
			if err := consolidator.CopyCategory(src, categoryWpt, repo.Name, "", sel); err != nil {
				return RepoStatus{}, fmt.Errorf("copy %s: %w", categoryWpt, err)
			}
		}
		if !repo.SkipJS {
			src := filepath.Join(sync.Dir, jsOutDir)
			if err := consolidator.CopyCategory(src, categoryJS, repo.Name, "", sel); err != nil {
				return RepoStatus{}, fmt.Errorf("copy %s: %w", categoryJS, err)
			}
			if err := consolidator.WriteDirectives(p.cfg, repo); err != nil {
				return RepoStatus{}, fmt.Errorf("write directives: %w", err)
			}
		}
	}

	commit, err := p.git.HeadSummary(sync.Dir)
	if err != nil {
		return RepoStatus{}, err
	}

	p.locks.Pin(repo.Name, sync.BaseHash)
	return RepoStatus{Name: repo.Name, Commit: commit, Merge: merge, Built: built}, nil
}

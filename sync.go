package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	parentRemote      = "parent"
	integrationBranch = "try-merge"
)

// RepoSyncer guarantees a local clone exists and sits at a deterministic
// base revision before any integration or build happens.
type RepoSyncer struct {
	git      *Git
	reposDir string
	locks    *LockStore
}

func NewRepoSyncer(git *Git, reposDir string, locks *LockStore) *RepoSyncer {
	return &RepoSyncer{git: git, reposDir: reposDir, locks: locks}
}

// SyncResult carries the state RepoSync leaves behind: where the clone
// lives, which branch is primary upstream, and the exact short hash the
// working copy was reset to. BaseHash is what gets pinned in the lock
// store after a successful pipeline.
type SyncResult struct {
	Dir      string
	Branch   string
	BaseHash string
}

func (s *RepoSyncer) Sync(repo RepoSpec, parent *RepoSpec) (SyncResult, error) {
	dir := filepath.Join(s.reposDir, repo.Name)

	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := s.clone(repo, parent, dir); err != nil {
			return SyncResult{}, err
		}
	} else if err != nil {
		return SyncResult{}, err
	}

	if err := s.git.Fetch(dir, "origin"); err != nil {
		return SyncResult{}, err
	}

	branch := s.git.DefaultBranch(dir)
	base := s.baseRevision(repo, branch)

	if err := s.git.Checkout(dir, branch); err != nil {
		return SyncResult{}, err
	}
	if err := s.git.ResetHard(dir, base); err != nil {
		return SyncResult{}, err
	}
	hash, err := s.git.ShortHash(dir)
	if err != nil {
		return SyncResult{}, err
	}
	return SyncResult{Dir: dir, Branch: branch, BaseHash: hash}, nil
}

// baseRevision picks the revision to reset to: an explicit config pin
// first, then the lock store's record, then the upstream tip.
func (s *RepoSyncer) baseRevision(repo RepoSpec, branch string) string {
	if repo.Commit != "" {
		return repo.Commit
	}
	if commit, ok := s.locks.Commit(repo.Name); ok {
		return commit
	}
	return "origin/" + branch
}

func (s *RepoSyncer) clone(repo RepoSpec, parent *RepoSpec, dir string) error {
	if parent == nil {
		return s.git.Clone(s.reposDir, repo.URL, dir)
	}

	parentDir := filepath.Join(s.reposDir, parent.Name)
	if _, err := os.Stat(parentDir); err != nil {
		return fmt.Errorf("parent %q of %q has no local clone: %w", parent.Name, repo.Name, err)
	}
	if err := s.git.Clone(s.reposDir, repo.URL, dir); err != nil {
		return err
	}
	if err := s.git.RemoteAdd(dir, parentRemote, parent.URL); err != nil {
		return err
	}
	return s.git.Branch(dir, integrationBranch)
}

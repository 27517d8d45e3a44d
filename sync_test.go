package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSyncClonesRootRepo(t *testing.T) {
	reposDir := t.TempDir()
	run := newFakeRunner()
	run.out["log --pretty=%h"] = "abc1234\n"
	locks, _ := LoadLockStore(filepath.Join(t.TempDir(), "lock.json"))
	syncer := NewRepoSyncer(newFakeGit(run), reposDir, locks)

	result, err := syncer.Sync(RepoSpec{Name: "spec", URL: "https://example.test/spec"}, nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.BaseHash != "abc1234" {
		t.Fatalf("base hash = %q", result.BaseHash)
	}
	if result.Dir != filepath.Join(reposDir, "spec") {
		t.Fatalf("dir = %q", result.Dir)
	}
	if run.count("clone https://example.test/spec") != 1 {
		t.Fatalf("expected one clone, calls: %v", run.calls)
	}
	if run.count("remote add") != 0 || run.count("branch try-merge") != 0 {
		t.Fatalf("root repo got parent wiring: %v", run.calls)
	}
	if run.count("reset origin/master --hard") != 1 {
		t.Fatalf("expected reset to upstream tip, calls: %v", run.calls)
	}
}

func TestSyncChildCloneRegistersParent(t *testing.T) {
	reposDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(reposDir, "spec"), 0o755); err != nil {
		t.Fatalf("mkdir parent: %v", err)
	}
	run := newFakeRunner()
	run.out["log --pretty=%h"] = "def5678\n"
	locks, _ := LoadLockStore(filepath.Join(t.TempDir(), "lock.json"))
	syncer := NewRepoSyncer(newFakeGit(run), reposDir, locks)

	parent := RepoSpec{Name: "spec", URL: "https://example.test/spec"}
	child := RepoSpec{Name: "threads", URL: "https://example.test/threads", Parent: "spec"}
	if _, err := syncer.Sync(child, &parent); err != nil {
		t.Fatalf("sync: %v", err)
	}
	for _, frag := range []string{
		"remote add parent https://example.test/spec",
		"branch try-merge",
	} {
		if run.count(frag) != 1 {
			t.Fatalf("expected one %q call, calls: %v", frag, run.calls)
		}
	}
}

func TestSyncChildRequiresParentClone(t *testing.T) {
	run := newFakeRunner()
	locks, _ := LoadLockStore(filepath.Join(t.TempDir(), "lock.json"))
	syncer := NewRepoSyncer(newFakeGit(run), t.TempDir(), locks)

	parent := RepoSpec{Name: "spec", URL: "u"}
	child := RepoSpec{Name: "threads", URL: "u", Parent: "spec"}
	_, err := syncer.Sync(child, &parent)
	if err == nil || !strings.Contains(err.Error(), "no local clone") {
		t.Fatalf("expected missing-parent error, got %v", err)
	}
}

func TestSyncExistingCloneIsFetchedNotRecloned(t *testing.T) {
	reposDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(reposDir, "spec"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	run := newFakeRunner()
	run.out["log --pretty=%h"] = "abc1234\n"
	locks, _ := LoadLockStore(filepath.Join(t.TempDir(), "lock.json"))
	syncer := NewRepoSyncer(newFakeGit(run), reposDir, locks)

	if _, err := syncer.Sync(RepoSpec{Name: "spec", URL: "u"}, nil); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if run.count("clone") != 0 {
		t.Fatalf("existing clone was recloned: %v", run.calls)
	}
	if run.count("fetch origin") != 1 {
		t.Fatalf("expected unconditional fetch, calls: %v", run.calls)
	}
}

func TestBaseRevisionPrecedence(t *testing.T) {
	locks, _ := LoadLockStore(filepath.Join(t.TempDir(), "lock.json"))
	locks.Pin("spec", "1111111")
	syncer := NewRepoSyncer(newFakeGit(newFakeRunner()), t.TempDir(), locks)

	if got := syncer.baseRevision(RepoSpec{Name: "spec", Commit: "fffffff"}, "master"); got != "fffffff" {
		t.Fatalf("config pin not preferred: %q", got)
	}
	if got := syncer.baseRevision(RepoSpec{Name: "spec"}, "master"); got != "1111111" {
		t.Fatalf("lock entry not used: %q", got)
	}
	if got := syncer.baseRevision(RepoSpec{Name: "fresh"}, "main"); got != "origin/main" {
		t.Fatalf("upstream tip fallback: %q", got)
	}
}

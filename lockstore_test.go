package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadLockStoreAbsentFile(t *testing.T) {
	store, err := LoadLockStore(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := store.Commit("spec"); ok {
		t.Fatalf("expected empty store")
	}
}

func TestLockStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "proposals-lock.json")
	store, err := LoadLockStore(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store.Pin("spec", "abc1234")
	store.Pin("threads", "def5678")
	if err := store.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := LoadLockStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for name, want := range map[string]string{"spec": "abc1234", "threads": "def5678"} {
		got, ok := reloaded.Commit(name)
		if !ok || got != want {
			t.Fatalf("commit for %s: got %q ok=%v, want %q", name, got, ok, want)
		}
	}
}

func TestLockStoreSaveRewritesInFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proposals-lock.json")
	if err := os.WriteFile(path, []byte(`{"stale": "0000000"}`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store, err := LoadLockStore(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	store.Pin("spec", "abc1234")
	if err := store.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "abc1234") || !strings.Contains(text, "stale") {
		t.Fatalf("unexpected lock file contents: %s", text)
	}
	if !strings.HasSuffix(text, "\n") {
		t.Fatalf("expected trailing newline")
	}
}

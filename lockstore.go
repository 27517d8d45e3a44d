package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// LockStore maps repository names to the base commit last used for them.
// It is loaded once at startup and rewritten in full at the end of a fully
// successful run, pinning every repo to a reproducible baseline.
type LockStore struct {
	path    string
	commits map[string]string
}

func LoadLockStore(path string) (*LockStore, error) {
	store := &LockStore{path: path, commits: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &store.commits); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *LockStore) Commit(name string) (string, bool) {
	commit, ok := s.commits[name]
	return commit, ok
}

func (s *LockStore) Pin(name string, commit string) {
	s.commits[name] = commit
}

func (s *LockStore) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(s.commits, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(s.path, data, 0o644)
}

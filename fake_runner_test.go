package main

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// fakeRunner records every invocation and replies from scripted fragments.
// A fragment in fails makes the next n matching commands exit non-zero; a
// fragment in out supplies stdout for matching commands.
type fakeRunner struct {
	calls []string
	fails map[string]int
	out   map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{fails: map[string]int{}, out: map[string]string{}}
}

func (f *fakeRunner) Run(dir string, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{filepath.Base(name)}, args...), " ")
	f.calls = append(f.calls, key)
	for frag, n := range f.fails {
		if n > 0 && strings.Contains(key, frag) {
			f.fails[frag] = n - 1
			return "", &ProcessError{Name: name, Stderr: "scripted failure", Err: errors.New("exit status 1")}
		}
	}
	for frag, out := range f.out {
		if strings.Contains(key, frag) {
			return out, nil
		}
	}
	return "", nil
}

func (f *fakeRunner) count(frag string) int {
	n := 0
	for _, call := range f.calls {
		if strings.Contains(call, frag) {
			n++
		}
	}
	return n
}

func newFakeGit(run CommandRunner) *Git {
	return &Git{path: "git", run: run}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// CommandRunner executes one blocking subprocess in an explicit working
// directory and returns its captured stdout. The process working directory
// is never changed; every invocation carries its own dir.
type CommandRunner interface {
	Run(dir string, name string, args ...string) (string, error)
}

// ProcessError reports a subprocess that exited non-zero, carrying its
// captured output for diagnostics.
type ProcessError struct {
	Name   string
	Stdout string
	Stderr string
	Err    error
}

func (e *ProcessError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(e.Stdout)
	}
	if detail == "" {
		return fmt.Sprintf("%s failed: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Name, e.Err, detail)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// isProcessError reports whether err is an expected non-zero exit, as
// opposed to an infrastructure failure such as a spawn error.
func isProcessError(err error) bool {
	var perr *ProcessError
	return errors.As(err, &perr)
}

type execRunner struct {
	log *logrus.Logger
}

// Run echoes the invocation, streams the subprocess output through to the
// caller's stdout/stderr, and returns the captured stdout as the
// operation's value.
func (r *execRunner) Run(dir string, name string, args ...string) (string, error) {
	r.log.WithField("dir", dir).Infof("@ %s %s", name, strings.Join(args, " "))

	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
	cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), &ProcessError{
			Name:   name,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return stdout.String(), fmt.Errorf("spawn %s: %w", name, err)
}

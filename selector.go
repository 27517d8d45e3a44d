package main

import (
	"fmt"
	"regexp"
)

// harnessPattern unconditionally includes the shared harness subtree of
// every scanned category.
const harnessPattern = "harness/"

// FileSelector classifies candidate relative paths. A path is selected iff
// it matches at least one include pattern and no exclude pattern; exclude
// always wins. Patterns are unanchored regular expressions matched against
// the path as rendered for the current traversal root.
type FileSelector struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewFileSelector compiles the pattern sets for one repository: the
// detected change set, the harness subtree, and the repo-level plus global
// explicit includes; excludes come from the global and repo config.
func NewFileSelector(changed []string, repo RepoSpec, cfg *Config) (*FileSelector, error) {
	var includePatterns []string
	includePatterns = append(includePatterns, changed...)
	includePatterns = append(includePatterns, harnessPattern)
	includePatterns = append(includePatterns, repo.IncludedTests...)
	includePatterns = append(includePatterns, cfg.IncludedTests...)

	var excludePatterns []string
	excludePatterns = append(excludePatterns, cfg.ExcludedTests...)
	excludePatterns = append(excludePatterns, repo.ExcludedTests...)

	include, err := compilePatterns(includePatterns)
	if err != nil {
		return nil, fmt.Errorf("included_tests: %w", err)
	}
	exclude, err := compilePatterns(excludePatterns)
	if err != nil {
		return nil, fmt.Errorf("excluded_tests: %w", err)
	}
	return &FileSelector{include: include, exclude: exclude}, nil
}

func (s *FileSelector) Selected(path string) bool {
	if !matchesAny(s.include, path) {
		return false
	}
	return !matchesAny(s.exclude, path)
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchesAny(set []*regexp.Regexp, path string) bool {
	for _, re := range set {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

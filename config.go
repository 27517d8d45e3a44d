package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the run-wide declaration of which proposal repositories to
// consolidate. It is read once at startup and never mutated.
type Config struct {
	HarnessDirective string     `yaml:"harness_directive"`
	Directive        string     `yaml:"directive"`
	IncludedTests    []string   `yaml:"included_tests"`
	ExcludedTests    []string   `yaml:"excluded_tests"`
	Repos            []RepoSpec `yaml:"repos"`
}

// RepoSpec describes one proposal repository. Parent names another spec in
// the same config; that repository's clone must be synced before this one.
type RepoSpec struct {
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url"`
	Commit        string   `yaml:"commit"`
	Parent        string   `yaml:"parent"`
	Directive     string   `yaml:"directive"`
	IncludedTests []string `yaml:"included_tests"`
	ExcludedTests []string `yaml:"excluded_tests"`
	SkipWast      bool     `yaml:"skip_wast"`
	SkipWpt       bool     `yaml:"skip_wpt"`
	SkipJS        bool     `yaml:"skip_js"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Repos))
	for _, repo := range c.Repos {
		name := strings.TrimSpace(repo.Name)
		if name == "" {
			return fmt.Errorf("repo with url %q has no name", repo.URL)
		}
		if strings.TrimSpace(repo.URL) == "" {
			return fmt.Errorf("repo %q has no url", name)
		}
		if seen[name] {
			return fmt.Errorf("duplicate repo name %q", name)
		}
		seen[name] = true
	}
	for _, repo := range c.Repos {
		if repo.Parent == "" {
			continue
		}
		if repo.Parent == repo.Name {
			return fmt.Errorf("repo %q names itself as parent", repo.Name)
		}
		if !seen[repo.Parent] {
			return fmt.Errorf("repo %q references unknown parent %q", repo.Name, repo.Parent)
		}
	}
	return nil
}

func (c *Config) RepoByName(name string) (RepoSpec, bool) {
	for _, repo := range c.Repos {
		if repo.Name == name {
			return repo, true
		}
	}
	return RepoSpec{}, false
}

// SortedByDependency returns the repos ordered so that every parent comes
// before its children, preserving config order among repos whose parents
// are already placed. A parent cycle is a configuration error.
func (c *Config) SortedByDependency() ([]RepoSpec, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	placed := make(map[string]bool, len(c.Repos))
	ordered := make([]RepoSpec, 0, len(c.Repos))
	for len(ordered) < len(c.Repos) {
		progressed := false
		for _, repo := range c.Repos {
			if placed[repo.Name] {
				continue
			}
			if repo.Parent != "" && !placed[repo.Parent] {
				continue
			}
			ordered = append(ordered, repo)
			placed[repo.Name] = true
			progressed = true
		}
		if !progressed {
			var stuck []string
			for _, repo := range c.Repos {
				if !placed[repo.Name] {
					stuck = append(stuck, repo.Name)
				}
			}
			return nil, fmt.Errorf("parent cycle among repos: %s", strings.Join(stuck, ", "))
		}
	}
	return ordered, nil
}

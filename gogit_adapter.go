package main

import (
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// In-process read side of the version-control interface. Each helper
// reports ok=false when go-git cannot serve the request, in which case the
// caller falls through to the git binary.

func openClone(dir string) (*git.Repository, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, false
	}
	return repo, true
}

func gogitShortHash(dir string) (string, bool) {
	repo, ok := openClone(dir)
	if !ok {
		return "", false
	}
	head, err := repo.Head()
	if err != nil {
		return "", false
	}
	return head.Hash().String()[:7], true
}

func gogitHeadSummary(dir string) (string, bool) {
	repo, ok := openClone(dir)
	if !ok {
		return "", false
	}
	head, err := repo.Head()
	if err != nil {
		return "", false
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", false
	}
	subject, _, _ := strings.Cut(commit.Message, "\n")
	return head.Hash().String()[:7] + " " + strings.TrimSpace(subject), true
}

func gogitDefaultBranch(dir string) (string, bool) {
	repo, ok := openClone(dir)
	if !ok {
		return "", false
	}
	ref, err := repo.Reference(plumbing.ReferenceName("refs/remotes/origin/HEAD"), false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return "", false
	}
	branch := strings.TrimPrefix(ref.Target().Short(), "origin/")
	if branch == "" {
		return "", false
	}
	return branch, true
}

func gogitDiffNameOnly(dir string, refA string, refB string, pathSpec string) ([]string, bool) {
	repo, ok := openClone(dir)
	if !ok {
		return nil, false
	}
	treeA, ok := treeForRevision(repo, refA)
	if !ok {
		return nil, false
	}
	treeB, ok := treeForRevision(repo, refB)
	if !ok {
		return nil, false
	}
	changes, err := object.DiffTree(treeA, treeB)
	if err != nil {
		return nil, false
	}

	prefix := strings.TrimSuffix(pathSpec, "/") + "/"
	seen := make(map[string]bool)
	for _, change := range changes {
		for _, name := range []string{change.From.Name, change.To.Name} {
			if name == "" || !strings.HasPrefix(name, prefix) {
				continue
			}
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, true
}

func treeForRevision(repo *git.Repository, rev string) (*object.Tree, bool) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, false
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, false
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, false
	}
	return tree, true
}

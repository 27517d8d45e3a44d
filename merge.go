package main

import "fmt"

// MergeOutcome reports how parent integration ended. Conflicts are an
// expected domain outcome, not an error.
type MergeOutcome int

const (
	MergeUnmerged MergeOutcome = iota
	MergeMerged
	MergeConflicted
)

func (m MergeOutcome) String() string {
	switch m {
	case MergeMerged:
		return "merged"
	case MergeConflicted:
		return "conflicted"
	default:
		return "unmerged"
	}
}

// documentDir is the subtree whose conflicts are always resolved in favor
// of the local base version. Documentation is proposal-specific and its
// conflicts are uninteresting; conflicts anywhere else still fail the merge.
const documentDir = "document"

// MergeResolver integrates the parent proposal's upstream tip on top of the
// base revision, leaving the working copy either at the merged tree or
// reset back to the base hash. It never leaves a merge in progress.
type MergeResolver struct {
	git *Git
}

func NewMergeResolver(git *Git) *MergeResolver {
	return &MergeResolver{git: git}
}

// Integrate merges parentRef into the integration branch. The branch is
// first reset to baseHash, discarding partial state from any previous
// attempt.
func (r *MergeResolver) Integrate(dir string, repo RepoSpec, parentRef string, baseHash string) (MergeOutcome, error) {
	if repo.Parent == "" {
		return MergeUnmerged, nil
	}

	if err := r.git.Fetch(dir, parentRemote); err != nil {
		return MergeUnmerged, err
	}
	if err := r.git.Checkout(dir, integrationBranch); err != nil {
		return MergeUnmerged, err
	}
	if err := r.git.ResetHard(dir, baseHash); err != nil {
		return MergeUnmerged, err
	}

	message := fmt.Sprintf("Merging %s:%s with %s", repo.Name, baseHash, repo.Parent)
	err := r.git.Merge(dir, parentRef, message)
	if err == nil {
		return MergeMerged, nil
	}
	if !isProcessError(err) {
		return MergeUnmerged, err
	}

	if r.overrideDocumentConflicts(dir) {
		return MergeMerged, nil
	}

	// Abandon the integration and put the working copy back at base.
	if err := r.git.MergeAbort(dir); err != nil {
		return MergeConflicted, err
	}
	if err := r.git.ResetHard(dir, baseHash); err != nil {
		return MergeConflicted, err
	}
	return MergeConflicted, nil
}

// overrideDocumentConflicts forces the base version of the document subtree
// into the in-progress merge and tries to continue it non-interactively.
func (r *MergeResolver) overrideDocumentConflicts(dir string) bool {
	if err := r.git.CheckoutOurs(dir, documentDir); err != nil {
		return false
	}
	if err := r.git.Add(dir, documentDir); err != nil {
		return false
	}
	return r.git.MergeContinue(dir) == nil
}

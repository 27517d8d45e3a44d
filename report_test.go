package main

import (
	"errors"
	"testing"
)

func TestReportPlainFormat(t *testing.T) {
	report := Report{
		Statuses: []RepoStatus{
			{Name: "spec", Commit: "abc1234 Bump interpreter", Merge: MergeUnmerged, Built: true},
			{Name: "threads", Commit: "def5678 Merge", Merge: MergeConflicted, Built: false},
		},
		Failures: []RepoFailure{
			{Name: "gc", Err: errors.New("sync: clone failed")},
		},
	}
	want := "spec: (unmerged building) abc1234 Bump interpreter\n" +
		"threads: (conflicted broken) def5678 Merge\n" +
		"gc: (failure) sync: clone failed\n"
	if got := report.Plain(); got != want {
		t.Fatalf("plain report:\n%q\nwant:\n%q", got, want)
	}
}

func TestMergeOutcomeStrings(t *testing.T) {
	cases := map[MergeOutcome]string{
		MergeUnmerged:   "unmerged",
		MergeMerged:     "merged",
		MergeConflicted: "conflicted",
	}
	for outcome, want := range cases {
		if outcome.String() != want {
			t.Fatalf("String(%d) = %q, want %q", outcome, outcome.String(), want)
		}
	}
}

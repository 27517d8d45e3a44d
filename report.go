package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type RepoFailure struct {
	Name string
	Err  error
}

// Report is the end-of-run summary: one line per processed repository plus
// one line per failure. Plain() is the stable format written to
// tests/proposals; Render() is the styled terminal variant.
type Report struct {
	Statuses []RepoStatus
	Failures []RepoFailure
}

var (
	styleName       = lipgloss.NewStyle().Bold(true)
	styleBuilding   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleBroken     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleConflicted = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func init() {
	if termenv.EnvNoColor() {
		lipgloss.DefaultRenderer().SetColorProfile(termenv.Ascii)
	}
}

func buildWord(built bool) string {
	if built {
		return "building"
	}
	return "broken"
}

func (r Report) Plain() string {
	var b strings.Builder
	for _, st := range r.Statuses {
		fmt.Fprintf(&b, "%s: (%s %s) %s\n", st.Name, st.Merge, buildWord(st.Built), st.Commit)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "%s: (failure) %v\n", f.Name, f.Err)
	}
	return b.String()
}

func (r Report) Render() string {
	var b strings.Builder
	for _, st := range r.Statuses {
		state := styleBuilding.Render(buildWord(st.Built))
		if !st.Built {
			state = styleBroken.Render(buildWord(st.Built))
		}
		merge := st.Merge.String()
		if st.Merge == MergeConflicted {
			merge = styleConflicted.Render(merge)
		}
		fmt.Fprintf(&b, "%s: (%s %s) %s\n", styleName.Render(st.Name), merge, state, st.Commit)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "%s: (%s) %v\n", styleName.Render(f.Name), styleBroken.Render("failure"), f.Err)
	}
	return b.String()
}

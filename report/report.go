// Package report renders a StatusReport as a markdown block and splices it
// into the marked region of a larger document.
package report

import (
	"fmt"
	"strings"

	"github.com/lucasjlepore/runstatus"
	"github.com/lucasjlepore/runstatus/goals"
)

const (
	// StartMarker and EndMarker delimit the replaceable region.
	StartMarker = "<!-- GOAL_STATUS_START -->"
	EndMarker   = "<!-- GOAL_STATUS_END -->"
)

// GoalBlock renders the markdown status block. Output depends only on the
// report contents, so identical reports render byte-identically.
func GoalBlock(r *goals.StatusReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Weeks to race:** %.1f\n\n", r.WeeksToRace)

	passLabel := "✅ Pass"
	if !r.Compliance.Pass() {
		passLabel = "❌ Fail"
	}
	fmt.Fprintf(&b, "**HR compliance (last %d days):** %s\n", r.Compliance.WindowDays, passLabel)
	for _, rt := range runstatus.RunTypes {
		c := r.Compliance.Counts[rt]
		fmt.Fprintf(&b, "- %s cap %d: %d/%d pass\n", rt, c.Cap, c.Pass, c.Total)
	}
	if f := r.Compliance.FirstFailure; f != nil {
		fmt.Fprintf(&b, "- First failure: **%s** avg HR **%d** > %d on **%s**\n", f.RunType, f.AvgHR, f.Cap, f.DateStr)
	}

	fmt.Fprintf(&b, "\n**Pace confidence:** %s\n\n", r.PaceConfidence)

	b.WriteString("| Goal | Status | Evidence |\n")
	b.WriteString("|---|---|---|\n")
	for _, g := range r.Goals {
		status := "✅ On track"
		if !g.OnTrack {
			status = "❌ Not on track"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", g.Name, status, g.Evidence)
	}

	fmt.Fprintf(&b, "\n_Last updated: %s_", r.TodayStr)
	return b.String()
}

// Inject replaces the region between the status markers with the block,
// leaving everything outside the markers untouched.
func Inject(doc, block string) (string, error) {
	start := strings.Index(doc, StartMarker)
	if start < 0 {
		return "", fmt.Errorf("start marker %q not found", StartMarker)
	}
	end := strings.Index(doc, EndMarker)
	if end < 0 {
		return "", fmt.Errorf("end marker %q not found", EndMarker)
	}
	if end < start {
		return "", fmt.Errorf("end marker appears before start marker")
	}

	var b strings.Builder
	b.WriteString(doc[:start])
	b.WriteString(StartMarker)
	b.WriteByte('\n')
	b.WriteString(block)
	b.WriteByte('\n')
	b.WriteString(EndMarker)
	b.WriteString(doc[end+len(EndMarker):])
	return b.String(), nil
}

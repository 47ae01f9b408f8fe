package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasjlepore/runstatus"
	"github.com/lucasjlepore/runstatus/dataset"
	"github.com/lucasjlepore/runstatus/goals"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := runstatus.ParseDate(s)
	require.NoError(t, err)
	return d
}

func sampleReport(t *testing.T) *goals.StatusReport {
	t.Helper()
	hr := 146
	ds := &dataset.Dataset{}
	ds.Upsert(runstatus.RunRecord{
		Date:        mustDate(t, "2026-01-28"),
		RunType:     runstatus.RunEasy,
		DurationMin: 42,
		DistanceMi:  4.5,
		AvgHR:       &hr,
	})
	rep, err := goals.BuildStatusReport(ds, goals.Default(), mustDate(t, "2026-02-07"))
	require.NoError(t, err)
	return rep
}

func TestGoalBlockContents(t *testing.T) {
	block := GoalBlock(sampleReport(t))

	require.Contains(t, block, "**Weeks to race:** 9.0")
	require.Contains(t, block, "**HR compliance (last 14 days):** ❌ Fail")
	require.Contains(t, block, "- easy cap 145: 0/1 pass")
	require.Contains(t, block, "- long cap 155: 0/0 pass")
	require.Contains(t, block, "- threshold cap 165: 0/0 pass")
	require.Contains(t, block, "- First failure: **easy** avg HR **146** > 145 on **2026-01-28**")
	require.Contains(t, block, "| Finish under 2:30 | ❌ Not on track | easy avg HR 146 > 145 on 2026-01-28 |")
	require.Contains(t, block, "| Finish under 2:00 | ❌ Not on track | easy avg HR 146 > 145 on 2026-01-28 |")
	require.True(t, strings.HasSuffix(block, "_Last updated: 2026-02-07_"))
}

func TestGoalBlockIsDeterministic(t *testing.T) {
	require.Equal(t, GoalBlock(sampleReport(t)), GoalBlock(sampleReport(t)))
}

func TestInjectReplacesOnlyMarkedRegion(t *testing.T) {
	doc := "# Training Log\n\nintro text\n\n" +
		StartMarker + "\nold block\n" + EndMarker +
		"\n\ntrailing notes\n"

	out, err := Inject(doc, "new block")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "# Training Log\n\nintro text\n\n"))
	require.True(t, strings.HasSuffix(out, "\n\ntrailing notes\n"))
	require.Contains(t, out, StartMarker+"\nnew block\n"+EndMarker)
	require.NotContains(t, out, "old block")
}

func TestInjectMissingMarkers(t *testing.T) {
	_, err := Inject("no markers here", "block")
	require.Error(t, err)

	_, err = Inject(EndMarker+"\n"+StartMarker, "block")
	require.Error(t, err)
}

func TestInjectFileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	doc := "before\n" + StartMarker + "\nstale\n" + EndMarker + "\nafter\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	require.NoError(t, InjectFile(path, "fresh"))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, InjectFile(path, "fresh"))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Contains(t, string(first), "fresh")
	require.Contains(t, string(first), "before\n")
	require.Contains(t, string(first), "\nafter\n")
}

func TestDiffFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	doc := "x\n" + StartMarker + "\nstale\n" + EndMarker + "\ny\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	diff, err := DiffFile(path, "fresh")
	require.NoError(t, err)
	require.Contains(t, diff, "-stale")
	require.Contains(t, diff, "+fresh")

	require.NoError(t, InjectFile(path, "fresh"))
	diff, err = DiffFile(path, "fresh")
	require.NoError(t, err)
	require.Empty(t, diff)
}

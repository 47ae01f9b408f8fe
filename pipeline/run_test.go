package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasjlepore/runstatus"
	"github.com/lucasjlepore/runstatus/report"
)

// stubDecode fabricates records from the file name: <date>_<hr>.fit, with
// hr=0 meaning no heart-rate data. A name of bad.fit fails decoding.
func stubDecode(path string, rt runstatus.RunType) (runstatus.RunRecord, error) {
	base := filepath.Base(path)
	if base == "bad.fit" {
		return runstatus.RunRecord{}, &runstatus.DecodeError{Path: path, Err: fmt.Errorf("truncated header")}
	}
	var date string
	var hr int
	if _, err := fmt.Sscanf(base, "%10s_%d.fit", &date, &hr); err != nil {
		return runstatus.RunRecord{}, &runstatus.DecodeError{Path: path, Err: err}
	}
	d, err := runstatus.ParseDate(date)
	if err != nil {
		return runstatus.RunRecord{}, &runstatus.DecodeError{Path: path, Err: err}
	}
	rec := runstatus.RunRecord{
		Date:        d,
		RunType:     rt,
		DurationMin: 45,
		DistanceMi:  5,
		SourceFile:  path,
	}
	if hr > 0 {
		rec.AvgHR = &hr
	}
	return rec, nil
}

func writeRaw(t *testing.T, rawDir string, rt runstatus.RunType, names ...string) {
	t.Helper()
	dir := filepath.Join(rawDir, string(rt))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("fit"), 0o644))
	}
}

func writeReadme(t *testing.T, path string) {
	t.Helper()
	doc := "# Training\n\n" + report.StartMarker + "\npending\n" + report.EndMarker + "\n\nfooter\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func testOptions(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	readme := filepath.Join(root, "README.md")
	writeReadme(t, readme)
	return Options{
		RawDir:     filepath.Join(root, "raw"),
		DataDir:    filepath.Join(root, "processed"),
		ReadmePath: readme,
		Today:      time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC),
		Decode:     stubDecode,
	}
}

func TestRunIngestsAndPersists(t *testing.T) {
	opts := testOptions(t)
	writeRaw(t, opts.RawDir, runstatus.RunEasy, "2026-02-01_140.fit", "2026-02-03_141.fit")
	writeRaw(t, opts.RawDir, runstatus.RunLong, "2026-02-05_150.fit")

	res, err := Run(opts)
	require.NoError(t, err)
	require.Equal(t, 3, res.Ingested)
	require.Empty(t, res.Skipped)

	require.FileExists(t, res.DatasetPath)
	require.FileExists(t, res.ParquetPath)
	require.FileExists(t, res.StatusPath)

	readme, err := os.ReadFile(opts.ReadmePath)
	require.NoError(t, err)
	require.Contains(t, string(readme), "**Weeks to race:** 9.0")
	require.Contains(t, string(readme), "footer")
	require.NotContains(t, string(readme), "pending")
}

func TestRunSkipsBadFilesAndContinues(t *testing.T) {
	opts := testOptions(t)
	writeRaw(t, opts.RawDir, runstatus.RunEasy, "bad.fit", "2026-02-03_141.fit")

	res, err := Run(opts)
	require.NoError(t, err)
	require.Equal(t, 1, res.Ingested)
	require.Len(t, res.Skipped, 1)
	require.Contains(t, res.Skipped[0].Reason, "truncated header")
}

func TestRunReprocessingReplacesByDate(t *testing.T) {
	opts := testOptions(t)
	writeRaw(t, opts.RawDir, runstatus.RunEasy, "2026-02-03_150.fit")

	_, err := Run(opts)
	require.NoError(t, err)

	// A corrected export for the same date lands in the threshold folder.
	require.NoError(t, os.RemoveAll(filepath.Join(opts.RawDir, "easy")))
	writeRaw(t, opts.RawDir, runstatus.RunThreshold, "2026-02-03_150.fit")

	res, err := Run(opts)
	require.NoError(t, err)
	require.Equal(t, 1, res.Report.Compliance.Counts[runstatus.RunThreshold].Total)
	require.Equal(t, 0, res.Report.Compliance.Counts[runstatus.RunEasy].Total)
}

func TestRunIsIdempotent(t *testing.T) {
	opts := testOptions(t)
	writeRaw(t, opts.RawDir, runstatus.RunEasy, "2026-02-01_140.fit")
	writeRaw(t, opts.RawDir, runstatus.RunLong, "2026-01-31_151.fit")

	first, err := Run(opts)
	require.NoError(t, err)
	csv1, err := os.ReadFile(first.DatasetPath)
	require.NoError(t, err)
	readme1, err := os.ReadFile(opts.ReadmePath)
	require.NoError(t, err)

	second, err := Run(opts)
	require.NoError(t, err)
	csv2, err := os.ReadFile(second.DatasetPath)
	require.NoError(t, err)
	readme2, err := os.ReadFile(opts.ReadmePath)
	require.NoError(t, err)

	require.Equal(t, csv1, csv2)
	require.Equal(t, readme1, readme2)
	require.Equal(t, first.Block, second.Block)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	opts := testOptions(t)
	opts.DryRun = true
	writeRaw(t, opts.RawDir, runstatus.RunEasy, "2026-02-01_140.fit")

	res, err := Run(opts)
	require.NoError(t, err)
	require.Equal(t, 1, res.Ingested)
	require.NotEmpty(t, res.Diff)

	require.NoFileExists(t, res.DatasetPath)
	readme, err := os.ReadFile(opts.ReadmePath)
	require.NoError(t, err)
	require.Contains(t, string(readme), "pending")
}

func TestRunCorruptDatasetIsFatalAndUntouched(t *testing.T) {
	opts := testOptions(t)
	require.NoError(t, os.MkdirAll(opts.DataDir, 0o755))
	garbage := []byte("not,a,dataset\n")
	csvPath := filepath.Join(opts.DataDir, "runs.csv")
	require.NoError(t, os.WriteFile(csvPath, garbage, 0o644))
	writeRaw(t, opts.RawDir, runstatus.RunEasy, "2026-02-01_140.fit")

	_, err := Run(opts)
	var corrupt *runstatus.DatasetCorruptError
	require.ErrorAs(t, err, &corrupt)

	after, readErr := os.ReadFile(csvPath)
	require.NoError(t, readErr)
	require.Equal(t, garbage, after)
}

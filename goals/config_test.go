package goals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lucasjlepore/runstatus"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	require.False(t, cfg.RaceDate.IsZero())
	require.Equal(t, 145, cfg.CapFor(runstatus.RunEasy))
	require.Equal(t, 155, cfg.CapFor(runstatus.RunLong))
	require.Equal(t, 165, cfg.CapFor(runstatus.RunThreshold))
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runstatus.yaml")
	yaml := `
race_date: 2026-10-04
hr_caps:
  easy: 140
  long: 150
  threshold: 160
min_runs_per_week: 3
min_long_run_min: 75
compliance_window_days: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "2026-10-04", cfg.RaceDate.Format("2006-01-02"))
	require.Equal(t, 140, cfg.CapFor(runstatus.RunEasy))
	require.Equal(t, 3.0, cfg.MinRunsPerWeek)
	require.Equal(t, 75.0, cfg.MinLongRunMin)
	require.Equal(t, 10, cfg.ComplianceWindowDays)
	// Untouched fields keep their defaults.
	require.Equal(t, 28, cfg.FrequencyWindowDays)
	require.Len(t, cfg.PaceBands, 5)
}

func TestLoadConfigMissingRaceDateIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runstatus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_runs_per_week: 3\n"), 0o644))

	_, err := LoadConfig(path)
	var missing *runstatus.MissingRaceDateConfigError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, path, missing.Path)
}

func TestLoadConfigRejectsUnorderedBands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runstatus.yaml")
	yaml := `
race_date: 2026-04-11
pace_bands:
  - {max_pace_minmi: 10.0, label: Fast}
  - {max_pace_minmi: 9.0, label: Faster}
  - {label: Slow}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ascending")
}

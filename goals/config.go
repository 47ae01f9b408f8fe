// Package goals turns the run dataset into a race-goal status verdict:
// heart-rate compliance per run type, pace confidence, and on-track/off-track
// evidence for each goal tier.
package goals

import (
	"fmt"
	"os"
	"time"

	"github.com/lucasjlepore/runstatus"
	"gopkg.in/yaml.v3"
)

// PaceBand maps a mean pace to a confidence label. Bands are ordered fastest
// first; a band with MaxPaceMinMi <= 0 is unbounded and must come last.
type PaceBand struct {
	MaxPaceMinMi float64 `yaml:"max_pace_minmi"`
	Label        string  `yaml:"label"`
}

// Config carries every tunable the evaluators use. Values not set in the
// YAML file fall back to the defaults; the race date has no default-free
// escape hatch because nothing downstream works without it.
type Config struct {
	RaceDate time.Time `yaml:"race_date"`

	HRCaps map[runstatus.RunType]int `yaml:"hr_caps"`

	ComplianceWindowDays int `yaml:"compliance_window_days"`
	FrequencyWindowDays  int `yaml:"frequency_window_days"`
	PaceWindowDays       int `yaml:"pace_window_days"`

	MinRunsPerWeek float64 `yaml:"min_runs_per_week"`
	MinLongRunMin  float64 `yaml:"min_long_run_min"`

	PaceBands             []PaceBand `yaml:"pace_bands"`
	InsufficientPaceLabel string     `yaml:"insufficient_pace_label"`

	// Minimum pace-confidence level each time goal requires; the shorter
	// time goal is stricter.
	LongTimeMinLevel  int `yaml:"long_time_goal_min_level"`
	ShortTimeMinLevel int `yaml:"short_time_goal_min_level"`
}

// Default returns the built-in configuration for the 2026 half marathon.
func Default() Config {
	return Config{
		RaceDate: time.Date(2026, time.April, 11, 0, 0, 0, 0, time.UTC),
		HRCaps: map[runstatus.RunType]int{
			runstatus.RunEasy:      145,
			runstatus.RunLong:      155,
			runstatus.RunThreshold: 165,
		},
		ComplianceWindowDays: 14,
		FrequencyWindowDays:  28,
		PaceWindowDays:       28,
		MinRunsPerWeek:       2.0,
		MinLongRunMin:        60,
		PaceBands: []PaceBand{
			{MaxPaceMinMi: 9.0, Label: "Strong"},
			{MaxPaceMinMi: 9.5, Label: "On pace"},
			{MaxPaceMinMi: 10.5, Label: "Close"},
			{MaxPaceMinMi: 11.5, Label: "Building"},
			{Label: "Finish slow"},
		},
		InsufficientPaceLabel: "Insufficient data",
		LongTimeMinLevel:      2,
		ShortTimeMinLevel:     4,
	}
}

// LoadConfig reads a YAML config file, filling unset fields from Default.
// An empty path means "no file": the defaults are used as-is.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg = mergeConfig(cfg, loaded)
	if cfg.RaceDate.IsZero() {
		return Config{}, &runstatus.MissingRaceDateConfigError{Path: path}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// mergeConfig overlays explicitly-set fields from loaded on top of defaults.
func mergeConfig(base, loaded Config) Config {
	out := base
	out.RaceDate = loaded.RaceDate
	if len(loaded.HRCaps) > 0 {
		out.HRCaps = loaded.HRCaps
	}
	if loaded.ComplianceWindowDays > 0 {
		out.ComplianceWindowDays = loaded.ComplianceWindowDays
	}
	if loaded.FrequencyWindowDays > 0 {
		out.FrequencyWindowDays = loaded.FrequencyWindowDays
	}
	if loaded.PaceWindowDays > 0 {
		out.PaceWindowDays = loaded.PaceWindowDays
	}
	if loaded.MinRunsPerWeek > 0 {
		out.MinRunsPerWeek = loaded.MinRunsPerWeek
	}
	if loaded.MinLongRunMin > 0 {
		out.MinLongRunMin = loaded.MinLongRunMin
	}
	if len(loaded.PaceBands) > 0 {
		out.PaceBands = loaded.PaceBands
	}
	if loaded.InsufficientPaceLabel != "" {
		out.InsufficientPaceLabel = loaded.InsufficientPaceLabel
	}
	if loaded.LongTimeMinLevel > 0 {
		out.LongTimeMinLevel = loaded.LongTimeMinLevel
	}
	if loaded.ShortTimeMinLevel > 0 {
		out.ShortTimeMinLevel = loaded.ShortTimeMinLevel
	}
	return out
}

func (c Config) validate() error {
	for _, rt := range runstatus.RunTypes {
		if c.HRCaps[rt] <= 0 {
			return fmt.Errorf("hr cap for %s must be positive", rt)
		}
	}
	if c.ComplianceWindowDays <= 0 || c.FrequencyWindowDays <= 0 || c.PaceWindowDays <= 0 {
		return fmt.Errorf("window sizes must be positive")
	}
	if len(c.PaceBands) == 0 {
		return fmt.Errorf("at least one pace band is required")
	}
	last := len(c.PaceBands) - 1
	prev := 0.0
	for i, band := range c.PaceBands {
		if band.Label == "" {
			return fmt.Errorf("pace band %d has no label", i)
		}
		if i == last {
			continue
		}
		if band.MaxPaceMinMi <= prev {
			return fmt.Errorf("pace bands must have ascending max_pace_minmi")
		}
		prev = band.MaxPaceMinMi
	}
	if c.PaceBands[last].MaxPaceMinMi > 0 && c.PaceBands[last].MaxPaceMinMi <= prev {
		return fmt.Errorf("pace bands must have ascending max_pace_minmi")
	}
	n := len(c.PaceBands)
	if c.LongTimeMinLevel < 1 || c.LongTimeMinLevel > n {
		return fmt.Errorf("long_time_goal_min_level must be in 1..%d", n)
	}
	if c.ShortTimeMinLevel < c.LongTimeMinLevel || c.ShortTimeMinLevel > n {
		return fmt.Errorf("short_time_goal_min_level must be in %d..%d", c.LongTimeMinLevel, n)
	}
	return nil
}

// CapFor returns the heart-rate cap for a run type.
func (c Config) CapFor(rt runstatus.RunType) int {
	return c.HRCaps[rt]
}

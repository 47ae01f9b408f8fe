package pipeline

import (
	"time"

	"github.com/lucasjlepore/runstatus"
	"github.com/lucasjlepore/runstatus/goals"
)

// DecodeFunc turns one raw activity file into a run record. The default is
// runstatus.DecodeFile; tests substitute their own.
type DecodeFunc func(path string, runType runstatus.RunType) (runstatus.RunRecord, error)

// Options configures one batch invocation.
type Options struct {
	// RawDir holds raw activity files in per-run-type folders:
	// RawDir/easy, RawDir/long, RawDir/threshold.
	RawDir string

	// DataDir receives runs.csv, runs.parquet and status.json.
	DataDir string

	// ReadmePath is the document carrying the goal-status markers.
	// Empty disables injection.
	ReadmePath string

	// ConfigPath is an optional YAML config; empty uses built-in defaults.
	ConfigPath string

	// Today overrides the evaluation date; zero means the current date.
	Today time.Time

	// DryRun computes everything but writes nothing; the README change is
	// reported as a unified diff instead.
	DryRun bool

	Decode DecodeFunc
}

// SkippedFile records one raw file that could not be decoded. Skips are
// collected and reported after the batch; they never abort the run.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result reports what one invocation produced.
type Result struct {
	DatasetPath string              `json:"dataset_path"`
	ParquetPath string              `json:"parquet_path"`
	StatusPath  string              `json:"status_path,omitempty"`
	ReadmePath  string              `json:"readme_path,omitempty"`
	Ingested    int                 `json:"ingested"`
	Skipped     []SkippedFile       `json:"skipped,omitempty"`
	Report      *goals.StatusReport `json:"report"`
	Block       string              `json:"-"`
	Diff        string              `json:"-"`
}

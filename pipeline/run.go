// Package pipeline orchestrates one batch invocation: ingest raw activity
// files, merge them into the dataset, evaluate goal status, and refresh the
// rendered report.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lucasjlepore/runstatus"
	"github.com/lucasjlepore/runstatus/dataset"
	"github.com/lucasjlepore/runstatus/goals"
	"github.com/lucasjlepore/runstatus/report"
)

// Run executes the full pipeline. Per-file decode failures are collected in
// Result.Skipped and never abort the batch; fatal errors (corrupt dataset,
// unusable config) surface before any write, so the previously persisted
// dataset is left untouched.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.RawDir) == "" {
		return nil, fmt.Errorf("raw directory is required")
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	decode := opts.Decode
	if decode == nil {
		decode = runstatus.DecodeFile
	}
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = runstatus.Day(today)

	cfg, err := goals.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	csvPath := filepath.Join(opts.DataDir, "runs.csv")
	ds, err := dataset.Load(csvPath)
	if err != nil {
		return nil, err
	}

	res := &Result{
		DatasetPath: csvPath,
		ParquetPath: filepath.Join(opts.DataDir, "runs.parquet"),
		ReadmePath:  opts.ReadmePath,
	}

	for _, rt := range runstatus.RunTypes {
		files, err := rawFiles(filepath.Join(opts.RawDir, string(rt)))
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			rec, decodeErr := decode(path, rt)
			if decodeErr != nil {
				res.Skipped = append(res.Skipped, SkippedFile{Path: path, Reason: decodeErr.Error()})
				continue
			}
			ds.Upsert(rec)
			res.Ingested++
		}
	}

	res.Report, err = goals.BuildStatusReport(ds, cfg, today)
	if err != nil {
		return nil, err
	}
	res.Block = report.GoalBlock(res.Report)

	if opts.DryRun {
		if opts.ReadmePath != "" {
			diff, err := report.DiffFile(opts.ReadmePath, res.Block)
			if err != nil {
				return nil, err
			}
			res.Diff = diff
		}
		return res, nil
	}

	if err := ds.Save(csvPath); err != nil {
		return nil, err
	}
	if err := ds.ExportParquet(res.ParquetPath); err != nil {
		return nil, fmt.Errorf("write parquet mirror: %w", err)
	}
	res.StatusPath = filepath.Join(opts.DataDir, "status.json")
	if err := writeJSON(res.StatusPath, res.Report); err != nil {
		return nil, fmt.Errorf("write status.json: %w", err)
	}
	if opts.ReadmePath != "" {
		if err := report.InjectFile(opts.ReadmePath, res.Block); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// rawFiles lists the .fit files in one run-type folder, sorted by name so
// ingestion order is stable. A missing folder just means no runs of that
// type yet.
func rawFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read raw directory %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

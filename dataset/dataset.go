// Package dataset maintains the authoritative, deduplicated collection of
// run records, persisted as a tabular CSV file between invocations.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/lucasjlepore/runstatus"
)

var columns = []string{
	"date", "week", "run_type", "duration_min", "distance_mi", "avg_pace_minmi", "avg_hr", "source_file",
}

// Dataset is an append-only, date-deduplicated collection of run records,
// kept in ascending date order. The calendar date is the key: re-processing
// a file for a date replaces the prior record instead of duplicating it.
type Dataset struct {
	records []runstatus.RunRecord
}

// Load reads the persisted dataset. A missing file is the legitimate initial
// state and yields an empty dataset; an unreadable or malformed file yields
// *runstatus.DatasetCorruptError so history is never silently dropped.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, &runstatus.DatasetCorruptError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(columns)

	header, err := r.Read()
	if err == io.EOF {
		return &Dataset{}, nil
	}
	if err != nil {
		return nil, &runstatus.DatasetCorruptError{Path: path, Err: err}
	}
	for i, col := range columns {
		if header[i] != col {
			return nil, &runstatus.DatasetCorruptError{
				Path: path,
				Err:  fmt.Errorf("unexpected column %d: got %q want %q", i, header[i], col),
			}
		}
	}

	ds := &Dataset{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &runstatus.DatasetCorruptError{Path: path, Err: err}
		}
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, &runstatus.DatasetCorruptError{Path: path, Err: err}
		}
		ds.Upsert(rec)
	}
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the records in ascending date order. The returned slice is
// a copy; the dataset itself only changes through Upsert.
func (d *Dataset) Records() []runstatus.RunRecord {
	out := make([]runstatus.RunRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Upsert inserts a record or replaces the existing record with the same
// date, keeping records sorted ascending by date.
func (d *Dataset) Upsert(rec runstatus.RunRecord) {
	rec.Date = runstatus.Day(rec.Date)
	i := sort.Search(len(d.records), func(i int) bool {
		return !d.records[i].Date.Before(rec.Date)
	})
	if i < len(d.records) && d.records[i].Date.Equal(rec.Date) {
		d.records[i] = rec
		return
	}
	d.records = append(d.records, runstatus.RunRecord{})
	copy(d.records[i+1:], d.records[i:])
	d.records[i] = rec
}

// Since yields records with date >= today-days, ascending by date. The
// sequence is lazy and restartable, so evaluators can range over it more
// than once.
func (d *Dataset) Since(today time.Time, days int) iter.Seq[runstatus.RunRecord] {
	cutoff := runstatus.Day(today).AddDate(0, 0, -days)
	start := sort.Search(len(d.records), func(i int) bool {
		return !d.records[i].Date.Before(cutoff)
	})
	return func(yield func(runstatus.RunRecord) bool) {
		for _, rec := range d.records[start:] {
			if !yield(rec) {
				return
			}
		}
	}
}

// Save writes the full dataset back as CSV. The write goes to a temp file in
// the same directory and is renamed into place, so an interrupted save never
// leaves a truncated dataset behind.
func (d *Dataset) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".runs-*.csv")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write dataset header: %w", err)
	}
	for _, rec := range d.records {
		if err := w.Write(rowFromRecord(rec)); err != nil {
			tmp.Close()
			return fmt.Errorf("write dataset row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

func rowFromRecord(rec runstatus.RunRecord) []string {
	pace := ""
	if p, ok := rec.PaceMinMi(); ok {
		pace = formatFloat(p)
	}
	hr := ""
	if rec.AvgHR != nil {
		hr = strconv.Itoa(*rec.AvgHR)
	}
	return []string{
		rec.DateString(),
		rec.Week(),
		string(rec.RunType),
		formatFloat(rec.DurationMin),
		formatFloat(rec.DistanceMi),
		pace,
		hr,
		rec.SourceFile,
	}
}

func recordFromRow(row []string) (runstatus.RunRecord, error) {
	date, err := runstatus.ParseDate(row[0])
	if err != nil {
		return runstatus.RunRecord{}, fmt.Errorf("parse date %q: %w", row[0], err)
	}
	runType, err := runstatus.ParseRunType(row[2])
	if err != nil {
		return runstatus.RunRecord{}, err
	}
	duration, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return runstatus.RunRecord{}, fmt.Errorf("parse duration_min %q: %w", row[3], err)
	}
	distance, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return runstatus.RunRecord{}, fmt.Errorf("parse distance_mi %q: %w", row[4], err)
	}
	rec := runstatus.RunRecord{
		Date:        date,
		RunType:     runType,
		DurationMin: duration,
		DistanceMi:  distance,
		SourceFile:  row[7],
	}
	// avg_pace_minmi (row[5]) is derived and recomputed from duration and
	// distance; the stored value exists for external consumers of the CSV.
	if row[6] != "" {
		hr, err := strconv.Atoi(row[6])
		if err != nil {
			return runstatus.RunRecord{}, fmt.Errorf("parse avg_hr %q: %w", row[6], err)
		}
		rec.AvgHR = &hr
	}
	return rec, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

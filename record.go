package runstatus

import (
	"fmt"
	"time"
)

const (
	metersPerMile = 1609.344
	dateLayout    = "2006-01-02"
)

// RunType classifies a training run by intensity.
type RunType string

const (
	RunEasy      RunType = "easy"
	RunLong      RunType = "long"
	RunThreshold RunType = "threshold"
)

// RunTypes lists all run types in priority order. Every place that iterates
// run types uses this slice so tie-breaks and report lines come out in the
// same order on every invocation.
var RunTypes = []RunType{RunEasy, RunLong, RunThreshold}

// ParseRunType validates a run type string.
func ParseRunType(s string) (RunType, error) {
	switch RunType(s) {
	case RunEasy, RunLong, RunThreshold:
		return RunType(s), nil
	}
	return "", fmt.Errorf("unknown run type %q (expected easy|long|threshold)", s)
}

// RunRecord is one completed training activity. Records are immutable once
// constructed; the dataset replaces whole records keyed by date.
type RunRecord struct {
	Date        time.Time
	RunType     RunType
	DurationMin float64
	DistanceMi  float64
	AvgHR       *int
	SourceFile  string
}

// PaceMinMi returns the average pace in minutes per mile. The second return
// is false when the activity carried no usable distance (treadmill, no GPS).
func (r RunRecord) PaceMinMi() (float64, bool) {
	if r.DistanceMi <= 0 || r.DurationMin <= 0 {
		return 0, false
	}
	return r.DurationMin / r.DistanceMi, true
}

// Week returns the ISO week string for the record date, e.g. "2026-W05".
func (r RunRecord) Week() string {
	year, week := r.Date.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DateString formats the record date as YYYY-MM-DD.
func (r RunRecord) DateString() string {
	return r.Date.Format(dateLayout)
}

// Day truncates a timestamp to a calendar date at midnight UTC. Dataset keys
// and window arithmetic all operate on day granularity.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD dataset date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

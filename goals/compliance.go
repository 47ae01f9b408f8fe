package goals

import (
	"fmt"
	"iter"
	"time"

	"github.com/lucasjlepore/runstatus"
)

// CapCount aggregates pass/total for one run type inside the compliance
// window. Runs without heart-rate data are excluded from both numbers.
type CapCount struct {
	Pass  int `json:"pass"`
	Total int `json:"total"`
	Cap   int `json:"cap"`
}

// Failure records one run that exceeded its run-type cap.
type Failure struct {
	Date    time.Time         `json:"-"`
	DateStr string            `json:"date"`
	RunType runstatus.RunType `json:"run_type"`
	AvgHR   int               `json:"avg_hr"`
	Cap     int               `json:"cap"`
}

// Evidence formats the failure the way the goal verdicts report it.
func (f Failure) Evidence() string {
	return fmt.Sprintf("%s avg HR %d > %d on %s", f.RunType, f.AvgHR, f.Cap, f.DateStr)
}

// Compliance is the heart-rate verdict for the trailing window.
type Compliance struct {
	WindowDays   int                            `json:"window_days"`
	Counts       map[runstatus.RunType]CapCount `json:"counts"`
	FirstFailure *Failure                       `json:"first_failure,omitempty"`
}

// Pass reports whether every run type with observations inside the window is
// fully compliant. Run types with no observations are vacuously compliant.
func (c Compliance) Pass() bool {
	for _, count := range c.Counts {
		if count.Pass != count.Total {
			return false
		}
	}
	return true
}

// EvaluateCompliance checks every heart-rate-bearing run in the sequence
// against its run-type cap. The first failure is the one with the earliest
// date; same-date failures across run types resolve by the fixed priority
// order of runstatus.RunTypes.
func EvaluateCompliance(runs iter.Seq[runstatus.RunRecord], cfg Config) Compliance {
	out := Compliance{
		WindowDays: cfg.ComplianceWindowDays,
		Counts:     make(map[runstatus.RunType]CapCount, len(runstatus.RunTypes)),
	}
	for _, rt := range runstatus.RunTypes {
		out.Counts[rt] = CapCount{Cap: cfg.CapFor(rt)}
	}

	for rec := range runs {
		if rec.AvgHR == nil {
			// No sensor data: neither pass nor fail.
			continue
		}
		count := out.Counts[rec.RunType]
		count.Total++
		limit := cfg.CapFor(rec.RunType)
		if *rec.AvgHR <= limit {
			count.Pass++
			out.Counts[rec.RunType] = count
			continue
		}
		out.Counts[rec.RunType] = count

		failure := &Failure{
			Date:    rec.Date,
			DateStr: rec.DateString(),
			RunType: rec.RunType,
			AvgHR:   *rec.AvgHR,
			Cap:     limit,
		}
		if earlierFailure(failure, out.FirstFailure) {
			out.FirstFailure = failure
		}
	}
	return out
}

func earlierFailure(candidate, current *Failure) bool {
	if current == nil {
		return true
	}
	if !candidate.Date.Equal(current.Date) {
		return candidate.Date.Before(current.Date)
	}
	return typePriority(candidate.RunType) < typePriority(current.RunType)
}

func typePriority(rt runstatus.RunType) int {
	for i, t := range runstatus.RunTypes {
		if t == rt {
			return i
		}
	}
	return len(runstatus.RunTypes)
}

package goals

import (
	"fmt"
	"iter"

	"github.com/lucasjlepore/runstatus"
)

// PaceConfidence is a discrete readiness score derived from the mean pace of
// recent runs. Level 0 means no run in the window carried pace data; level
// len(bands) is the fastest band. Faster mean pace never lowers the level.
type PaceConfidence struct {
	Level         int      `json:"level"`
	Label         string   `json:"label"`
	MeanPaceMinMi *float64 `json:"mean_pace_minmi,omitempty"`
	Samples       int      `json:"samples"`
}

// String renders the confidence for evidence strings, e.g. "On pace (9.4 min/mi)".
func (p PaceConfidence) String() string {
	if p.MeanPaceMinMi == nil {
		return p.Label
	}
	return fmt.Sprintf("%s (%.1f min/mi)", p.Label, *p.MeanPaceMinMi)
}

// EvaluatePaceConfidence averages pace over the runs that have distance data
// and maps the mean through the configured bands. Runs without distance are
// excluded from the mean entirely.
func EvaluatePaceConfidence(runs iter.Seq[runstatus.RunRecord], cfg Config) PaceConfidence {
	sum := 0.0
	n := 0
	for rec := range runs {
		pace, ok := rec.PaceMinMi()
		if !ok {
			continue
		}
		sum += pace
		n++
	}
	if n == 0 {
		return PaceConfidence{Level: 0, Label: cfg.InsufficientPaceLabel}
	}

	mean := sum / float64(n)
	level, label := bandFor(mean, cfg.PaceBands)
	return PaceConfidence{
		Level:         level,
		Label:         label,
		MeanPaceMinMi: &mean,
		Samples:       n,
	}
}

// bandFor picks the first band whose bound covers the mean. Bands are
// ordered fastest first, so the level is the distance from the slow end.
func bandFor(mean float64, bands []PaceBand) (int, string) {
	for i, band := range bands {
		if band.MaxPaceMinMi <= 0 || mean <= band.MaxPaceMinMi {
			return len(bands) - i, band.Label
		}
	}
	// Bounded final band and the mean is beyond it; report the slowest band.
	last := bands[len(bands)-1]
	return 1, last.Label
}

// bandLabelForLevel returns the label of the band at a given level.
func bandLabelForLevel(level int, bands []PaceBand) string {
	idx := len(bands) - level
	if idx < 0 || idx >= len(bands) {
		return ""
	}
	return bands[idx].Label
}

package runstatus

import (
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"
)

// DecodeFile reads a FIT activity file and summarizes it into a RunRecord.
// The run type is supplied by the caller because it comes from where the raw
// file lives (raw/easy, raw/long, raw/threshold), not from the file itself.
//
// Failure modes: *DecodeError for a corrupt or non-activity file,
// *NoTimerDataError when the file carries no elapsed-time stream.
func DecodeFile(path string, runType RunType) (RunRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return RunRecord{}, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return RunRecord{}, &DecodeError{Path: path, Err: err}
	}
	activity, err := decoded.Activity()
	if err != nil {
		return RunRecord{}, &DecodeError{Path: path, Err: err}
	}
	if len(activity.Sessions) == 0 {
		return RunRecord{}, &NoTimerDataError{Path: path}
	}

	// The first session message carries the activity totals.
	session := activity.Sessions[0]

	timerSec := safePositive(session.GetTotalTimerTimeScaled())
	if timerSec == 0 {
		timerSec = safePositive(session.GetTotalElapsedTimeScaled())
	}
	if timerSec == 0 {
		return RunRecord{}, &NoTimerDataError{Path: path}
	}

	start := validTimeOrZero(session.StartTime)
	if start.IsZero() {
		start = validTimeOrZero(session.Timestamp)
	}
	if start.IsZero() {
		// Last resort: file mtime places the run on some calendar day.
		info, statErr := os.Stat(path)
		if statErr != nil {
			return RunRecord{}, &DecodeError{Path: path, Err: statErr}
		}
		start = info.ModTime()
	}

	rec := RunRecord{
		Date:        Day(start),
		RunType:     runType,
		DurationMin: timerSec / 60.0,
		DistanceMi:  safePositive(session.GetTotalDistanceScaled()) / metersPerMile,
		SourceFile:  path,
	}
	if hr := validUint8(session.AvgHeartRate); hr > 0 {
		v := int(hr)
		rec.AvgHR = &v
	}
	return rec, nil
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func validUint8(v uint8) uint8 {
	if v == math.MaxUint8 {
		return 0
	}
	return v
}

func safePositive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

package goals

import (
	"fmt"
	"math"
	"time"

	"github.com/lucasjlepore/runstatus"
	"github.com/lucasjlepore/runstatus/dataset"
)

// GoalTier identifies one of the three race-outcome targets.
type GoalTier string

const (
	GoalFinishDistance  GoalTier = "finish-the-distance"
	GoalFinishLongTime  GoalTier = "finish-under-long-time"
	GoalFinishShortTime GoalTier = "finish-under-short-time"
)

var goalNames = map[GoalTier]string{
	GoalFinishDistance:  "Finish the half marathon",
	GoalFinishLongTime:  "Finish under 2:30",
	GoalFinishShortTime: "Finish under 2:00",
}

// GoalVerdict is the on-track decision for one goal tier with the evidence
// that justifies it.
type GoalVerdict struct {
	Tier     GoalTier `json:"tier"`
	Name     string   `json:"name"`
	OnTrack  bool     `json:"on_track"`
	Evidence string   `json:"evidence"`
}

// StatusReport is the full, self-describing goal status. It is recomputed
// fresh from the dataset on every invocation and never persisted.
type StatusReport struct {
	Today          time.Time      `json:"-"`
	RaceDate       time.Time      `json:"-"`
	TodayStr       string         `json:"today"`
	RaceDateStr    string         `json:"race_date"`
	WeeksToRace    float64        `json:"weeks_to_race"`
	Compliance     Compliance     `json:"hr_compliance"`
	PaceConfidence PaceConfidence `json:"pace_confidence"`
	Goals          []GoalVerdict  `json:"goals"`
}

// BuildStatusReport evaluates every goal tier against the dataset. Both the
// current date and the race date come in as explicit inputs so the result is
// deterministic: the same dataset and dates produce byte-identical evidence.
func BuildStatusReport(ds *dataset.Dataset, cfg Config, today time.Time) (*StatusReport, error) {
	if cfg.RaceDate.IsZero() {
		return nil, &runstatus.MissingRaceDateConfigError{}
	}
	today = runstatus.Day(today)
	race := runstatus.Day(cfg.RaceDate)

	compliance := EvaluateCompliance(ds.Since(today, cfg.ComplianceWindowDays), cfg)
	confidence := EvaluatePaceConfidence(ds.Since(today, cfg.PaceWindowDays), cfg)

	report := &StatusReport{
		Today:          today,
		RaceDate:       race,
		TodayStr:       today.Format("2006-01-02"),
		RaceDateStr:    race.Format("2006-01-02"),
		WeeksToRace:    roundToTenth(race.Sub(today).Hours() / 24 / 7),
		Compliance:     compliance,
		PaceConfidence: confidence,
	}
	report.Goals = []GoalVerdict{
		distanceGoal(ds, cfg, today),
		timeGoal(GoalFinishLongTime, cfg.LongTimeMinLevel, compliance, confidence, cfg),
		timeGoal(GoalFinishShortTime, cfg.ShortTimeMinLevel, compliance, confidence, cfg),
	}
	return report, nil
}

// distanceGoal checks training consistency: run frequency and the longest
// long run over the trailing frequency window.
func distanceGoal(ds *dataset.Dataset, cfg Config, today time.Time) GoalVerdict {
	count := 0
	longestLong := 0.0
	for rec := range ds.Since(today, cfg.FrequencyWindowDays) {
		count++
		if rec.RunType == runstatus.RunLong && rec.DurationMin > longestLong {
			longestLong = rec.DurationMin
		}
	}
	weeks := float64(cfg.FrequencyWindowDays) / 7.0
	runsPerWeek := float64(count) / weeks

	onTrack := runsPerWeek >= cfg.MinRunsPerWeek && longestLong >= cfg.MinLongRunMin
	evidence := fmt.Sprintf(
		"%.1f runs/week (last %dd); longest long run %.0f min",
		runsPerWeek, cfg.FrequencyWindowDays, longestLong,
	)
	return GoalVerdict{
		Tier:     GoalFinishDistance,
		Name:     goalNames[GoalFinishDistance],
		OnTrack:  onTrack,
		Evidence: evidence,
	}
}

// timeGoal gates a time-based goal on HR compliance first and pace
// confidence second. A compliance failure produces the same evidence string
// for both time goals so the report points at one concrete run.
func timeGoal(tier GoalTier, minLevel int, compliance Compliance, confidence PaceConfidence, cfg Config) GoalVerdict {
	verdict := GoalVerdict{Tier: tier, Name: goalNames[tier]}

	if !compliance.Pass() {
		verdict.Evidence = "HR cap exceeded in the rolling window"
		if compliance.FirstFailure != nil {
			verdict.Evidence = compliance.FirstFailure.Evidence()
		}
		return verdict
	}

	if confidence.Level >= minLevel {
		verdict.OnTrack = true
		verdict.Evidence = fmt.Sprintf(
			"HR compliant (last %dd); pace confidence %s",
			compliance.WindowDays, confidence,
		)
		return verdict
	}

	if confidence.MeanPaceMinMi == nil {
		verdict.Evidence = fmt.Sprintf(
			"HR compliant (last %dd); no pace data in last %dd",
			compliance.WindowDays, cfg.PaceWindowDays,
		)
		return verdict
	}
	verdict.Evidence = fmt.Sprintf(
		"HR compliant (last %dd); pace confidence %s, need %s or better",
		compliance.WindowDays, confidence, bandLabelForLevel(minLevel, cfg.PaceBands),
	)
	return verdict
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

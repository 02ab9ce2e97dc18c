package career

import (
	"errors"
	"time"

	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
)

var (
	// ErrNoDebut means the athlete has no match with minutes played, so the
	// career clock has no origin.
	ErrNoDebut = errors.New("no match with minutes played, debut year undefined")
	// ErrSchemaMismatch means the feature row cannot be materialized against
	// the classifier's expected column set.
	ErrSchemaMismatch = errors.New("feature row schema mismatch")
)

// Match is one rating-augmented match row, the aggregator's input unit.
// Age is in years at match date; HasAge is false when the birth date is
// unknown and the row is then excluded from age means.
type Match struct {
	PlayedAt time.Time
	Minutes  float64
	Goals    float64
	Assists  float64
	Rating   float64
	Age      float64
	HasAge   bool
}

// SeasonSummary aggregates one (athlete, year-since-debut) pair.
// YearSinceDebut is 1-based: the debut season is year 1.
type SeasonSummary struct {
	YearSinceDebut    int
	Matches           int
	Minutes           float64
	Goals             float64
	Assists           float64
	GoalContributions float64
	AvgRating         float64
	AvgAge            float64
	HasAvgAge         bool
}

// Totals is the whole-career box score plus per-90 rates.
type Totals struct {
	Matches            int
	Minutes            float64
	Goals              float64
	Assists            float64
	GoalContributions  float64
	YellowCards        float64
	RedCards           float64
	GoalsPer90         float64
	AssistsPer90       float64
	ContributionsPer90 float64
}

// Summarize folds raw match records into career totals.
func Summarize(records []matchlog.Record) Totals {
	t := Totals{Matches: len(records)}
	for _, r := range records {
		t.Minutes += r.Minutes
		t.Goals += r.Goals
		t.Assists += r.Assists
		t.YellowCards += r.YellowCards
		t.RedCards += r.RedCards
	}
	t.GoalContributions = t.Goals + t.Assists
	if t.Minutes > 0 {
		per90 := t.Minutes / 90
		t.GoalsPer90 = t.Goals / per90
		t.AssistsPer90 = t.Assists / per90
		t.ContributionsPer90 = t.GoalContributions / per90
	}
	return t
}

package rating

import "github.com/futpeak/futpeak-engine/internal/domain/matchlog"

// Weights of the composite match score. Off-target shots earn a sliver of
// credit; cards subtract.
const (
	weightGoal          = 5.0
	weightAssist        = 4.0
	weightShotOnTarget  = 0.5
	weightShotOffTarget = 0.1
	weightYellowCard    = 1.0
	weightRedCard       = 2.0
)

// PerNinety computes the composite per-90-minutes rating for one match.
// A match with zero minutes rates 0 regardless of counters. Negative ratings
// are valid (heavily carded, low-output matches). Shots below shots-on-target
// is not validated here; upstream data is trusted.
func PerNinety(r matchlog.Record) float64 {
	if r.Minutes <= 0 {
		return 0
	}
	score := r.Goals*weightGoal +
		r.Assists*weightAssist +
		r.ShotsOnTarget*weightShotOnTarget +
		(r.Shots-r.ShotsOnTarget)*weightShotOffTarget -
		r.YellowCards*weightYellowCard -
		r.RedCards*weightRedCard
	return score / (r.Minutes / 90)
}

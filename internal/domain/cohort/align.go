package cohort

import "github.com/futpeak/futpeak-engine/internal/domain/career"

// Fallback reasons carried on an Alignment when the shift could not be
// anchored. Both are recoverable: the projection degrades to the unshifted
// cohort average instead of failing the request.
const (
	FallbackNone         = ""
	FallbackCurveMissing = "cohort_curve_missing"
	FallbackYearOffCurve = "last_year_off_curve"
)

// Alignment is the projection result: the cohort curve with a projection
// column, plus whether the identity fallback was taken and why.
type Alignment struct {
	Points   []ProjectionPoint
	Shift    float64
	Fallback bool
	Reason   string
}

// Align shifts the cohort curve vertically so it passes through the athlete's
// most recent observed season. When the curve is empty or lacks the athlete's
// last observed year the shift is zero and the result is flagged as a
// fallback. Output is truncated to the projection horizon.
func Align(curve Curve, seasons []career.SeasonSummary) Alignment {
	out := Alignment{}

	lastYear, lastRating, found := lastObserved(seasons)
	switch {
	case curve.Empty():
		out.Fallback = true
		out.Reason = FallbackCurveMissing
	case !found:
		out.Fallback = true
		out.Reason = FallbackYearOffCurve
	default:
		ref, ok := ratingAt(curve, lastYear)
		if !ok {
			out.Fallback = true
			out.Reason = FallbackYearOffCurve
		} else {
			out.Shift = lastRating - ref
		}
	}

	out.Points = make([]ProjectionPoint, 0, len(curve.Points))
	for _, p := range curve.Points {
		if p.YearSinceDebut > HorizonYears {
			continue
		}
		out.Points = append(out.Points, ProjectionPoint{
			CurvePoint: p,
			Projection: p.RatingAvg + out.Shift,
		})
	}

	return out
}

// TruncateSeasons drops season rows beyond the projection horizon.
func TruncateSeasons(seasons []career.SeasonSummary) []career.SeasonSummary {
	out := make([]career.SeasonSummary, 0, len(seasons))
	for _, s := range seasons {
		if s.YearSinceDebut > HorizonYears {
			continue
		}
		out = append(out, s)
	}
	return out
}

func lastObserved(seasons []career.SeasonSummary) (int, float64, bool) {
	year, rating, found := 0, 0.0, false
	for _, s := range seasons {
		if !found || s.YearSinceDebut > year {
			year, rating, found = s.YearSinceDebut, s.AvgRating, true
		}
	}
	return year, rating, found
}

func ratingAt(curve Curve, year int) (float64, bool) {
	for _, p := range curve.Points {
		if p.YearSinceDebut == year {
			return p.RatingAvg, true
		}
	}
	return 0, false
}

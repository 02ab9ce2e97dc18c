package cohort

import (
	"math"
	"testing"

	"github.com/futpeak/futpeak-engine/internal/domain/career"
)

func flatCurve(label string, years int, avg float64) Curve {
	c := Curve{Label: label}
	for y := 1; y <= years; y++ {
		c.Points = append(c.Points, CurvePoint{YearSinceDebut: y, RatingAvg: avg + float64(y)})
	}
	return c
}

func TestAlign_ProjectionPassesThroughLastObservedRating(t *testing.T) {
	curve := flatCurve("Elite", 10, 2.0)
	seasons := []career.SeasonSummary{
		{YearSinceDebut: 1, AvgRating: 2.5},
		{YearSinceDebut: 3, AvgRating: 7.5},
	}

	a := Align(curve, seasons)
	if a.Fallback {
		t.Fatalf("unexpected fallback: %+v", a)
	}

	// Curve value at year 3 is 5.0, athlete rating is 7.5 -> shift 2.5.
	if math.Abs(a.Shift-2.5) > 1e-9 {
		t.Fatalf("expected shift 2.5, got %v", a.Shift)
	}
	for _, p := range a.Points {
		if p.YearSinceDebut == 3 && math.Abs(p.Projection-7.5) > 1e-9 {
			t.Fatalf("projection at last year must equal athlete rating, got %v", p.Projection)
		}
		if math.Abs(p.Projection-(p.RatingAvg+a.Shift)) > 1e-9 {
			t.Fatalf("projection must be rating_avg + shift at year %d", p.YearSinceDebut)
		}
	}
}

func TestAlign_LastYearOffCurveFallsBackToIdentity(t *testing.T) {
	curve := flatCurve("Late Bloomer", 4, 1.0)
	seasons := []career.SeasonSummary{{YearSinceDebut: 9, AvgRating: 6.0}}

	a := Align(curve, seasons)
	if !a.Fallback || a.Reason != FallbackYearOffCurve {
		t.Fatalf("expected year-off-curve fallback, got %+v", a)
	}
	if a.Shift != 0 {
		t.Fatalf("fallback shift must be zero, got %v", a.Shift)
	}
	for _, p := range a.Points {
		if p.Projection != p.RatingAvg {
			t.Fatalf("fallback projection must equal rating_avg, got %+v", p)
		}
	}
}

func TestAlign_EmptyCurveFallsBack(t *testing.T) {
	a := Align(Curve{}, []career.SeasonSummary{{YearSinceDebut: 2, AvgRating: 3}})
	if !a.Fallback || a.Reason != FallbackCurveMissing {
		t.Fatalf("expected curve-missing fallback, got %+v", a)
	}
	if len(a.Points) != 0 {
		t.Fatalf("expected no points for empty curve, got %d", len(a.Points))
	}
}

func TestAlign_TruncatesBeyondHorizon(t *testing.T) {
	curve := flatCurve("Steady", 20, 0)
	seasons := []career.SeasonSummary{{YearSinceDebut: 5, AvgRating: 5}}

	a := Align(curve, seasons)
	for _, p := range a.Points {
		if p.YearSinceDebut > HorizonYears {
			t.Fatalf("point beyond horizon year %d leaked through", p.YearSinceDebut)
		}
	}
	if len(a.Points) != HorizonYears {
		t.Fatalf("expected %d points, got %d", HorizonYears, len(a.Points))
	}
}

func TestTruncateSeasons(t *testing.T) {
	seasons := []career.SeasonSummary{
		{YearSinceDebut: 1},
		{YearSinceDebut: 13},
		{YearSinceDebut: 14},
	}
	out := TruncateSeasons(seasons)
	if len(out) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(out))
	}
}

func TestRegistry_NormalizedLookup(t *testing.T) {
	reg := NewRegistry([]CurveRow{
		{Label: "Elite", YearSinceDebut: 2, RatingAvg: 4},
		{Label: "Elite", YearSinceDebut: 1, RatingAvg: 3},
		{Label: "Late Bloomer", YearSinceDebut: 1, RatingAvg: 1},
	})

	for _, probe := range []string{"Elite", " elite ", "ELITE", "elite"} {
		curve, ok := reg.Lookup(probe)
		if !ok {
			t.Fatalf("lookup %q missed", probe)
		}
		if len(curve.Points) != 2 {
			t.Fatalf("lookup %q: expected 2 points, got %d", probe, len(curve.Points))
		}
		if curve.Points[0].YearSinceDebut != 1 {
			t.Fatalf("points must be sorted by year, got %+v", curve.Points)
		}
	}

	if curve, ok := reg.Lookup("late  BLOOMER"); !ok || len(curve.Points) != 1 {
		t.Fatalf("inner-whitespace lookup failed: %v %v", curve, ok)
	}

	if _, ok := reg.Lookup("unknown cohort"); ok {
		t.Fatalf("expected miss for unknown cohort")
	}
}

func TestLabels_Decode(t *testing.T) {
	labels := Labels{"Early Peak", "Elite"}
	name, err := labels.Decode(1)
	if err != nil || name != "Elite" {
		t.Fatalf("unexpected decode: %q %v", name, err)
	}
	if _, err := labels.Decode(2); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := labels.Decode(-1); err == nil {
		t.Fatalf("expected range error")
	}
}

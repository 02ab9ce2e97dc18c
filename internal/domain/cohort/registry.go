package cohort

import (
	"sort"
	"strings"
)

// CurveRow is the flat reference-table form the registry is built from, one
// row per (cohort, year).
type CurveRow struct {
	Label          string
	YearSinceDebut int
	RatingAvg      float64
	P25            float64
	P75            float64
	HasBands       bool
}

// Registry holds the immutable cohort curve table, keyed by normalized label.
// Built once at startup, read-only afterwards.
type Registry struct {
	curves map[string]Curve
}

func NewRegistry(rows []CurveRow) *Registry {
	curves := make(map[string]Curve)
	for _, row := range rows {
		key := NormalizeLabel(row.Label)
		if key == "" {
			continue
		}
		curve := curves[key]
		if curve.Label == "" {
			curve.Label = strings.TrimSpace(row.Label)
		}
		curve.Points = append(curve.Points, CurvePoint{
			YearSinceDebut: row.YearSinceDebut,
			RatingAvg:      row.RatingAvg,
			P25:            row.P25,
			P75:            row.P75,
			HasBands:       row.HasBands,
		})
		curves[key] = curve
	}

	for key, curve := range curves {
		sort.SliceStable(curve.Points, func(i, j int) bool {
			return curve.Points[i].YearSinceDebut < curve.Points[j].YearSinceDebut
		})
		curves[key] = curve
	}

	return &Registry{curves: curves}
}

// Lookup resolves a cohort label to its curve. Matching is case and
// whitespace insensitive. A miss returns an empty curve, not an error:
// callers fall back to an identity projection.
func (r *Registry) Lookup(label string) (Curve, bool) {
	curve, ok := r.curves[NormalizeLabel(label)]
	return curve, ok
}

func (r *Registry) Len() int {
	return len(r.curves)
}

// NormalizeLabel lowercases, trims, and collapses inner whitespace.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

package career

import (
	"fmt"
	"sort"
)

// minutesWeightCap caps the per-season reliability weight: a season with 600+
// minutes counts as fully reliable.
const minutesWeightCap = 600.0

// Features is the dynamic-width per-year view of a career, keyed by
// year-since-debut. The fixed-width vector the classifier needs is only
// materialized at the Reindex boundary.
type Features struct {
	Ratings map[int]float64
	Ages    map[int]float64
	Minutes map[int]float64
}

// Aggregate buckets rating-augmented matches into seasons relative to the
// debut year and derives the per-year feature view.
//
// Debut year is the minimum calendar year among matches with minutes > 0;
// without one the athlete cannot be processed and ErrNoDebut is returned.
// Zero-minute rows (unused substitutes) are excluded from season aggregates:
// their construction-zero ratings would drag season means down without
// carrying any performance signal.
func Aggregate(matches []Match) ([]SeasonSummary, Features, error) {
	debutYear, ok := debut(matches)
	if !ok {
		return nil, Features{}, ErrNoDebut
	}

	type bucket struct {
		matches   int
		minutes   float64
		goals     float64
		assists   float64
		ratingSum float64
		ageSum    float64
		ageCount  int
	}
	buckets := make(map[int]*bucket)

	for _, m := range matches {
		if m.Minutes <= 0 {
			continue
		}
		year := m.PlayedAt.Year() - debutYear + 1
		b := buckets[year]
		if b == nil {
			b = &bucket{}
			buckets[year] = b
		}
		b.matches++
		b.minutes += m.Minutes
		b.goals += m.Goals
		b.assists += m.Assists
		b.ratingSum += m.Rating
		if m.HasAge {
			b.ageSum += m.Age
			b.ageCount++
		}
	}

	years := make([]int, 0, len(buckets))
	for year := range buckets {
		years = append(years, year)
	}
	sort.Ints(years)

	seasons := make([]SeasonSummary, 0, len(years))
	features := Features{
		Ratings: make(map[int]float64, len(years)),
		Ages:    make(map[int]float64, len(years)),
		Minutes: make(map[int]float64, len(years)),
	}
	for _, year := range years {
		b := buckets[year]
		s := SeasonSummary{
			YearSinceDebut:    year,
			Matches:           b.matches,
			Minutes:           b.minutes,
			Goals:             b.goals,
			Assists:           b.assists,
			GoalContributions: b.goals + b.assists,
			AvgRating:         b.ratingSum / float64(b.matches),
		}
		if b.ageCount > 0 {
			s.AvgAge = b.ageSum / float64(b.ageCount)
			s.HasAvgAge = true
		}
		seasons = append(seasons, s)

		features.Ratings[year] = s.AvgRating
		features.Minutes[year] = s.Minutes
		if s.HasAvgAge {
			features.Ages[year] = s.AvgAge
		}
	}

	return seasons, features, nil
}

func debut(matches []Match) (int, bool) {
	year, found := 0, false
	for _, m := range matches {
		if m.Minutes <= 0 {
			continue
		}
		if y := m.PlayedAt.Year(); !found || y < year {
			year, found = y, true
		}
	}
	return year, found
}

// Columns materializes every engineered column of the feature row, the pivoted
// per-year families plus the derived trend/growth/weight columns.
func (f Features) Columns() (map[string]float64, error) {
	cols := make(map[string]float64, 3*len(f.Ratings)+8)
	put := func(name string, value float64) error {
		if _, dup := cols[name]; dup {
			return fmt.Errorf("%w: column %q produced twice", ErrSchemaMismatch, name)
		}
		cols[name] = value
		return nil
	}

	for year, v := range f.Ratings {
		if err := put(fmt.Sprintf("rating_year_%d", year), v); err != nil {
			return nil, err
		}
	}
	for year, v := range f.Ages {
		if err := put(fmt.Sprintf("age_year_%d", year), v); err != nil {
			return nil, err
		}
	}
	for year, v := range f.Minutes {
		if err := put(fmt.Sprintf("minutes_year_%d", year), v); err != nil {
			return nil, err
		}
	}

	r1, ok1 := f.Ratings[1]
	r2, ok2 := f.Ratings[2]
	r3, ok3 := f.Ratings[3]
	if ok1 && ok2 {
		if err := put("growth_2_1", r2-r1); err != nil {
			return nil, err
		}
	}
	if ok2 && ok3 {
		if err := put("growth_3_2", r3-r2); err != nil {
			return nil, err
		}
	}
	if ok1 && ok3 {
		if err := put("rating_trend", r3-r1); err != nil {
			return nil, err
		}
	}
	m1, okm1 := f.Minutes[1]
	m3, okm3 := f.Minutes[3]
	if okm1 && okm3 {
		if err := put("minutes_trend", m3-m1); err != nil {
			return nil, err
		}
	}

	if len(f.Ratings) > 0 {
		sum := 0.0
		for _, v := range f.Ratings {
			sum += v
		}
		if err := put("avg_rating", sum/float64(len(f.Ratings))); err != nil {
			return nil, err
		}
	}
	if len(f.Minutes) > 0 {
		sum := 0.0
		for _, v := range f.Minutes {
			sum += v
		}
		if err := put("sum_minutes", sum); err != nil {
			return nil, err
		}
	}

	for year := 1; year <= 3; year++ {
		minutes, ok := f.Minutes[year]
		if !ok {
			continue
		}
		if err := put(fmt.Sprintf("minutes_weight_%d", year), clip(minutes, 0, minutesWeightCap)/minutesWeightCap); err != nil {
			return nil, err
		}
	}

	return cols, nil
}

// Reindex materializes the single fixed-width row the classifier expects.
// Absent engineered columns fill with zero; the expected column list must not
// contain duplicates, the classifier is schema-rigid and a duplicate means the
// artifact bundle and the aggregation disagree.
func (f Features) Reindex(columns []string) ([]float64, error) {
	cols, err := f.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for i, name := range columns {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate expected column %q", ErrSchemaMismatch, name)
		}
		seen[name] = struct{}{}
		out[i] = cols[name]
	}
	return out, nil
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package matchlog

import "time"

// Record is one athlete's box score for one match. Counters are float64
// because upstream feeds deliver them as loosely typed values; missing or
// malformed numbers are coerced to zero at the repository boundary and never
// propagate as nulls into aggregation.
type Record struct {
	AthleteID     string
	PlayedAt      time.Time
	Minutes       float64
	Goals         float64
	Assists       float64
	Shots         float64
	ShotsOnTarget float64
	YellowCards   float64
	RedCards      float64
}

func (r Record) CalendarYear() int {
	return r.PlayedAt.Year()
}

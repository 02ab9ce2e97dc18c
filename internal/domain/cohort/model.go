package cohort

import "fmt"

// HorizonYears is the fixed projection horizon: career years beyond this are
// never modeled or displayed.
const HorizonYears = 13

// Classifier maps one reindexed feature row onto a trained class index.
// Implementations are immutable after load and safe for concurrent use.
type Classifier interface {
	Predict(row []float64) (int, error)
}

// Labels decodes class indices back to cohort labels.
type Labels []string

func (l Labels) Decode(index int) (string, error) {
	if index < 0 || index >= len(l) {
		return "", fmt.Errorf("class index %d outside trained label range [0, %d)", index, len(l))
	}
	return l[index], nil
}

// CurvePoint is one year of a cohort's historical development curve.
type CurvePoint struct {
	YearSinceDebut int
	RatingAvg      float64
	P25            float64
	P75            float64
	HasBands       bool
}

// Curve is the average performance-by-career-year series for one cohort.
type Curve struct {
	Label  string
	Points []CurvePoint
}

func (c Curve) Empty() bool {
	return len(c.Points) == 0
}

// ProjectionPoint augments a curve point with the vertically shifted value.
type ProjectionPoint struct {
	CurvePoint
	Projection float64
}

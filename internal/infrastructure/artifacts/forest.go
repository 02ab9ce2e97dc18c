package artifacts

import (
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

// leafMarker is the child index that marks a leaf node, matching the
// serialization convention of the training pipeline.
const leafMarker = -1

// Forest is a pre-trained ensemble of decision trees evaluated by averaging
// normalized leaf class distributions. Immutable after construction and safe
// for concurrent use.
type Forest struct {
	nClasses int
	trees    []tree
}

type tree struct {
	feature   []int
	threshold []float64
	left      []int
	right     []int
	value     [][]float64
}

func newForest(spec forestSpec) (*Forest, error) {
	if spec.Type != modelTypeRandomForest {
		return nil, crerr.Newf("unsupported model type %q", spec.Type)
	}

	f := &Forest{nClasses: spec.NClasses, trees: make([]tree, 0, len(spec.Trees))}
	for i, ts := range spec.Trees {
		t := tree{
			feature:   ts.Feature,
			threshold: ts.Threshold,
			left:      ts.ChildrenLeft,
			right:     ts.ChildrenRight,
			value:     ts.Value,
		}
		if err := t.validate(spec.NClasses); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		f.trees = append(f.trees, t)
	}
	return f, nil
}

func (t tree) validate(nClasses int) error {
	n := len(t.feature)
	if n == 0 {
		return crerr.New("empty tree")
	}
	if len(t.threshold) != n || len(t.left) != n || len(t.right) != n || len(t.value) != n {
		return crerr.Newf("inconsistent node arrays: feature=%d threshold=%d left=%d right=%d value=%d",
			n, len(t.threshold), len(t.left), len(t.right), len(t.value))
	}
	for i := 0; i < n; i++ {
		if t.left[i] == leafMarker != (t.right[i] == leafMarker) {
			return crerr.Newf("node %d: half-leaf children", i)
		}
		if t.left[i] != leafMarker && (t.left[i] < 0 || t.left[i] >= n || t.right[i] < 0 || t.right[i] >= n) {
			return crerr.Newf("node %d: child index out of range", i)
		}
		if t.left[i] == leafMarker && len(t.value[i]) != nClasses {
			return crerr.Newf("node %d: leaf distribution has %d classes, model has %d", i, len(t.value[i]), nClasses)
		}
	}
	return nil
}

// Predict walks every tree and returns the class with the highest summed
// normalized leaf weight. Ties break toward the lowest class index so
// repeated calls are bit-identical.
func (f *Forest) Predict(row []float64) (int, error) {
	if len(f.trees) == 0 {
		return 0, crerr.New("forest has no trees")
	}

	votes := make([]float64, f.nClasses)
	for ti := range f.trees {
		t := &f.trees[ti]
		node := 0
		for t.left[node] != leafMarker {
			fi := t.feature[node]
			if fi < 0 || fi >= len(row) {
				return 0, crerr.Newf("tree %d node %d: feature index %d outside row of width %d", ti, node, fi, len(row))
			}
			if row[fi] <= t.threshold[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		}

		dist := t.value[node]
		total := 0.0
		for _, v := range dist {
			total += v
		}
		if total <= 0 {
			continue
		}
		for c := range dist {
			votes[c] += dist[c] / total
		}
	}

	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best, nil
}

func (f *Forest) NumClasses() int {
	return f.nClasses
}

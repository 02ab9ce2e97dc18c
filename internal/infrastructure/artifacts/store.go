package artifacts

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/futpeak/futpeak-engine/internal/domain/cohort"
)

// Artifact file names inside the artifacts directory. The training pipeline
// exports these four files together; they are only consistent as a set, which
// is why Version fingerprints all of them.
const (
	modelFile    = "model.json"
	labelsFile   = "label_encoder.json"
	curvesFile   = "cohort_curves.json"
	featuresFile = "model_features.json"

	modelTypeRandomForest = "random_forest"
)

type forestSpec struct {
	Type     string     `json:"type" validate:"required"`
	NClasses int        `json:"n_classes" validate:"required,gt=1"`
	Trees    []treeSpec `json:"trees" validate:"required,min=1,dive"`
}

type treeSpec struct {
	Feature       []int       `json:"feature" validate:"required,min=1"`
	Threshold     []float64   `json:"threshold" validate:"required,min=1"`
	ChildrenLeft  []int       `json:"children_left" validate:"required,min=1"`
	ChildrenRight []int       `json:"children_right" validate:"required,min=1"`
	Value         [][]float64 `json:"value" validate:"required,min=1"`
}

type labelsSpec struct {
	Classes []string `json:"classes" validate:"required,min=2,dive,required"`
}

type curveRowSpec struct {
	PeakGroup      string   `json:"peak_group" validate:"required"`
	YearSinceDebut int      `json:"year_since_debut" validate:"required,gte=1"`
	RatingAvg      float64  `json:"rating_avg"`
	P25            *float64 `json:"p25"`
	P75            *float64 `json:"p75"`
}

// Bundle is the process-wide immutable model context: classifier, label
// decoder, cohort curve registry, and the ordered feature columns the
// classifier was trained on. Loaded once at startup and passed by reference
// into the pipeline; never mutated afterwards.
type Bundle struct {
	Classifier     cohort.Classifier
	Labels         cohort.Labels
	Curves         *cohort.Registry
	FeatureColumns []string
	Version        string
}

// Load reads and validates the artifact bundle from dir.
func Load(dir string) (*Bundle, error) {
	validate := validator.New()
	fingerprint := fnv.New64a()

	readArtifact := func(name string, out any) error {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read artifact %s: %w", name, err)
		}
		if err := sonic.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode artifact %s: %w", name, err)
		}
		fingerprint.Write(raw)
		return nil
	}

	var modelSpec forestSpec
	if err := readArtifact(modelFile, &modelSpec); err != nil {
		return nil, err
	}
	if err := validate.Struct(modelSpec); err != nil {
		return nil, fmt.Errorf("validate artifact %s: %w", modelFile, err)
	}

	var labels labelsSpec
	if err := readArtifact(labelsFile, &labels); err != nil {
		return nil, err
	}
	if err := validate.Struct(labels); err != nil {
		return nil, fmt.Errorf("validate artifact %s: %w", labelsFile, err)
	}
	if len(labels.Classes) != modelSpec.NClasses {
		return nil, crerr.Newf("label encoder has %d classes, model trained on %d", len(labels.Classes), modelSpec.NClasses)
	}

	var curveRows []curveRowSpec
	if err := readArtifact(curvesFile, &curveRows); err != nil {
		return nil, err
	}
	for i, row := range curveRows {
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("validate artifact %s row %d: %w", curvesFile, i, err)
		}
	}

	var featureColumns []string
	if err := readArtifact(featuresFile, &featureColumns); err != nil {
		return nil, err
	}
	if len(featureColumns) == 0 {
		return nil, crerr.Newf("artifact %s lists no feature columns", featuresFile)
	}

	forest, err := newForest(modelSpec)
	if err != nil {
		return nil, fmt.Errorf("build classifier from %s: %w", modelFile, err)
	}

	registryRows := make([]cohort.CurveRow, 0, len(curveRows))
	for _, row := range curveRows {
		r := cohort.CurveRow{
			Label:          row.PeakGroup,
			YearSinceDebut: row.YearSinceDebut,
			RatingAvg:      row.RatingAvg,
		}
		if row.P25 != nil && row.P75 != nil {
			r.P25 = *row.P25
			r.P75 = *row.P75
			r.HasBands = true
		}
		registryRows = append(registryRows, r)
	}

	return &Bundle{
		Classifier:     forest,
		Labels:         cohort.Labels(labels.Classes),
		Curves:         cohort.NewRegistry(registryRows),
		FeatureColumns: featureColumns,
		Version:        fmt.Sprintf("%016x", fingerprint.Sum64()),
	}, nil
}

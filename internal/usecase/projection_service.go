package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/domain/career"
	"github.com/futpeak/futpeak-engine/internal/domain/cohort"
	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
	"github.com/futpeak/futpeak-engine/internal/domain/rating"
	"github.com/futpeak/futpeak-engine/internal/infrastructure/artifacts"
	basecache "github.com/futpeak/futpeak-engine/internal/platform/cache"
	"github.com/futpeak/futpeak-engine/internal/platform/logging"
)

// Projection is the full answer for one athlete: observed seasons, the
// predicted cohort, and the aligned development curve.
type Projection struct {
	AthleteID      string                   `json:"athlete_id"`
	AthleteName    string                   `json:"athlete_name"`
	Position       string                   `json:"position"`
	PositionGroup  string                   `json:"position_group"`
	CohortLabel    string                   `json:"cohort_label"`
	ModelVersion   string                   `json:"model_version"`
	Seasons        []SeasonRow              `json:"seasons"`
	Curve          []cohort.ProjectionPoint `json:"curve"`
	Shift          float64                  `json:"shift"`
	Fallback       bool                     `json:"fallback"`
	FallbackReason string                   `json:"fallback_reason,omitempty"`
}

// SeasonRow is one observed season in the output, JSON-shaped for the CLI.
type SeasonRow struct {
	YearSinceDebut    int     `json:"year_since_debut"`
	Matches           int     `json:"matches"`
	Minutes           float64 `json:"minutes"`
	Goals             float64 `json:"goals"`
	Assists           float64 `json:"assists"`
	GoalContributions float64 `json:"goal_contributions"`
	AvgRating         float64 `json:"avg_rating"`
	AvgAge            float64 `json:"avg_age,omitempty"`
}

type ProjectionService struct {
	athleteRepo  athlete.Repository
	matchlogRepo matchlog.Repository
	bundle       *artifacts.Bundle
	cache        *basecache.Store
	logger       *logging.Logger
}

func NewProjectionService(
	athleteRepo athlete.Repository,
	matchlogRepo matchlog.Repository,
	bundle *artifacts.Bundle,
	cache *basecache.Store,
	logger *logging.Logger,
) *ProjectionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProjectionService{
		athleteRepo:  athleteRepo,
		matchlogRepo: matchlogRepo,
		bundle:       bundle,
		cache:        cache,
		logger:       logger,
	}
}

// Project runs the whole pipeline for one athlete. Results are cached per
// athlete and artifact bundle version, so swapping artifacts never serves a
// projection computed by the previous model.
func (s *ProjectionService) Project(ctx context.Context, athleteID string) (Projection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProjectionService.Project")
	defer span.End()

	athleteID = strings.TrimSpace(athleteID)
	if athleteID == "" {
		return Projection{}, fmt.Errorf("%w: athlete id is required", ErrInvalidInput)
	}

	if s.cache == nil {
		return s.project(ctx, athleteID)
	}

	key := "projection:" + athleteID + ":" + s.bundle.Version
	v, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.project(ctx, athleteID)
	})
	if err != nil {
		return Projection{}, err
	}

	out, _ := v.(Projection)
	return out, nil
}

func (s *ProjectionService) project(ctx context.Context, athleteID string) (Projection, error) {
	var profile athlete.Profile
	var records []matchlog.Record

	fetch := pool.New().WithContext(ctx).WithCancelOnError()
	fetch.Go(func(ctx context.Context) error {
		p, err := s.athleteRepo.GetByID(ctx, athleteID)
		if err != nil {
			if errors.Is(err, athlete.ErrNotFound) {
				return fmt.Errorf("%w: athlete=%s", ErrNotFound, athleteID)
			}
			return fmt.Errorf("get athlete profile: %w", err)
		}
		profile = p
		return nil
	})
	fetch.Go(func(ctx context.Context) error {
		rows, err := s.matchlogRepo.ListByAthlete(ctx, athleteID)
		if err != nil {
			return fmt.Errorf("list matchlogs: %w", err)
		}
		records = rows
		return nil
	})
	if err := fetch.Wait(); err != nil {
		return Projection{}, err
	}

	if len(records) == 0 {
		return Projection{}, fmt.Errorf("%w: no match data for athlete=%s", ErrNotFound, athleteID)
	}

	seasons, features, err := career.Aggregate(buildCareerMatches(profile, records))
	if err != nil {
		return Projection{}, fmt.Errorf("aggregate career for athlete=%s: %w", athleteID, err)
	}

	row, err := features.Reindex(s.bundle.FeatureColumns)
	if err != nil {
		return Projection{}, fmt.Errorf("build feature row for athlete=%s: %w", athleteID, err)
	}

	classIdx, err := s.bundle.Classifier.Predict(row)
	if err != nil {
		return Projection{}, fmt.Errorf("classify athlete=%s: %w", athleteID, err)
	}
	label, err := s.bundle.Labels.Decode(classIdx)
	if err != nil {
		return Projection{}, fmt.Errorf("decode cohort label for athlete=%s: %w", athleteID, err)
	}

	curve, found := s.bundle.Curves.Lookup(label)
	if !found {
		curve = cohort.Curve{Label: label}
	}

	alignment := cohort.Align(curve, seasons)
	if alignment.Fallback {
		s.logger.WarnContext(ctx, "projection curve alignment fell back to cohort average",
			"athlete_id", athleteID,
			"cohort", label,
			"reason", alignment.Reason,
		)
	}

	seasons = cohort.TruncateSeasons(seasons)

	return Projection{
		AthleteID:      profile.ID,
		AthleteName:    profile.Name,
		Position:       profile.Position,
		PositionGroup:  athlete.PositionGroup(profile.Position),
		CohortLabel:    label,
		ModelVersion:   s.bundle.Version,
		Seasons:        toSeasonRows(seasons),
		Curve:          alignment.Points,
		Shift:          alignment.Shift,
		Fallback:       alignment.Fallback,
		FallbackReason: alignment.Reason,
	}, nil
}

// buildCareerMatches augments raw match records with the composite per-90
// rating and the athlete's age at match date.
func buildCareerMatches(profile athlete.Profile, records []matchlog.Record) []career.Match {
	out := make([]career.Match, 0, len(records))
	for _, rec := range records {
		m := career.Match{
			PlayedAt: rec.PlayedAt,
			Minutes:  rec.Minutes,
			Goals:    rec.Goals,
			Assists:  rec.Assists,
			Rating:   rating.PerNinety(rec),
		}
		if age, ok := profile.AgeAt(rec.PlayedAt); ok {
			m.Age = age
			m.HasAge = true
		}
		out = append(out, m)
	}
	return out
}

func toSeasonRows(seasons []career.SeasonSummary) []SeasonRow {
	out := make([]SeasonRow, 0, len(seasons))
	for _, s := range seasons {
		row := SeasonRow{
			YearSinceDebut:    s.YearSinceDebut,
			Matches:           s.Matches,
			Minutes:           s.Minutes,
			Goals:             s.Goals,
			Assists:           s.Assists,
			GoalContributions: s.GoalContributions,
			AvgRating:         s.AvgRating,
		}
		if s.HasAvgAge {
			row.AvgAge = s.AvgAge
		}
		out = append(out, row)
	}
	return out
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/domain/career"
	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
)

// CareerSummary is the descriptive career view: whole-career totals plus the
// per-season table. It needs no model artifacts.
type CareerSummary struct {
	AthleteID     string        `json:"athlete_id"`
	AthleteName   string        `json:"athlete_name"`
	Position      string        `json:"position"`
	PositionGroup string        `json:"position_group"`
	CurrentTeam   string        `json:"current_team,omitempty"`
	Totals        career.Totals `json:"totals"`
	Seasons       []SeasonRow   `json:"seasons"`
}

type CareerService struct {
	athleteRepo  athlete.Repository
	matchlogRepo matchlog.Repository
}

func NewCareerService(athleteRepo athlete.Repository, matchlogRepo matchlog.Repository) *CareerService {
	return &CareerService{
		athleteRepo:  athleteRepo,
		matchlogRepo: matchlogRepo,
	}
}

// Summarize builds the career view for one athlete. An athlete who never
// played a minute still gets totals; the season table is empty then.
func (s *CareerService) Summarize(ctx context.Context, athleteID string) (CareerSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CareerService.Summarize")
	defer span.End()

	athleteID = strings.TrimSpace(athleteID)
	if athleteID == "" {
		return CareerSummary{}, fmt.Errorf("%w: athlete id is required", ErrInvalidInput)
	}

	profile, err := s.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, athlete.ErrNotFound) {
			return CareerSummary{}, fmt.Errorf("%w: athlete=%s", ErrNotFound, athleteID)
		}
		return CareerSummary{}, fmt.Errorf("get athlete profile: %w", err)
	}

	records, err := s.matchlogRepo.ListByAthlete(ctx, athleteID)
	if err != nil {
		return CareerSummary{}, fmt.Errorf("list matchlogs: %w", err)
	}
	if len(records) == 0 {
		return CareerSummary{}, fmt.Errorf("%w: no match data for athlete=%s", ErrNotFound, athleteID)
	}

	out := CareerSummary{
		AthleteID:     profile.ID,
		AthleteName:   profile.Name,
		Position:      profile.Position,
		PositionGroup: athlete.PositionGroup(profile.Position),
		CurrentTeam:   profile.CurrentTeam,
		Totals:        career.Summarize(records),
		Seasons:       []SeasonRow{},
	}

	seasons, _, err := career.Aggregate(buildCareerMatches(profile, records))
	if err != nil {
		if errors.Is(err, career.ErrNoDebut) {
			return out, nil
		}
		return CareerSummary{}, fmt.Errorf("aggregate career for athlete=%s: %w", athleteID, err)
	}
	out.Seasons = toSeasonRows(seasons)

	return out, nil
}

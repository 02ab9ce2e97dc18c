package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
	qb "github.com/futpeak/futpeak-engine/internal/platform/querybuilder"
)

type MatchlogRepository struct {
	db *sqlx.DB
}

// Missing stat cells are coerced to zero at the boundary so the pipeline
// never sees NULL counting stats.
var matchlogSelectColumns = []string{
	"athlete_id",
	"played_at",
	"COALESCE(minutes, 0) AS minutes",
	"COALESCE(goals, 0) AS goals",
	"COALESCE(assists, 0) AS assists",
	"COALESCE(shots, 0) AS shots",
	"COALESCE(shots_on_target, 0) AS shots_on_target",
	"COALESCE(yellow_cards, 0) AS yellow_cards",
	"COALESCE(red_cards, 0) AS red_cards",
}

func NewMatchlogRepository(db *sqlx.DB) *MatchlogRepository {
	return &MatchlogRepository{db: db}
}

func (r *MatchlogRepository) ListByAthlete(ctx context.Context, athleteID string) ([]matchlog.Record, error) {
	query, args, err := qb.Select(matchlogSelectColumns...).From("matchlogs").
		Where(qb.Eq("athlete_id", athleteID)).
		OrderBy("played_at ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matchlogs query: %w", err)
	}

	var rows []matchlogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matchlogs by athlete: %w", err)
	}

	out := make([]matchlog.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchlog.Record{
			AthleteID:     row.AthleteID,
			PlayedAt:      row.PlayedAt,
			Minutes:       row.Minutes,
			Goals:         row.Goals,
			Assists:       row.Assists,
			Shots:         row.Shots,
			ShotsOnTarget: row.ShotsOnTarget,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
		})
	}

	return out, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	qb "github.com/futpeak/futpeak-engine/internal/platform/querybuilder"
)

type AthleteRepository struct {
	db *sqlx.DB
}

var athleteSelectColumns = []string{
	"id",
	"COALESCE(name, '') AS name",
	"birth_date",
	"COALESCE(position, '') AS position",
	"COALESCE(current_team, '') AS current_team",
	"created_at",
	"updated_at",
}

func NewAthleteRepository(db *sqlx.DB) *AthleteRepository {
	return &AthleteRepository{db: db}
}

func (r *AthleteRepository) GetByID(ctx context.Context, athleteID string) (athlete.Profile, error) {
	query, args, err := qb.Select(athleteSelectColumns...).From("athletes").
		Where(qb.Eq("id", athleteID)).
		ToSQL()
	if err != nil {
		return athlete.Profile{}, fmt.Errorf("build get athlete by id query: %w", err)
	}

	var row athleteTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return athlete.Profile{}, fmt.Errorf("athlete %s: %w", athleteID, athlete.ErrNotFound)
		}
		return athlete.Profile{}, fmt.Errorf("get athlete by id: %w", err)
	}

	return athlete.Profile{
		ID:          row.ID,
		Name:        row.Name,
		BirthDate:   timeOrZero(row.BirthDate),
		Position:    row.Position,
		CurrentTeam: row.CurrentTeam,
	}, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/futpeak/futpeak-engine/internal/infrastructure/repository/memory"
	qb "github.com/futpeak/futpeak-engine/internal/platform/querybuilder"
)

type athleteSeedRow struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	BirthDate   *time.Time `db:"birth_date"`
	Position    string     `db:"position"`
	CurrentTeam string     `db:"current_team"`
}

type matchlogSeedRow struct {
	AthleteID     string    `db:"athlete_id"`
	PlayedAt      time.Time `db:"played_at"`
	Minutes       float64   `db:"minutes"`
	Goals         float64   `db:"goals"`
	Assists       float64   `db:"assists"`
	Shots         float64   `db:"shots"`
	ShotsOnTarget float64   `db:"shots_on_target"`
	YellowCards   float64   `db:"yellow_cards"`
	RedCards      float64   `db:"red_cards"`
}

// BootstrapSeed loads the demo fixtures into an empty database. A database
// that already has athletes is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM athletes`); err != nil {
		return fmt.Errorf("count athletes for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range memory.SeedAthletes() {
		row := athleteSeedRow{
			ID:          p.ID,
			Name:        p.Name,
			Position:    p.Position,
			CurrentTeam: p.CurrentTeam,
		}
		if p.HasBirthDate() {
			birthDate := p.BirthDate
			row.BirthDate = &birthDate
		}

		query, args, err := qb.InsertModel("athletes", row, "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build seed athlete %s query: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed athlete %s: %w", p.ID, err)
		}
	}

	for _, rec := range memory.SeedMatchlogs() {
		row := matchlogSeedRow{
			AthleteID:     rec.AthleteID,
			PlayedAt:      rec.PlayedAt,
			Minutes:       rec.Minutes,
			Goals:         rec.Goals,
			Assists:       rec.Assists,
			Shots:         rec.Shots,
			ShotsOnTarget: rec.ShotsOnTarget,
			YellowCards:   rec.YellowCards,
			RedCards:      rec.RedCards,
		}

		query, args, err := qb.InsertModel("matchlogs", row, "")
		if err != nil {
			return fmt.Errorf("build seed matchlog for %s query: %w", rec.AthleteID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed matchlog for %s: %w", rec.AthleteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

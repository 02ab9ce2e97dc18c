package postgres

import "time"

type matchlogTableModel struct {
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

package postgres

import "time"

type athleteTableModel struct {
	ID          string     `db:"id"`
	Name        string     `db:"name"`
	BirthDate   *time.Time `db:"birth_date"`
	Position    string     `db:"position"`
	CurrentTeam string     `db:"current_team"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

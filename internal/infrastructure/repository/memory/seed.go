package memory

import (
	"time"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
)

const (
	AthleteIDRisingWinger  = "ath-rising-winger"
	AthleteIDSteadyMid     = "ath-steady-mid"
	AthleteIDUnknownBirth  = "ath-unknown-birth"
	AthleteIDUnusedReserve = "ath-unused-reserve"
)

func SeedAthletes() []athlete.Profile {
	return []athlete.Profile{
		{
			ID:          AthleteIDRisingWinger,
			Name:        "Mateo Varela",
			BirthDate:   time.Date(2004, 3, 14, 0, 0, 0, 0, time.UTC),
			Position:    "LW",
			CurrentTeam: "CA Riverside",
		},
		{
			ID:          AthleteIDSteadyMid,
			Name:        "Jonas Brekke",
			BirthDate:   time.Date(2001, 11, 2, 0, 0, 0, 0, time.UTC),
			Position:    "CM,DM",
			CurrentTeam: "Fjord SK",
		},
		{
			ID:          AthleteIDUnknownBirth,
			Name:        "Sipho Dlamini",
			Position:    "CB",
			CurrentTeam: "Harbour City FC",
		},
		{
			ID:          AthleteIDUnusedReserve,
			Name:        "Aldo Pinto",
			BirthDate:   time.Date(2006, 7, 21, 0, 0, 0, 0, time.UTC),
			Position:    "GK",
			CurrentTeam: "CA Riverside",
		},
	}
}

// SeedMatchlogs covers three career shapes: a three season riser, a flat
// two season regular, and a reserve with zero minutes in every appearance.
func SeedMatchlogs() []matchlog.Record {
	out := []matchlog.Record{}

	appendSeason := func(athleteID string, year int, games int, minutes, goals, assists, shots, sot float64) {
		for g := 0; g < games; g++ {
			out = append(out, matchlog.Record{
				AthleteID:     athleteID,
				PlayedAt:      time.Date(year, time.Month(2+g%9), 7+2*(g%10), 18, 0, 0, 0, time.UTC),
				Minutes:       minutes,
				Goals:         goals,
				Assists:       assists,
				Shots:         shots,
				ShotsOnTarget: sot,
			})
		}
	}

	appendSeason(AthleteIDRisingWinger, 2022, 8, 45, 0, 0, 1, 0)
	appendSeason(AthleteIDRisingWinger, 2023, 20, 78, 0.25, 0.15, 2, 1)
	appendSeason(AthleteIDRisingWinger, 2024, 26, 88, 0.5, 0.3, 3, 1.5)

	appendSeason(AthleteIDSteadyMid, 2023, 24, 90, 0.05, 0.1, 1, 0.5)
	appendSeason(AthleteIDSteadyMid, 2024, 25, 85, 0.08, 0.12, 1, 0.5)

	appendSeason(AthleteIDUnknownBirth, 2024, 12, 90, 0, 0, 0.2, 0.1)

	// Named on squad lists but never played a minute.
	appendSeason(AthleteIDUnusedReserve, 2024, 5, 0, 0, 0, 0, 0)

	return out
}

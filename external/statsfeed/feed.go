package statsfeed

import (
	"strings"
	"time"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
)

type profileEnvelope struct {
	Data profileItem `json:"data"`
}

type profileItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BirthDate   string `json:"birth_date"`
	Position    string `json:"position"`
	CurrentTeam string `json:"current_team"`
}

func (p profileItem) toDomain() athlete.Profile {
	return athlete.Profile{
		ID:          strings.TrimSpace(p.ID),
		Name:        strings.TrimSpace(p.Name),
		BirthDate:   parseFeedDate(p.BirthDate),
		Position:    strings.TrimSpace(p.Position),
		CurrentTeam: strings.TrimSpace(p.CurrentTeam),
	}
}

type matchlogEnvelope struct {
	Data []matchlogItem `json:"data"`
}

// Counting stats arrive as pointers; the feed omits cells it has no value
// for and the pipeline treats those as zero.
type matchlogItem struct {
	PlayedAt      string   `json:"played_at"`
	Minutes       *float64 `json:"minutes"`
	Goals         *float64 `json:"goals"`
	Assists       *float64 `json:"assists"`
	Shots         *float64 `json:"shots"`
	ShotsOnTarget *float64 `json:"shots_on_target"`
	YellowCards   *float64 `json:"yellow_cards"`
	RedCards      *float64 `json:"red_cards"`
}

func (m matchlogItem) toDomain(athleteID string) (matchlog.Record, bool) {
	playedAt := parseFeedDate(m.PlayedAt)
	if playedAt.IsZero() {
		return matchlog.Record{}, false
	}

	return matchlog.Record{
		AthleteID:     athleteID,
		PlayedAt:      playedAt,
		Minutes:       floatOrZero(m.Minutes),
		Goals:         floatOrZero(m.Goals),
		Assists:       floatOrZero(m.Assists),
		Shots:         floatOrZero(m.Shots),
		ShotsOnTarget: floatOrZero(m.ShotsOnTarget),
		YellowCards:   floatOrZero(m.YellowCards),
		RedCards:      floatOrZero(m.RedCards),
	}, true
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func parseFeedDate(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

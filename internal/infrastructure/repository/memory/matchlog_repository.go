package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
)

type MatchlogRepository struct {
	mu        sync.RWMutex
	byAthlete map[string][]matchlog.Record
}

func NewMatchlogRepository(records []matchlog.Record) *MatchlogRepository {
	byAthlete := make(map[string][]matchlog.Record)
	for _, rec := range records {
		byAthlete[rec.AthleteID] = append(byAthlete[rec.AthleteID], rec)
	}
	for id := range byAthlete {
		rows := byAthlete[id]
		sort.Slice(rows, func(i, j int) bool { return rows[i].PlayedAt.Before(rows[j].PlayedAt) })
	}
	return &MatchlogRepository{byAthlete: byAthlete}
}

func (r *MatchlogRepository) ListByAthlete(_ context.Context, athleteID string) ([]matchlog.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byAthlete[athleteID]
	out := make([]matchlog.Record, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
)

type AthleteRepository struct {
	mu       sync.RWMutex
	profiles map[string]athlete.Profile
}

func NewAthleteRepository(profiles []athlete.Profile) *AthleteRepository {
	index := make(map[string]athlete.Profile, len(profiles))
	for _, p := range profiles {
		index[p.ID] = p
	}
	return &AthleteRepository{profiles: index}
}

func (r *AthleteRepository) GetByID(_ context.Context, athleteID string) (athlete.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[athleteID]
	if !ok {
		return athlete.Profile{}, fmt.Errorf("athlete %s: %w", athleteID, athlete.ErrNotFound)
	}
	return p, nil
}

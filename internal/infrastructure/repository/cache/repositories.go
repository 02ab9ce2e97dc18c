package cache

import (
	"context"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
	basecache "github.com/futpeak/futpeak-engine/internal/platform/cache"
)

// AthleteRepository caches profile lookups in front of a slower source,
// typically the stats feed client. Misses and errors are not cached.
type AthleteRepository struct {
	next  athlete.Repository
	cache *basecache.Store
}

func NewAthleteRepository(next athlete.Repository, cache *basecache.Store) *AthleteRepository {
	return &AthleteRepository{next: next, cache: cache}
}

func (r *AthleteRepository) GetByID(ctx context.Context, athleteID string) (athlete.Profile, error) {
	key := "athlete:id:" + athleteID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, athleteID)
	})
	if err != nil {
		return athlete.Profile{}, err
	}

	profile, _ := v.(athlete.Profile)
	return profile, nil
}

type MatchlogRepository struct {
	next  matchlog.Repository
	cache *basecache.Store
}

func NewMatchlogRepository(next matchlog.Repository, cache *basecache.Store) *MatchlogRepository {
	return &MatchlogRepository{next: next, cache: cache}
}

func (r *MatchlogRepository) ListByAthlete(ctx context.Context, athleteID string) ([]matchlog.Record, error) {
	key := "matchlog:list:" + athleteID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByAthlete(ctx, athleteID)
		if err != nil {
			return nil, err
		}
		return append([]matchlog.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]matchlog.Record)
	return append([]matchlog.Record(nil), items...), nil
}

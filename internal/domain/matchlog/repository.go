package matchlog

import "context"

type Repository interface {
	ListByAthlete(ctx context.Context, athleteID string) ([]Record, error)
}

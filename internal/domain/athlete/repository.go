package athlete

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("athlete profile not found")

type Repository interface {
	GetByID(ctx context.Context, athleteID string) (Profile, error)
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/futpeak/futpeak-engine/internal/platform/logging"
)

const (
	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"

	defaultBatchWorkers = 4
	maxBatchWorkers     = 32
)

type BatchInput struct {
	AthleteIDs []string
	MaxWorkers int
}

type BatchResult struct {
	TaskCount    int             `json:"task_count"`
	SuccessCount int             `json:"success_count"`
	FailedCount  int             `json:"failed_count"`
	WorkerCount  int             `json:"worker_count"`
	Tasks        []BatchTaskItem `json:"tasks"`
}

type BatchTaskItem struct {
	AthleteID  string      `json:"athlete_id"`
	Status     string      `json:"status"`
	DurationMs int64       `json:"duration_ms"`
	Message    string      `json:"message,omitempty"`
	Projection *Projection `json:"projection,omitempty"`
}

// BatchProjectionService fans one projection run out over a worker pool.
// One athlete failing never aborts the batch; it is reported per item.
type BatchProjectionService struct {
	projections *ProjectionService
	logger      *logging.Logger
}

func NewBatchProjectionService(projections *ProjectionService, logger *logging.Logger) *BatchProjectionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchProjectionService{
		projections: projections,
		logger:      logger,
	}
}

func (s *BatchProjectionService) ProjectMany(ctx context.Context, input BatchInput) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchProjectionService.ProjectMany")
	defer span.End()

	ids := dedupeIDs(input.AthleteIDs)
	if len(ids) == 0 {
		return BatchResult{}, fmt.Errorf("%w: at least one athlete id is required", ErrInvalidInput)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultBatchWorkers
	}
	if workerCount > maxBatchWorkers {
		workerCount = maxBatchWorkers
	}
	if workerCount > len(ids) {
		workerCount = len(ids)
	}

	result := BatchResult{
		TaskCount:   len(ids),
		WorkerCount: workerCount,
	}

	results := make(chan BatchTaskItem, len(ids))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, id := range ids {
		id := id
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			item := BatchTaskItem{AthleteID: id}

			projection, projErr := s.projections.Project(ctx, id)
			item.DurationMs = time.Since(start).Milliseconds()
			if projErr != nil {
				item.Status = batchStatusFailed
				item.Message = projErr.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "batch projection item failed", "athlete_id", id, "error", projErr)
			} else {
				item.Status = batchStatusSuccess
				item.Projection = &projection
				successCount.Add(1)
			}

			results <- item
		}); err != nil {
			workers.Done()
			return BatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for item := range results {
		result.Tasks = append(result.Tasks, item)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].AthleteID < result.Tasks[j].AthleteID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

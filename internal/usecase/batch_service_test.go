package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/futpeak/futpeak-engine/internal/infrastructure/repository/memory"
	"github.com/futpeak/futpeak-engine/internal/platform/logging"
)

func TestProjectMany_MixedOutcomes(t *testing.T) {
	svc := NewBatchProjectionService(newSeededService(newTestBundle(1), nil), logging.NewNop())

	result, err := svc.ProjectMany(context.Background(), BatchInput{
		AthleteIDs: []string{
			memory.AthleteIDRisingWinger,
			memory.AthleteIDSteadyMid,
			"nobody",
			memory.AthleteIDUnusedReserve,
		},
		MaxWorkers: 2,
	})
	if err != nil {
		t.Fatalf("ProjectMany error: %v", err)
	}

	if result.TaskCount != 4 {
		t.Fatalf("expected 4 tasks, got %d", result.TaskCount)
	}
	if result.SuccessCount != 2 || result.FailedCount != 2 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("unexpected worker count: %d", result.WorkerCount)
	}
	if len(result.Tasks) != 4 {
		t.Fatalf("expected 4 task rows, got %d", len(result.Tasks))
	}

	byID := make(map[string]BatchTaskItem, len(result.Tasks))
	for _, item := range result.Tasks {
		byID[item.AthleteID] = item
	}
	if byID[memory.AthleteIDRisingWinger].Status != batchStatusSuccess {
		t.Fatalf("expected success for rising winger: %+v", byID[memory.AthleteIDRisingWinger])
	}
	if byID[memory.AthleteIDRisingWinger].Projection == nil {
		t.Fatal("successful item must carry its projection")
	}
	if byID["nobody"].Status != batchStatusFailed || byID["nobody"].Message == "" {
		t.Fatalf("expected failed row with message: %+v", byID["nobody"])
	}
	if byID[memory.AthleteIDUnusedReserve].Status != batchStatusFailed {
		t.Fatalf("no-debut athlete must fail per item: %+v", byID[memory.AthleteIDUnusedReserve])
	}
}

func TestProjectMany_DedupesAndValidates(t *testing.T) {
	svc := NewBatchProjectionService(newSeededService(newTestBundle(1), nil), logging.NewNop())

	result, err := svc.ProjectMany(context.Background(), BatchInput{
		AthleteIDs: []string{memory.AthleteIDSteadyMid, " " + memory.AthleteIDSteadyMid + " ", ""},
	})
	if err != nil {
		t.Fatalf("ProjectMany error: %v", err)
	}
	if result.TaskCount != 1 {
		t.Fatalf("expected duplicates collapsed to 1 task, got %d", result.TaskCount)
	}

	_, err = svc.ProjectMany(context.Background(), BatchInput{AthleteIDs: []string{"", "  "}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do("key", func() (any, error) {
				executions.Add(1)
				time.Sleep(20 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got, _ := v.(int); got != 42 {
				t.Errorf("unexpected value: %v", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("fn executed %d times, want 1", got)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	fn := func() (any, error) {
		executions.Add(1)
		return nil, nil
	}

	if _, _, shared := g.Do("a", fn); shared {
		t.Fatal("first call for key must not be shared")
	}
	if _, _, shared := g.Do("b", fn); shared {
		t.Fatal("first call for key must not be shared")
	}
	if got := executions.Load(); got != 2 {
		t.Fatalf("fn executed %d times, want 2", got)
	}
}

package resilience

import (
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, probes int) (*Breaker, *time.Time) {
	b := NewBreaker(BreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   probes,
	})
	now := time.Unix(1700000000, 0)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute, 1)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
	}
	if b.State() != CircuitStateClosed {
		t.Fatalf("breaker opened too early: %s", b.State())
	}

	b.RecordFailure()
	if b.State() != CircuitStateOpen {
		t.Fatalf("expected open, got %s", b.State())
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	if b.State() != CircuitStateClosed {
		t.Fatalf("expected closed after interleaved success, got %s", b.State())
	}
}

func TestBreaker_HalfOpenProbesAndRecovery(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute, 1)

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("expected open circuit, got %v", err)
	}

	*now = now.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed, got %v", err)
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("second probe should be rejected, got %v", err)
	}

	b.RecordSuccess()
	if b.State() != CircuitStateClosed {
		t.Fatalf("expected closed after probe success, got %s", b.State())
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker must allow, got %v", err)
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute, 1)

	b.RecordFailure()
	*now = now.Add(2 * time.Minute)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed, got %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Fatalf("expected reopened circuit, got %v", err)
	}
}

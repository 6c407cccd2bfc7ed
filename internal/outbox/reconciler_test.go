package outbox

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeSweeper struct {
	mu      sync.Mutex
	cutoffs []time.Time
	swept   int64
}

func (f *fakeSweeper) SweepStaleInitiated(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.swept, nil
}

func TestReconcilerSweeps(t *testing.T) {
	sweeper := &fakeSweeper{swept: 2}
	r := NewReconciler(sweeper, 5*time.Millisecond, 10*time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = r.Run(ctx)

	sweeper.mu.Lock()
	defer sweeper.mu.Unlock()
	if len(sweeper.cutoffs) == 0 {
		t.Fatalf("expected at least one sweep")
	}
	// cutoff trails now by the configured max age
	age := time.Since(sweeper.cutoffs[0])
	if age < 9*time.Minute || age > 11*time.Minute {
		t.Fatalf("cutoff not within expected window, age=%v", age)
	}
}

func TestReconcilerStopsOnCancel(t *testing.T) {
	sweeper := &fakeSweeper{}
	r := NewReconciler(sweeper, time.Millisecond, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

package outbox

import (
	"context"
	"time"
)

type staleSweeper interface {
	SweepStaleInitiated(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reconciler fails pending payments that never received a gateway
// checkout id. That closes the window where the push request was
// accepted locally but the gateway call crashed before the checkout id
// was stored.
type Reconciler struct {
	payments staleSweeper
	interval time.Duration
	maxAge   time.Duration
	loggerf  func(format string, args ...interface{})
}

func NewReconciler(payments staleSweeper, interval, maxAge time.Duration, loggerf func(format string, args ...interface{})) *Reconciler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if maxAge <= 0 {
		maxAge = 10 * time.Minute
	}
	return &Reconciler{
		payments: payments,
		interval: interval,
		maxAge:   maxAge,
		loggerf:  loggerf,
	}
}

func (r *Reconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			swept, err := r.payments.SweepStaleInitiated(ctx, time.Now().Add(-r.maxAge))
			if err != nil {
				r.loggerf("level=error msg=stale payment sweep failed err=%v", err)
				continue
			}
			if swept > 0 {
				stalePaymentsSwept.Add(float64(swept))
				r.loggerf("level=warn msg=stale payments failed by reconciler count=%d", swept)
			}
		}
	}
}

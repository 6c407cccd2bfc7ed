package payment

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"renthaven/internal/domain"
)

// PollState is the client-facing view of a checkout while waiting for
// the asynchronous push result.
type PollState string

const (
	PollPending              PollState = "pending"
	PollSuccess              PollState = "success"
	PollFailed               PollState = "failed"
	PollRequiresConfirmation PollState = "requires_confirmation"
	PollTimedOut             PollState = "timed_out"
)

// Terminal reports whether polling should stop at this state.
func (s PollState) Terminal() bool {
	switch s {
	case PollSuccess, PollFailed, PollTimedOut:
		return true
	}
	return false
}

var errStillPending = errors.New("payment still pending")

type statusSource interface {
	Status(ctx context.Context, checkoutID string) (domain.PaymentStatus, error)
}

// Poller drives the bounded wait for a single checkout. Interval is
// jittered so concurrent pollers do not synchronize against the API.
type Poller struct {
	source       statusSource
	interval     time.Duration
	maxAttempts  uint64
	onTransition func(checkoutID string, state PollState)
	loggerf      func(format string, args ...interface{})
}

type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithMaxAttempts bounds the total number of status calls, the first
// one included.
func WithMaxAttempts(n uint64) PollerOption {
	return func(p *Poller) {
		if n < 1 {
			n = 1
		}
		p.maxAttempts = n
	}
}

// WithTransitionFunc is invoked on every state change, including the
// final terminal state.
func WithTransitionFunc(fn func(checkoutID string, state PollState)) PollerOption {
	return func(p *Poller) { p.onTransition = fn }
}

func NewPoller(source statusSource, loggerf func(format string, args ...interface{}), opts ...PollerOption) *Poller {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	p := &Poller{
		source:       source,
		interval:     5 * time.Second,
		maxAttempts:  60,
		onTransition: func(string, PollState) {},
		loggerf:      loggerf,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func mapStatus(status domain.PaymentStatus) PollState {
	switch status {
	case domain.PaymentConfirmed:
		return PollSuccess
	case domain.PaymentFailed:
		return PollFailed
	case domain.PaymentRequiresConfirmation:
		return PollRequiresConfirmation
	default:
		return PollPending
	}
}

// Wait polls until the checkout reaches a terminal state or the attempt
// budget is exhausted, in which case it returns PollTimedOut. A lookup
// error is not terminal; the next attempt may succeed.
func (p *Poller) Wait(ctx context.Context, checkoutID string) (PollState, error) {
	current := PollPending
	p.onTransition(checkoutID, current)

	// go-retry counts retries after the first call, so the budget is
	// one initial attempt plus maxAttempts-1 retries.
	backoff := retry.WithMaxRetries(p.maxAttempts-1, retry.WithJitterPercent(20, retry.NewConstant(p.interval)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, err := p.source.Status(ctx, checkoutID)
		if err != nil {
			if errors.Is(err, ErrUnknownCheckout) {
				return err
			}
			p.loggerf("level=warn msg=payment status lookup failed checkout_id=%s err=%v", checkoutID, err)
			return retry.RetryableError(err)
		}

		next := mapStatus(status)
		if next != current {
			current = next
			p.onTransition(checkoutID, current)
			p.loggerf("level=info msg=payment poll transition checkout_id=%s state=%s", checkoutID, current)
		}
		if current.Terminal() {
			return nil
		}
		return retry.RetryableError(errStillPending)
	})

	if err != nil {
		if errors.Is(err, ErrUnknownCheckout) {
			return current, err
		}
		if ctx.Err() != nil {
			return current, ctx.Err()
		}
		// attempt budget exhausted
		current = PollTimedOut
		p.onTransition(checkoutID, current)
		p.loggerf("level=warn msg=payment poll timed out checkout_id=%s", checkoutID)
		return current, nil
	}
	return current, nil
}

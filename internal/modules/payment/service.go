package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"renthaven/internal/domain"
)

var ErrUnknownCheckout = errors.New("unknown checkout id")

// Daraja result code for a push awaiting the customer's confirmation code.
const resultCodePendingConfirmation = 1037

type Service struct {
	payments paymentRepo
	loggerf  func(format string, args ...interface{})
}

func NewService(payments paymentRepo, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{payments: payments, loggerf: loggerf}
}

// Status resolves a checkout id to the local payment status polled by the
// client.
func (s *Service) Status(ctx context.Context, checkoutID string) (domain.PaymentStatus, error) {
	p, err := s.payments.GetByCheckoutID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnknownCheckout
		}
		return "", err
	}
	return p.Status, nil
}

// HandleCallback applies the gateway's asynchronous result. Transitions are
// idempotent: replayed callbacks for an already-terminal payment are no-ops.
func (s *Service) HandleCallback(ctx context.Context, cb STKCallback, rawBody string) error {
	res := cb.Body.StkCallback
	if res.CheckoutRequestID == "" {
		return ErrUnknownCheckout
	}

	switch {
	case res.ResultCode == 0:
		changed, err := s.payments.MarkConfirmedIdempotent(ctx, res.CheckoutRequestID, rawBody, time.Now().UTC())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownCheckout
			}
			return err
		}
		if !changed {
			s.loggerf("level=info msg=idempotent callback already confirmed checkout_id=%s", res.CheckoutRequestID)
		}
		return nil

	case res.ResultCode == resultCodePendingConfirmation:
		if err := s.payments.MarkRequiresConfirmation(ctx, res.CheckoutRequestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownCheckout
			}
			return err
		}
		s.loggerf("level=info msg=payment requires manual confirmation checkout_id=%s", res.CheckoutRequestID)
		return nil

	default:
		changed, err := s.payments.MarkFailedIdempotent(ctx, res.CheckoutRequestID, rawBody, res.ResultDesc)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownCheckout
			}
			return err
		}
		if !changed {
			s.loggerf("level=info msg=idempotent callback already terminal checkout_id=%s", res.CheckoutRequestID)
		}
		return nil
	}
}

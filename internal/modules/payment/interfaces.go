package payment

import (
	"context"
	"time"

	"renthaven/internal/domain"
)

type paymentRepo interface {
	GetByCheckoutID(ctx context.Context, checkoutID string) (*domain.Payment, error)
	MarkConfirmedIdempotent(ctx context.Context, checkoutID, rawBody string, confirmedAt time.Time) (bool, error)
	MarkFailedIdempotent(ctx context.Context, checkoutID, rawBody, reason string) (bool, error)
	MarkRequiresConfirmation(ctx context.Context, checkoutID string) error
}

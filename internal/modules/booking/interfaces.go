package booking

import (
	"context"
	"time"

	"renthaven/internal/domain"
	"renthaven/internal/modules/mpesa"
)

type BookingRepository interface {
	CreateWithPayment(ctx context.Context, b *domain.Booking, p *domain.Payment) error
	AttachCheckout(ctx context.Context, bookingID int64, checkoutID, merchantRequestID string) error
	MarkFailed(ctx context.Context, bookingID int64, reason string) error
	CheckAvailability(ctx context.Context, apartmentID int64, start, end time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]domain.Booking, error)
}

type apartmentReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Apartment, error)
}

type paymentInitiator interface {
	STKPush(ctx context.Context, phone string, amount float64, paymentType domain.PaymentType, accountRef string) (*mpesa.STKPushResult, error)
}

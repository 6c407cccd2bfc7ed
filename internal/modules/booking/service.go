package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type Service struct {
	bookings   BookingRepository
	apartments apartmentReader
	gateway    paymentInitiator
	loggerf    func(format string, args ...interface{})
}

func NewService(
	bookings BookingRepository,
	apartments apartmentReader,
	gateway paymentInitiator,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings:   bookings,
		apartments: apartments,
		gateway:    gateway,
		loggerf:    loggerf,
	}
}

// CreateBooking runs the whole payment-initiation sequence: validate, persist
// the booking/payment pair PENDING, push the payment, attach the checkout id.
// The local records are written before the gateway call so a gateway failure
// compensates by marking them FAILED instead of leaving a remote request with
// no local trace.
func (s *Service) CreateBooking(ctx context.Context, tenantID int64, req CreateBookingRequest) (*CreateBookingResult, error) {
	in, violations := ValidateCreateBooking(req)
	if violations != nil {
		return nil, &ValidationError{Fields: violations}
	}

	if _, err := s.apartments.GetByID(ctx, in.ApartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, err
	}

	// advisory pre-check; the exclusion constraint is authoritative
	if in.PaymentType != domain.PaymentTypeDeposit {
		ok, err := s.bookings.CheckAvailability(ctx, in.ApartmentID, *in.StartDate, *in.EndDate)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotAvailable
		}
	}

	b := &domain.Booking{
		ApartmentID:    in.ApartmentID,
		TenantID:       tenantID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		PaymentType:    in.PaymentType,
		Recurring:      in.Recurring,
		TotalAmount:    in.TotalAmount,
		PhoneNumber:    in.PhoneNumber,
		IdempotencyKey: uuid.NewString(),
		Status:         domain.BookingPending,
	}
	p := &domain.Payment{
		Amount:      in.TotalAmount,
		Currency:    "KES",
		Type:        in.PaymentType,
		Method:      "mobile-money",
		Status:      domain.PaymentPending,
		PhoneNumber: in.PhoneNumber,
	}

	if err := s.bookings.CreateWithPayment(ctx, b, p); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// 23P01 exclusion_violation from the no-overlap constraint
			if pgErr.Code == "23P01" {
				return nil, ErrNotAvailable
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	res, err := s.gateway.STKPush(ctx, in.PhoneNumber, in.TotalAmount, in.PaymentType, fmt.Sprintf("APT-%d", in.ApartmentID))
	if err != nil {
		if markErr := s.bookings.MarkFailed(ctx, b.ID, err.Error()); markErr != nil {
			s.loggerf("level=error msg=failed to compensate booking after gateway error booking_id=%d err=%v", b.ID, markErr)
		}
		return nil, err
	}

	if err := s.bookings.AttachCheckout(ctx, b.ID, res.CheckoutRequestID, res.MerchantRequestID); err != nil {
		// money may already be requested; the reconciler sweep picks this up
		s.loggerf("level=error msg=failed to attach checkout id booking_id=%d checkout_id=%s err=%v", b.ID, res.CheckoutRequestID, err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.loggerf("level=info msg=booking created booking_id=%d payment_id=%d checkout_id=%s", b.ID, p.ID, res.CheckoutRequestID)
	return &CreateBookingResult{
		BookingID:  b.ID,
		PaymentID:  p.ID,
		CheckoutID: res.CheckoutRequestID,
	}, nil
}

func (s *Service) GetMyBookings(ctx context.Context, tenantID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.GetByTenant(ctx, tenantID, limit, offset)
}

// GetMyBooking resolves a single booking for its tenant. A booking owned
// by someone else reads as not found.
func (s *Service) GetMyBooking(ctx context.Context, tenantID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.TenantID != tenantID {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

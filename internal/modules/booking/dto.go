package booking

import (
	"time"

	"renthaven/internal/domain"
)

// CreateBookingRequest is the raw form payload as submitted by the client.
// Fields stay strings until the validator normalizes them.
type CreateBookingRequest struct {
	ApartmentID string `json:"apartmentId" validate:"required,numeric"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	PaymentType string `json:"paymentType" validate:"required,oneof=rent deposit fee"`
	Recurring   bool   `json:"recurring"`
	TotalAmount string `json:"totalAmount" validate:"required,numeric"`
	PhoneNumber string `json:"phoneNumber" validate:"required,msisdn_ke"`
}

// BookingInput is the normalized payload produced by a successful validation.
// It is never mutated afterwards.
type BookingInput struct {
	ApartmentID int64
	StartDate   *time.Time
	EndDate     *time.Time
	PaymentType domain.PaymentType
	Recurring   bool
	TotalAmount float64
	PhoneNumber string
}

type CreateBookingResult struct {
	BookingID  int64  `json:"booking_id"`
	PaymentID  int64  `json:"payment_id"`
	CheckoutID string `json:"checkout_id"`
}

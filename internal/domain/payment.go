package domain

import "time"

type PaymentStatus string

const (
	PaymentPending              PaymentStatus = "PENDING"
	PaymentConfirmed            PaymentStatus = "CONFIRMED"
	PaymentFailed               PaymentStatus = "FAILED"
	PaymentRequiresConfirmation PaymentStatus = "REQUIRES_CONFIRMATION"
)

// Payment records one push-payment attempt against a booking. CheckoutID is
// the gateway's correlation key and joins asynchronous callbacks back to the
// booking/payment pair.
type Payment struct {
	ID                int64         `json:"id" gorm:"primaryKey"`
	BookingID         int64         `json:"booking_id" gorm:"index;not null"`
	Amount            float64       `json:"amount" gorm:"not null"`
	Currency          string        `json:"currency" gorm:"type:varchar(3);default:'KES'"`
	Type              PaymentType   `json:"type" gorm:"type:varchar(10);not null"`
	Method            string        `json:"method" gorm:"type:varchar(20);default:'mobile-money'"`
	Status            PaymentStatus `json:"status" gorm:"type:varchar(24);default:'PENDING';index"`
	CheckoutID        string        `json:"checkout_id" gorm:"column:checkout_id;uniqueIndex"`
	MerchantRequestID string        `json:"merchant_request_id"`
	PhoneNumber       string        `json:"phone_number" gorm:"type:varchar(15)"`
	CallbackRawBody   string        `json:"-" gorm:"type:text"`
	FailureReason     string        `json:"failure_reason,omitempty" gorm:"type:text"`
	ConfirmedAt       *time.Time    `json:"confirmed_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingFailed    BookingStatus = "FAILED"
)

type PaymentType string

const (
	PaymentTypeRent    PaymentType = "rent"
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeFee     PaymentType = "fee"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeRent, PaymentTypeDeposit, PaymentTypeFee:
		return true
	}
	return false
}

type Booking struct {
	ID             int64         `json:"id" gorm:"primaryKey"`
	ApartmentID    int64         `json:"apartment_id" gorm:"index;not null"`
	TenantID       int64         `json:"tenant_id" gorm:"index;not null"`
	StartDate      *time.Time    `json:"start_date"`
	EndDate        *time.Time    `json:"end_date"`
	PaymentType    PaymentType   `json:"payment_type" gorm:"type:varchar(10);not null"`
	Recurring      bool          `json:"recurring"`
	TotalAmount    float64       `json:"total_amount" gorm:"not null"`
	PhoneNumber    string        `json:"phone_number" gorm:"type:varchar(15)"`
	CheckoutID     string        `json:"checkout_id" gorm:"column:checkout_id;index"`
	IdempotencyKey string        `json:"-" gorm:"uniqueIndex;type:varchar(40)"`
	Status         BookingStatus `json:"status" gorm:"type:varchar(12);default:'PENDING';index"`
	FailureReason  string        `json:"failure_reason,omitempty" gorm:"type:text"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Tenant    *User      `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Apartment *Apartment `json:"apartment,omitempty" gorm:"foreignKey:ApartmentID"`
}

func (Booking) TableName() string { return "bookings" }

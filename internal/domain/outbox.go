package domain

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventPaymentConfirmed = "payment.confirmed"
	EventPaymentFailed    = "payment.failed"
)

// OutboxMessage is written in the same transaction as the state change it
// describes; the dispatcher publishes and marks rows processed later.
type OutboxMessage struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	EntityID    int64      `json:"entity_id" gorm:"index"`
	RoutingKey  string     `json:"routing_key" gorm:"type:varchar(50)"`
	Payload     string     `json:"payload" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func (OutboxMessage) TableName() string { return "outbox_messages" }

// Envelope is the published event shape shared by producer and consumers.
type Envelope struct {
	Event      string `json:"event"`
	Version    int    `json:"version"`
	OccurredAt string `json:"occurred_at"`
	Data       struct {
		BookingID  int64   `json:"booking_id"`
		PaymentID  int64   `json:"payment_id,omitempty"`
		TenantID   int64   `json:"tenant_id"`
		CheckoutID string  `json:"checkout_id,omitempty"`
		Amount     float64 `json:"amount,omitempty"`
		Currency   string  `json:"currency,omitempty"`
		Reason     string  `json:"reason,omitempty"`
	} `json:"data"`
}

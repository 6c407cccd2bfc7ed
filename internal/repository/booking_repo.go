package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	ApartmentID    int64      `gorm:"column:apartment_id"`
	TenantID       int64      `gorm:"column:tenant_id"`
	StartDate      *time.Time `gorm:"column:start_date"`
	EndDate        *time.Time `gorm:"column:end_date"`
	PaymentType    string     `gorm:"column:payment_type"`
	Recurring      bool       `gorm:"column:recurring"`
	TotalAmount    float64    `gorm:"column:total_amount"`
	PhoneNumber    string     `gorm:"column:phone_number"`
	CheckoutID     string     `gorm:"column:checkout_id"`
	IdempotencyKey string     `gorm:"column:idempotency_key"`
	Status         string     `gorm:"column:status"`
	FailureReason  string     `gorm:"column:failure_reason"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:             m.ID,
		ApartmentID:    m.ApartmentID,
		TenantID:       m.TenantID,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		PaymentType:    domain.PaymentType(m.PaymentType),
		Recurring:      m.Recurring,
		TotalAmount:    m.TotalAmount,
		PhoneNumber:    m.PhoneNumber,
		CheckoutID:     m.CheckoutID,
		IdempotencyKey: m.IdempotencyKey,
		Status:         domain.BookingStatus(m.Status),
		FailureReason:  m.FailureReason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:             b.ID,
		ApartmentID:    b.ApartmentID,
		TenantID:       b.TenantID,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		PaymentType:    string(b.PaymentType),
		Recurring:      b.Recurring,
		TotalAmount:    b.TotalAmount,
		PhoneNumber:    b.PhoneNumber,
		CheckoutID:     b.CheckoutID,
		IdempotencyKey: b.IdempotencyKey,
		Status:         string(b.Status),
		FailureReason:  b.FailureReason,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// CreateWithPayment inserts the booking, its initial payment and a
// booking.created outbox row in a single transaction. The range-exclusion
// constraint on bookings fires here for overlapping stays.
func (r *BookingRepository) CreateWithPayment(ctx context.Context, b *domain.Booking, p *domain.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*b = *toDomainBooking(m)

		p.BookingID = b.ID
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		evt := domain.Envelope{
			Event:      domain.EventBookingCreated,
			Version:    1,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		evt.Data.BookingID = b.ID
		evt.Data.PaymentID = p.ID
		evt.Data.TenantID = b.TenantID
		evt.Data.Amount = p.Amount
		evt.Data.Currency = p.Currency

		return insertOutboxMessage(tx, b.ID, domain.EventBookingCreated, evt)
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// CheckAvailability is advisory; the exclusion constraint is the authority.
func (r *BookingRepository) CheckAvailability(ctx context.Context, apartmentID int64, start, end time.Time) (bool, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
WHERE apartment_id = ?
  AND status <> 'FAILED'
  AND start_date IS NOT NULL AND end_date IS NOT NULL
  AND start_date < ? AND end_date > ?
`
	tx := r.db.WithContext(ctx).Raw(q, apartmentID, end, start).Scan(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt == 0, nil
}

// AttachCheckout records the gateway identifiers on the booking and its
// payment after a successful STK push.
func (r *BookingRepository) AttachCheckout(ctx context.Context, bookingID int64, checkoutID, merchantRequestID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).Where("id = ?", bookingID).
			Update("checkout_id", checkoutID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&domain.Payment{}).Where("booking_id = ?", bookingID).
			Updates(map[string]interface{}{
				"checkout_id":         checkoutID,
				"merchant_request_id": merchantRequestID,
			}).Error
	})
}

// MarkFailed compensates a booking whose gateway call never succeeded: both
// the booking and its payment flip to FAILED with the reason recorded.
func (r *BookingRepository) MarkFailed(ctx context.Context, bookingID int64, reason string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&bookingModel{}).Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":         string(domain.BookingFailed),
				"failure_reason": reason,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Payment{}).Where("booking_id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":         string(domain.PaymentFailed),
				"failure_reason": reason,
			}).Error
	})
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", bookingID).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func insertOutboxMessage(tx *gorm.DB, entityID int64, routingKey string, evt domain.Envelope) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return tx.Create(&domain.OutboxMessage{
		ID:         uuid.NewString(),
		EntityID:   entityID,
		RoutingKey: routingKey,
		Payload:    string(payload),
		CreatedAt:  time.Now(),
	}).Error
}

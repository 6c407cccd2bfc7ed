package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"renthaven/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByCheckoutID(ctx context.Context, checkoutID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("checkout_id = ?", checkoutID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkConfirmedIdempotent flips a payment and its booking to CONFIRMED exactly
// once, writing a payment.confirmed outbox row in the same transaction. The
// row lock serializes a callback racing a poll of the same checkout id.
func (r *PaymentRepository) MarkConfirmedIdempotent(ctx context.Context, checkoutID, rawBody string, confirmedAt time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("checkout_id = ?", checkoutID).First(&p).Error; err != nil {
			return err
		}
		if p.Status == domain.PaymentConfirmed {
			changed = false
			return nil
		}

		if err := tx.Model(&domain.Payment{}).Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"status":            string(domain.PaymentConfirmed),
				"callback_raw_body": rawBody,
				"confirmed_at":      confirmedAt,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&bookingModel{}).Where("id = ?", p.BookingID).
			Update("status", string(domain.BookingConfirmed)).Error; err != nil {
			return err
		}

		var b bookingModel
		if err := tx.First(&b, p.BookingID).Error; err != nil {
			return err
		}

		evt := domain.Envelope{
			Event:      domain.EventPaymentConfirmed,
			Version:    1,
			OccurredAt: confirmedAt.UTC().Format(time.RFC3339),
		}
		evt.Data.BookingID = p.BookingID
		evt.Data.PaymentID = p.ID
		evt.Data.TenantID = b.TenantID
		evt.Data.CheckoutID = checkoutID
		evt.Data.Amount = p.Amount
		evt.Data.Currency = p.Currency

		if err := insertOutboxMessage(tx, p.BookingID, domain.EventPaymentConfirmed, evt); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// MarkFailedIdempotent records a terminal failure for the checkout id unless
// the payment already confirmed.
func (r *PaymentRepository) MarkFailedIdempotent(ctx context.Context, checkoutID, rawBody, reason string) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("checkout_id = ?", checkoutID).First(&p).Error; err != nil {
			return err
		}
		if p.Status == domain.PaymentConfirmed || p.Status == domain.PaymentFailed {
			changed = false
			return nil
		}

		if err := tx.Model(&domain.Payment{}).Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"status":            string(domain.PaymentFailed),
				"callback_raw_body": rawBody,
				"failure_reason":    reason,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&bookingModel{}).Where("id = ?", p.BookingID).
			Updates(map[string]interface{}{
				"status":         string(domain.BookingFailed),
				"failure_reason": reason,
			}).Error; err != nil {
			return err
		}

		var b bookingModel
		if err := tx.First(&b, p.BookingID).Error; err != nil {
			return err
		}

		evt := domain.Envelope{
			Event:      domain.EventPaymentFailed,
			Version:    1,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		evt.Data.BookingID = p.BookingID
		evt.Data.PaymentID = p.ID
		evt.Data.TenantID = b.TenantID
		evt.Data.CheckoutID = checkoutID
		evt.Data.Reason = reason

		if err := insertOutboxMessage(tx, p.BookingID, domain.EventPaymentFailed, evt); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// MarkRequiresConfirmation is a non-terminal transition set while the
// provider waits for a manual confirmation code.
func (r *PaymentRepository) MarkRequiresConfirmation(ctx context.Context, checkoutID string) error {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("checkout_id = ? AND status = ?", checkoutID, string(domain.PaymentPending)).
		Update("status", string(domain.PaymentRequiresConfirmation))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// zero rows is either a replay on an already-transitioned payment
		// or a checkout id we never issued
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Payment{}).
			Where("checkout_id = ?", checkoutID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// SweepStaleInitiated fails payments that were persisted PENDING but never
// received a checkout id within the cutoff. This closes the gap between the
// local write and the gateway call.
func (r *PaymentRepository) SweepStaleInitiated(ctx context.Context, cutoff time.Time) (int64, error) {
	var swept int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []domain.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND (checkout_id IS NULL OR checkout_id = '') AND created_at < ?",
				string(domain.PaymentPending), cutoff).
			Find(&stale).Error; err != nil {
			return err
		}

		for _, p := range stale {
			if err := tx.Model(&domain.Payment{}).Where("id = ?", p.ID).
				Updates(map[string]interface{}{
					"status":         string(domain.PaymentFailed),
					"failure_reason": "reconciler: no checkout id within deadline",
				}).Error; err != nil {
				return err
			}
			if err := tx.Model(&bookingModel{}).Where("id = ?", p.BookingID).
				Updates(map[string]interface{}{
					"status":         string(domain.BookingFailed),
					"failure_reason": "reconciler: no checkout id within deadline",
				}).Error; err != nil {
				return err
			}
			swept++
		}
		return nil
	})
	return swept, err
}

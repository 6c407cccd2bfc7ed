package notification

import (
	"context"
	"fmt"

	"renthaven/internal/domain"
)

type notificationRepo interface {
	Create(ctx context.Context, n *domain.Notification, data map[string]any) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type Service struct {
	repo    notificationRepo
	hub     *Hub
	loggerf func(format string, args ...interface{})
}

func NewService(repo notificationRepo, hub *Hub, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{repo: repo, hub: hub, loggerf: loggerf}
}

// Create persists the notification and pushes it to the user's open
// websocket connections.
func (s *Service) Create(ctx context.Context, userID int64, typ domain.NotificationType, title, message string, data map[string]any) error {
	n := &domain.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n, data); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.PushToUser(userID, &WSEvent{Type: EventNotification, Payload: n})
		if unread, err := s.repo.CountUnread(ctx, userID); err == nil {
			s.hub.PushToUser(userID, &WSEvent{Type: EventUnreadCount, Payload: map[string]int64{"count": unread}})
		}
	}
	return nil
}

func (s *Service) GetForUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.GetByUserID(ctx, userID, limit)
}

func (s *Service) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyBookingCreated(ctx context.Context, tenantID, bookingID int64, amount float64) {
	err := s.Create(ctx, tenantID, domain.NotifBookingCreated,
		"Booking received",
		fmt.Sprintf("Your booking #%d was received. Complete the payment of KES %.2f on your phone.", bookingID, amount),
		map[string]any{"booking_id": bookingID, "amount": amount})
	if err != nil {
		s.loggerf("level=error msg=failed to create booking notification booking_id=%d err=%v", bookingID, err)
	}
}

func (s *Service) NotifyPaymentConfirmed(ctx context.Context, tenantID, bookingID, paymentID int64) {
	err := s.Create(ctx, tenantID, domain.NotifPaymentConfirmed,
		"Payment confirmed",
		fmt.Sprintf("Payment for booking #%d was confirmed. Karibu!", bookingID),
		map[string]any{"booking_id": bookingID, "payment_id": paymentID})
	if err != nil {
		s.loggerf("level=error msg=failed to create payment notification payment_id=%d err=%v", paymentID, err)
	}
}

func (s *Service) NotifyPaymentFailed(ctx context.Context, tenantID, bookingID, paymentID int64, reason string) {
	err := s.Create(ctx, tenantID, domain.NotifPaymentFailed,
		"Payment failed",
		fmt.Sprintf("Payment for booking #%d failed: %s. You can retry the booking.", bookingID, reason),
		map[string]any{"booking_id": bookingID, "payment_id": paymentID, "reason": reason})
	if err != nil {
		s.loggerf("level=error msg=failed to create payment notification payment_id=%d err=%v", paymentID, err)
	}
}

func (s *Service) NotifyMaintenanceAssigned(ctx context.Context, staffID, requestID int64) {
	err := s.Create(ctx, staffID, domain.NotifMaintenanceAssigned,
		"New job assigned",
		fmt.Sprintf("Maintenance request #%d has been assigned to you.", requestID),
		map[string]any{"request_id": requestID})
	if err != nil {
		s.loggerf("level=error msg=failed to create maintenance notification request_id=%d err=%v", requestID, err)
	}
}

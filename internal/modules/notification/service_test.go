package notification

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"renthaven/internal/domain"
)

type fakeNotificationRepo struct {
	rows   []*domain.Notification
	nextID int64
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification, data map[string]any) error {
	f.nextID++
	n.ID = f.nextID
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) GetByUserID(_ context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.rows {
		if n.UserID == userID && len(out) < limit {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID int64) (int64, error) {
	var cnt int64
	for _, n := range f.rows {
		if n.UserID == userID && !n.IsRead {
			cnt++
		}
	}
	return cnt, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, id, userID int64) error {
	for _, n := range f.rows {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID int64) error {
	for _, n := range f.rows {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func TestNotifyHelpers(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	svc.NotifyBookingCreated(ctx, 5, 99, 45000)
	svc.NotifyPaymentConfirmed(ctx, 5, 99, 42)
	svc.NotifyPaymentFailed(ctx, 5, 99, 42, "Request cancelled by user")
	svc.NotifyMaintenanceAssigned(ctx, 10, 7)

	if len(repo.rows) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(repo.rows))
	}

	types := map[domain.NotificationType]bool{}
	for _, n := range repo.rows {
		types[n.Type] = true
	}
	for _, want := range []domain.NotificationType{
		domain.NotifBookingCreated,
		domain.NotifPaymentConfirmed,
		domain.NotifPaymentFailed,
		domain.NotifMaintenanceAssigned,
	} {
		if !types[want] {
			t.Fatalf("missing notification type %s", want)
		}
	}

	cnt, _ := svc.CountUnread(ctx, 5)
	if cnt != 3 {
		t.Fatalf("expected 3 unread for tenant, got %d", cnt)
	}
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	svc.NotifyBookingCreated(ctx, 5, 99, 45000)
	svc.NotifyPaymentConfirmed(ctx, 5, 99, 42)

	if err := svc.MarkRead(ctx, repo.rows[0].ID, 5); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	cnt, _ := svc.CountUnread(ctx, 5)
	if cnt != 1 {
		t.Fatalf("expected 1 unread, got %d", cnt)
	}

	// another user cannot mark someone else's notification
	if err := svc.MarkRead(ctx, repo.rows[1].ID, 6); err == nil {
		t.Fatalf("expected error for foreign notification")
	}

	if err := svc.MarkAllRead(ctx, 5); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	cnt, _ = svc.CountUnread(ctx, 5)
	if cnt != 0 {
		t.Fatalf("expected 0 unread, got %d", cnt)
	}
}

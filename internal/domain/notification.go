package domain

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotifBookingCreated       NotificationType = "booking_created"
	NotifPaymentConfirmed     NotificationType = "payment_confirmed"
	NotifPaymentFailed        NotificationType = "payment_failed"
	NotifMaintenanceAssigned  NotificationType = "maintenance_assigned"
	NotifMaintenanceCompleted NotificationType = "maintenance_completed"
)

type Notification struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	UserID    int64            `json:"user_id" gorm:"index:idx_notifications_user_unread"`
	Type      NotificationType `json:"type" gorm:"type:varchar(30)"`
	Title     string           `json:"title"`
	Message   string           `json:"message" gorm:"type:text"`
	Data      json.RawMessage  `json:"data,omitempty" gorm:"type:jsonb"`
	IsRead    bool             `json:"is_read" gorm:"index:idx_notifications_user_unread"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

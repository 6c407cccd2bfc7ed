package domain

import "time"

type MaintenanceStatus string

const (
	MaintenanceRequested  MaintenanceStatus = "requested"
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

type MaintenanceKind string

const (
	MaintenanceCleaning MaintenanceKind = "cleaning"
	MaintenanceRepair   MaintenanceKind = "repair"
)

// MaintenanceRequest is a tenant's cleaning or repair request for an
// apartment, optionally assigned to a staff member by an admin.
type MaintenanceRequest struct {
	ID            int64             `json:"id" gorm:"primaryKey"`
	ApartmentID   int64             `json:"apartment_id" gorm:"index;not null"`
	TenantID      int64             `json:"tenant_id" gorm:"index;not null"`
	Kind          MaintenanceKind   `json:"kind" gorm:"type:varchar(12);default:'cleaning'"`
	Description   string            `json:"description" gorm:"type:text"`
	PreferredDate *time.Time        `json:"preferred_date"`
	Status        MaintenanceStatus `json:"status" gorm:"type:varchar(12);default:'requested';index"`
	AssignedTo    *int64            `json:"assigned_to,omitempty" gorm:"index"`
	ScheduledFor  *time.Time        `json:"scheduled_for,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Staff *User `json:"staff,omitempty" gorm:"foreignKey:AssignedTo"`
}

func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

package domain

import "time"

// FamilyMember is an occupant registered by a tenant against their account.
type FamilyMember struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	TenantID     int64     `json:"tenant_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Relationship string    `json:"relationship" gorm:"type:varchar(30)"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (FamilyMember) TableName() string { return "family_members" }

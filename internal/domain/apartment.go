package domain

import "time"

type Apartment struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	LandlordID   int64     `json:"landlord_id" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:text"`
	City         string    `json:"city" gorm:"index"`
	Address      string    `json:"address"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Furnished    bool      `json:"furnished"`
	MonthlyRent  float64   `json:"monthly_rent" gorm:"not null"`
	DepositPrice float64   `json:"deposit_price"`
	IsListed     bool      `json:"is_listed" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Landlord *User `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
}

func (Apartment) TableName() string { return "apartments" }

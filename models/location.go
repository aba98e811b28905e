package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location represents a service area that users belong to
type Location struct {
	ID             uint            `gorm:"column:location_id;primaryKey" json:"location_id"`
	AreaName       string          `gorm:"not null" json:"area_name"`
	City           string          `gorm:"not null;index" json:"city"`
	State          string          `gorm:"not null" json:"state"`
	Pincode        string          `gorm:"size:10;not null" json:"pincode"`
	DeliveryCharge decimal.Decimal `gorm:"type:decimal(10,2);not null;default:50" json:"delivery_charge"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Location model
func (Location) TableName() string {
	return "locations"
}

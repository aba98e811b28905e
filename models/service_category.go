package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceCategory is an entry in the static repair service catalog
type ServiceCategory struct {
	ID                  uint            `gorm:"column:category_id;primaryKey" json:"category_id"`
	CategoryName        string          `gorm:"uniqueIndex;not null" json:"category_name"`
	CategoryDescription string          `gorm:"type:text" json:"category_description"`
	BaseServiceCharge   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_service_charge"`
	EstimatedTimeHours  int             `gorm:"not null;default:1" json:"estimated_time_hours"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the ServiceCategory model
func (ServiceCategory) TableName() string {
	return "service_categories"
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// RepairRequest is a customer's request to have an item repaired
type RepairRequest struct {
	ID               uint             `gorm:"column:request_id;primaryKey" json:"request_id"`
	CustomerID       uint             `gorm:"not null;index" json:"customer_id"` // foreign key to users table
	Customer         *User            `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	CategoryID       uint             `gorm:"not null;index" json:"category_id"`
	Category         *ServiceCategory `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	ItemDescription  string           `gorm:"type:text;not null" json:"item_description"`
	IssueDescription string           `gorm:"type:text;not null" json:"issue_description"`
	PriorityLevel    string           `gorm:"not null;default:'medium'" json:"priority_level"` // low, medium, high, urgent
	RequestDate      time.Time        `gorm:"not null;index" json:"request_date"`
	PreferredDate    *datatypes.Date  `json:"preferred_date"`
	Status           string           `gorm:"not null;default:'pending';index" json:"status"` // pending, assigned, in_progress, completed, cancelled
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the RepairRequest model
func (RepairRequest) TableName() string {
	return "repair_requests"
}

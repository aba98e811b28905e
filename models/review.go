package models

import (
	"time"
)

// Review is the customer's feedback on a completed assignment
type Review struct {
	ID               uint               `gorm:"column:review_id;primaryKey" json:"review_id"`
	AssignmentID     uint               `gorm:"uniqueIndex;not null" json:"assignment_id"` // at most one review per assignment
	Assignment       *ServiceAssignment `gorm:"foreignKey:AssignmentID;references:ID" json:"assignment,omitempty"`
	CustomerRating   int                `gorm:"not null;check:customer_rating BETWEEN 1 AND 5" json:"customer_rating"`
	TechnicianRating int                `gorm:"not null;check:technician_rating BETWEEN 1 AND 5" json:"technician_rating"`
	ReviewText       string             `gorm:"type:text" json:"review_text"`
	ReviewDate       time.Time          `gorm:"not null;index" json:"review_date"`
	CreatedAt        time.Time          `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

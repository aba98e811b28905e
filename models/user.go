package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents a user in the system (customer or technician)
type User struct {
	ID               uint           `gorm:"column:user_id;primaryKey" json:"user_id"`
	FirstName        string         `gorm:"not null" json:"first_name"`
	LastName         string         `gorm:"not null" json:"last_name"`
	Email            string         `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber      string         `gorm:"size:20;not null" json:"phone_number"`
	Street           string         `json:"street"`
	City             string         `json:"city"`                   // copied from the location
	State            string         `json:"state"`                  // copied from the location
	Pincode          string         `gorm:"size:10" json:"pincode"` // copied from the location
	RegistrationDate datatypes.Date `gorm:"not null" json:"registration_date"`
	UserType         string         `gorm:"not null;default:'customer';index" json:"user_type"` // "customer" or "technician"
	LocationID       uint           `gorm:"not null;index" json:"location_id"`
	Location         *Location      `gorm:"foreignKey:LocationID;references:ID" json:"location,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment settles a service assignment
type Payment struct {
	ID                   uint               `gorm:"column:payment_id;primaryKey" json:"payment_id"`
	AssignmentID         uint               `gorm:"uniqueIndex;not null" json:"assignment_id"` // at most one payment per assignment
	Assignment           *ServiceAssignment `gorm:"foreignKey:AssignmentID;references:ID" json:"assignment,omitempty"`
	PaymentAmount        decimal.Decimal    `gorm:"type:decimal(10,2);not null" json:"payment_amount"`
	PaymentMethod        string             `gorm:"not null" json:"payment_method"` // cash, card, upi, wallet
	PaymentDate          time.Time          `gorm:"not null;index" json:"payment_date"`
	PaymentStatus        string             `gorm:"not null;default:'pending';index" json:"payment_status"` // pending, completed, failed, refunded
	TransactionReference string             `gorm:"size:100" json:"transaction_reference"`
	CreatedAt            time.Time          `json:"created_at"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

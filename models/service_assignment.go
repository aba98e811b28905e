package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ServiceAssignment links one repair request to one technician
type ServiceAssignment struct {
	ID                      uint            `gorm:"column:assignment_id;primaryKey" json:"assignment_id"`
	RequestID               uint            `gorm:"uniqueIndex;not null" json:"request_id"` // at most one assignment per request
	Request                 *RepairRequest  `gorm:"foreignKey:RequestID;references:ID" json:"request,omitempty"`
	TechnicianID            *uint           `gorm:"index" json:"technician_id"` // nulled when the technician is removed
	Technician              *Technician     `gorm:"foreignKey:TechnicianID;references:ID;constraint:OnDelete:SET NULL" json:"technician,omitempty"`
	AssignmentDate          time.Time       `gorm:"not null;index" json:"assignment_date"`
	EstimatedCompletionDate *datatypes.Date `json:"estimated_completion_date"`
	ActualCompletionDate    *time.Time      `json:"actual_completion_date"`
	AssignmentStatus        string          `gorm:"not null;default:'assigned';index" json:"assignment_status"` // assigned, in_progress, completed, cancelled
	ServiceCost             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"service_cost"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the ServiceAssignment model
func (ServiceAssignment) TableName() string {
	return "service_assignments"
}

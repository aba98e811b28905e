package models

import (
	"time"

	"gorm.io/datatypes"
)

// Technician is the service profile of a technician-typed user
type Technician struct {
	ID                   uint                       `gorm:"column:technician_id;primaryKey" json:"technician_id"`
	UserID               uint                       `gorm:"uniqueIndex;not null" json:"user_id"`
	User                 *User                      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	ExperienceYears      int                        `gorm:"not null;default:0" json:"experience_years"`
	CertificationDetails string                     `gorm:"type:text" json:"certification_details"`
	AvailabilityStatus   string                     `gorm:"not null;default:'available';index" json:"availability_status"` // available, busy, offline
	CreatedDate          datatypes.Date             `gorm:"not null" json:"created_date"`
	Specializations      []TechnicianSpecialization `gorm:"foreignKey:TechnicianID;constraint:OnDelete:CASCADE" json:"specializations"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
}

// TableName specifies the table name for the Technician model
func (Technician) TableName() string {
	return "technicians"
}

// SpecializationLabels returns the specialization labels in stored order
func (t Technician) SpecializationLabels() []string {
	labels := make([]string, 0, len(t.Specializations))
	for _, s := range t.Specializations {
		labels = append(labels, s.Specialization)
	}
	return labels
}

// TechnicianSpecialization is one skill label of a technician
type TechnicianSpecialization struct {
	ID             uint   `gorm:"column:specialization_id;primaryKey" json:"-"`
	TechnicianID   uint   `gorm:"not null;uniqueIndex:idx_technician_specialization" json:"-"`
	Specialization string `gorm:"not null;uniqueIndex:idx_technician_specialization" json:"specialization"`
}

// TableName specifies the table name for the TechnicianSpecialization model
func (TechnicianSpecialization) TableName() string {
	return "technician_specializations"
}

package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListTechnicians returns technicians with their user and specializations,
// optionally filtered by availability
func (s *Service) ListTechnicians(ctx context.Context, availability string) ([]models.Technician, error) {
	switch availability {
	case "", models.AvailabilityAvailable, models.AvailabilityBusy, models.AvailabilityOffline:
	default:
		return nil, validationError("VALIDATION_ERROR", "availability must be one of: available, busy, offline")
	}
	var technicians []models.Technician
	err := s.run(ctx, "list technicians", func(db *gorm.DB) error {
		q := db.Preload("User").Preload("Specializations").Order("technician_id")
		if availability != "" {
			q = q.Where("availability_status = ?", availability)
		}
		return q.Find(&technicians).Error
	})
	return technicians, err
}

// GetTechnician returns one technician with its user and specializations
func (s *Service) GetTechnician(ctx context.Context, id uint) (*models.Technician, error) {
	var technician models.Technician
	err := s.run(ctx, "get technician", func(db *gorm.DB) error {
		return findTechnician(db.Preload("User").Preload("Specializations"), id, &technician)
	})
	if err != nil {
		return nil, err
	}
	return &technician, nil
}

func findTechnician(db *gorm.DB, id uint, technician *models.Technician) error {
	if err := db.First(technician, id).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("technician", id)
		}
		return err
	}
	return nil
}

// EligibleTechnicianUsers returns technician-typed users without a technician profile
func (s *Service) EligibleTechnicianUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.run(ctx, "list eligible technician users", func(db *gorm.DB) error {
		return db.Where("user_type = ?", models.UserTypeTechnician).
			Where("user_id NOT IN (?)", db.Model(&models.Technician{}).Select("user_id")).
			Order("first_name, last_name").
			Find(&users).Error
	})
	return users, err
}

// normalizeSpecializations trims labels and drops duplicates, keeping first occurrence order
func normalizeSpecializations(labels []string) []models.TechnicianSpecialization {
	seen := make(map[string]bool, len(labels))
	specs := make([]models.TechnicianSpecialization, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		key := strings.ToLower(label)
		if label == "" || seen[key] {
			continue
		}
		seen[key] = true
		specs = append(specs, models.TechnicianSpecialization{Specialization: label})
	}
	return specs
}

// CreateTechnician creates the technician profile of a technician-typed user
func (s *Service) CreateTechnician(ctx context.Context, in TechnicianInput) (*models.Technician, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	availability := in.AvailabilityStatus
	if availability == "" {
		availability = models.AvailabilityAvailable
	}
	technician := models.Technician{
		UserID:               in.UserID,
		ExperienceYears:      in.ExperienceYears,
		CertificationDetails: in.CertificationDetails,
		AvailabilityStatus:   availability,
		CreatedDate:          datatypes.Date(s.today()),
		Specializations:      normalizeSpecializations(in.Specializations),
	}

	err := s.transaction(ctx, "create technician", func(tx *gorm.DB) error {
		var user models.User
		if err := findUser(tx, in.UserID, &user); err != nil {
			return err
		}
		if user.UserType != models.UserTypeTechnician {
			return validationError("USER_NOT_TECHNICIAN", "User %d is not a technician-typed user", in.UserID)
		}
		var existing int64
		if err := tx.Model(&models.Technician{}).Where("user_id = ?", in.UserID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return preconditionError("TECHNICIAN_ALREADY_EXISTS", "User %d already has a technician profile", in.UserID)
		}
		if err := tx.Create(&technician).Error; err != nil {
			return err
		}
		technician.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("Technician created", "technician_id", technician.ID, "user_id", technician.UserID)
	return &technician, nil
}

// UpdateTechnician edits experience, certification, specializations and
// availability. Availability may only move between available and offline,
// and never while the technician holds an active assignment.
func (s *Service) UpdateTechnician(ctx context.Context, id uint, in TechnicianUpdateInput) (*models.Technician, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	var technician models.Technician
	err := s.transaction(ctx, "update technician", func(tx *gorm.DB) error {
		if err := findTechnician(tx, id, &technician); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.ExperienceYears != nil {
			updates["experience_years"] = *in.ExperienceYears
		}
		if in.CertificationDetails != nil {
			updates["certification_details"] = *in.CertificationDetails
		}
		if in.AvailabilityStatus != "" && in.AvailabilityStatus != technician.AvailabilityStatus {
			if technician.AvailabilityStatus == models.AvailabilityBusy {
				return preconditionError("TECHNICIAN_BUSY",
					"Technician %d is busy with an active assignment", id)
			}
			updates["availability_status"] = in.AvailabilityStatus
		}

		if len(updates) > 0 {
			q := tx.Model(&models.Technician{}).Where("technician_id = ?", id)
			if _, ok := updates["availability_status"]; ok {
				// Repeated here so a concurrent assignment cannot be overwritten
				q = q.Where("availability_status <> ?", models.AvailabilityBusy)
			}
			res := q.Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return preconditionError("TECHNICIAN_BUSY",
					"Technician %d is busy with an active assignment", id)
			}
		}

		if in.Specializations != nil {
			if err := tx.Where("technician_id = ?", id).Delete(&models.TechnicianSpecialization{}).Error; err != nil {
				return err
			}
			specs := normalizeSpecializations(in.Specializations)
			for i := range specs {
				specs[i].TechnicianID = id
			}
			if len(specs) > 0 {
				if err := tx.Create(&specs).Error; err != nil {
					return err
				}
			}
		}

		technician = models.Technician{}
		return findTechnician(tx.Preload("User").Preload("Specializations"), id, &technician)
	})
	if err != nil {
		return nil, err
	}
	return &technician, nil
}

// DeleteTechnician removes a technician that holds no active assignment.
// Historical assignments keep their rows with the technician reference cleared.
func (s *Service) DeleteTechnician(ctx context.Context, id uint) error {
	err := s.transaction(ctx, "delete technician", func(tx *gorm.DB) error {
		var technician models.Technician
		if err := findTechnician(tx, id, &technician); err != nil {
			return err
		}
		if err := guardTechnicianDelete(tx, id); err != nil {
			return err
		}

		if err := tx.Model(&models.ServiceAssignment{}).
			Where("technician_id = ?", id).
			Update("technician_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("technician_id = ?", id).Delete(&models.TechnicianSpecialization{}).Error; err != nil {
			return err
		}

		res := tx.Where("technician_id = ? AND availability_status <> ?", id, models.AvailabilityBusy).
			Where("NOT EXISTS (SELECT 1 FROM service_assignments sa WHERE sa.technician_id = technicians.technician_id AND sa.assignment_status IN ?)",
				models.ActiveAssignmentStatuses).
			Delete(&models.Technician{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return preconditionError("TECHNICIAN_HAS_ACTIVE_ASSIGNMENTS",
				"Cannot delete technician %d while it is busy", id)
		}
		return nil
	})
	if err == nil {
		s.log.Sugar().Infow("Technician deleted", "technician_id", id)
	}
	return err
}

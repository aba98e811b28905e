package services

import (
	"context"

	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func withAssignmentRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Request").
		Preload("Request.Customer").
		Preload("Request.Category").
		Preload("Technician").
		Preload("Technician.User")
}

// AssignTechnicianToRequest binds an available technician to a pending request.
// The request becomes assigned and the technician busy in the same
// transaction. Both claims are conditional updates, so two concurrent calls
// for the same request or technician cannot both succeed.
func (s *Service) AssignTechnicianToRequest(ctx context.Context, in AssignInput) (*models.ServiceAssignment, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	if err := requirePositive("service_cost", in.ServiceCost); err != nil {
		return nil, err
	}
	if err := requireMoneyScale("service_cost", in.ServiceCost); err != nil {
		return nil, err
	}
	estimated, err := parseDate("estimated_completion_date", in.EstimatedCompletionDate)
	if err != nil {
		return nil, err
	}
	if estimated == nil {
		today := datatypes.Date(s.today())
		estimated = &today
	}

	var assignment models.ServiceAssignment
	err = s.transaction(ctx, "assign technician", func(tx *gorm.DB) error {
		if err := claimRequest(tx, in.RequestID); err != nil {
			return err
		}
		if err := claimTechnician(tx, in.TechnicianID); err != nil {
			return err
		}

		technicianID := in.TechnicianID
		assignment = models.ServiceAssignment{
			RequestID:               in.RequestID,
			TechnicianID:            &technicianID,
			AssignmentDate:          s.now(),
			EstimatedCompletionDate: estimated,
			AssignmentStatus:        models.AssignmentStatusAssigned,
			ServiceCost:             in.ServiceCost,
		}
		return insertAssignment(tx, &assignment)
	})
	if err != nil {
		return nil, err
	}

	s.log.Sugar().Infow("Technician assigned",
		"assignment_id", assignment.ID,
		"request_id", assignment.RequestID,
		"technician_id", in.TechnicianID,
		"service_cost", assignment.ServiceCost.StringFixed(2))
	return &assignment, nil
}

// claimRequest moves a pending request to assigned, failing if another
// transaction got there first.
func claimRequest(tx *gorm.DB, requestID uint) error {
	res := tx.Model(&models.RepairRequest{}).
		Where("request_id = ? AND status = ?", requestID, models.RequestStatusPending).
		Update("status", models.RequestStatusAssigned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var request models.RepairRequest
	if err := findRequest(tx, requestID, &request); err != nil {
		return err
	}
	if request.Status == models.RequestStatusAssigned {
		return preconditionError("REQUEST_ALREADY_ASSIGNED", "Request %d is already assigned", requestID)
	}
	return preconditionError("REQUEST_NOT_PENDING",
		"Request %d cannot be assigned in status %s", requestID, request.Status)
}

// claimTechnician moves an available technician to busy
func claimTechnician(tx *gorm.DB, technicianID uint) error {
	res := tx.Model(&models.Technician{}).
		Where("technician_id = ? AND availability_status = ?", technicianID, models.AvailabilityAvailable).
		Update("availability_status", models.AvailabilityBusy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var technician models.Technician
	if err := findTechnician(tx, technicianID, &technician); err != nil {
		return err
	}
	return preconditionError("TECHNICIAN_NOT_AVAILABLE",
		"Technician %d is not available (status is %s)", technicianID, technician.AvailabilityStatus)
}

// StartService moves an assigned assignment and its request to in_progress
func (s *Service) StartService(ctx context.Context, assignmentID uint) (*models.ServiceAssignment, error) {
	var assignment models.ServiceAssignment
	err := s.transaction(ctx, "start service", func(tx *gorm.DB) error {
		if err := findAssignment(tx, assignmentID, &assignment); err != nil {
			return err
		}
		res := tx.Model(&models.ServiceAssignment{}).
			Where("assignment_id = ? AND assignment_status = ?", assignmentID, models.AssignmentStatusAssigned).
			Update("assignment_status", models.AssignmentStatusInProgress)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return preconditionError("ASSIGNMENT_NOT_STARTABLE",
				"Assignment %d cannot be started in status %s", assignmentID, assignment.AssignmentStatus)
		}
		if err := tx.Model(&models.RepairRequest{}).
			Where("request_id = ? AND status = ?", assignment.RequestID, models.RequestStatusAssigned).
			Update("status", models.RequestStatusInProgress).Error; err != nil {
			return err
		}
		assignment = models.ServiceAssignment{}
		return findAssignment(withAssignmentRelations(tx), assignmentID, &assignment)
	})
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("Service started", "assignment_id", assignmentID)
	return &assignment, nil
}

func findAssignment(db *gorm.DB, id uint, assignment *models.ServiceAssignment) error {
	if err := db.First(assignment, id).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("assignment", id)
		}
		return err
	}
	return nil
}

// GetAssignment returns one assignment with its request and technician
func (s *Service) GetAssignment(ctx context.Context, id uint) (*models.ServiceAssignment, error) {
	var assignment models.ServiceAssignment
	err := s.run(ctx, "get assignment", func(db *gorm.DB) error {
		return findAssignment(withAssignmentRelations(db), id, &assignment)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// GetAssignmentByRequest returns the assignment of a repair request
func (s *Service) GetAssignmentByRequest(ctx context.Context, requestID uint) (*models.ServiceAssignment, error) {
	var assignment models.ServiceAssignment
	err := s.run(ctx, "get assignment by request", func(db *gorm.DB) error {
		if err := db.Where("request_id = ?", requestID).First(&assignment).Error; err != nil {
			if isNotFound(err) {
				return &Error{Kind: KindNotFound, Code: "ASSIGNMENT_NOT_FOUND",
					Message: "Request has no service assignment"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignments returns assignments newest first, optionally filtered by status
func (s *Service) ListAssignments(ctx context.Context, status string) ([]models.ServiceAssignment, error) {
	switch status {
	case "", models.AssignmentStatusAssigned, models.AssignmentStatusInProgress,
		models.AssignmentStatusCompleted, models.AssignmentStatusCancelled:
	default:
		return nil, validationError("VALIDATION_ERROR", "status must be one of: assigned, in_progress, completed, cancelled")
	}
	var assignments []models.ServiceAssignment
	err := s.run(ctx, "list assignments", func(db *gorm.DB) error {
		q := withAssignmentRelations(db).Order("assignment_date DESC, assignment_id DESC")
		if status != "" {
			q = q.Where("assignment_status = ?", status)
		}
		return q.Find(&assignments).Error
	})
	return assignments, err
}

// AssignmentsAwaitingPayment returns active assignments without a payment
func (s *Service) AssignmentsAwaitingPayment(ctx context.Context) ([]models.ServiceAssignment, error) {
	var assignments []models.ServiceAssignment
	err := s.run(ctx, "list assignments awaiting payment", func(db *gorm.DB) error {
		return withAssignmentRelations(db).
			Where("assignment_status IN ?", models.ActiveAssignmentStatuses).
			Where("assignment_id NOT IN (?)", db.Model(&models.Payment{}).Select("assignment_id")).
			Order("assignment_date, assignment_id").
			Find(&assignments).Error
	})
	return assignments, err
}

// AssignmentsAwaitingReview returns completed assignments without a review
func (s *Service) AssignmentsAwaitingReview(ctx context.Context) ([]models.ServiceAssignment, error) {
	var assignments []models.ServiceAssignment
	err := s.run(ctx, "list assignments awaiting review", func(db *gorm.DB) error {
		return withAssignmentRelations(db).
			Where("assignment_status = ?", models.AssignmentStatusCompleted).
			Where("assignment_id NOT IN (?)", db.Model(&models.Review{}).Select("assignment_id")).
			Order("actual_completion_date DESC, assignment_id DESC").
			Find(&assignments).Error
	})
	return assignments, err
}

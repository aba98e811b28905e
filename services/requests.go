package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/gorm"
)

var requestStatuses = []string{
	models.RequestStatusPending,
	models.RequestStatusAssigned,
	models.RequestStatusInProgress,
	models.RequestStatusCompleted,
	models.RequestStatusCancelled,
}

func withRequestRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Customer").Preload("Category")
}

// ListRequests returns repair requests newest first, optionally filtered by status
func (s *Service) ListRequests(ctx context.Context, status string) ([]models.RepairRequest, error) {
	if status != "" && !contains(requestStatuses, status) {
		return nil, validationError("VALIDATION_ERROR", "status must be one of: %s", strings.Join(requestStatuses, ", "))
	}
	var requests []models.RepairRequest
	err := s.run(ctx, "list requests", func(db *gorm.DB) error {
		q := withRequestRelations(db).Order("request_date DESC, request_id DESC")
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q.Find(&requests).Error
	})
	return requests, err
}

// AssignableRequests returns pending requests, oldest first
func (s *Service) AssignableRequests(ctx context.Context) ([]models.RepairRequest, error) {
	var requests []models.RepairRequest
	err := s.run(ctx, "list assignable requests", func(db *gorm.DB) error {
		return withRequestRelations(db).
			Where("status = ?", models.RequestStatusPending).
			Order("request_date, request_id").
			Find(&requests).Error
	})
	return requests, err
}

// GetRequest returns one repair request with its customer and category
func (s *Service) GetRequest(ctx context.Context, id uint) (*models.RepairRequest, error) {
	var request models.RepairRequest
	err := s.run(ctx, "get request", func(db *gorm.DB) error {
		return findRequest(withRequestRelations(db), id, &request)
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func findRequest(db *gorm.DB, id uint, request *models.RepairRequest) error {
	if err := db.First(request, id).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("request", id)
		}
		return err
	}
	return nil
}

// CreateRequest opens a repair request. New requests always start pending.
func (s *Service) CreateRequest(ctx context.Context, in RepairRequestInput) (*models.RepairRequest, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	preferred, err := parseDate("preferred_date", in.PreferredDate)
	if err != nil {
		return nil, err
	}
	priority := in.PriorityLevel
	if priority == "" {
		priority = models.PriorityMedium
	}
	request := models.RepairRequest{
		CustomerID:       in.CustomerID,
		CategoryID:       in.CategoryID,
		ItemDescription:  strings.TrimSpace(in.ItemDescription),
		IssueDescription: strings.TrimSpace(in.IssueDescription),
		PriorityLevel:    priority,
		RequestDate:      s.now(),
		PreferredDate:    preferred,
		Status:           models.RequestStatusPending,
	}

	err = s.transaction(ctx, "create request", func(tx *gorm.DB) error {
		var customer models.User
		if err := findUser(tx, in.CustomerID, &customer); err != nil {
			return err
		}
		if customer.UserType != models.UserTypeCustomer {
			return validationError("USER_NOT_CUSTOMER", "User %d is not a customer", in.CustomerID)
		}
		var category models.ServiceCategory
		if err := findCategory(tx, in.CategoryID, &category); err != nil {
			return err
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		request.Customer = &customer
		request.Category = &category
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("Repair request created", "request_id", request.ID, "customer_id", request.CustomerID)
	return &request, nil
}

// UpdateRequest edits the descriptive fields of a pending request
func (s *Service) UpdateRequest(ctx context.Context, id uint, in RepairRequestUpdateInput) (*models.RepairRequest, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	preferred, err := parseDate("preferred_date", in.PreferredDate)
	if err != nil {
		return nil, err
	}

	var request models.RepairRequest
	err = s.transaction(ctx, "update request", func(tx *gorm.DB) error {
		if err := findRequest(tx, id, &request); err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.CategoryID != 0 && in.CategoryID != request.CategoryID {
			var category models.ServiceCategory
			if err := findCategory(tx, in.CategoryID, &category); err != nil {
				return err
			}
			updates["category_id"] = in.CategoryID
		}
		if v := strings.TrimSpace(in.ItemDescription); v != "" {
			updates["item_description"] = v
		}
		if v := strings.TrimSpace(in.IssueDescription); v != "" {
			updates["issue_description"] = v
		}
		if in.PriorityLevel != "" {
			updates["priority_level"] = in.PriorityLevel
		}
		if preferred != nil {
			updates["preferred_date"] = *preferred
		}
		if len(updates) > 0 {
			res := tx.Model(&models.RepairRequest{}).
				Where("request_id = ? AND status = ?", id, models.RequestStatusPending).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return preconditionError("REQUEST_NOT_EDITABLE",
					"Request %d can only be edited while pending (status is %s)", id, request.Status)
			}
		}
		request = models.RepairRequest{}
		return findRequest(withRequestRelations(tx), id, &request)
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// DeleteRequest removes a request that was never assigned
func (s *Service) DeleteRequest(ctx context.Context, id uint) error {
	return s.transaction(ctx, "delete request", func(tx *gorm.DB) error {
		var request models.RepairRequest
		if err := findRequest(tx, id, &request); err != nil {
			return err
		}
		var assignments int64
		if err := tx.Model(&models.ServiceAssignment{}).Where("request_id = ?", id).Count(&assignments).Error; err != nil {
			return err
		}
		if assignments > 0 {
			return preconditionError("REQUEST_IN_USE", "Request %d has a service assignment", id)
		}
		return tx.Delete(&request).Error
	})
}

// TransitionRequest moves a request to a new status. Transitions that belong
// to a workflow are routed through it so their side effects stay consistent.
func (s *Service) TransitionRequest(ctx context.Context, id uint, in StatusInput) (*models.RepairRequest, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	current, err := s.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionRequest(current.Status, in.Status) {
		return nil, preconditionError("INVALID_STATUS_TRANSITION",
			"Cannot change request %d from %s to %s", id, current.Status, in.Status)
	}

	switch in.Status {
	case models.RequestStatusAssigned:
		return nil, preconditionError("INVALID_STATUS_TRANSITION",
			"Requests are assigned by creating a service assignment")
	case models.RequestStatusCompleted:
		return nil, preconditionError("INVALID_STATUS_TRANSITION",
			"Requests are completed by completing their service assignment with a payment")
	case models.RequestStatusInProgress:
		assignment, err := s.GetAssignmentByRequest(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, err := s.StartService(ctx, assignment.ID); err != nil {
			return nil, err
		}
		return s.GetRequest(ctx, id)
	default:
		return s.CancelRequest(ctx, id)
	}
}

// CancelRequest cancels a pending or assigned request. Cancelling an assigned
// request also cancels its assignment and frees the technician.
func (s *Service) CancelRequest(ctx context.Context, id uint) (*models.RepairRequest, error) {
	var request models.RepairRequest
	err := s.transaction(ctx, "cancel request", func(tx *gorm.DB) error {
		if err := findRequest(tx, id, &request); err != nil {
			return err
		}
		if !models.CanTransitionRequest(request.Status, models.RequestStatusCancelled) {
			return preconditionError("INVALID_STATUS_TRANSITION",
				"Cannot cancel request %d in status %s", id, request.Status)
		}
		from := request.Status

		res := tx.Model(&models.RepairRequest{}).
			Where("request_id = ? AND status = ?", id, from).
			Update("status", models.RequestStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return preconditionError("INVALID_STATUS_TRANSITION", "Request %d changed status concurrently", id)
		}

		if from == models.RequestStatusAssigned {
			var assignment models.ServiceAssignment
			err := tx.Where("request_id = ? AND assignment_status = ?", id, models.AssignmentStatusAssigned).
				First(&assignment).Error
			if err != nil && !isNotFound(err) {
				return err
			}
			if err == nil {
				if err := tx.Model(&assignment).Update("assignment_status", models.AssignmentStatusCancelled).Error; err != nil {
					return err
				}
				if err := releaseTechnician(tx, assignment.TechnicianID); err != nil {
					return err
				}
				if err := tx.Model(&models.Payment{}).
					Where("assignment_id = ? AND payment_status = ?", assignment.ID, models.PaymentStatusPending).
					Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
					return err
				}
			}
		}

		request = models.RepairRequest{}
		return findRequest(withRequestRelations(tx), id, &request)
	})
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("Repair request cancelled", "request_id", id)
	return &request, nil
}

// releaseTechnician makes a busy technician available again
func releaseTechnician(tx *gorm.DB, technicianID *uint) error {
	if technicianID == nil {
		return nil
	}
	return tx.Model(&models.Technician{}).
		Where("technician_id = ? AND availability_status = ?", *technicianID, models.AvailabilityBusy).
		Update("availability_status", models.AvailabilityAvailable).Error
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

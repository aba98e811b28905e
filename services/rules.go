package services

import (
	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/gorm"
)

// insertAssignment is the only code path that writes a service assignment.
// The owning request is moved to assigned in the same transaction.
func insertAssignment(tx *gorm.DB, assignment *models.ServiceAssignment) error {
	if err := tx.Create(assignment).Error; err != nil {
		return err
	}
	return propagateAssignment(tx, assignment)
}

// propagateAssignment sets the owning request to assigned. It is idempotent
// for a request the caller has already claimed.
func propagateAssignment(tx *gorm.DB, assignment *models.ServiceAssignment) error {
	res := tx.Model(&models.RepairRequest{}).
		Where("request_id = ? AND status IN ?", assignment.RequestID,
			[]string{models.RequestStatusPending, models.RequestStatusAssigned}).
		Update("status", models.RequestStatusAssigned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return preconditionError("REQUEST_NOT_ASSIGNABLE",
			"Request %d cannot be assigned in its current status", assignment.RequestID)
	}
	return nil
}

// insertPayment is the only code path that writes a payment
func insertPayment(tx *gorm.DB, payment *models.Payment) error {
	if err := validatePaymentAmount(tx, payment); err != nil {
		return err
	}
	if err := guardPaymentStatus(tx, payment); err != nil {
		return err
	}

	var existing int64
	if err := tx.Model(&models.Payment{}).Where("assignment_id = ?", payment.AssignmentID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return preconditionError("PAYMENT_ALREADY_RECORDED",
			"Assignment %d already has a payment", payment.AssignmentID)
	}

	return tx.Create(payment).Error
}

// validatePaymentAmount rejects a payment whose amount differs from the assignment's service cost
func validatePaymentAmount(tx *gorm.DB, payment *models.Payment) error {
	var assignment models.ServiceAssignment
	if err := tx.Select("assignment_id", "service_cost").First(&assignment, payment.AssignmentID).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("assignment", payment.AssignmentID)
		}
		return err
	}
	if !payment.PaymentAmount.Equal(assignment.ServiceCost) {
		return preconditionError("PAYMENT_AMOUNT_MISMATCH",
			"Payment amount %s does not match service cost %s",
			payment.PaymentAmount.StringFixed(2), assignment.ServiceCost.StringFixed(2))
	}
	return nil
}

// guardPaymentStatus rejects payments against cancelled assignments. An active
// assignment only accepts a pending payment, which completion later settles.
func guardPaymentStatus(tx *gorm.DB, payment *models.Payment) error {
	var assignment models.ServiceAssignment
	if err := tx.Select("assignment_id", "assignment_status").First(&assignment, payment.AssignmentID).Error; err != nil {
		if isNotFound(err) {
			return notFoundError("assignment", payment.AssignmentID)
		}
		return err
	}
	switch {
	case assignment.AssignmentStatus == models.AssignmentStatusCancelled:
		return preconditionError("ASSIGNMENT_CANCELLED",
			"Assignment %d is cancelled and cannot take a payment", payment.AssignmentID)
	case models.IsActiveAssignmentStatus(assignment.AssignmentStatus) && payment.PaymentStatus != models.PaymentStatusPending:
		return preconditionError("ASSIGNMENT_NOT_COMPLETED",
			"Assignment %d is still %s; only a pending payment can be recorded",
			payment.AssignmentID, assignment.AssignmentStatus)
	}
	return nil
}

// guardTechnicianDelete rejects removal of a technician that holds active assignments
func guardTechnicianDelete(tx *gorm.DB, technicianID uint) error {
	var active int64
	if err := tx.Model(&models.ServiceAssignment{}).
		Where("technician_id = ? AND assignment_status IN ?", technicianID, models.ActiveAssignmentStatuses).
		Count(&active).Error; err != nil {
		return err
	}
	if active > 0 {
		return preconditionError("TECHNICIAN_HAS_ACTIVE_ASSIGNMENTS",
			"Cannot delete technician %d with %d active assignment(s)", technicianID, active)
	}
	return nil
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func withPaymentRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Assignment").
		Preload("Assignment.Request").
		Preload("Assignment.Request.Customer").
		Preload("Assignment.Request.Category").
		Preload("Assignment.Technician").
		Preload("Assignment.Technician.User")
}

func transactionReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
	}
	return ref
}

// CompleteServiceAndPayment finishes an active assignment and records its
// payment for exactly the service cost. The assignment and request become
// completed and the technician available again, all in one transaction.
func (s *Service) CompleteServiceAndPayment(ctx context.Context, assignmentID uint, in CompleteInput) (*models.Payment, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	var payment models.Payment
	err := s.transaction(ctx, "complete service and payment", func(tx *gorm.DB) error {
		var assignment models.ServiceAssignment
		if err := findAssignment(tx, assignmentID, &assignment); err != nil {
			return err
		}

		var pending *models.Payment
		var existing []models.Payment
		if err := tx.Where("assignment_id = ?", assignmentID).Limit(1).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			if existing[0].PaymentStatus != models.PaymentStatusPending {
				return preconditionError("PAYMENT_ALREADY_RECORDED", "Assignment %d already has a payment", assignmentID)
			}
			pending = &existing[0]
		}
		if !models.IsActiveAssignmentStatus(assignment.AssignmentStatus) {
			return preconditionError("ASSIGNMENT_NOT_ACTIVE",
				"Assignment %d cannot be completed in status %s", assignmentID, assignment.AssignmentStatus)
		}
		if in.PaymentAmount != nil && !in.PaymentAmount.Equal(assignment.ServiceCost) {
			return preconditionError("PAYMENT_AMOUNT_MISMATCH",
				"Payment amount %s does not match service cost %s",
				in.PaymentAmount.StringFixed(2), assignment.ServiceCost.StringFixed(2))
		}

		now := s.now()
		res := tx.Model(&models.ServiceAssignment{}).
			Where("assignment_id = ? AND assignment_status IN ?", assignmentID, models.ActiveAssignmentStatuses).
			Updates(map[string]interface{}{
				"assignment_status":      models.AssignmentStatusCompleted,
				"actual_completion_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return preconditionError("ASSIGNMENT_NOT_ACTIVE", "Assignment %d changed status concurrently", assignmentID)
		}

		if pending != nil {
			if err := settlePendingPayment(tx, pending, assignment.ServiceCost, in, now); err != nil {
				return err
			}
			payment = *pending
		} else {
			payment = models.Payment{
				AssignmentID:         assignmentID,
				PaymentAmount:        assignment.ServiceCost,
				PaymentMethod:        in.PaymentMethod,
				PaymentDate:          now,
				PaymentStatus:        models.PaymentStatusCompleted,
				TransactionReference: transactionReference(in.TransactionReference),
			}
			if err := insertPayment(tx, &payment); err != nil {
				return err
			}
		}

		if err := releaseTechnician(tx, assignment.TechnicianID); err != nil {
			return err
		}

		return tx.Model(&models.RepairRequest{}).
			Where("request_id = ? AND status IN ?", assignment.RequestID,
				[]string{models.RequestStatusAssigned, models.RequestStatusInProgress}).
			Update("status", models.RequestStatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Sugar().Infow("Service completed",
		"assignment_id", assignmentID,
		"payment_id", payment.ID,
		"amount", payment.PaymentAmount.StringFixed(2),
		"method", payment.PaymentMethod)
	return &payment, nil
}

// settlePendingPayment marks a pending payment recorded during the job as
// completed. The caller's method and reference replace the recorded ones.
func settlePendingPayment(tx *gorm.DB, payment *models.Payment, cost decimal.Decimal, in CompleteInput, now time.Time) error {
	if !payment.PaymentAmount.Equal(cost) {
		return preconditionError("PAYMENT_AMOUNT_MISMATCH",
			"Pending payment %d does not match the service cost", payment.ID)
	}
	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusCompleted,
		"payment_method": in.PaymentMethod,
		"payment_date":   now,
	}
	if ref := strings.TrimSpace(in.TransactionReference); ref != "" {
		updates["transaction_reference"] = ref
	}
	res := tx.Model(&models.Payment{}).
		Where("payment_id = ? AND payment_status = ?", payment.ID, models.PaymentStatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return preconditionError("PAYMENT_ALREADY_RECORDED", "Assignment %d already has a payment", payment.AssignmentID)
	}
	payment.PaymentStatus = models.PaymentStatusCompleted
	payment.PaymentMethod = in.PaymentMethod
	payment.PaymentDate = now
	if ref, ok := updates["transaction_reference"].(string); ok {
		payment.TransactionReference = ref
	}
	return nil
}

// RecordPayment stores a payment for an assignment outside the completion
// workflow, for example a pending card payment. The amount must equal the
// service cost.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	if err := requirePositive("payment_amount", in.PaymentAmount); err != nil {
		return nil, err
	}
	status := in.PaymentStatus
	if status == "" {
		status = models.PaymentStatusPending
	}
	payment := models.Payment{
		AssignmentID:         in.AssignmentID,
		PaymentAmount:        in.PaymentAmount,
		PaymentMethod:        in.PaymentMethod,
		PaymentDate:          s.now(),
		PaymentStatus:        status,
		TransactionReference: transactionReference(in.TransactionReference),
	}
	err := s.transaction(ctx, "record payment", func(tx *gorm.DB) error {
		return insertPayment(tx, &payment)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment returns one payment with its assignment
func (s *Service) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.run(ctx, "get payment", func(db *gorm.DB) error {
		if err := withPaymentRelations(db).First(&payment, id).Error; err != nil {
			if isNotFound(err) {
				return notFoundError("payment", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments returns payments newest first, optionally filtered by status
func (s *Service) ListPayments(ctx context.Context, status string) ([]models.Payment, error) {
	switch status {
	case "", models.PaymentStatusPending, models.PaymentStatusCompleted,
		models.PaymentStatusFailed, models.PaymentStatusRefunded:
	default:
		return nil, validationError("VALIDATION_ERROR", "status must be one of: pending, completed, failed, refunded")
	}
	var payments []models.Payment
	err := s.run(ctx, "list payments", func(db *gorm.DB) error {
		q := withPaymentRelations(db).Order("payment_date DESC, payment_id DESC")
		if status != "" {
			q = q.Where("payment_status = ?", status)
		}
		return q.Find(&payments).Error
	})
	return payments, err
}

// PaymentSummary aggregates payments
type PaymentSummary struct {
	TotalPayments   int64           `json:"total_payments"`
	CompletedAmount decimal.Decimal `json:"completed_amount"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
}

// SummarizePayments totals completed and pending payment amounts
func (s *Service) SummarizePayments(ctx context.Context) (*PaymentSummary, error) {
	var summary PaymentSummary
	err := s.run(ctx, "summarize payments", func(db *gorm.DB) error {
		return db.Model(&models.Payment{}).
			Select(`COUNT(*) AS total_payments,
				COALESCE(SUM(CASE WHEN payment_status = ? THEN payment_amount ELSE 0 END), 0) AS completed_amount,
				COALESCE(SUM(CASE WHEN payment_status = ? THEN payment_amount ELSE 0 END), 0) AS pending_amount`,
				models.PaymentStatusCompleted, models.PaymentStatusPending).
			Scan(&summary).Error
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

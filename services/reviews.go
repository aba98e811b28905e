package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/gorm"
)

// CreateReview records the customer's review of a completed assignment
func (s *Service) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	review := models.Review{
		AssignmentID:     in.AssignmentID,
		CustomerRating:   in.CustomerRating,
		TechnicianRating: in.TechnicianRating,
		ReviewText:       strings.TrimSpace(in.ReviewText),
		ReviewDate:       s.now(),
	}
	err := s.transaction(ctx, "create review", func(tx *gorm.DB) error {
		var assignment models.ServiceAssignment
		if err := findAssignment(tx, in.AssignmentID, &assignment); err != nil {
			return err
		}
		if assignment.AssignmentStatus != models.AssignmentStatusCompleted {
			return preconditionError("ASSIGNMENT_NOT_COMPLETED",
				"Assignment %d must be completed before it is reviewed", in.AssignmentID)
		}
		var existing int64
		if err := tx.Model(&models.Review{}).Where("assignment_id = ?", in.AssignmentID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return preconditionError("REVIEW_ALREADY_EXISTS", "Assignment %d has already been reviewed", in.AssignmentID)
		}
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("Review recorded", "review_id", review.ID, "assignment_id", review.AssignmentID)
	return &review, nil
}

// ListReviews returns reviews newest first
func (s *Service) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.run(ctx, "list reviews", func(db *gorm.DB) error {
		return db.Preload("Assignment").
			Preload("Assignment.Request").
			Preload("Assignment.Request.Customer").
			Preload("Assignment.Technician").
			Preload("Assignment.Technician.User").
			Order("review_date DESC, review_id DESC").
			Find(&reviews).Error
	})
	return reviews, err
}

// GetReview returns one review
func (s *Service) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := s.run(ctx, "get review", func(db *gorm.DB) error {
		if err := db.Preload("Assignment").First(&review, id).Error; err != nil {
			if isNotFound(err) {
				return notFoundError("review", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

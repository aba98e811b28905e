package services

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentAssignmentLimit = 10

// TechnicianRating is the average technician rating over all reviews of a
// technician's assignments. Average is nil when there are no reviews.
type TechnicianRating struct {
	TechnicianID uint     `json:"technician_id"`
	Average      *float64 `json:"rating"`
	ReviewCount  int64    `json:"review_count"`
}

// TechnicianEarnings is the sum of completed payments in a date range
type TechnicianEarnings struct {
	TechnicianID uint            `json:"technician_id"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	Total        decimal.Decimal `json:"total_earnings"`
}

// TechnicianDashboard is the per-technician summary. Found is false when the
// technician does not exist, in which case every other field is empty.
type TechnicianDashboard struct {
	Found             bool                 `json:"found"`
	Technician        *TechnicianProfile   `json:"technician,omitempty"`
	Earnings          *EarningsSummary     `json:"earnings,omitempty"`
	RecentAssignments []AssignmentOverview `json:"recent_assignments"`
}

// TechnicianProfile is the identity section of the technician dashboard
type TechnicianProfile struct {
	TechnicianID       uint     `json:"technician_id"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Email              string   `json:"email"`
	PhoneNumber        string   `json:"phone_number"`
	ExperienceYears    int      `json:"experience_years"`
	AvailabilityStatus string   `json:"availability_status"`
	Specializations    []string `json:"specializations"`
	Rating             *float64 `json:"rating"`
	ReviewCount        int64    `json:"review_count"`
}

// EarningsSummary is the earnings section of the technician dashboard
type EarningsSummary struct {
	TotalEarnings        decimal.Decimal `json:"total_earnings"`
	CurrentMonthEarnings decimal.Decimal `json:"current_month_earnings"`
	CompletedJobs        int64           `json:"completed_jobs"`
}

// AssignmentOverview is one row of the technician's recent assignments
type AssignmentOverview struct {
	AssignmentID      uint            `json:"assignment_id"`
	RequestID         uint            `json:"request_id"`
	AssignmentDate    time.Time       `json:"assignment_date"`
	AssignmentStatus  string          `json:"assignment_status"`
	ServiceCost       decimal.Decimal `json:"service_cost"`
	ItemDescription   string          `json:"item_description"`
	CategoryName      string          `json:"category_name"`
	CustomerFirstName string          `json:"customer_first_name"`
	CustomerLastName  string          `json:"customer_last_name"`
}

// GetTechnicianRating computes the rating of a technician
func (s *Service) GetTechnicianRating(ctx context.Context, technicianID uint) (*TechnicianRating, error) {
	var rating *TechnicianRating
	err := s.run(ctx, "technician rating", func(db *gorm.DB) error {
		var technician models.Technician
		if err := findTechnician(db, technicianID, &technician); err != nil {
			return err
		}
		var err error
		rating, err = technicianRating(db, technicianID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func technicianRating(db *gorm.DB, technicianID uint) (*TechnicianRating, error) {
	var row struct {
		Average     sql.NullFloat64
		ReviewCount int64
	}
	err := db.Raw(`SELECT AVG(r.technician_rating) AS average, COUNT(r.review_id) AS review_count
		FROM reviews r
		JOIN service_assignments sa ON sa.assignment_id = r.assignment_id
		WHERE sa.technician_id = ?`, technicianID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	rating := &TechnicianRating{TechnicianID: technicianID, ReviewCount: row.ReviewCount}
	if row.Average.Valid {
		avg := roundTo(row.Average.Float64, 2)
		rating.Average = &avg
	}
	return rating, nil
}

// GetTechnicianEarnings sums completed payments for a technician's
// assignments with payment dates in [start, end], both days inclusive
func (s *Service) GetTechnicianEarnings(ctx context.Context, technicianID uint, start, end time.Time) (*TechnicianEarnings, error) {
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		return nil, validationError("INVALID_DATE_RANGE", "start date must not be after end date")
	}
	earnings := &TechnicianEarnings{
		TechnicianID: technicianID,
		StartDate:    start.Format(dateLayout),
		EndDate:      end.Format(dateLayout),
	}
	err := s.run(ctx, "technician earnings", func(db *gorm.DB) error {
		var technician models.Technician
		if err := findTechnician(db, technicianID, &technician); err != nil {
			return err
		}
		total, err := technicianEarnings(db, technicianID, start, end.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		earnings.Total = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return earnings, nil
}

// technicianEarnings sums completed payments with from <= payment_date < until
func technicianEarnings(db *gorm.DB, technicianID uint, from, until time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := db.Raw(`SELECT SUM(p.payment_amount) AS total
		FROM payments p
		JOIN service_assignments sa ON sa.assignment_id = p.assignment_id
		WHERE sa.technician_id = ?
		  AND p.payment_status = ?
		  AND p.payment_date >= ? AND p.payment_date < ?`,
		technicianID, models.PaymentStatusCompleted, from, until).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// GetTechnicianDashboard assembles identity, rating, earnings and recent
// assignments for one technician. An unknown technician is not an error.
func (s *Service) GetTechnicianDashboard(ctx context.Context, technicianID uint) (*TechnicianDashboard, error) {
	dashboard := &TechnicianDashboard{RecentAssignments: []AssignmentOverview{}}
	err := s.run(ctx, "technician dashboard", func(db *gorm.DB) error {
		var technician models.Technician
		err := db.Preload("User").Preload("Specializations").First(&technician, technicianID).Error
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		dashboard.Found = true

		rating, err := technicianRating(db, technicianID)
		if err != nil {
			return err
		}
		profile := &TechnicianProfile{
			TechnicianID:       technician.ID,
			ExperienceYears:    technician.ExperienceYears,
			AvailabilityStatus: technician.AvailabilityStatus,
			Specializations:    technician.SpecializationLabels(),
			Rating:             rating.Average,
			ReviewCount:        rating.ReviewCount,
		}
		if technician.User != nil {
			profile.FirstName = technician.User.FirstName
			profile.LastName = technician.User.LastName
			profile.Email = technician.User.Email
			profile.PhoneNumber = technician.User.PhoneNumber
		}
		dashboard.Technician = profile

		now := s.now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		earnings := &EarningsSummary{}
		if earnings.TotalEarnings, err = technicianEarnings(db, technicianID, time.Time{}, now.Add(time.Second)); err != nil {
			return err
		}
		if earnings.CurrentMonthEarnings, err = technicianEarnings(db, technicianID, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
			return err
		}
		if err := db.Model(&models.ServiceAssignment{}).
			Where("technician_id = ? AND assignment_status = ?", technicianID, models.AssignmentStatusCompleted).
			Count(&earnings.CompletedJobs).Error; err != nil {
			return err
		}
		dashboard.Earnings = earnings

		return db.Raw(`SELECT sa.assignment_id, sa.request_id, sa.assignment_date, sa.assignment_status, sa.service_cost,
				rr.item_description, sc.category_name,
				u.first_name AS customer_first_name, u.last_name AS customer_last_name
			FROM service_assignments sa
			JOIN repair_requests rr ON rr.request_id = sa.request_id
			JOIN service_categories sc ON sc.category_id = rr.category_id
			JOIN users u ON u.user_id = rr.customer_id
			WHERE sa.technician_id = ?
			ORDER BY sa.assignment_date DESC, sa.assignment_id DESC
			LIMIT ?`, technicianID, recentAssignmentLimit).
			Scan(&dashboard.RecentAssignments).Error
	})
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// LocationInput creates or replaces a location
type LocationInput struct {
	AreaName       string           `json:"area_name" validate:"required,notblank,max=100"`
	City           string           `json:"city" validate:"required,notblank,max=50"`
	State          string           `json:"state" validate:"required,notblank,max=50"`
	Pincode        string           `json:"pincode" validate:"required,numeric,min=4,max=10"`
	DeliveryCharge *decimal.Decimal `json:"delivery_charge"`
}

// UserInput registers a new user
type UserInput struct {
	FirstName   string `json:"first_name" validate:"required,notblank,max=50"`
	LastName    string `json:"last_name" validate:"required,notblank,max=50"`
	Email       string `json:"email" validate:"required,email,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
	Street      string `json:"street" validate:"max=200"`
	City        string `json:"city" validate:"max=50"`
	State       string `json:"state" validate:"max=50"`
	Pincode     string `json:"pincode" validate:"omitempty,numeric,max=10"`
	UserType    string `json:"user_type" validate:"required,oneof=customer technician"`
	LocationID  uint   `json:"location_id" validate:"required"`
}

// UserUpdateInput replaces a user's contact details; the user type never changes
type UserUpdateInput struct {
	FirstName   string `json:"first_name" validate:"required,notblank,max=50"`
	LastName    string `json:"last_name" validate:"required,notblank,max=50"`
	Email       string `json:"email" validate:"required,email,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,min=7,max=20"`
	Street      string `json:"street" validate:"max=200"`
	City        string `json:"city" validate:"max=50"`
	State       string `json:"state" validate:"max=50"`
	Pincode     string `json:"pincode" validate:"omitempty,numeric,max=10"`
	LocationID  uint   `json:"location_id" validate:"required"`
}

// TechnicianInput creates a technician profile for a technician-typed user
type TechnicianInput struct {
	UserID               uint     `json:"user_id" validate:"required"`
	ExperienceYears      int      `json:"experience_years" validate:"min=0,max=50"`
	CertificationDetails string   `json:"certification_details" validate:"max=2000"`
	AvailabilityStatus   string   `json:"availability_status" validate:"omitempty,oneof=available offline"`
	Specializations      []string `json:"specializations" validate:"required,min=1,dive,required,notblank,max=100"`
}

// TechnicianUpdateInput edits a technician; nil fields are left unchanged
type TechnicianUpdateInput struct {
	ExperienceYears      *int     `json:"experience_years" validate:"omitempty,min=0,max=50"`
	CertificationDetails *string  `json:"certification_details" validate:"omitempty,max=2000"`
	AvailabilityStatus   string   `json:"availability_status" validate:"omitempty,oneof=available offline"`
	Specializations      []string `json:"specializations" validate:"omitempty,min=1,dive,required,notblank,max=100"`
}

// CategoryInput creates or replaces a service category
type CategoryInput struct {
	CategoryName        string          `json:"category_name" validate:"required,notblank,max=100"`
	CategoryDescription string          `json:"category_description" validate:"max=2000"`
	BaseServiceCharge   decimal.Decimal `json:"base_service_charge"`
	EstimatedTimeHours  int             `json:"estimated_time_hours" validate:"min=1,max=1000"`
}

// RepairRequestInput opens a new repair request
type RepairRequestInput struct {
	CustomerID       uint   `json:"customer_id" validate:"required"`
	CategoryID       uint   `json:"category_id" validate:"required"`
	ItemDescription  string `json:"item_description" validate:"required,notblank"`
	IssueDescription string `json:"issue_description" validate:"required,notblank"`
	PriorityLevel    string `json:"priority_level" validate:"omitempty,oneof=low medium high urgent"`
	PreferredDate    string `json:"preferred_date" validate:"omitempty,datetime=2006-01-02"`
}

// RepairRequestUpdateInput edits a pending repair request; empty fields are left unchanged
type RepairRequestUpdateInput struct {
	CategoryID       uint   `json:"category_id"`
	ItemDescription  string `json:"item_description"`
	IssueDescription string `json:"issue_description"`
	PriorityLevel    string `json:"priority_level" validate:"omitempty,oneof=low medium high urgent"`
	PreferredDate    string `json:"preferred_date" validate:"omitempty,datetime=2006-01-02"`
}

// StatusInput requests a repair request status change
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending assigned in_progress completed cancelled"`
}

// AssignInput carries the AssignTechnicianToRequest parameters
type AssignInput struct {
	RequestID               uint            `json:"request_id" validate:"required"`
	TechnicianID            uint            `json:"technician_id" validate:"required"`
	ServiceCost             decimal.Decimal `json:"service_cost"`
	EstimatedCompletionDate string          `json:"estimated_completion_date" validate:"omitempty,datetime=2006-01-02"`
}

// CompleteInput carries the CompleteServiceAndPayment parameters
type CompleteInput struct {
	PaymentMethod        string `json:"payment_method" validate:"required,oneof=cash card upi wallet"`
	TransactionReference string `json:"transaction_reference" validate:"max=100"`
	// PaymentAmount is optional; when present it must equal the service cost
	PaymentAmount *decimal.Decimal `json:"payment_amount"`
}

// PaymentInput records a payment outside the completion workflow
type PaymentInput struct {
	AssignmentID         uint            `json:"assignment_id" validate:"required"`
	PaymentAmount        decimal.Decimal `json:"payment_amount"`
	PaymentMethod        string          `json:"payment_method" validate:"required,oneof=cash card upi wallet"`
	PaymentStatus        string          `json:"payment_status" validate:"omitempty,oneof=pending completed failed refunded"`
	TransactionReference string          `json:"transaction_reference" validate:"max=100"`
}

// ReviewInput records a review of a completed assignment
type ReviewInput struct {
	AssignmentID     uint   `json:"assignment_id" validate:"required"`
	CustomerRating   int    `json:"customer_rating" validate:"required,min=1,max=5"`
	TechnicianRating int    `json:"technician_rating" validate:"required,min=1,max=5"`
	ReviewText       string `json:"review_text" validate:"max=2000"`
}

// parseDate converts an optional YYYY-MM-DD string; validation has already checked the layout
func parseDate(field, value string) (*datatypes.Date, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, validationError("VALIDATION_ERROR", "%s must be a date in %s format", field, dateLayout)
	}
	d := datatypes.Date(t)
	return &d, nil
}

func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return validationError("VALIDATION_ERROR", "%s must be greater than 0", field)
	}
	return nil
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return validationError("VALIDATION_ERROR", "%s must not be negative", field)
	}
	return nil
}

// requireMoneyScale rejects amounts with more than two fractional digits
func requireMoneyScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(2)) {
		return validationError("VALIDATION_ERROR", "%s must have at most 2 decimal places", field)
	}
	if v.GreaterThanOrEqual(decimal.New(1, 8)) {
		return validationError("VALIDATION_ERROR", "%s must be less than 100000000", field)
	}
	return nil
}

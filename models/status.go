package models

// User types
const (
	UserTypeCustomer   = "customer"
	UserTypeTechnician = "technician"
)

// Technician availability
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
	AvailabilityOffline   = "offline"
)

// Repair request priority
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Repair request status
const (
	RequestStatusPending    = "pending"
	RequestStatusAssigned   = "assigned"
	RequestStatusInProgress = "in_progress"
	RequestStatusCompleted  = "completed"
	RequestStatusCancelled  = "cancelled"
)

// Service assignment status
const (
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
	AssignmentStatusCancelled  = "cancelled"
)

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodUPI    = "upi"
	PaymentMethodWallet = "wallet"
)

// Payment status
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// ActiveAssignmentStatuses are the assignment states that keep a technician busy
var ActiveAssignmentStatuses = []string{AssignmentStatusAssigned, AssignmentStatusInProgress}

// requestTransitions lists every legal repair request status change
var requestTransitions = map[string][]string{
	RequestStatusPending:    {RequestStatusAssigned, RequestStatusCancelled},
	RequestStatusAssigned:   {RequestStatusInProgress, RequestStatusCompleted, RequestStatusCancelled},
	RequestStatusInProgress: {RequestStatusCompleted},
}

// CanTransitionRequest reports whether a repair request may move from one status to another
func CanTransitionRequest(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActiveAssignmentStatus returns true for assignment states that hold a technician
func IsActiveAssignmentStatus(status string) bool {
	for _, s := range ActiveAssignmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

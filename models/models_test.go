package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"location", Location{}, "locations"},
		{"user", User{}, "users"},
		{"technician", Technician{}, "technicians"},
		{"specialization", TechnicianSpecialization{}, "technician_specializations"},
		{"category", ServiceCategory{}, "service_categories"},
		{"repair request", RepairRequest{}, "repair_requests"},
		{"assignment", ServiceAssignment{}, "service_assignments"},
		{"payment", Payment{}, "payments"},
		{"review", Review{}, "reviews"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Asha Rao", User{FirstName: "Asha", LastName: "Rao"}.FullName())
	assert.Equal(t, "Asha", User{FirstName: "Asha"}.FullName())
}

func TestSpecializationLabels(t *testing.T) {
	tech := Technician{Specializations: []TechnicianSpecialization{
		{Specialization: "Laptop Repair"},
		{Specialization: "Smartphone Repair"},
	}}
	assert.Equal(t, []string{"Laptop Repair", "Smartphone Repair"}, tech.SpecializationLabels())
	assert.Empty(t, Technician{}.SpecializationLabels())
}

func TestCanTransitionRequest(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{RequestStatusPending, RequestStatusAssigned, true},
		{RequestStatusPending, RequestStatusCancelled, true},
		{RequestStatusPending, RequestStatusCompleted, false},
		{RequestStatusPending, RequestStatusInProgress, false},
		{RequestStatusAssigned, RequestStatusInProgress, true},
		{RequestStatusAssigned, RequestStatusCompleted, true},
		{RequestStatusAssigned, RequestStatusCancelled, true},
		{RequestStatusAssigned, RequestStatusPending, false},
		{RequestStatusInProgress, RequestStatusCompleted, true},
		{RequestStatusInProgress, RequestStatusCancelled, false},
		{RequestStatusCompleted, RequestStatusPending, false},
		{RequestStatusCancelled, RequestStatusPending, false},
		{"unknown", RequestStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionRequest(tt.from, tt.to))
		})
	}
}

func TestIsActiveAssignmentStatus(t *testing.T) {
	assert.True(t, IsActiveAssignmentStatus(AssignmentStatusAssigned))
	assert.True(t, IsActiveAssignmentStatus(AssignmentStatusInProgress))
	assert.False(t, IsActiveAssignmentStatus(AssignmentStatusCompleted))
	assert.False(t, IsActiveAssignmentStatus(AssignmentStatusCancelled))
}

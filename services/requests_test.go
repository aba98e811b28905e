package services

import (
	"context"
	"testing"
	"time"

	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	request, err := s.CreateRequest(ctx, RepairRequestInput{
		CustomerID:       data.customer.ID,
		CategoryID:       data.category.ID,
		ItemDescription:  "  Samsung S21  ",
		IssueDescription: "Charging port loose",
		PriorityLevel:    models.PriorityUrgent,
		PreferredDate:    "2026-03-20",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, "Samsung S21", request.ItemDescription)
	assert.Equal(t, models.PriorityUrgent, request.PriorityLevel)
	assert.Equal(t, fixedNow, request.RequestDate)
	require.NotNil(t, request.PreferredDate)
	assert.Equal(t, "2026-03-20", time.Time(*request.PreferredDate).Format(dateLayout))
	require.NotNil(t, request.Customer)
	assert.Equal(t, data.customer.Email, request.Customer.Email)

	// The seeded request got the default priority
	assert.Equal(t, models.PriorityMedium, data.request.PriorityLevel)
}

func TestCreateRequestErrors(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)

	tests := []struct {
		name string
		in   RepairRequestInput
		kind ErrorKind
		code string
	}{
		{"technician as customer", RepairRequestInput{CustomerID: data.techUser.ID, CategoryID: data.category.ID, ItemDescription: "x", IssueDescription: "y"}, KindValidation, "USER_NOT_CUSTOMER"},
		{"unknown customer", RepairRequestInput{CustomerID: 999, CategoryID: data.category.ID, ItemDescription: "x", IssueDescription: "y"}, KindNotFound, "USER_NOT_FOUND"},
		{"unknown category", RepairRequestInput{CustomerID: data.customer.ID, CategoryID: 999, ItemDescription: "x", IssueDescription: "y"}, KindNotFound, "CATEGORY_NOT_FOUND"},
		{"blank item", RepairRequestInput{CustomerID: data.customer.ID, CategoryID: data.category.ID, ItemDescription: "   ", IssueDescription: "y"}, KindValidation, "VALIDATION_ERROR"},
		{"bad priority", RepairRequestInput{CustomerID: data.customer.ID, CategoryID: data.category.ID, ItemDescription: "x", IssueDescription: "y", PriorityLevel: "asap"}, KindValidation, "VALIDATION_ERROR"},
		{"bad date", RepairRequestInput{CustomerID: data.customer.ID, CategoryID: data.category.ID, ItemDescription: "x", IssueDescription: "y", PreferredDate: "tomorrow"}, KindValidation, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateRequest(context.Background(), tt.in)
			requireKind(t, err, tt.kind, tt.code)
		})
	}
}

func TestUpdateRequest(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	updated, err := s.UpdateRequest(ctx, data.request.ID, RepairRequestUpdateInput{
		IssueDescription: "Battery swollen",
		PriorityLevel:    models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, "Battery swollen", updated.IssueDescription)
	assert.Equal(t, "iPhone 13", updated.ItemDescription)
	assert.Equal(t, models.PriorityHigh, updated.PriorityLevel)

	_, err = s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(500)})
	require.NoError(t, err)

	_, err = s.UpdateRequest(ctx, data.request.ID, RepairRequestUpdateInput{IssueDescription: "changed"})
	requireKind(t, err, KindPrecondition, "REQUEST_NOT_EDITABLE")

	_, err = s.UpdateRequest(ctx, 999, RepairRequestUpdateInput{IssueDescription: "changed"})
	requireKind(t, err, KindNotFound, "REQUEST_NOT_FOUND")
}

func TestDeleteRequest(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	spare := seedRequest(t, s, data.customer.ID, data.category.ID)
	require.NoError(t, s.DeleteRequest(ctx, spare.ID))
	_, err := s.GetRequest(ctx, spare.ID)
	requireKind(t, err, KindNotFound, "REQUEST_NOT_FOUND")

	_, err = s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(500)})
	require.NoError(t, err)
	err = s.DeleteRequest(ctx, data.request.ID)
	requireKind(t, err, KindPrecondition, "REQUEST_IN_USE")
}

func TestListRequests(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()
	seedRequest(t, s, data.customer.ID, data.category.ID)

	all, err := s.ListRequests(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(500)})
	require.NoError(t, err)

	assignable, err := s.AssignableRequests(ctx)
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.NotEqual(t, data.request.ID, assignable[0].ID)

	assigned, err := s.ListRequests(ctx, models.RequestStatusAssigned)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, data.request.ID, assigned[0].ID)

	_, err = s.ListRequests(ctx, "open")
	requireKind(t, err, KindValidation, "VALIDATION_ERROR")
}

func TestTransitionRequest(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	_, err := s.TransitionRequest(ctx, data.request.ID, StatusInput{Status: models.RequestStatusAssigned})
	requireKind(t, err, KindPrecondition, "INVALID_STATUS_TRANSITION")

	_, err = s.TransitionRequest(ctx, data.request.ID, StatusInput{Status: models.RequestStatusCompleted})
	requireKind(t, err, KindPrecondition, "INVALID_STATUS_TRANSITION")

	_, err = s.TransitionRequest(ctx, data.request.ID, StatusInput{Status: "closed"})
	requireKind(t, err, KindValidation, "VALIDATION_ERROR")

	assignment, err := s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(500)})
	require.NoError(t, err)

	request, err := s.TransitionRequest(ctx, data.request.ID, StatusInput{Status: models.RequestStatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, request.Status)

	started, err := s.GetAssignment(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusInProgress, started.AssignmentStatus)

	_, err = s.TransitionRequest(ctx, data.request.ID, StatusInput{Status: models.RequestStatusCancelled})
	requireKind(t, err, KindPrecondition, "INVALID_STATUS_TRANSITION")
}

func TestCancelPendingRequest(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	request, err := s.TransitionRequest(ctx, data.request.ID, StatusInput{Status: models.RequestStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, request.Status)

	_, err = s.CancelRequest(ctx, data.request.ID)
	requireKind(t, err, KindPrecondition, "INVALID_STATUS_TRANSITION")
}

func TestCancelAssignedRequestReleasesTechnician(t *testing.T) {
	s, db := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	assignment, err := s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(500)})
	require.NoError(t, err)

	request, err := s.CancelRequest(ctx, data.request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, request.Status)

	var stored models.ServiceAssignment
	require.NoError(t, db.First(&stored, assignment.ID).Error)
	assert.Equal(t, models.AssignmentStatusCancelled, stored.AssignmentStatus)

	var technician models.Technician
	require.NoError(t, db.First(&technician, data.technician.ID).Error)
	assert.Equal(t, models.AvailabilityAvailable, technician.AvailabilityStatus)
}

package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignTechnicianToRequest(t *testing.T) {
	s, db := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	assignment, err := s.AssignTechnicianToRequest(ctx, AssignInput{
		RequestID:               data.request.ID,
		TechnicianID:            data.technician.ID,
		ServiceCost:             decimal.RequireFromString("1500.00"),
		EstimatedCompletionDate: "2026-03-18",
	})
	require.NoError(t, err)

	assert.NotZero(t, assignment.ID)
	assert.Equal(t, models.AssignmentStatusAssigned, assignment.AssignmentStatus)
	assert.True(t, assignment.ServiceCost.Equal(decimal.RequireFromString("1500")))
	require.NotNil(t, assignment.EstimatedCompletionDate)
	assert.Equal(t, "2026-03-18", time.Time(*assignment.EstimatedCompletionDate).Format(dateLayout))
	assert.Equal(t, fixedNow, assignment.AssignmentDate)

	var request models.RepairRequest
	require.NoError(t, db.First(&request, data.request.ID).Error)
	assert.Equal(t, models.RequestStatusAssigned, request.Status)

	var technician models.Technician
	require.NoError(t, db.First(&technician, data.technician.ID).Error)
	assert.Equal(t, models.AvailabilityBusy, technician.AvailabilityStatus)

	loaded, err := s.GetAssignment(ctx, assignment.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Request)
	require.NotNil(t, loaded.Technician)
	assert.Equal(t, data.customer.ID, loaded.Request.CustomerID)

	byRequest, err := s.GetAssignmentByRequest(ctx, data.request.ID)
	require.NoError(t, err)
	assert.Equal(t, assignment.ID, byRequest.ID)
}

func TestAssignDefaultsEstimatedDateToToday(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)

	assignment, err := s.AssignTechnicianToRequest(context.Background(), AssignInput{
		RequestID:    data.request.ID,
		TechnicianID: data.technician.ID,
		ServiceCost:  decimal.RequireFromString("800"),
	})
	require.NoError(t, err)
	require.NotNil(t, assignment.EstimatedCompletionDate)
	assert.Equal(t, "2026-03-15", time.Time(*assignment.EstimatedCompletionDate).Format(dateLayout))
}

func TestAssignValidation(t *testing.T) {
	s, db := newTestService(t, Options{})
	data := seedTestData(t, s)

	tests := []struct {
		name string
		in   AssignInput
		code string
	}{
		{"zero cost", AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.Zero}, "VALIDATION_ERROR"},
		{"negative cost", AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(-5)}, "VALIDATION_ERROR"},
		{"three decimals", AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.RequireFromString("10.005")}, "VALIDATION_ERROR"},
		{"missing request", AssignInput{TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(10)}, "VALIDATION_ERROR"},
		{"bad date", AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(10), EstimatedCompletionDate: "18/03/2026"}, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AssignTechnicianToRequest(context.Background(), tt.in)
			requireKind(t, err, KindValidation, tt.code)
		})
	}

	var count int64
	db.Model(&models.ServiceAssignment{}).Count(&count)
	assert.Zero(t, count)
}

func TestAssignRejectsUnknownEntities(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	_, err := s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: 999, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(100)})
	requireKind(t, err, KindNotFound, "REQUEST_NOT_FOUND")

	_, err = s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: 999, ServiceCost: decimal.NewFromInt(100)})
	requireKind(t, err, KindNotFound, "TECHNICIAN_NOT_FOUND")

	// The failed technician claim rolled the request back to pending
	request, err := s.GetRequest(ctx, data.request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
}

func TestAssignTwiceIsRejected(t *testing.T) {
	s, db := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	otherUser := seedUser(t, s, data.location.ID, models.UserTypeTechnician, "neha@example.com")
	other := seedTechnician(t, s, otherUser.ID)

	_, err := s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(900)})
	require.NoError(t, err)

	_, err = s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: other.ID, ServiceCost: decimal.NewFromInt(900)})
	requireKind(t, err, KindPrecondition, "REQUEST_ALREADY_ASSIGNED")

	var count int64
	db.Model(&models.ServiceAssignment{}).Where("request_id = ?", data.request.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// The second technician was not left busy
	var technician models.Technician
	require.NoError(t, db.First(&technician, other.ID).Error)
	assert.Equal(t, models.AvailabilityAvailable, technician.AvailabilityStatus)
}

func TestAssignBusyTechnician(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()
	second := seedRequest(t, s, data.customer.ID, data.category.ID)

	_, err := s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(900)})
	require.NoError(t, err)

	_, err = s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: second.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(900)})
	requireKind(t, err, KindPrecondition, "TECHNICIAN_NOT_AVAILABLE")

	request, err := s.GetRequest(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
}

func TestAssignCancelledRequest(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	_, err := s.CancelRequest(ctx, data.request.ID)
	require.NoError(t, err)

	_, err = s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(900)})
	requireKind(t, err, KindPrecondition, "REQUEST_NOT_PENDING")
}

func TestConcurrentAssignmentsProduceOneRow(t *testing.T) {
	s, db := newTestService(t, Options{})
	data := seedTestData(t, s)

	technicians := []uint{data.technician.ID}
	for _, email := range []string{"t2@example.com", "t3@example.com", "t4@example.com"} {
		u := seedUser(t, s, data.location.ID, models.UserTypeTechnician, email)
		technicians = append(technicians, seedTechnician(t, s, u.ID).ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, technicianID := range technicians {
		wg.Add(1)
		go func(technicianID uint) {
			defer wg.Done()
			_, err := s.AssignTechnicianToRequest(context.Background(), AssignInput{
				RequestID:    data.request.ID,
				TechnicianID: technicianID,
				ServiceCost:  decimal.NewFromInt(1000),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				assert.Equal(t, KindPrecondition, KindOf(err), "unexpected error: %v", err)
			}
		}(technicianID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	var count int64
	db.Model(&models.ServiceAssignment{}).Where("request_id = ?", data.request.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var busy int64
	db.Model(&models.Technician{}).Where("availability_status = ?", models.AvailabilityBusy).Count(&busy)
	assert.Equal(t, int64(1), busy, "only the winning technician is busy")
}

func TestStartService(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	assignment, err := s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(700)})
	require.NoError(t, err)

	started, err := s.StartService(ctx, assignment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusInProgress, started.AssignmentStatus)
	require.NotNil(t, started.Request)
	assert.Equal(t, models.RequestStatusInProgress, started.Request.Status)

	_, err = s.StartService(ctx, assignment.ID)
	requireKind(t, err, KindPrecondition, "ASSIGNMENT_NOT_STARTABLE")

	_, err = s.StartService(ctx, 999)
	requireKind(t, err, KindNotFound, "ASSIGNMENT_NOT_FOUND")
}

func TestListAssignments(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()
	seedCompletedJob(t, s, data, "650.00")

	all, err := s.ListAssignments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	active, err := s.ListAssignments(ctx, models.AssignmentStatusAssigned)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = s.ListAssignments(ctx, "done")
	requireKind(t, err, KindValidation, "VALIDATION_ERROR")

	awaitingPayment, err := s.AssignmentsAwaitingPayment(ctx)
	require.NoError(t, err)
	assert.Empty(t, awaitingPayment)

	awaitingReview, err := s.AssignmentsAwaitingReview(ctx)
	require.NoError(t, err)
	assert.Len(t, awaitingReview, 1)
}

func TestAssignmentsAwaitingPayment(t *testing.T) {
	s, _ := newTestService(t, Options{})
	data := seedTestData(t, s)
	ctx := context.Background()

	_, err := s.AssignTechnicianToRequest(ctx, AssignInput{RequestID: data.request.ID, TechnicianID: data.technician.ID, ServiceCost: decimal.NewFromInt(700)})
	require.NoError(t, err)

	awaiting, err := s.AssignmentsAwaitingPayment(ctx)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, data.request.ID, awaiting[0].RequestID)
}

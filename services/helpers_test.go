package services

import (
	"context"
	"testing"
	"time"

	"github.com/kendall-kelly/repair-service-api/config"
	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{GoEnv: "test", DatabaseDriver: "sqlite", DatabaseURL: ":memory:"}
	db, err := config.ConnectDatabase(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// newTestService returns a Service on a fresh database with a fixed clock
func newTestService(t *testing.T, opts Options) (*Service, *gorm.DB) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	db := setupServiceTestDB(t)
	return NewService(db, zap.NewNop(), opts), db
}

type testData struct {
	location   *models.Location
	customer   *models.User
	techUser   *models.User
	technician *models.Technician
	category   *models.ServiceCategory
	request    *models.RepairRequest
}

func seedTestData(t *testing.T, s *Service) *testData {
	t.Helper()
	ctx := context.Background()

	location, err := s.CreateLocation(ctx, LocationInput{
		AreaName: "Andheri West", City: "Mumbai", State: "Maharashtra", Pincode: "400053",
	})
	require.NoError(t, err)

	customer := seedUser(t, s, location.ID, models.UserTypeCustomer, "priya@example.com")
	techUser := seedUser(t, s, location.ID, models.UserTypeTechnician, "arjun@example.com")
	technician := seedTechnician(t, s, techUser.ID)

	category, err := s.CreateCategory(ctx, CategoryInput{
		CategoryName:       "Smartphone Repair",
		BaseServiceCharge:  decimal.RequireFromString("500.00"),
		EstimatedTimeHours: 2,
	})
	require.NoError(t, err)

	return &testData{
		location:   location,
		customer:   customer,
		techUser:   techUser,
		technician: technician,
		category:   category,
		request:    seedRequest(t, s, customer.ID, category.ID),
	}
}

func seedUser(t *testing.T, s *Service, locationID uint, userType, email string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), UserInput{
		FirstName:   "Test",
		LastName:    "User",
		Email:       email,
		PhoneNumber: "9820012345",
		UserType:    userType,
		LocationID:  locationID,
	})
	require.NoError(t, err)
	return user
}

func seedTechnician(t *testing.T, s *Service, userID uint) *models.Technician {
	t.Helper()
	technician, err := s.CreateTechnician(context.Background(), TechnicianInput{
		UserID:          userID,
		ExperienceYears: 4,
		Specializations: []string{"Smartphone Repair"},
	})
	require.NoError(t, err)
	return technician
}

func seedRequest(t *testing.T, s *Service, customerID, categoryID uint) *models.RepairRequest {
	t.Helper()
	request, err := s.CreateRequest(context.Background(), RepairRequestInput{
		CustomerID:       customerID,
		CategoryID:       categoryID,
		ItemDescription:  "iPhone 13",
		IssueDescription: "Battery drains within hours",
	})
	require.NoError(t, err)
	return request
}

// seedCompletedJob assigns, completes and pays for the seeded request
func seedCompletedJob(t *testing.T, s *Service, data *testData, cost string) (*models.ServiceAssignment, *models.Payment) {
	t.Helper()
	ctx := context.Background()
	assignment, err := s.AssignTechnicianToRequest(ctx, AssignInput{
		RequestID:    data.request.ID,
		TechnicianID: data.technician.ID,
		ServiceCost:  decimal.RequireFromString(cost),
	})
	require.NoError(t, err)
	payment, err := s.CompleteServiceAndPayment(ctx, assignment.ID, CompleteInput{PaymentMethod: models.PaymentMethodCash})
	require.NoError(t, err)
	return assignment, payment
}

// requireKind asserts a service error of the given kind and code
func requireKind(t *testing.T, err error, kind ErrorKind, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected kind for %v", err)
	require.Equal(t, code, CodeOf(err), "unexpected code for %v", err)
}

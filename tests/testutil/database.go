package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/kendall-kelly/repair-service-api/config"
	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/kendall-kelly/repair-service-api/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory SQLite database that lives for the
// duration of the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{GoEnv: "test", DatabaseDriver: "sqlite", DatabaseURL: ":memory:"}
	db, err := config.ConnectDatabase(cfg, zap.NewNop())
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, config.Migrate(db), "Failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewTestService wires a Service to a fresh test database
func NewTestService(t *testing.T, opts services.Options) (*services.Service, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return services.NewService(db, zap.NewNop(), opts), db
}

// Fixture is a minimal dataset: one location, one customer, one available
// technician, one category and one pending request
type Fixture struct {
	Location       *models.Location
	Customer       *models.User
	TechnicianUser *models.User
	Technician     *models.Technician
	Category       *models.ServiceCategory
	Request        *models.RepairRequest
}

// SeedFixture creates a Fixture through the service layer
func SeedFixture(t *testing.T, svc *services.Service) *Fixture {
	t.Helper()
	ctx := context.Background()

	location, err := svc.CreateLocation(ctx, services.LocationInput{
		AreaName: "Koramangala",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560034",
	})
	require.NoError(t, err)

	customer := SeedUser(t, svc, location.ID, models.UserTypeCustomer, "customer@example.com")
	techUser := SeedUser(t, svc, location.ID, models.UserTypeTechnician, "technician@example.com")
	technician := SeedTechnician(t, svc, techUser.ID, "Laptop Repair")

	category, err := svc.CreateCategory(ctx, services.CategoryInput{
		CategoryName:        "Laptop Repair",
		CategoryDescription: "Hardware and software fixes for laptops",
		BaseServiceCharge:   decimal.RequireFromString("800.00"),
		EstimatedTimeHours:  4,
	})
	require.NoError(t, err)

	request := SeedRequest(t, svc, customer.ID, category.ID)

	return &Fixture{
		Location:       location,
		Customer:       customer,
		TechnicianUser: techUser,
		Technician:     technician,
		Category:       category,
		Request:        request,
	}
}

// SeedUser registers a user of the given type
func SeedUser(t *testing.T, svc *services.Service, locationID uint, userType, email string) *models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), services.UserInput{
		FirstName:   "Test",
		LastName:    fmt.Sprintf("User %s", userType),
		Email:       email,
		PhoneNumber: "9876543210",
		Street:      "12 MG Road",
		UserType:    userType,
		LocationID:  locationID,
	})
	require.NoError(t, err)
	return user
}

// SeedTechnician creates an available technician profile for a technician-typed user
func SeedTechnician(t *testing.T, svc *services.Service, userID uint, specializations ...string) *models.Technician {
	t.Helper()
	technician, err := svc.CreateTechnician(context.Background(), services.TechnicianInput{
		UserID:          userID,
		ExperienceYears: 5,
		Specializations: specializations,
	})
	require.NoError(t, err)
	return technician
}

// SeedRequest opens a pending repair request
func SeedRequest(t *testing.T, svc *services.Service, customerID, categoryID uint) *models.RepairRequest {
	t.Helper()
	request, err := svc.CreateRequest(context.Background(), services.RepairRequestInput{
		CustomerID:       customerID,
		CategoryID:       categoryID,
		ItemDescription:  "Dell XPS 13",
		IssueDescription: "Screen flickers after waking from sleep",
		PriorityLevel:    models.PriorityHigh,
	})
	require.NoError(t, err)
	return request
}

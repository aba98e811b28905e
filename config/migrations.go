package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kendall-kelly/repair-service-api/models"
	"gorm.io/gorm"
)

// reportingViews maps each read-only view to its definition.
// Definitions stick to SQL that PostgreSQL and SQLite both accept.
var reportingViews = []struct {
	Name string
	SQL  string
}{
	{
		Name: "technician_rating_view",
		SQL: `SELECT t.technician_id, u.first_name, u.last_name,
       AVG(r.technician_rating) AS rating_average,
       COUNT(r.review_id) AS review_count,
       COUNT(DISTINCT CASE WHEN sa.assignment_status = 'completed' THEN sa.assignment_id END) AS completed_jobs
FROM technicians t
JOIN users u ON u.user_id = t.user_id
LEFT JOIN service_assignments sa ON sa.technician_id = t.technician_id
LEFT JOIN reviews r ON r.assignment_id = sa.assignment_id
GROUP BY t.technician_id, u.first_name, u.last_name`,
	},
	{
		Name: "popular_categories_view",
		SQL: `SELECT sc.category_id, sc.category_name,
       COUNT(DISTINCT rr.request_id) AS total_requests,
       AVG(r.customer_rating) AS average_rating
FROM service_categories sc
LEFT JOIN repair_requests rr ON rr.category_id = sc.category_id
LEFT JOIN service_assignments sa ON sa.request_id = rr.request_id
LEFT JOIN reviews r ON r.assignment_id = sa.assignment_id
GROUP BY sc.category_id, sc.category_name`,
	},
	{
		Name: "customer_service_history",
		SQL: `SELECT u.user_id, u.first_name, u.last_name, u.email,
       COUNT(DISTINCT rr.request_id) AS total_requests,
       COUNT(DISTINCT CASE WHEN rr.status = 'completed' THEN rr.request_id END) AS completed_requests,
       COALESCE(SUM(CASE WHEN p.payment_status = 'completed' THEN p.payment_amount END), 0) AS total_spent
FROM users u
LEFT JOIN repair_requests rr ON rr.customer_id = u.user_id
LEFT JOIN service_assignments sa ON sa.request_id = rr.request_id
LEFT JOIN payments p ON p.assignment_id = sa.assignment_id
WHERE u.user_type = 'customer'
GROUP BY u.user_id, u.first_name, u.last_name, u.email`,
	},
	{
		Name: "technician_earnings_view",
		SQL: `SELECT t.technician_id, u.first_name, u.last_name,
       COUNT(sa.assignment_id) AS total_jobs,
       COUNT(CASE WHEN sa.assignment_status = 'completed' THEN 1 END) AS completed_jobs,
       COALESCE(SUM(CASE WHEN p.payment_status = 'completed' THEN p.payment_amount END), 0) AS total_earnings
FROM technicians t
JOIN users u ON u.user_id = t.user_id
LEFT JOIN service_assignments sa ON sa.technician_id = t.technician_id
LEFT JOIN payments p ON p.assignment_id = sa.assignment_id
GROUP BY t.technician_id, u.first_name, u.last_name`,
	},
	{
		Name: "pending_requests_by_location",
		SQL: `SELECT l.location_id, l.area_name, l.city, l.state,
       COUNT(rr.request_id) AS pending_requests
FROM locations l
JOIN users u ON u.location_id = l.location_id
JOIN repair_requests rr ON rr.customer_id = u.user_id AND rr.status = 'pending'
GROUP BY l.location_id, l.area_name, l.city, l.state`,
	},
}

// ReportingViewNames returns the names of the read-only views created by Migrate
func ReportingViewNames() []string {
	names := make([]string, 0, len(reportingViews))
	for _, v := range reportingViews {
		names = append(names, v.Name)
	}
	return names
}

// Migrate brings the schema up to date
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20261001_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Location{}, &models.User{}, &models.Technician{},
					&models.TechnicianSpecialization{}, &models.ServiceCategory{}, &models.RepairRequest{},
					&models.ServiceAssignment{}, &models.Payment{}, &models.Review{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Review{}, &models.Payment{}, &models.ServiceAssignment{},
					&models.RepairRequest{}, &models.ServiceCategory{}, &models.TechnicianSpecialization{},
					&models.Technician{}, &models.User{}, &models.Location{})
			},
		},
		{
			ID:       "20261002_create_reporting_views",
			Migrate:  createReportingViews,
			Rollback: dropReportingViews,
		},
	})
	return m.Migrate()
}

func createReportingViews(tx *gorm.DB) error {
	for _, v := range reportingViews {
		if err := tx.Exec("DROP VIEW IF EXISTS " + v.Name).Error; err != nil {
			return err
		}
		if err := tx.Exec("CREATE VIEW " + v.Name + " AS " + v.SQL).Error; err != nil {
			return err
		}
	}
	return nil
}

func dropReportingViews(tx *gorm.DB) error {
	for _, v := range reportingViews {
		if err := tx.Exec("DROP VIEW IF EXISTS " + v.Name).Error; err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"fmt"
	"time"
)

// Column data types used by reports and exporters
const (
	ColumnText     = "text"
	ColumnNumber   = "number"
	ColumnCurrency = "currency"
	ColumnRating   = "rating"
	ColumnDate     = "date"
	ColumnDateTime = "datetime"
)

// Report kinds
const (
	ReportKindView      = "view"
	ReportKindReport    = "report"
	ReportKindAnalytics = "analytics"
)

// ReportColumn describes one output column of a report
type ReportColumn struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	DataType string `json:"data_type"`
}

type reportDefinition struct {
	Name        string
	Title       string
	Description string
	Kind        string
	Columns     []ReportColumn
	// Query returns the SQL for the given gorm dialector name
	Query func(dialect string) string
	// Derive fills computed columns from the raw row before normalization
	Derive func(row map[string]interface{})
}

func col(key, label, dataType string) ReportColumn {
	return ReportColumn{Key: key, Label: label, DataType: dataType}
}

func staticQuery(sql string) func(string) string {
	return func(string) string { return sql }
}

// monthExpr formats a timestamp column as YYYY-MM in the given dialect
func monthExpr(dialect, column string) string {
	if dialect == "postgres" {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
	}
	return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
}

var reportDefinitions = []reportDefinition{
	{
		Name:        "technician_rating_view",
		Title:       "Technician Ratings",
		Description: "Average technician rating, review count and completed jobs per technician",
		Kind:        ReportKindView,
		Columns: []ReportColumn{
			col("technician_id", "Technician ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("rating_average", "Average Rating", ColumnRating),
			col("review_count", "Reviews", ColumnNumber),
			col("completed_jobs", "Completed Jobs", ColumnNumber),
		},
		Query: staticQuery(`SELECT technician_id, first_name, last_name, rating_average, review_count, completed_jobs
FROM technician_rating_view
ORDER BY CASE WHEN rating_average IS NULL THEN 1 ELSE 0 END, rating_average DESC, technician_id`),
	},
	{
		Name:        "popular_categories_view",
		Title:       "Popular Categories",
		Description: "Request volume and average customer rating per service category",
		Kind:        ReportKindView,
		Columns: []ReportColumn{
			col("category_id", "Category ID", ColumnNumber),
			col("category_name", "Category", ColumnText),
			col("total_requests", "Requests", ColumnNumber),
			col("average_rating", "Average Rating", ColumnRating),
		},
		Query: staticQuery(`SELECT category_id, category_name, total_requests, average_rating
FROM popular_categories_view
ORDER BY total_requests DESC, category_name`),
	},
	{
		Name:        "customer_service_history",
		Title:       "Customer Service History",
		Description: "Requests and completed spend per customer",
		Kind:        ReportKindView,
		Columns: []ReportColumn{
			col("user_id", "Customer ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("email", "Email", ColumnText),
			col("total_requests", "Requests", ColumnNumber),
			col("completed_requests", "Completed", ColumnNumber),
			col("total_spent", "Total Spent", ColumnCurrency),
		},
		Query: staticQuery(`SELECT user_id, first_name, last_name, email, total_requests, completed_requests, total_spent
FROM customer_service_history
ORDER BY total_spent DESC, user_id`),
	},
	{
		Name:        "technician_earnings_view",
		Title:       "Technician Earnings",
		Description: "Jobs and completed earnings per technician",
		Kind:        ReportKindView,
		Columns: []ReportColumn{
			col("technician_id", "Technician ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("total_jobs", "Total Jobs", ColumnNumber),
			col("completed_jobs", "Completed Jobs", ColumnNumber),
			col("total_earnings", "Total Earnings", ColumnCurrency),
		},
		Query: staticQuery(`SELECT technician_id, first_name, last_name, total_jobs, completed_jobs, total_earnings
FROM technician_earnings_view
ORDER BY total_earnings DESC, technician_id`),
	},
	{
		Name:        "pending_requests_by_location",
		Title:       "Pending Requests by Location",
		Description: "Pending repair requests per customer location",
		Kind:        ReportKindView,
		Columns: []ReportColumn{
			col("location_id", "Location ID", ColumnNumber),
			col("area_name", "Area", ColumnText),
			col("city", "City", ColumnText),
			col("state", "State", ColumnText),
			col("pending_requests", "Pending Requests", ColumnNumber),
		},
		Query: staticQuery(`SELECT location_id, area_name, city, state, pending_requests
FROM pending_requests_by_location
ORDER BY pending_requests DESC, location_id`),
	},
	{
		Name:        "service_completion",
		Title:       "Service Completion",
		Description: "Every request with its completion date and days taken to complete",
		Kind:        ReportKindReport,
		Columns: []ReportColumn{
			col("request_id", "Request ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("category_name", "Category", ColumnText),
			col("status", "Status", ColumnText),
			col("request_date", "Request Date", ColumnDateTime),
			col("actual_completion_date", "Completed On", ColumnDateTime),
			col("days_to_complete", "Days to Complete", ColumnNumber),
		},
		Query: staticQuery(`SELECT rr.request_id, u.first_name, u.last_name, sc.category_name, rr.status,
       rr.request_date, sa.actual_completion_date
FROM repair_requests rr
JOIN users u ON u.user_id = rr.customer_id
JOIN service_categories sc ON sc.category_id = rr.category_id
LEFT JOIN service_assignments sa ON sa.request_id = rr.request_id
ORDER BY rr.request_date DESC, rr.request_id DESC`),
		Derive: func(row map[string]interface{}) {
			requested, ok1 := toTime(row["request_date"])
			completed, ok2 := toTime(row["actual_completion_date"])
			if !ok1 || !ok2 {
				row["days_to_complete"] = nil
				return
			}
			row["days_to_complete"] = int64(truncateDay(completed).Sub(truncateDay(requested)) / (24 * time.Hour))
		},
	},
	{
		Name:        "technician_performance",
		Title:       "Technician Performance",
		Description: "Assignments, completions, average rating and earnings per technician",
		Kind:        ReportKindReport,
		Columns: []ReportColumn{
			col("technician_id", "Technician ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("total_assignments", "Assignments", ColumnNumber),
			col("completed_assignments", "Completed", ColumnNumber),
			col("average_rating", "Average Rating", ColumnRating),
			col("total_earnings", "Total Earnings", ColumnCurrency),
		},
		Query: staticQuery(`SELECT t.technician_id, u.first_name, u.last_name,
       COUNT(sa.assignment_id) AS total_assignments,
       COUNT(CASE WHEN sa.assignment_status = 'completed' THEN 1 END) AS completed_assignments,
       AVG(r.technician_rating) AS average_rating,
       COALESCE(SUM(CASE WHEN p.payment_status = 'completed' THEN p.payment_amount END), 0) AS total_earnings
FROM technicians t
JOIN users u ON u.user_id = t.user_id
LEFT JOIN service_assignments sa ON sa.technician_id = t.technician_id
LEFT JOIN reviews r ON r.assignment_id = sa.assignment_id
LEFT JOIN payments p ON p.assignment_id = sa.assignment_id
GROUP BY t.technician_id, u.first_name, u.last_name
ORDER BY total_earnings DESC, t.technician_id`),
	},
	{
		Name:        "revenue_analysis",
		Title:       "Revenue Analysis",
		Description: "Completed revenue per month and category",
		Kind:        ReportKindReport,
		Columns: []ReportColumn{
			col("month", "Month", ColumnText),
			col("category_name", "Category", ColumnText),
			col("transaction_count", "Transactions", ColumnNumber),
			col("total_revenue", "Revenue", ColumnCurrency),
			col("average_transaction", "Average Transaction", ColumnCurrency),
		},
		Query: func(dialect string) string {
			month := monthExpr(dialect, "p.payment_date")
			return fmt.Sprintf(`SELECT %[1]s AS month, sc.category_name,
       COUNT(p.payment_id) AS transaction_count,
       SUM(p.payment_amount) AS total_revenue,
       AVG(p.payment_amount) AS average_transaction
FROM payments p
JOIN service_assignments sa ON sa.assignment_id = p.assignment_id
JOIN repair_requests rr ON rr.request_id = sa.request_id
JOIN service_categories sc ON sc.category_id = rr.category_id
WHERE p.payment_status = 'completed'
GROUP BY %[1]s, sc.category_name
ORDER BY month DESC, total_revenue DESC`, month)
		},
	},
	{
		Name:        "customer_satisfaction",
		Title:       "Customer Satisfaction",
		Description: "Average rating given and spend per customer with at least one request",
		Kind:        ReportKindReport,
		Columns: []ReportColumn{
			col("user_id", "Customer ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("total_requests", "Requests", ColumnNumber),
			col("average_rating_given", "Average Rating Given", ColumnRating),
			col("total_spent", "Total Spent", ColumnCurrency),
		},
		Query: staticQuery(`SELECT u.user_id, u.first_name, u.last_name,
       COUNT(DISTINCT rr.request_id) AS total_requests,
       AVG(r.customer_rating) AS average_rating_given,
       COALESCE(SUM(CASE WHEN p.payment_status = 'completed' THEN p.payment_amount END), 0) AS total_spent
FROM users u
JOIN repair_requests rr ON rr.customer_id = u.user_id
LEFT JOIN service_assignments sa ON sa.request_id = rr.request_id
LEFT JOIN reviews r ON r.assignment_id = sa.assignment_id
LEFT JOIN payments p ON p.assignment_id = sa.assignment_id
WHERE u.user_type = 'customer'
GROUP BY u.user_id, u.first_name, u.last_name
ORDER BY CASE WHEN AVG(r.customer_rating) IS NULL THEN 1 ELSE 0 END, AVG(r.customer_rating) DESC, u.user_id`),
	},
	{
		Name:        "top_technicians",
		Title:       "Top Technicians",
		Description: "The ten technicians with the highest completed earnings",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("technician_id", "Technician ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("completed_jobs", "Completed Jobs", ColumnNumber),
			col("total_earnings", "Total Earnings", ColumnCurrency),
		},
		Query: staticQuery(`SELECT t.technician_id, u.first_name, u.last_name,
       COUNT(p.payment_id) AS completed_jobs,
       SUM(p.payment_amount) AS total_earnings
FROM technicians t
JOIN users u ON u.user_id = t.user_id
JOIN service_assignments sa ON sa.technician_id = t.technician_id
JOIN payments p ON p.assignment_id = sa.assignment_id AND p.payment_status = 'completed'
GROUP BY t.technician_id, u.first_name, u.last_name
ORDER BY total_earnings DESC, t.technician_id
LIMIT 10`),
	},
	{
		Name:        "category_statistics",
		Title:       "Category Statistics",
		Description: "Requests, completions and revenue per category",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("category_name", "Category", ColumnText),
			col("total_requests", "Requests", ColumnNumber),
			col("completed_requests", "Completed", ColumnNumber),
			col("total_revenue", "Revenue", ColumnCurrency),
		},
		Query: staticQuery(`SELECT sc.category_name,
       COUNT(rr.request_id) AS total_requests,
       COUNT(CASE WHEN rr.status = 'completed' THEN 1 END) AS completed_requests,
       COALESCE(SUM(CASE WHEN p.payment_status = 'completed' THEN p.payment_amount END), 0) AS total_revenue
FROM service_categories sc
LEFT JOIN repair_requests rr ON rr.category_id = sc.category_id
LEFT JOIN service_assignments sa ON sa.request_id = rr.request_id
LEFT JOIN payments p ON p.assignment_id = sa.assignment_id
GROUP BY sc.category_id, sc.category_name
ORDER BY total_requests DESC, sc.category_name`),
	},
	{
		Name:        "location_statistics",
		Title:       "Location Statistics",
		Description: "Requests, technicians and revenue per location",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("area_name", "Area", ColumnText),
			col("city", "City", ColumnText),
			col("state", "State", ColumnText),
			col("total_requests", "Requests", ColumnNumber),
			col("technicians", "Technicians", ColumnNumber),
			col("total_revenue", "Revenue", ColumnCurrency),
		},
		Query: staticQuery(`SELECT l.area_name, l.city, l.state,
       COUNT(DISTINCT rr.request_id) AS total_requests,
       COUNT(DISTINCT t.technician_id) AS technicians,
       COALESCE(SUM(CASE WHEN p.payment_status = 'completed' THEN p.payment_amount END), 0) AS total_revenue
FROM locations l
LEFT JOIN users u ON u.location_id = l.location_id
LEFT JOIN technicians t ON t.user_id = u.user_id
LEFT JOIN repair_requests rr ON rr.customer_id = u.user_id
LEFT JOIN service_assignments sa ON sa.request_id = rr.request_id
LEFT JOIN payments p ON p.assignment_id = sa.assignment_id
GROUP BY l.location_id, l.area_name, l.city, l.state
ORDER BY total_revenue DESC, l.area_name`),
	},
	{
		Name:        "payment_methods",
		Title:       "Payment Methods",
		Description: "Completed transactions and amounts per payment method",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("payment_method", "Payment Method", ColumnText),
			col("transaction_count", "Transactions", ColumnNumber),
			col("total_amount", "Total Amount", ColumnCurrency),
		},
		Query: staticQuery(`SELECT payment_method, COUNT(*) AS transaction_count, SUM(payment_amount) AS total_amount
FROM payments
WHERE payment_status = 'completed'
GROUP BY payment_method
ORDER BY total_amount DESC, payment_method`),
	},
	{
		Name:        "monthly_revenue",
		Title:       "Monthly Revenue",
		Description: "Completed revenue per month",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("month", "Month", ColumnText),
			col("revenue", "Revenue", ColumnCurrency),
			col("transaction_count", "Transactions", ColumnNumber),
		},
		Query: func(dialect string) string {
			month := monthExpr(dialect, "payment_date")
			return fmt.Sprintf(`SELECT %[1]s AS month, SUM(payment_amount) AS revenue, COUNT(*) AS transaction_count
FROM payments
WHERE payment_status = 'completed'
GROUP BY %[1]s
ORDER BY month DESC`, month)
		},
	},
	{
		Name:        "technician_ratings",
		Title:       "Reviewed Technicians",
		Description: "Average rating of technicians that have at least one review",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("technician_id", "Technician ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("average_rating", "Average Rating", ColumnRating),
			col("review_count", "Reviews", ColumnNumber),
		},
		Query: staticQuery(`SELECT t.technician_id, u.first_name, u.last_name,
       AVG(r.technician_rating) AS average_rating, COUNT(r.review_id) AS review_count
FROM technicians t
JOIN users u ON u.user_id = t.user_id
JOIN service_assignments sa ON sa.technician_id = t.technician_id
JOIN reviews r ON r.assignment_id = sa.assignment_id
GROUP BY t.technician_id, u.first_name, u.last_name
ORDER BY average_rating DESC, t.technician_id`),
	},
	{
		Name:        "rating_distribution",
		Title:       "Rating Distribution",
		Description: "Number of reviews per customer rating",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("rating", "Rating", ColumnNumber),
			col("review_count", "Reviews", ColumnNumber),
		},
		Query: staticQuery(`SELECT customer_rating AS rating, COUNT(*) AS review_count
FROM reviews
GROUP BY customer_rating
ORDER BY customer_rating DESC`),
	},
	{
		Name:        "requests_by_status",
		Title:       "Requests by Status",
		Description: "Number of repair requests in each status",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("status", "Status", ColumnText),
			col("request_count", "Requests", ColumnNumber),
		},
		Query: staticQuery(`SELECT status, COUNT(*) AS request_count
FROM repair_requests
GROUP BY status
ORDER BY request_count DESC, status`),
	},
	{
		Name:        "revenue_by_category",
		Title:       "Revenue by Category",
		Description: "Completed revenue per category",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("category_name", "Category", ColumnText),
			col("total_revenue", "Revenue", ColumnCurrency),
		},
		Query: staticQuery(`SELECT sc.category_name, SUM(p.payment_amount) AS total_revenue
FROM payments p
JOIN service_assignments sa ON sa.assignment_id = p.assignment_id
JOIN repair_requests rr ON rr.request_id = sa.request_id
JOIN service_categories sc ON sc.category_id = rr.category_id
WHERE p.payment_status = 'completed'
GROUP BY sc.category_name
ORDER BY total_revenue DESC, sc.category_name`),
	},
	{
		Name:        "recent_requests",
		Title:       "Recent Requests",
		Description: "The ten most recent repair requests",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("request_id", "Request ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("category_name", "Category", ColumnText),
			col("status", "Status", ColumnText),
			col("request_date", "Request Date", ColumnDateTime),
		},
		Query: staticQuery(`SELECT rr.request_id, u.first_name, u.last_name, sc.category_name, rr.status, rr.request_date
FROM repair_requests rr
JOIN users u ON u.user_id = rr.customer_id
JOIN service_categories sc ON sc.category_id = rr.category_id
ORDER BY rr.request_date DESC, rr.request_id DESC
LIMIT 10`),
	},
	{
		Name:        "active_technicians",
		Title:       "Active Technicians",
		Description: "Technicians currently holding assigned or in-progress work",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("technician_id", "Technician ID", ColumnNumber),
			col("first_name", "First Name", ColumnText),
			col("last_name", "Last Name", ColumnText),
			col("availability_status", "Availability", ColumnText),
			col("active_assignments", "Active Assignments", ColumnNumber),
		},
		Query: staticQuery(`SELECT t.technician_id, u.first_name, u.last_name, t.availability_status,
       COUNT(sa.assignment_id) AS active_assignments
FROM technicians t
JOIN users u ON u.user_id = t.user_id
JOIN service_assignments sa ON sa.technician_id = t.technician_id
WHERE sa.assignment_status IN ('assigned', 'in_progress')
GROUP BY t.technician_id, u.first_name, u.last_name, t.availability_status
ORDER BY active_assignments DESC, t.technician_id`),
	},
	{
		Name:        "payment_validation",
		Title:       "Payment Validation",
		Description: "The ten most recent payments compared against their service cost",
		Kind:        ReportKindAnalytics,
		Columns: []ReportColumn{
			col("payment_id", "Payment ID", ColumnNumber),
			col("assignment_id", "Assignment ID", ColumnNumber),
			col("payment_amount", "Payment Amount", ColumnCurrency),
			col("service_cost", "Service Cost", ColumnCurrency),
			col("validation_status", "Validation", ColumnText),
		},
		Query: staticQuery(`SELECT p.payment_id, p.assignment_id, p.payment_amount, sa.service_cost,
       CASE WHEN p.payment_amount = sa.service_cost THEN 'valid' ELSE 'mismatch' END AS validation_status
FROM payments p
JOIN service_assignments sa ON sa.assignment_id = p.assignment_id
ORDER BY p.payment_date DESC, p.payment_id DESC
LIMIT 10`),
	},
}

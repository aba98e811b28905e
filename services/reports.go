package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/repair-service-api/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportInfo describes an available report
type ReportInfo struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Kind        string         `json:"kind"`
	Columns     []ReportColumn `json:"columns"`
}

// ReportResult is the tabular output of a report. Rows are keyed by column key.
type ReportResult struct {
	Name        string                   `json:"name"`
	Title       string                   `json:"title"`
	Columns     []ReportColumn           `json:"columns"`
	Rows        []map[string]interface{} `json:"rows"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// DashboardOverview is the business-wide dashboard
type DashboardOverview struct {
	TotalUsers           int64                    `json:"total_users"`
	TotalCustomers       int64                    `json:"total_customers"`
	TotalTechnicians     int64                    `json:"total_technicians"`
	AvailableTechnicians int64                    `json:"available_technicians"`
	TotalRequests        int64                    `json:"total_requests"`
	PendingRequests      int64                    `json:"pending_requests"`
	TotalRevenue         decimal.Decimal          `json:"total_revenue"`
	RequestsByStatus     []map[string]interface{} `json:"requests_by_status"`
	RevenueByCategory    []map[string]interface{} `json:"revenue_by_category"`
	RecentRequests       []map[string]interface{} `json:"recent_requests"`
}

func findReport(name string) (*reportDefinition, error) {
	for i := range reportDefinitions {
		if reportDefinitions[i].Name == name {
			return &reportDefinitions[i], nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Code: "REPORT_NOT_FOUND", Message: "Report " + strconv.Quote(name) + " does not exist"}
}

// ListReports returns the catalogue of reports, optionally filtered by kind
func (s *Service) ListReports(kind string) []ReportInfo {
	reports := make([]ReportInfo, 0, len(reportDefinitions))
	for _, def := range reportDefinitions {
		if kind != "" && def.Kind != kind {
			continue
		}
		reports = append(reports, ReportInfo{
			Name:        def.Name,
			Title:       def.Title,
			Description: def.Description,
			Kind:        def.Kind,
			Columns:     def.Columns,
		})
	}
	return reports
}

func reportCacheKey(name string) string {
	return "report:" + name
}

// RunReport executes a named report. Results are served from the report
// cache when present; a cache failure only falls back to the database.
func (s *Service) RunReport(ctx context.Context, name string) (*ReportResult, error) {
	def, err := findReport(name)
	if err != nil {
		return nil, err
	}

	if cached, ok, err := s.cache.Get(ctx, reportCacheKey(name)); err != nil {
		s.log.Warn("Report cache read failed", zap.String("report", name), zap.Error(err))
	} else if ok {
		var result ReportResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	rows := []map[string]interface{}{}
	err = s.run(ctx, "run report "+name, func(db *gorm.DB) error {
		rows = rows[:0]
		return db.Raw(def.Query(db.Dialector.Name())).Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		Name:        def.Name,
		Title:       def.Title,
		Columns:     def.Columns,
		Rows:        make([]map[string]interface{}, 0, len(rows)),
		GeneratedAt: s.now(),
	}
	for _, raw := range rows {
		if def.Derive != nil {
			def.Derive(raw)
		}
		row := make(map[string]interface{}, len(def.Columns))
		for _, c := range def.Columns {
			row[c.Key] = normalizeValue(raw[c.Key], c.DataType)
		}
		result.Rows = append(result.Rows, row)
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, reportCacheKey(name), payload, s.cacheTTL); err != nil {
			s.log.Warn("Report cache write failed", zap.String("report", name), zap.Error(err))
		}
	}
	return result, nil
}

// Dashboard builds the business-wide overview
func (s *Service) Dashboard(ctx context.Context) (*DashboardOverview, error) {
	overview := &DashboardOverview{}
	err := s.run(ctx, "dashboard", func(db *gorm.DB) error {
		counts := []struct {
			target *int64
			query  *gorm.DB
		}{
			{&overview.TotalUsers, db.Model(&models.User{})},
			{&overview.TotalCustomers, db.Model(&models.User{}).Where("user_type = ?", models.UserTypeCustomer)},
			{&overview.TotalTechnicians, db.Model(&models.Technician{})},
			{&overview.AvailableTechnicians, db.Model(&models.Technician{}).Where("availability_status = ?", models.AvailabilityAvailable)},
			{&overview.TotalRequests, db.Model(&models.RepairRequest{})},
			{&overview.PendingRequests, db.Model(&models.RepairRequest{}).Where("status = ?", models.RequestStatusPending)},
		}
		for _, c := range counts {
			if err := c.query.Count(c.target).Error; err != nil {
				return err
			}
		}
		var revenue struct {
			Total decimal.NullDecimal
		}
		if err := db.Model(&models.Payment{}).
			Select("SUM(payment_amount) AS total").
			Where("payment_status = ?", models.PaymentStatusCompleted).
			Scan(&revenue).Error; err != nil {
			return err
		}
		overview.TotalRevenue = decimal.Zero
		if revenue.Total.Valid {
			overview.TotalRevenue = revenue.Total.Decimal
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sections := []struct {
		name   string
		target *[]map[string]interface{}
	}{
		{"requests_by_status", &overview.RequestsByStatus},
		{"revenue_by_category", &overview.RevenueByCategory},
		{"recent_requests", &overview.RecentRequests},
	}
	for _, section := range sections {
		result, err := s.RunReport(ctx, section.name)
		if err != nil {
			return nil, err
		}
		*section.target = result.Rows
	}
	return overview, nil
}

// normalizeValue converts driver values into JSON- and export-friendly forms
func normalizeValue(v interface{}, dataType string) interface{} {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if v == nil {
		return nil
	}
	switch dataType {
	case ColumnCurrency:
		if d, ok := toDecimal(v); ok {
			return d.StringFixed(2)
		}
	case ColumnRating:
		if d, ok := toDecimal(v); ok {
			f, _ := d.Round(2).Float64()
			return f
		}
	case ColumnNumber:
		if d, ok := toDecimal(v); ok && d.IsInteger() {
			return d.IntPart()
		}
	case ColumnDate:
		if t, ok := toTime(v); ok {
			return t.UTC().Format(dateLayout)
		}
	case ColumnDateTime:
		if t, ok := toTime(v); ok {
			return t.UTC().Format("2006-01-02 15:04:05")
		}
	}
	return v
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case decimal.Decimal:
		return n, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	}
	return decimal.Zero, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	dateLayout,
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case []byte:
		return toTime(string(t))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

// Maintenance runs on-demand housekeeping against the store. Every call is
// synchronous and bounded only by the caller's context.
type Maintenance struct {
	DB *gorm.DB
}

func NewMaintenance(db *gorm.DB) *Maintenance {
	return &Maintenance{DB: db}
}

type HealthReport struct {
	Status    string     `json:"status"`
	Driver    string     `json:"driver"`
	OpenConns int        `json:"open_connections"`
	LastOrder *time.Time `json:"last_order"`
	Error     string     `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

func (m *Maintenance) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:    "healthy",
		Driver:    m.DB.Dialector.Name(),
		Timestamp: utils.NowIST().Format(time.RFC3339),
	}

	sqlDB, err := m.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		report.Status = "unhealthy"
		report.Error = err.Error()
		return report
	}
	report.OpenConns = sqlDB.Stats().OpenConnections

	var last models.Order
	res := m.DB.WithContext(ctx).Select("order_date").Order("order_date DESC").Limit(1).Find(&last)
	if res.Error != nil {
		report.Status = "unhealthy"
		report.Error = res.Error.Error()
		return report
	}
	if res.RowsAffected > 0 {
		t := utils.ToIST(last.OrderDate)
		report.LastOrder = &t
	}
	return report
}

// BackfillMapsLinks persists a maps link for every address that has
// coordinates but no link yet.
func (m *Maintenance) BackfillMapsLinks(ctx context.Context) (int, error) {
	var addresses []models.Address
	err := m.DB.WithContext(ctx).
		Where("google_maps_link IS NULL AND latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&addresses).Error
	if err != nil {
		return 0, fmt.Errorf("load addresses: %w", err)
	}

	updated := 0
	for _, a := range addresses {
		link := utils.MapsLink(a.Latitude, a.Longitude)
		if link == "" {
			continue
		}
		err := m.DB.WithContext(ctx).Model(&models.Address{}).
			Where("address_id = ? AND google_maps_link IS NULL", a.ID).
			Update("google_maps_link", link).Error
		if err != nil {
			return updated, fmt.Errorf("update address %d: %w", a.ID, err)
		}
		updated++
	}
	utils.InfoLogger.Printf("Updated %d addresses with Google Maps links", updated)
	return updated, nil
}

// CleanupNotifications removes read notifications older than days.
func (m *Maintenance) CleanupNotifications(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res := m.DB.WithContext(ctx).
		Where("created_at < ? AND is_read = ?", cutoff, true).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("cleanup notifications: %w", res.Error)
	}
	utils.InfoLogger.Printf("Removed %d old notifications", res.RowsAffected)
	return res.RowsAffected, nil
}

type IntegrityReport struct {
	HasIssues bool     `json:"has_issues"`
	Issues    []string `json:"issues"`
	Timestamp string   `json:"timestamp"`
}

var orphanChecks = []struct {
	label string
	query string
}{
	{"cart items", "SELECT COUNT(*) FROM cart c LEFT JOIN users u ON c.user_id = u.id WHERE u.id IS NULL"},
	{"order items", "SELECT COUNT(*) FROM order_items oi LEFT JOIN orders o ON oi.order_id = o.order_id WHERE o.order_id IS NULL"},
	{"payments", "SELECT COUNT(*) FROM payments p LEFT JOIN orders o ON p.order_id = o.order_id WHERE o.order_id IS NULL"},
}

// CheckIntegrity counts rows whose parent row is gone.
func (m *Maintenance) CheckIntegrity(ctx context.Context) IntegrityReport {
	report := IntegrityReport{Issues: []string{}, Timestamp: utils.NowIST().Format(time.RFC3339)}
	for _, check := range orphanChecks {
		var n int64
		if err := m.DB.WithContext(ctx).Raw(check.query).Scan(&n).Error; err != nil {
			report.Issues = append(report.Issues, fmt.Sprintf("Check failed: %v", err))
			continue
		}
		if n > 0 {
			report.Issues = append(report.Issues, fmt.Sprintf("Found %d orphaned %s", n, check.label))
		}
	}
	report.HasIssues = len(report.Issues) > 0
	return report
}

// Optimize refreshes planner statistics.
func (m *Maintenance) Optimize(ctx context.Context) error {
	stmt := "ANALYZE"
	switch m.DB.Dialector.Name() {
	case "postgres":
		stmt = "VACUUM ANALYZE"
	case "mysql":
		stmt = "ANALYZE TABLE users, services, menu, cart, orders, order_items, payments, addresses, reviews, notifications, admin_users"
	}
	if err := m.DB.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	utils.InfoLogger.Println("Database optimization completed")
	return nil
}

// TableStats returns the row count of every table.
func (m *Maintenance) TableStats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)
	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: m.DB}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		var n int64
		if err := m.DB.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", stmt.Schema.Table, err)
		}
		stats[stmt.Schema.Table] = n
	}
	return stats, nil
}

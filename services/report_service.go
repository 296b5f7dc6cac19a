package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

const (
	SeriesDaily   = "daily"
	SeriesWeekly  = "weekly"
	SeriesMonthly = "monthly"
)

// Breakdown is the count and order total of one status or payment mode.
type Breakdown struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type PeriodStats struct {
	Period           string               `json:"period"`
	Start            time.Time            `json:"-"`
	End              time.Time            `json:"-"`
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	OrderCount       int64                `json:"order_count"`
	Revenue          decimal.Decimal      `json:"revenue"`
	AvgOrderValue    decimal.Decimal      `json:"avg_order_value"`
	NewCustomers     int64                `json:"new_customers"`
	StatusBreakdown  map[string]Breakdown `json:"status_breakdown"`
	PaymentBreakdown map[string]Breakdown `json:"payment_breakdown"`
}

// Series is a bucketed revenue chart. The three slices are parallel.
type Series struct {
	Granularity string            `json:"chart_type"`
	Labels      []string          `json:"labels"`
	Revenue     []decimal.Decimal `json:"revenue"`
	Orders      []int64           `json:"orders"`
}

func (s Series) Empty() bool {
	for _, n := range s.Orders {
		if n > 0 {
			return false
		}
	}
	return true
}

type TopSeller struct {
	Name          string          `json:"name"`
	SalesCount    int64           `json:"sales_count"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

type Overview struct {
	TotalOrders     int64                        `json:"total_orders"`
	StatusCounts    map[models.OrderStatus]int64 `json:"status_counts"`
	TodayOrders     int64                        `json:"today_orders"`
	TodayRevenue    decimal.Decimal              `json:"today_revenue"`
	TotalRevenue    decimal.Decimal              `json:"total_revenue"`
	ActiveUsers     int64                        `json:"active_users"`
	PendingPayments int64                        `json:"pending_payments"`
	LatestOrders    []OrderRow                   `json:"latest_orders"`
	TopServices     []TopSeller                  `json:"top_services"`
	TopMenu         []TopSeller                  `json:"top_menu"`
	Daily           Series                       `json:"daily"`
	Monthly         Series                       `json:"monthly"`
}

type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

// PeriodRange maps today, week, month or year to its local half-open
// interval. Anything else is treated as today.
func PeriodRange(period string, now time.Time) (string, time.Time, time.Time) {
	switch period {
	case "today", "week", "month", "year":
	default:
		period = "today"
	}
	start, end := utils.DateRange(period, now)
	return period, start, end
}

func (s *ReportService) PeriodStats(ctx context.Context, period string) (*PeriodStats, error) {
	period, start, end := PeriodRange(period, s.now())
	from, to := start.UTC(), end.UTC()
	stats := &PeriodStats{
		Period:           period,
		Start:            start,
		End:              end,
		StartDate:        start.Format("2006-01-02"),
		EndDate:          end.Format("2006-01-02"),
		StatusBreakdown:  map[string]Breakdown{},
		PaymentBreakdown: map[string]Breakdown{},
	}

	inPeriod := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Order{}).
			Where("order_date >= ? AND order_date < ?", from, to)
	}

	if err := inPeriod().Count(&stats.OrderCount).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	var revenue sum
	err := inPeriod().Where("status <> ?", models.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0) AS total").Scan(&revenue).Error
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	stats.Revenue = revenue.Total
	stats.AvgOrderValue = averageOf(stats.Revenue, stats.OrderCount)

	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&stats.NewCustomers).Error
	if err != nil {
		return nil, fmt.Errorf("count new customers: %w", err)
	}

	if stats.StatusBreakdown, err = s.breakdown(inPeriod(), "status"); err != nil {
		return nil, err
	}
	if stats.PaymentBreakdown, err = s.breakdown(inPeriod(), "payment_mode"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *ReportService) breakdown(q *gorm.DB, column string) (map[string]Breakdown, error) {
	var rows []struct {
		Name   string
		Count  int64
		Amount decimal.NullDecimal
	}
	err := q.Select(column + " AS name, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Group(column).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("group orders by %s: %w", column, err)
	}
	out := make(map[string]Breakdown, len(rows))
	for _, r := range rows {
		out[r.Name] = Breakdown{Count: r.Count, Amount: r.Amount.Decimal}
	}
	return out, nil
}

type sum struct {
	Total decimal.Decimal
}

func averageOf(total decimal.Decimal, n int64) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(n), 2)
}

type bucketing struct {
	count  int
	start  func(time.Time) time.Time
	step   func(time.Time, int) time.Time
	layout string
}

var seriesBuckets = map[string]bucketing{
	SeriesDaily: {
		count:  30,
		start:  utils.StartOfDay,
		step:   func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
		layout: "Jan 02",
	},
	SeriesWeekly: {
		count:  12,
		start:  utils.StartOfWeek,
		step:   func(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) },
		layout: "Jan 02",
	},
	SeriesMonthly: {
		count:  12,
		start:  utils.StartOfMonth,
		step:   func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
		layout: "Jan 2006",
	},
}

// RevenueSeries buckets recent orders by local day (30), ISO week (12) or
// month (12). Unknown granularities fall back to monthly. Cancelled orders
// count towards Orders but not Revenue.
func (s *ReportService) RevenueSeries(ctx context.Context, granularity string) (*Series, error) {
	if _, ok := seriesBuckets[granularity]; !ok {
		granularity = SeriesMonthly
	}
	return s.series(ctx, granularity, seriesBuckets[granularity].count)
}

func (s *ReportService) series(ctx context.Context, granularity string, count int) (*Series, error) {
	b := seriesBuckets[granularity]
	current := b.start(utils.ToIST(s.now()))
	first := b.step(current, -(count - 1))
	end := b.step(current, 1)

	var orders []struct {
		OrderDate   time.Time
		TotalAmount decimal.Decimal
		Status      models.OrderStatus
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("order_date, total_amount, status").
		Where("order_date >= ? AND order_date < ?", first.UTC(), end.UTC()).
		Scan(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("load orders for %s series: %w", granularity, err)
	}

	series := &Series{
		Granularity: granularity,
		Labels:      make([]string, count),
		Revenue:     make([]decimal.Decimal, count),
		Orders:      make([]int64, count),
	}
	index := make(map[int64]int, count)
	for i := 0; i < count; i++ {
		bucket := b.step(first, i)
		index[bucket.Unix()] = i
		series.Labels[i] = bucket.Format(b.layout)
		series.Revenue[i] = decimal.Zero
	}

	for _, o := range orders {
		i, ok := index[b.start(utils.ToIST(o.OrderDate)).Unix()]
		if !ok {
			continue
		}
		series.Orders[i]++
		if o.Status != models.OrderCancelled {
			series.Revenue[i] = series.Revenue[i].Add(o.TotalAmount)
		}
	}
	return series, nil
}

// Dashboard gathers everything on the overview page.
func (s *ReportService) Dashboard(ctx context.Context) (*Overview, error) {
	db := s.db.WithContext(ctx)
	ov := &Overview{StatusCounts: map[models.OrderStatus]int64{}}

	if err := db.Model(&models.Order{}).Count(&ov.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	var statusRows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&statusRows).Error; err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	for _, r := range statusRows {
		ov.StatusCounts[r.Status] = r.Count
	}

	today, err := s.PeriodStats(ctx, "today")
	if err != nil {
		return nil, err
	}
	ov.TodayOrders = today.OrderCount
	ov.TodayRevenue = today.Revenue

	var total sum
	if err := db.Model(&models.Order{}).Where("status <> ?", models.OrderCancelled).
		Select("COALESCE(SUM(total_amount), 0) AS total").Scan(&total).Error; err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	ov.TotalRevenue = total.Total

	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&ov.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	if err := db.Model(&models.Payment{}).Where("payment_status = ?", models.PaymentPending).
		Count(&ov.PendingPayments).Error; err != nil {
		return nil, fmt.Errorf("count pending payments: %w", err)
	}

	var latest []models.Order
	if err := db.Order("order_date DESC").Limit(10).Find(&latest).Error; err != nil {
		return nil, fmt.Errorf("latest orders: %w", err)
	}
	ov.LatestOrders = make([]OrderRow, 0, len(latest))
	for _, o := range latest {
		ov.LatestOrders = append(ov.LatestOrders, newOrderRow(o))
	}

	if ov.TopServices, err = s.TopSellers(ctx, models.ItemService, 5); err != nil {
		return nil, err
	}
	if ov.TopMenu, err = s.TopSellers(ctx, models.ItemMenu, 5); err != nil {
		return nil, err
	}

	daily, err := s.series(ctx, SeriesDaily, 7)
	if err != nil {
		return nil, err
	}
	monthly, err := s.series(ctx, SeriesMonthly, 6)
	if err != nil {
		return nil, err
	}
	ov.Daily, ov.Monthly = *daily, *monthly
	return ov, nil
}

// TopSellers ranks catalog items of type t by order-item revenue.
func (s *ReportService) TopSellers(ctx context.Context, t models.ItemType, limit int) ([]TopSeller, error) {
	var rows []struct {
		Name          string
		SalesCount    int64
		TotalQuantity int64
		TotalRevenue  decimal.NullDecimal
	}
	err := s.db.WithContext(ctx).Table("order_items AS oi").
		Select("c.name AS name, COUNT(oi.order_item_id) AS sales_count, "+
			"COALESCE(SUM(oi.quantity), 0) AS total_quantity, COALESCE(SUM(oi.total), 0) AS total_revenue").
		Joins(fmt.Sprintf("JOIN %s c ON oi.item_id = c.id AND oi.item_type = ?", t.Table()), t).
		Group("c.id, c.name").
		Order("total_revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top %s: %w", t, err)
	}

	out := make([]TopSeller, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopSeller{
			Name:          r.Name,
			SalesCount:    r.SalesCount,
			TotalQuantity: r.TotalQuantity,
			TotalRevenue:  r.TotalRevenue.Decimal,
		})
	}
	return out, nil
}

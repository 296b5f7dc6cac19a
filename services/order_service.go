package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/hub"
	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

// TransitionPolicy decides whether an order may move from one status to another.
type TransitionPolicy interface {
	Allow(from, to models.OrderStatus) bool
}

// AllowAll accepts every transition.
type AllowAll struct{}

func (AllowAll) Allow(_, _ models.OrderStatus) bool { return true }

// StrictTransitions only permits forward moves along the delivery path and
// cancellation of a non-terminal order. Re-setting the current status is allowed.
type StrictTransitions map[models.OrderStatus][]models.OrderStatus

func DefaultStrictTransitions() StrictTransitions {
	return StrictTransitions{
		models.OrderPending:        {models.OrderConfirmed, models.OrderCancelled},
		models.OrderConfirmed:      {models.OrderProcessing, models.OrderCancelled},
		models.OrderProcessing:     {models.OrderOutForDelivery, models.OrderCancelled},
		models.OrderOutForDelivery: {models.OrderDelivered, models.OrderCancelled},
	}
}

func (t StrictTransitions) Allow(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

const (
	EffectRefund       = "payment_refund"
	EffectNotification = "user_notification"
	EffectBroadcast    = "live_broadcast"
)

// EffectResult reports one best-effort follow-up of a status change.
type EffectResult struct {
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
	Rows    int64  `json:"rows,omitempty"`
	Error   string `json:"error,omitempty"`
}

type StatusChange struct {
	Order    *models.Order      `json:"order"`
	Previous models.OrderStatus `json:"previous_status"`
	Effects  []EffectResult     `json:"effects"`
}

type OrderService struct {
	db     *gorm.DB
	live   Broadcaster
	policy TransitionPolicy
	now    func() time.Time
}

func NewOrderService(db *gorm.DB, live Broadcaster, policy TransitionPolicy) *OrderService {
	if live == nil {
		live = noopBroadcaster{}
	}
	if policy == nil {
		policy = AllowAll{}
	}
	return &OrderService{db: db, live: live, policy: policy, now: time.Now}
}

// OrderFilter selects orders by status; "" or "all" lists everything.
type OrderFilter struct {
	Status  string
	Page    int
	PerPage int
}

// OrderRow is an order as shown in the list.
type OrderRow struct {
	models.Order
	Number                string `json:"order_number"`
	ItemCount             int    `json:"item_count"`
	OrderDateFormatted    string `json:"order_date_formatted"`
	DeliveryDateFormatted string `json:"delivery_date_formatted,omitempty"`
	TotalFormatted        string `json:"total_formatted"`
}

func newOrderRow(o models.Order) OrderRow {
	return OrderRow{
		Order:                 o,
		Number:                o.Number(),
		ItemCount:             len(models.ParseLineItems(o.Items)),
		OrderDateFormatted:    utils.FormatIST(&o.OrderDate),
		DeliveryDateFormatted: utils.FormatIST(o.DeliveryDate),
		TotalFormatted:        utils.FormatINR(o.TotalAmount),
	}
}

func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]OrderRow, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = utils.DefaultPerPage
	}

	var orders []models.Order
	err := q.Order("order_date DESC").Limit(perPage).Offset((page - 1) * perPage).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, newOrderRow(o))
	}
	return rows, total, nil
}

// OrderDetail is an order with its payment, customer and resolved lines.
type OrderDetail struct {
	OrderRow
	Customer             *models.User      `json:"customer,omitempty"`
	Payment              *models.Payment   `json:"payment,omitempty"`
	PaymentDateFormatted string            `json:"payment_date_formatted,omitempty"`
	Lines                []models.LineItem `json:"lines"`
}

func (s *OrderService) Detail(ctx context.Context, id uint) (*OrderDetail, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_item_id") }).
		First(&order, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}

	detail := &OrderDetail{OrderRow: newOrderRow(order), Lines: order.Lines()}
	detail.ItemCount = len(detail.Lines)

	if order.UserID != nil {
		var user models.User
		if err := s.db.WithContext(ctx).First(&user, *order.UserID).Error; err == nil {
			detail.Customer = &user
		}
	}

	var payment models.Payment
	err = s.db.WithContext(ctx).Where("order_id = ?", id).Order("payment_date DESC").First(&payment).Error
	switch {
	case err == nil:
		detail.Payment = &payment
		detail.PaymentDateFormatted = utils.FormatIST(&payment.PaymentDate)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load payment for order %d: %w", id, err)
	}
	return detail, nil
}

// SetStatus moves an order to status. The status row update is the only step
// that can fail the call; refund, notification and broadcast run afterwards and
// are reported in Effects.
func (s *OrderService) SetStatus(ctx context.Context, id uint, status, notes, actor string) (*StatusChange, error) {
	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}

	prev := order.Status
	if !s.policy.Allow(prev, next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrTransitionRejected, prev, next)
	}

	updates := map[string]interface{}{"status": next}
	if n := strings.TrimSpace(notes); n != "" {
		updates["notes"] = n
		order.Notes = &n
	}
	if next == models.OrderDelivered {
		now := s.now().UTC()
		updates["delivery_date"] = now
		order.DeliveryDate = &now
	}
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("order_id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	order.Status = next

	change := &StatusChange{Order: &order, Previous: prev}
	if next == models.OrderCancelled {
		change.Effects = append(change.Effects, s.refundPayments(ctx, id))
	}
	if order.UserID != nil {
		change.Effects = append(change.Effects, s.notifyCustomer(ctx, &order))
	}
	change.Effects = append(change.Effects, s.broadcast(&order, prev, actor))

	for _, e := range change.Effects {
		if e.Error != "" {
			utils.ErrorLogger.Errorf("order #%d %s failed: %s", id, e.Name, e.Error)
		}
	}
	utils.InfoLogger.Printf("Order #%d status updated to '%s' by admin %s", id, next, actor)
	return change, nil
}

func (s *OrderService) refundPayments(ctx context.Context, orderID uint) EffectResult {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Update("payment_status", models.PaymentRefunded)
	if res.Error != nil {
		return EffectResult{Name: EffectRefund, Error: res.Error.Error()}
	}
	return EffectResult{Name: EffectRefund, Applied: true, Rows: res.RowsAffected}
}

func (s *OrderService) notifyCustomer(ctx context.Context, order *models.Order) EffectResult {
	n := models.Notification{
		UserID:  order.UserID,
		Title:   fmt.Sprintf("Order #%d Status Update", order.ID),
		Message: fmt.Sprintf("Your order status has been updated to: %s", order.Status),
		Type:    models.NotifyOrderUpdate,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return EffectResult{Name: EffectNotification, Error: err.Error()}
	}
	return EffectResult{Name: EffectNotification, Applied: true, Rows: 1}
}

func (s *OrderService) broadcast(order *models.Order, prev models.OrderStatus, actor string) EffectResult {
	sent := s.live.Broadcast(hub.EventOrderStatus, payload{
		"order_id":        order.ID,
		"order_number":    order.Number(),
		"previous_status": prev,
		"status":          order.Status,
		"updated_by":      actor,
	})
	return EffectResult{Name: EffectBroadcast, Applied: sent > 0, Rows: int64(sent)}
}

// StatusCounts returns the number of orders per status, only for statuses present.
func (s *OrderService) StatusCounts(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

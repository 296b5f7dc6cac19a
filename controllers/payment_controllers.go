package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bitemebuddy/admin-dashboard/models"
	"github.com/bitemebuddy/admin-dashboard/utils"
)

type PaymentController struct {
	DB *gorm.DB
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

type paymentRow struct {
	models.Payment
	OrderStatus          models.OrderStatus `json:"order_status"`
	UserName             string             `json:"user_name"`
	UserEmail            string             `json:"user_email"`
	OrderNumber          string             `json:"order_number,omitempty"`
	PaymentDateFormatted string             `json:"payment_date_formatted"`
	AmountFormatted      string             `json:"amount_formatted"`
	ModeLabel            string             `json:"payment_mode_label"`
}

// ListPayments -> GET /dashboard/payments?status=&page=
func (pc *PaymentController) ListPayments(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	page, perPage, offset := utils.ParsePageParams(c)

	q := pc.DB.WithContext(c.Request.Context()).Table("payments AS p")
	if status != "all" {
		q = q.Where("p.payment_status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondServiceError(c, "count payments", err)
		return
	}

	var rows []paymentRow
	err := q.Select("p.*, o.status AS order_status, u.full_name AS user_name, u.email AS user_email").
		Joins("LEFT JOIN orders o ON p.order_id = o.order_id").
		Joins("LEFT JOIN users u ON p.user_id = u.id").
		Order("p.payment_date DESC").
		Limit(perPage).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		respondServiceError(c, "list payments", err)
		return
	}

	for i := range rows {
		p := &rows[i]
		if p.OrderID != nil {
			p.OrderNumber = models.Order{ID: *p.OrderID}.Number()
		}
		p.PaymentDateFormatted = utils.FormatIST(&p.PaymentDate)
		p.AmountFormatted = utils.FormatINR(p.Amount)
		p.ModeLabel = p.PaymentMode.Label()
	}

	utils.RespondJSON(c, http.StatusOK, "Payments", gin.H{
		"items":      rows,
		"status":     status,
		"statuses":   models.AllPaymentStatuses(),
		"pagination": utils.Paginate(page, perPage, total, c.Request.URL.Path, url.Values{"status": {status}}),
	})
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is recorded by the customer app; the dashboard only reads it and
// marks it refunded when the order is cancelled.
type Payment struct {
	ID                uint            `gorm:"column:payment_id;primaryKey" json:"payment_id"`
	OrderID           *uint           `gorm:"index" json:"order_id"`
	Order             *Order          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID            *uint           `gorm:"index" json:"user_id"`
	User              *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMode       PaymentMode     `gorm:"type:varchar(20);not null" json:"payment_mode"`
	TransactionID     *string         `gorm:"type:varchar(100)" json:"transaction_id"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	PaymentDate       time.Time       `gorm:"autoCreateTime" json:"payment_date"`
	RazorpayOrderID   *string         `gorm:"type:varchar(100)" json:"razorpay_order_id"`
	RazorpayPaymentID *string         `gorm:"type:varchar(100)" json:"razorpay_payment_id"`
	RazorpaySignature *string         `gorm:"type:varchar(200)" json:"-"`
}

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is placed by the customer app. Contact fields are copied at order time.
type Order struct {
	ID               uint            `gorm:"column:order_id;primaryKey" json:"order_id"`
	UserID           *uint           `gorm:"index" json:"user_id"`
	User             *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserName         string          `gorm:"type:varchar(100)" json:"user_name"`
	UserEmail        string          `gorm:"type:varchar(100)" json:"user_email"`
	UserPhone        string          `gorm:"type:varchar(15)" json:"user_phone"`
	UserAddress      string          `gorm:"type:text" json:"user_address"`
	Items            string          `gorm:"type:text;not null" json:"items"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMode      PaymentMode     `gorm:"type:varchar(20);not null" json:"payment_mode"`
	DeliveryLocation string          `gorm:"type:text;not null" json:"delivery_location"`
	OrderDate        time.Time       `gorm:"index;autoCreateTime" json:"order_date"`
	Status           OrderStatus     `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	DeliveryDate     *time.Time      `json:"delivery_date"`
	Notes            *string         `gorm:"type:text" json:"notes"`
	OrderItems       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

// Number is the customer-facing order reference.
func (o Order) Number() string {
	return fmt.Sprintf("BMB%06d", o.ID)
}

// LineItem is one line of an order as shown to the operator.
type LineItem struct {
	Name        string          `json:"item_name"`
	Type        ItemType        `json:"item_type"`
	ItemID      uint            `json:"item_id,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Description string          `json:"item_description,omitempty"`
	Photo       string          `json:"item_photo,omitempty"`
}

// Lines returns the structured order items when present, otherwise the
// serialized Items column decoded leniently.
func (o Order) Lines() []LineItem {
	if len(o.OrderItems) > 0 {
		lines := make([]LineItem, 0, len(o.OrderItems))
		for _, it := range o.OrderItems {
			lines = append(lines, it.Line())
		}
		return lines
	}
	return ParseLineItems(o.Items)
}

// ParseLineItems decodes the items column. Unknown shapes yield nil.
func ParseLineItems(raw string) []LineItem {
	if raw == "" {
		return nil
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	lines := make([]LineItem, 0, len(entries))
	for _, e := range entries {
		line := LineItem{
			Name:        firstString(e, "item_name", "name"),
			Type:        ItemType(firstString(e, "item_type", "type")),
			Description: firstString(e, "item_description", "description"),
			Photo:       firstString(e, "item_photo", "photo"),
			Quantity:    1,
			Price:       decimalField(e["price"]),
		}
		if line.Name == "" {
			line.Name = "Unknown Item"
		}
		if q, ok := e["quantity"].(float64); ok && q > 0 {
			line.Quantity = int(q)
		}
		if id, ok := e["item_id"].(float64); ok {
			line.ItemID = uint(id)
		}
		if _, ok := e["total"]; ok {
			line.Total = decimalField(e["total"])
		} else {
			line.Total = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		}
		lines = append(lines, line)
	}
	return lines
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func decimalField(v any) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

package models

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderProcessing     OrderStatus = "processing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:        "Pending",
	OrderConfirmed:      "Confirmed",
	OrderProcessing:     "Processing",
	OrderOutForDelivery: "Out for Delivery",
	OrderDelivered:      "Delivered",
	OrderCancelled:      "Cancelled",
}

func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderOutForDelivery, OrderDelivered, OrderCancelled}
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

func (s OrderStatus) Label() string { return labelOr(orderStatusLabels[s], string(s)) }

// PaymentStatus tracks a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentPending:   "Pending",
	PaymentCompleted: "Completed",
	PaymentFailed:    "Failed",
	PaymentRefunded:  "Refunded",
	PaymentCancelled: "Cancelled",
}

func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded, PaymentCancelled}
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusLabels[s]
	return ok
}

func (s PaymentStatus) Label() string { return labelOr(paymentStatusLabels[s], string(s)) }

type PaymentMode string

const (
	ModeCOD    PaymentMode = "cod"
	ModeOnline PaymentMode = "online"
	ModeCard   PaymentMode = "card"
	ModeWallet PaymentMode = "wallet"
	ModeUPI    PaymentMode = "upi"
)

var paymentModeLabels = map[PaymentMode]string{
	ModeCOD:    "Cash on Delivery",
	ModeOnline: "Online Payment",
	ModeCard:   "Credit/Debit Card",
	ModeWallet: "Digital Wallet",
	ModeUPI:    "UPI",
}

func AllPaymentModes() []PaymentMode {
	return []PaymentMode{ModeCOD, ModeOnline, ModeCard, ModeWallet, ModeUPI}
}

func (m PaymentMode) Valid() bool {
	_, ok := paymentModeLabels[m]
	return ok
}

func (m PaymentMode) Label() string { return labelOr(paymentModeLabels[m], string(m)) }

// ItemType tags which catalog an orderable item lives in.
type ItemType string

const (
	ItemService ItemType = "service"
	ItemMenu    ItemType = "menu"
)

func AllItemTypes() []ItemType { return []ItemType{ItemService, ItemMenu} }

func (t ItemType) Valid() bool { return t == ItemService || t == ItemMenu }

func (t ItemType) Label() string {
	switch t {
	case ItemService:
		return "Service"
	case ItemMenu:
		return "Menu Item"
	}
	return string(t)
}

// Table is the catalog table backing this item type.
func (t ItemType) Table() string {
	if t == ItemMenu {
		return "menu"
	}
	return "services"
}

// MediaFolder is the media host folder for photos of this item type.
func (t ItemType) MediaFolder() string {
	if t == ItemMenu {
		return "menu_items"
	}
	return "services"
}

type ItemStatus string

const (
	ItemActive     ItemStatus = "active"
	ItemInactive   ItemStatus = "inactive"
	ItemOutOfStock ItemStatus = "out_of_stock"
)

func (s ItemStatus) Valid() bool {
	return s == ItemActive || s == ItemInactive || s == ItemOutOfStock
}

type AdminRole string

const (
	RoleSuperAdmin AdminRole = "superadmin"
	RoleAdmin      AdminRole = "admin"
	RoleManager    AdminRole = "manager"
	RoleViewer     AdminRole = "viewer"
)

var adminRoleLabels = map[AdminRole]string{
	RoleSuperAdmin: "Super Admin",
	RoleAdmin:      "Admin",
	RoleManager:    "Manager",
	RoleViewer:     "Viewer",
}

func (r AdminRole) Valid() bool {
	_, ok := adminRoleLabels[r]
	return ok
}

func (r AdminRole) Label() string { return labelOr(adminRoleLabels[r], string(r)) }

// CanWrite reports whether the role may mutate data.
func (r AdminRole) CanWrite() bool { return r.Valid() && r != RoleViewer }

type NotificationType string

const (
	NotifyOrderUpdate NotificationType = "order_update"
	NotifyPayment     NotificationType = "payment"
	NotifySystem      NotificationType = "system"
	NotifyPromotion   NotificationType = "promotion"
	NotifyAlert       NotificationType = "alert"
)

var notificationTypeLabels = map[NotificationType]string{
	NotifyOrderUpdate: "Order Update",
	NotifyPayment:     "Payment",
	NotifySystem:      "System",
	NotifyPromotion:   "Promotion",
	NotifyAlert:       "Alert",
}

func (t NotificationType) Valid() bool {
	_, ok := notificationTypeLabels[t]
	return ok
}

func (t NotificationType) Label() string { return labelOr(notificationTypeLabels[t], string(t)) }

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

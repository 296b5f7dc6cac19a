package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogItem is the shape shared by services and menu items. Type is not
// persisted; it records which table the row came from.
type CatalogItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Type         ItemType        `gorm:"-" json:"item_type"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Photo        *string         `gorm:"type:varchar(500)" json:"photo"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Discount     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	FinalPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_price"`
	Description  *string         `gorm:"type:text" json:"description"`
	Category     *string         `gorm:"type:varchar(50)" json:"category"`
	Status       ItemStatus      `gorm:"type:varchar(20);default:'active'" json:"status"`
	Position     int             `gorm:"default:0" json:"position"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CloudinaryID *string         `gorm:"type:varchar(255)" json:"cloudinary_id"`
}

// Reprice derives FinalPrice from Price and Discount, clamped at zero.
func (i *CatalogItem) Reprice() {
	final := i.Price.Sub(i.Discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	i.FinalPrice = final
}

func (i *CatalogItem) BeforeSave(tx *gorm.DB) error {
	i.Reprice()
	inUTC(&i.CreatedAt, &i.UpdatedAt)
	if i.Status == "" {
		i.Status = ItemActive
	}
	return nil
}

// Orderable is anything a cart entry, order item or review can point at.
type Orderable interface {
	Kind() ItemType
	Entry() *CatalogItem
}

type Service struct {
	CatalogItem `gorm:"embedded"`
}

func (Service) TableName() string       { return ItemService.Table() }
func (Service) Kind() ItemType          { return ItemService }
func (s *Service) Entry() *CatalogItem { s.Type = ItemService; return &s.CatalogItem }

type MenuItem struct {
	CatalogItem `gorm:"embedded"`
}

func (MenuItem) TableName() string       { return ItemMenu.Table() }
func (MenuItem) Kind() ItemType          { return ItemMenu }
func (m *MenuItem) Entry() *CatalogItem { m.Type = ItemMenu; return &m.CatalogItem }

// NewOrderable returns an empty value of the concrete type for t.
func NewOrderable(t ItemType) Orderable {
	if t == ItemMenu {
		return &MenuItem{}
	}
	return &Service{}
}

// CartEntry is a user's pending selection of a catalog item.
type CartEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_item" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ItemType  ItemType  `gorm:"type:varchar(10);uniqueIndex:idx_cart_user_item;check:chk_cart_item_type,item_type IN ('service','menu')" json:"item_type"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_item" json:"item_id"`
	Quantity  int       `gorm:"default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartEntry) TableName() string { return "cart" }
